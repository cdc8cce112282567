package handlers

import (
	"net/http"

	"deal-notifier-go/pkg/models"
	"deal-notifier-go/pkg/services"
	"deal-notifier-go/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetSettings returns the stored settings
func GetSettings(store *services.MemorySettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Get())
	}
}

// SaveSettings replaces the email list and currency
func SaveSettings(store *services.MemorySettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update models.SettingsUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		emails := make([]string, 0, len(update.Emails))
		for _, raw := range update.Emails {
			email, err := utils.ValidateEmail(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			emails = append(emails, email)
		}
		update.Emails = emails

		store.Update(update)
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Settings saved successfully"})
	}
}
