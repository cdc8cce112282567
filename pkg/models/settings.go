package models

// Settings is the notifier configuration accepted by the settings endpoint.
// PriceThreshold and Categories are read when the server returns them but
// are never sent: the client only edits the email list.
type Settings struct {
	Emails         []string `json:"emails"`
	Currency       string   `json:"currency"`
	PriceThreshold *int     `json:"price_threshold,omitempty"`
	Categories     []string `json:"categories,omitempty"`
}

// SettingsUpdate is the payload posted when saving settings
type SettingsUpdate struct {
	Emails   []string `json:"emails"`
	Currency string   `json:"currency"`
}

// MessageResponse is the acknowledgement returned by the settings endpoint
type MessageResponse struct {
	Message string `json:"message"`
}
