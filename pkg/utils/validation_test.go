package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	got, err := ValidateURL("  http://localhost:5000/ ")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", got)

	for _, bad := range []string{"", "   ", "localhost:5000", "ftp://host", "http://"} {
		_, err := ValidateURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidateEmail(t *testing.T) {
	got, err := ValidateEmail("  someone@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", got)

	for _, bad := range []string{"", "someone", "someone@example", "@.", "a b@c d"} {
		_, err := ValidateEmail(bad)
		assert.Error(t, err, bad)
	}
}
