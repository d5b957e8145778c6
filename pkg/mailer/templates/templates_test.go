package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	data := map[string]any{
		"Name": "Leia",
		"Link": "https://app.example.com/confirm?token=abc123",
	}

	t.Run("confirm_account", func(t *testing.T) {
		subject, text, html, err := Render("confirm_account", data)
		require.NoError(t, err)
		assert.Equal(t, "Welcome Leia!", subject)
		assert.Contains(t, text, data["Link"])
		assert.Contains(t, html, data["Link"])
	})

	t.Run("reset_password", func(t *testing.T) {
		subject, text, html, err := Render("reset_password", data)
		require.NoError(t, err)
		assert.Equal(t, "Leia, reset your password", subject)
		assert.Contains(t, text, data["Link"])
		assert.Contains(t, html, data["Link"])
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, _, err := Render("universal", data)
		assert.Error(t, err)
	})
}
