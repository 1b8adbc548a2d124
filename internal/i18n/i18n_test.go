package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNewTranslations(t *testing.T) {
	t.Run("should load embedded catalogues", func(t *testing.T) {
		trans, err := NewTranslations("en", "")

		require.NoError(t, err)
		assert.Equal(t, "en", trans.Language())
		assert.Equal(t, []string{"en", "es"}, trans.Languages())
		assert.Contains(t, trans.GetMessage("reply_help", 0, nil), "Core Commands")
	})

	t.Run("should fail with empty language", func(t *testing.T) {
		trans, err := NewTranslations("", "")

		assert.Error(t, err)
		assert.Nil(t, trans)
	})

	t.Run("should fail with unsupported language", func(t *testing.T) {
		trans, err := NewTranslations("fr", "")

		assert.Error(t, err)
		assert.Nil(t, trans)
	})

	t.Run("should let external files override embedded messages", func(t *testing.T) {
		dir := t.TempDir()
		createTestFile(t, dir, "active.en.toml", `
[reply_merge_failed]
other = "Merge failed on this fork."
`)

		trans, err := NewTranslations("en", dir)

		require.NoError(t, err)
		assert.Equal(t, "Merge failed on this fork.", trans.GetMessage("reply_merge_failed", 0, nil))
	})

	t.Run("should fail on malformed external file", func(t *testing.T) {
		dir := t.TempDir()
		createTestFile(t, dir, "active.en.toml", `[broken`)

		_, err := NewTranslations("en", dir)

		assert.Error(t, err)
	})
}

func TestSetLanguage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("should change to a valid language", func(t *testing.T) {
		require.NoError(t, trans.SetLanguage("es"))
		assert.Contains(t, trans.GetMessage("reply_tag_usage", 0, nil), "Uso:")
	})

	t.Run("should fail with unsupported language", func(t *testing.T) {
		assert.Error(t, trans.SetLanguage("xx"))
		assert.Equal(t, "es", trans.Language())
	})
}

func TestGetMessage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("should render template data", func(t *testing.T) {
		msg := trans.GetMessage("reply_tag_created", 0, map[string]interface{}{
			"Tag":    "v2.0",
			"Branch": "main",
		})
		assert.Equal(t, "🏷️ Tag created: `v2.0` on main", msg)
	})

	t.Run("should pluralize", func(t *testing.T) {
		assert.Contains(t, trans.GetMessage("validate_failed", 1, map[string]interface{}{"Count": 1}), "1 validation failed")
		assert.Contains(t, trans.GetMessage("validate_failed", 3, map[string]interface{}{"Count": 3}), "3 validations failed")
	})

	t.Run("should report missing messages", func(t *testing.T) {
		assert.Equal(t, "Translation missing: nope", trans.GetMessage("nope", 0, nil))
	})
}

func TestCataloguesAreComplete(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	for id := range trans.messages["en"] {
		assert.True(t, trans.HasMessage("es", id), "es catalogue is missing %q", id)
	}
}
