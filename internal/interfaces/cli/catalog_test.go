package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOMLCatalog_EmbeddedDefaults(t *testing.T) {
	catalog, err := NewTOMLCatalog("")
	require.NoError(t, err)

	msg, ok := catalog.Translate("errors.QUOTA_EXCEEDED")
	require.True(t, ok)
	assert.NotEmpty(t, msg)

	_, ok = catalog.Translate("errors.NO_SUCH_CODE")
	assert.False(t, ok)
}

func TestTOMLCatalog_OverrideFileWinsKeyByKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"[errors]\nQUOTA_EXCEEDED = \"Quota voll.\"\nTENANT_SUSPENDED = \"Mandant gesperrt.\"\n"), 0600))

	catalog, err := NewTOMLCatalog(path)
	require.NoError(t, err)

	msg, ok := catalog.Translate("errors.QUOTA_EXCEEDED")
	require.True(t, ok)
	assert.Equal(t, "Quota voll.", msg, "override replaces the embedded entry")

	msg, ok = catalog.Translate("errors.TENANT_SUSPENDED")
	require.True(t, ok)
	assert.Equal(t, "Mandant gesperrt.", msg, "override can add new entries")

	_, ok = catalog.Translate("errors.NOT_FOUND")
	assert.True(t, ok, "untouched embedded entries survive the overlay")
}

func TestTOMLCatalog_MissingOverrideFileFails(t *testing.T) {
	_, err := NewTOMLCatalog(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err, "a configured catalog that cannot be read is a hard error")
}
