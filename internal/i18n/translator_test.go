package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnglishIsIdentity(t *testing.T) {
	tr, err := New("", nil)
	require.NoError(t, err)

	assert.Equal(t, "Copy Text Color", tr.T("Copy Text Color"))
	assert.Equal(t, "en", tr.Locale())
}

func TestBuiltinFrench(t *testing.T) {
	tr, err := New("fr", nil)
	require.NoError(t, err)

	assert.Equal(t, "Couleur du texte", tr.T("Copy Text Color"))
	assert.Equal(t, "Something untranslated", tr.T("Something untranslated"))
}

func TestExtraOverridesBuiltin(t *testing.T) {
	tr, err := New("de", map[string]string{"Copy Text": "Fließtext"})
	require.NoError(t, err)

	assert.Equal(t, "Fließtext", tr.T("Copy Text"))
	assert.Equal(t, "Textfarbe", tr.T("Copy Text Color"))
}

func TestPercentSignsAreLiteral(t *testing.T) {
	tr, err := New("fr", map[string]string{
		"Image Opacity":        "Opacité (100% = opaque)",
		"Opacity in % (0-100)": "Opacité en % (0-100)",
	})
	require.NoError(t, err)

	assert.Equal(t, "Opacité (100% = opaque)", tr.T("Image Opacity"))
	assert.Equal(t, "Opacité en % (0-100)", tr.T("Opacity in % (0-100)"))
	assert.Equal(t, "Use 50% opacity", tr.T("Use 50% opacity"))
	assert.Equal(t, "Noir", tr.T("Black"))
}

func TestInvalidLocale(t *testing.T) {
	_, err := New("not a locale!", nil)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Copy Text: Tekst\nImage Opacity: Doorzichtigheid\n"), 0644))

	extra, err := LoadFile(path)
	require.NoError(t, err)

	tr, err := New("nl", extra)
	require.NoError(t, err)
	assert.Equal(t, "Tekst", tr.T("Copy Text"))
	assert.Equal(t, "Doorzichtigheid", tr.T("Image Opacity"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
