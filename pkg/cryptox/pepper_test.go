package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Len(t, first, 43)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "pepper must be stable across loads")
}

func TestLoadOrCreatePepperTrimsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("from-operator\n"), 0600))

	pepper, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, "from-operator", pepper)
}

func TestLoadOrCreatePepperDisabled(t *testing.T) {
	pepper, err := LoadOrCreatePepper("")
	require.NoError(t, err)
	require.Empty(t, pepper)
}
