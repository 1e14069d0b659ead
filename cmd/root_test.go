package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rt := runtime.New("test", "")
	t.Cleanup(rt.Close)

	root := RootCommand(rt)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestLocateCommand(t *testing.T) {
	out, err := execute(t, "locate", "--", "-2.9001", "-79.0059")
	require.NoError(t, err)
	assert.Equal(t, "Cuenca, Azuay\n", out)
}

func TestLocateCommand_InvalidArgs(t *testing.T) {
	_, err := execute(t, "locate", "--", "north", "-79")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	assert.Contains(t, err.Error(), "invalid latitude")
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecotachos", "config.yaml")

	out, err := execute(t, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "baseurl:")

	_, err = execute(t, "config", "init", "--path", path)
	require.Error(t, err, "existing config must not be overwritten without --force")

	_, err = execute(t, "config", "init", "--path", path, "--force")
	require.NoError(t, err)
}
