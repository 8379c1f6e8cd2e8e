package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdi-shafiei/probnum/internal/config"
	"github.com/mahdi-shafiei/probnum/internal/parallel"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRoot_Eval(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	prev := parallel.Default()
	t.Cleanup(func() { parallel.SetDefault(prev) })

	path := filepath.Join(dir, "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variable: {normal: {mean: [1, 2], cov: {eye: 2}}}\nsteps:\n  - add: 1\n"), 0o600))

	out, err := execute(t, "eval", path, "-o", "json", "--workers", "2")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []any{2.0, 3.0}, got["mean"])
	assert.Equal(t, 2, parallel.Default().NumWorkers)
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	prev := parallel.Default()
	t.Cleanup(func() { parallel.SetDefault(prev) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("output: yaml\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p.yaml"), []byte("variable: {dirac: 4}\n"), 0o600))

	out, err := execute(t, "eval", "p.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "distribution: Dirac")
}

func TestRoot_InvalidOutput(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "version", "-o", "xml")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "probnum "+Version)
}
