package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	yaml := "grpc:\n  port: 6000\nshard:\n  id: 12\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "banuid.yaml"), []byte(yaml), 0o600))

	v, err := Load(dir, "banuid")
	require.NoError(t, err)
	assert.Equal(t, 6000, v.GetInt("grpc.port"))
	assert.Equal(t, 12, v.GetInt("shard.id"))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "banuid.yaml"), []byte("grpc:\n  port: 6000\n"), 0o600))
	t.Setenv("GRPC_PORT", "7000")

	v, err := Load(dir, "banuid")
	require.NoError(t, err)
	assert.Equal(t, 7000, v.GetInt("grpc.port"))
}

func TestLoad_MissingFile(t *testing.T) {
	v, err := Load(t.TempDir(), "does-not-exist")
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("grpc: [\n"), 0o600))

	_, err := Load(dir, "broken")
	assert.Error(t, err)
}
