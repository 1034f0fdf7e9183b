package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMustLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`env: dev
storage_path: mongodb://localhost:27017/notes
jwt_secret: test-secret
http_server:
  address: 127.0.0.1:9090
  timeout: 5s
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg := MustLoad()
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "mongodb://localhost:27017/notes", cfg.StoragePath)
	require.Equal(t, "test-secret", cfg.JWTSecret)
	require.Equal(t, "127.0.0.1:9090", cfg.Address)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, 60*time.Second, cfg.IdleTimeout)
}

func TestMustLoad_EnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORAGE_PATH", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg := MustLoad()
	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "mongodb://localhost:27017", cfg.StoragePath)
	require.Equal(t, "env-secret", cfg.JWTSecret)
	require.Equal(t, "localhost:8080", cfg.Address)
	require.Equal(t, 4*time.Second, cfg.Timeout)
}

func TestMustLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`env: local
storage_path: mongodb://localhost:27017/notes
jwt_secret: file-secret
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "env-secret")

	cfg := MustLoad()
	require.Equal(t, "env-secret", cfg.JWTSecret)
}
