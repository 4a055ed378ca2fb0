package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setStorageEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FILE_UPLOAD_BUCKET", "test-bucket")
	t.Setenv("FILE_UPLOAD_KEY_ID", "test-key-id")
	t.Setenv("FILE_UPLOAD_ACCESS_KEY", "test-access-key")
	t.Setenv("API_JWT_SECRET_KEY", "test-secret")
	t.Setenv("API_SERVICE_ID", "upload-service")
}

func TestLoadFromEnv(t *testing.T) {
	setStorageEnv(t)
	t.Setenv("UG_PORT", "9090")
	t.Setenv("API_JWT_ALGORITHM", "HS512")

	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-bucket", settings.Storage.Bucket)
	assert.Equal(t, "test-key-id", settings.Storage.AccessKeyID)
	assert.Equal(t, "test-access-key", settings.Storage.SecretAccessKey)
	assert.Equal(t, 9090, settings.Server.Port)
	assert.Equal(t, "HS512", settings.Auth.JWTAlgorithm)
	assert.Equal(t, "0.0.0.0:9090", settings.Address())
}

func TestLoadDefaults(t *testing.T) {
	setStorageEnv(t)

	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "s3", settings.Storage.Provider)
	assert.Equal(t, 8080, settings.Server.Port)
	assert.Equal(t, "HS256", settings.Auth.JWTAlgorithm)
	assert.Equal(t, 30, settings.Upload.FetchTimeoutSeconds)
	assert.Equal(t, 4, settings.Upload.Fanout)
	assert.True(t, settings.Auth.Enabled)
}

func TestLoadMissingCredentialsFails(t *testing.T) {
	t.Setenv("FILE_UPLOAD_BUCKET", "test-bucket")
	t.Setenv("FILE_UPLOAD_KEY_ID", "")
	t.Setenv("FILE_UPLOAD_ACCESS_KEY", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}

func TestLoadMissingJWTSecretFailsWhenAuthEnabled(t *testing.T) {
	t.Setenv("FILE_UPLOAD_BUCKET", "test-bucket")
	t.Setenv("FILE_UPLOAD_KEY_ID", "id")
	t.Setenv("FILE_UPLOAD_ACCESS_KEY", "key")
	t.Setenv("API_JWT_SECRET_KEY", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	setStorageEnv(t)
	t.Setenv("UG_PORT", "7070")

	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	content := `{"server": {"port": 6060, "host": "127.0.0.1"}, "upload": {"fanout": 8}}`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	settings, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", settings.Server.Host, "file value survives")
	assert.Equal(t, 7070, settings.Server.Port, "env beats file")
	assert.Equal(t, 8, settings.Upload.Fanout)
}

func TestLoadUnsupportedProvider(t *testing.T) {
	setStorageEnv(t)
	t.Setenv("UG_STORAGE_PROVIDER", "tape")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage provider")
}
