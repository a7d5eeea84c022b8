package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvWithoutConfigFile(t *testing.T) {
	t.Setenv("APP_MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("APP_MONGO_DB", "messaging")
	t.Setenv("APP_APP_PORT", "9090")

	cfg, err := Load("does-not-exist.yaml")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db.internal:27017", cfg.Mongo.URI)
	assert.Equal(t, "messaging", cfg.Mongo.DB)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
}

func TestLoadRequiresMongo(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo.uri")
}
