package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "jira", cfg.Provider.Type)
	assert.False(t, cfg.Provider.Configured(), "provider is unconfigured without a base URL")
	assert.True(t, cfg.Actions.PostComment, "comment posting defaults to enabled")
	assert.True(t, cfg.Actions.PostLink, "link posting defaults to enabled")
	assert.Equal(t, "feedbridge.db", cfg.DatabasePath)
	assert.Equal(t, 3000, cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	v := NewViper()
	v.Set("provider.base_url", "https://tracker.example.com")
	v.Set("publish.post_comment", false)
	v.Set("feed.url", "wss://feed.example.com/stories")
	v.Set("http.port", 8080)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.True(t, cfg.Provider.Configured())
	assert.False(t, cfg.Actions.PostComment)
	assert.True(t, cfg.Actions.PostLink)
	assert.Equal(t, "wss://feed.example.com/stories", cfg.FeedURL)
	assert.Equal(t, 8080, cfg.HTTPPort)
}

func TestLoad_RejectsBadProviderURL(t *testing.T) {
	v := NewViper()
	v.Set("provider.base_url", "tracker.example.com")

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider.base_url")
}

func TestLoad_RejectsEmptyDatabasePath(t *testing.T) {
	v := NewViper()
	v.Set("database.path", "  ")

	_, err := Load(v)
	require.Error(t, err)
}

func TestLoad_RejectsBadPort(t *testing.T) {
	v := NewViper()
	v.Set("http.port", 0)

	_, err := Load(v)
	require.Error(t, err)
}
