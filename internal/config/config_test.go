package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv(EnvVar, "lin_api_from_env")

	key, err := APIKey(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "lin_api_from_env", key)
}

func TestAPIKeyFromDotEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("LINEAR_API_KEY=\"lin_api_from_file\"\n"), 0644))

	key, err := APIKey(root)
	require.NoError(t, err)
	assert.Equal(t, "lin_api_from_file", key)
}

func TestAPIKeyEnvWinsOverDotEnv(t *testing.T) {
	t.Setenv(EnvVar, "lin_api_from_env")
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("LINEAR_API_KEY=lin_api_from_file\n"), 0644))

	key, err := APIKey(root)
	require.NoError(t, err)
	assert.Equal(t, "lin_api_from_env", key)
}

func TestAPIKeyMissing(t *testing.T) {
	t.Setenv(EnvVar, "")

	_, err := APIKey(t.TempDir())
	var credErr *CredentialsError
	require.ErrorAs(t, err, &credErr)
	assert.Contains(t, credErr.Error(), EnvVar)
	assert.Contains(t, credErr.Error(), ".env")
}

func TestTeamCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "team.json")
	cache := &TeamCache{Path: path}

	require.NoError(t, cache.Save(TeamConfig{TeamID: "team-uuid", TeamKey: "ENG"}))

	got := cache.Load()
	require.NotNil(t, got)
	assert.Equal(t, "team-uuid", got.TeamID)
	assert.Equal(t, "ENG", got.TeamKey)

	// Pretty-printed on disk.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"teamId\"")
}

func TestTeamCacheMisses(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"corrupt json", "{not json"},
		{"missing teamKey", `{"teamId": "x"}`},
		{"missing teamId", `{"teamKey": "ENG"}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			cache := &TeamCache{Path: path}
			assert.Nil(t, cache.Load())
		})
	}

	t.Run("absent file", func(t *testing.T) {
		cache := &TeamCache{Path: filepath.Join(dir, "does-not-exist.json")}
		assert.Nil(t, cache.Load())
	})
}

func TestTeamCacheClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.json")
	cache := &TeamCache{Path: path}

	require.NoError(t, cache.Save(TeamConfig{TeamID: "t", TeamKey: "K"}))
	require.NoError(t, cache.Clear())
	assert.Nil(t, cache.Load())

	// Clearing an already-empty cache is fine.
	require.NoError(t, cache.Clear())
}
