package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv(t *testing.T) {
	testCases := []struct {
		name        string
		env         map[string]string
		expected    Config
		expectError bool
	}{
		{
			name: "defaults when only identity is set",
			env:  map[string]string{EnvOwner: "octo", EnvRepo: "hello", EnvToken: "t0k"},
			expected: Config{
				Owner: "octo", Repo: "hello", Token: "t0k",
				BaseURL: DefaultBaseURL, PerPage: DefaultPerPage, Concurrency: DefaultConcurrency,
				TopN: DefaultTopN, Addr: DefaultAddr,
			},
		},
		{
			name: "numeric overrides",
			env: map[string]string{
				EnvOwner: "octo", EnvRepo: "hello", EnvToken: "t0k", EnvBaseURL: "http://ghe.local/api/v3/",
				EnvMaxPages: "1", EnvPerPage: "30", EnvConcurrency: "4", EnvTopN: "10",
			},
			expected: Config{
				Owner: "octo", Repo: "hello", Token: "t0k", BaseURL: "http://ghe.local/api/v3/",
				MaxPages: 1, PerPage: 30, Concurrency: 4, TopN: 10, Addr: DefaultAddr,
			},
		},
		{
			name:        "non numeric max pages",
			env:         map[string]string{EnvMaxPages: "all"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := FromEnv(envMap(tc.env))
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Defaults()
	valid.Owner, valid.Repo, valid.Token = "octo", "hello", "t0k"
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name     string
		mutate   func(c *Config)
		contains string
	}{
		{"missing owner", func(c *Config) { c.Owner = "" }, "owner"},
		{"missing repo", func(c *Config) { c.Repo = "" }, "repository name"},
		{"missing token", func(c *Config) { c.Token = "" }, EnvToken},
		{"negative max pages", func(c *Config) { c.MaxPages = -1 }, "max pages"},
		{"per page too large", func(c *Config) { c.PerPage = 101 }, "per page"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GITHUB_OWNER=from-file\nGITHUB_REPO=repo-file\n"), 0o600))
	t.Setenv(EnvOwner, "")
	t.Setenv(EnvRepo, "")
	t.Setenv(EnvToken, "t0k")
	// godotenv does not override variables that are already present, even when empty.
	os.Unsetenv(EnvOwner)
	os.Unsetenv(EnvRepo)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Owner)
	assert.Equal(t, "repo-file", cfg.Repo)
	assert.Equal(t, "t0k", cfg.Token)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Setenv(EnvOwner, "octo")
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.env"))
	require.NoError(t, err)
	assert.Equal(t, "octo", cfg.Owner)
}

func TestConfig_Repository(t *testing.T) {
	cfg := Config{Owner: "octo", Repo: "hello"}
	assert.Equal(t, "repos/octo/hello/commits", cfg.Repository().Path("commits"))
}
