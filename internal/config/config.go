// Package config loads the identity and run options shared by every report.
// A Config is built once per process and passed explicitly to the gateway and
// the use cases; nothing reads it from package state.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/naka-gawa/repo-metrics/internal/domain"
)

const (
	DefaultBaseURL     = "https://api.github.com/"
	DefaultPerPage     = 100
	DefaultTopN        = 5
	DefaultConcurrency = 1
	DefaultAddr        = ":8080"
)

// Environment variables read by Load.
const (
	EnvOwner       = "GITHUB_OWNER"
	EnvRepo        = "GITHUB_REPO"
	EnvToken       = "GITHUB_TOKEN"
	EnvBaseURL     = "GITHUB_API_URL"
	EnvMaxPages    = "REPO_METRICS_MAX_PAGES"
	EnvPerPage     = "REPO_METRICS_PER_PAGE"
	EnvConcurrency = "REPO_METRICS_CONCURRENCY"
	EnvTopN        = "REPO_METRICS_TOP"
)

// Config holds the repository identity, the bearer credential and the knobs of
// a run.
type Config struct {
	Owner   string
	Repo    string
	Token   string
	BaseURL string

	// MaxPages caps how many pages the gateway follows per collection.
	// Zero means follow every next link; one reproduces single-page fetches.
	MaxPages int
	PerPage  int

	// Concurrency is how many reports run at once. One keeps runs sequential.
	Concurrency int
	TopN        int
	Addr        string
}

// Defaults returns a Config with every option at its default and no identity.
func Defaults() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		PerPage:     DefaultPerPage,
		Concurrency: DefaultConcurrency,
		TopN:        DefaultTopN,
		Addr:        DefaultAddr,
	}
}

// Load reads envFile (if it exists) into the process environment and builds a
// Config from the environment. An empty envFile means ".env". A missing file is
// not an error.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Defaults()
	cfg.Owner = getenv(EnvOwner)
	cfg.Repo = getenv(EnvRepo)
	cfg.Token = getenv(EnvToken)
	if v := getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvMaxPages, &cfg.MaxPages},
		{EnvPerPage, &cfg.PerPage},
		{EnvConcurrency, &cfg.Concurrency},
		{EnvTopN, &cfg.TopN},
	}
	for _, i := range ints {
		v := getenv(i.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", i.name, v, err)
		}
		*i.dst = n
	}
	return cfg, nil
}

// Validate reports the first missing or out of range setting.
func (c Config) Validate() error {
	switch {
	case c.Owner == "":
		return fmt.Errorf("repository owner is not set (%s or --owner)", EnvOwner)
	case c.Repo == "":
		return fmt.Errorf("repository name is not set (%s or --repo)", EnvRepo)
	case c.Token == "":
		return fmt.Errorf("%s environment variable is not set", EnvToken)
	case c.MaxPages < 0:
		return fmt.Errorf("max pages must not be negative, got %d", c.MaxPages)
	case c.PerPage < 1 || c.PerPage > 100:
		return fmt.Errorf("per page must be between 1 and 100, got %d", c.PerPage)
	case c.Concurrency < 1:
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}

// Repository returns the repository identity of the config.
func (c Config) Repository() domain.Repository {
	return domain.Repository{Owner: c.Owner, Name: c.Repo}
}
