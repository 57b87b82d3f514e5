package usecase

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testRepo = domain.Repository{Owner: "octo", Name: "hello"}

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchCollection(ctx context.Context, path string, query url.Values) (domain.Collection, error) {
	args := m.Called(ctx, path, query)
	// The returned collection is nil when an error occurs.
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Collection), args.Error(1)
}

func (m *mockFetcher) FetchRecord(ctx context.Context, path string) (domain.Record, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *mockFetcher) FetchCodeFrequency(ctx context.Context, repo domain.Repository) (domain.Collection, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Collection), args.Error(1)
}

func (m *mockFetcher) FetchContributorStats(ctx context.Context, repo domain.Repository) (domain.Collection, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Collection), args.Error(1)
}

// records decodes a JSON array the way the gateway does.
func records(t *testing.T, raw string) domain.Collection {
	t.Helper()
	var c domain.Collection
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	return c
}

func record(t *testing.T, raw string) domain.Record {
	t.Helper()
	var r domain.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}
