package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepository_Path(t *testing.T) {
	repo := Repository{Owner: "octo", Name: "hello"}
	testCases := []struct {
		resource string
		expected string
	}{
		{resource: "", expected: "repos/octo/hello"},
		{resource: "commits", expected: "repos/octo/hello/commits"},
		{resource: "/stats/code_frequency/", expected: "repos/octo/hello/stats/code_frequency"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, repo.Path(tc.resource))
	}
	assert.Equal(t, "octo/hello", repo.FullName())
}

func TestFetchFailedError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("report commits: %w", &FetchFailedError{Resource: "repos/octo/hello/commits", Err: cause})

	var fetchErr *FetchFailedError
	assert.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "report commits: fetch repos/octo/hello/commits failed: connection refused", err.Error())

	withStatus := &FetchFailedError{Resource: "repos/octo/hello", Status: http.StatusNotFound, Err: cause}
	assert.Contains(t, withStatus.Error(), "status 404 Not Found")
}

func TestResult_Empty(t *testing.T) {
	assert.True(t, (&Result{Kind: ChartBar}).Empty())
	assert.False(t, (&Result{Kind: ChartBar, Entries: []Entry{{Key: "open"}}}).Empty())
	assert.False(t, (&Result{Kind: ChartText, Lines: []string{"Repository does not have a specified license."}}).Empty())
}
