package routing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableMatchLongestPrefix(t *testing.T) {
	table := NewTable([]Route{
		{ID: uuid.New(), Path: "/accounts", Methods: []string{"GET"}},
		{ID: uuid.New(), Path: "/accounts/admin", Methods: []string{"GET"}},
	})

	route, result := table.Match("/accounts/admin/123", "GET")
	require.Equal(t, MatchOK, result)
	assert.Equal(t, "/accounts/admin", route.Path)
}

func TestTableMatchMethodNotAllowed(t *testing.T) {
	table := NewTable([]Route{
		{ID: uuid.New(), Path: "/accounts", Methods: []string{"GET"}},
	})

	_, result := table.Match("/accounts/123", "DELETE")
	assert.Equal(t, MatchMethodNotAllowed, result)
}

func TestTableMatchNoneSentinelAlwaysRejects(t *testing.T) {
	table := NewTable([]Route{
		{ID: uuid.New(), Path: "/disabled", Methods: []string{HTTPMethodNone}},
	})

	_, result := table.Match("/disabled/x", "GET")
	assert.Equal(t, MatchMethodNotAllowed, result)
}

func TestTableMatchAllSentinelAcceptsEveryMethod(t *testing.T) {
	table := NewTable([]Route{
		{ID: uuid.New(), Path: "/open", Methods: []string{HTTPMethodAll}},
	})

	_, result := table.Match("/open/x", "PATCH")
	assert.Equal(t, MatchOK, result)
}

func TestTableMatchNotFound(t *testing.T) {
	table := NewTable([]Route{
		{ID: uuid.New(), Path: "/accounts", Methods: []string{"GET"}},
	})

	_, result := table.Match("/unrelated", "GET")
	assert.Equal(t, MatchNotFound, result)
}

func TestTableReloadIsAtomic(t *testing.T) {
	table := NewTable([]Route{{ID: uuid.New(), Path: "/v1", Methods: []string{"GET"}}})
	assert.Len(t, table.Routes(), 1)

	table.Reload([]Route{
		{ID: uuid.New(), Path: "/v1", Methods: []string{"GET"}},
		{ID: uuid.New(), Path: "/v2", Methods: []string{"GET"}},
	})
	assert.Len(t, table.Routes(), 2)
}
