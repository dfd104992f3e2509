package handler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIssueListParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  issueListParams
	}{
		{
			name:  "defaults",
			query: "",
			want:  issueListParams{Page: 1, Limit: 10},
		},
		{
			name:  "all filters",
			query: "search=login&status=Open&priority=High&page=3&limit=25",
			want:  issueListParams{Search: "login", Status: "Open", Priority: "High", Page: 3, Limit: 25},
		},
		{
			name:  "invalid page and limit fall back to defaults",
			query: "page=0&limit=-5",
			want:  issueListParams{Page: 1, Limit: 10},
		},
		{
			name:  "non numeric page and limit fall back to defaults",
			query: "page=abc&limit=xyz",
			want:  issueListParams{Page: 1, Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parseIssueListParams(values))
		})
	}
}

func TestBuildIssueFilter(t *testing.T) {
	tests := []struct {
		name       string
		params     issueListParams
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "no filters",
			params:     issueListParams{Page: 1, Limit: 10},
			wantClause: " WHERE 1=1",
			wantArgs:   []interface{}{},
		},
		{
			name:       "search only",
			params:     issueListParams{Search: "login", Page: 1, Limit: 10},
			wantClause: " WHERE 1=1 AND title ILIKE $1",
			wantArgs:   []interface{}{"%login%"},
		},
		{
			name:       "status only",
			params:     issueListParams{Status: "Open", Page: 1, Limit: 10},
			wantClause: " WHERE 1=1 AND status = $1",
			wantArgs:   []interface{}{"Open"},
		},
		{
			name:       "all combined keeps positional order",
			params:     issueListParams{Search: "db", Status: "In Progress", Priority: "High", Page: 2, Limit: 10},
			wantClause: " WHERE 1=1 AND title ILIKE $1 AND status = $2 AND priority = $3",
			wantArgs:   []interface{}{"%db%", "In Progress", "High"},
		},
		{
			name:       "like metacharacters are escaped",
			params:     issueListParams{Search: `100%_done\`, Page: 1, Limit: 10},
			wantClause: " WHERE 1=1 AND title ILIKE $1",
			wantArgs:   []interface{}{`%100\%\_done\\%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := buildIssueFilter(tt.params)
			assert.Equal(t, tt.wantClause, clause)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildIssueListQuery(t *testing.T) {
	query, args := buildIssueListQuery(issueListParams{Status: "Open", Page: 3, Limit: 10})

	assert.Equal(t,
		"SELECT "+issueColumns+" FROM issues WHERE 1=1 AND status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		query)
	assert.Equal(t, []interface{}{"Open", 10, 20}, args)
}

func TestBuildIssueCountAndStatsShareFilter(t *testing.T) {
	params := issueListParams{Search: "x", Priority: "Low", Page: 5, Limit: 10}

	countQuery, countArgs := buildIssueCountQuery(params)
	statsQuery, statsArgs := buildIssueStatsQuery(params)

	// Count et stats portent sur le même filtre, pagination exclue
	assert.Equal(t, "SELECT COUNT(*) FROM issues WHERE 1=1 AND title ILIKE $1 AND priority = $2", countQuery)
	assert.Equal(t, "SELECT status, COUNT(*) FROM issues WHERE 1=1 AND title ILIKE $1 AND priority = $2 GROUP BY status", statsQuery)
	assert.Equal(t, countArgs, statsArgs)
	assert.NotContains(t, countQuery, "LIMIT")
	assert.NotContains(t, statsQuery, "OFFSET")
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{3, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{21, 10, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, totalPages(tt.count, tt.limit), "count=%d limit=%d", tt.count, tt.limit)
	}
}
