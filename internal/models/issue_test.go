package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusValid(t *testing.T) {
	for _, status := range []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed} {
		assert.True(t, status.Valid(), "%q should be valid", status)
	}

	for _, status := range []Status{"", "open", "Done", "IN PROGRESS"} {
		assert.False(t, status.Valid(), "%q should be invalid", status)
	}
}

func TestPriorityValid(t *testing.T) {
	for _, priority := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		assert.True(t, priority.Valid(), "%q should be valid", priority)
	}

	for _, priority := range []Priority{"", "low", "Critical", "URGENT"} {
		assert.False(t, priority.Valid(), "%q should be invalid", priority)
	}
}

func TestIssueStatsWireKey(t *testing.T) {
	// La clé "_id" est un contrat historique de l'API, le client en dépend
	payload, err := json.Marshal(IssueStats{Status: StatusOpen, Count: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"Open","count":3}`, string(payload))
}

func TestUpdateIssueRequestDistinguishesAbsentFromEmpty(t *testing.T) {
	var req UpdateIssueRequest
	require.NoError(t, json.Unmarshal([]byte(`{"description":""}`), &req))

	assert.Nil(t, req.Title)
	require.NotNil(t, req.Description)
	assert.Equal(t, "", *req.Description)
}
