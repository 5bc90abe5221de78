package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ada@lagos.example.com", "lagos.example.com"},
		{"ADA@LAGOS.EXAMPLE.COM", "lagos.example.com"},
		{"no-at-sign", ""},
		{"trailing@", ""},
		{"", ""},
		{"weird@@double.example.com", "double.example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EmailDomain(tt.email), tt.email)
	}
}

func TestActionValid(t *testing.T) {
	assert.True(t, ActionApproved.Valid())
	assert.True(t, ActionDeclined.Valid())
	assert.True(t, ActionKIV.Valid())
	assert.False(t, Action("rejected").Valid())
	assert.False(t, Action("").Valid())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusDeclined.Terminal())
}

func TestRequestOnHold(t *testing.T) {
	req := &Request{Status: StatusPending}
	assert.False(t, req.OnHold(), "fresh request is not on hold")
	assert.Nil(t, req.LastAction())

	req.ApprovalHistory = append(req.ApprovalHistory, HistoryEntry{
		Level: 1, ApproverID: 2, Action: ActionKIV, Timestamp: time.Now(),
	})
	assert.True(t, req.OnHold())

	req.ApprovalHistory = append(req.ApprovalHistory, HistoryEntry{
		Level: 1, ApproverID: 2, Action: ActionApproved, Timestamp: time.Now(),
	})
	assert.False(t, req.OnHold(), "approval after a hold clears it")

	declined := &Request{
		Status: StatusDeclined,
		ApprovalHistory: []HistoryEntry{
			{Level: 0, Action: ActionKIV},
		},
	}
	assert.False(t, declined.OnHold(), "terminal requests are never on hold")
}

func TestApprovalStatusMapJSONShape(t *testing.T) {
	m := ApprovalStatusMap{
		0: {Status: ActionApproved, ApproverID: 1},
		2: {Status: ActionKIV, ApproverID: 3},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	// Levels serialize as string keys of a sparse object, never an array.
	var raw map[string]ApprovalEntry
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, ActionApproved, raw["0"].Status)
	assert.Equal(t, ActionKIV, raw["2"].Status)

	var back ApprovalStatusMap
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}
