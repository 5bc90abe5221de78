package workflow

import (
	"testing"
	"time"

	"github.com/Thintalltom/Paperless-Audit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrail_FreshRequest(t *testing.T) {
	chain := testChain()
	req := freshRequest(0)
	req.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	trail := BuildTrail(req, chain)
	require.Len(t, trail, len(chain)+1)

	assert.Equal(t, "Initiator", trail[0].Level)
	assert.Equal(t, "Ada Eze", trail[0].User)
	assert.Equal(t, "Created", trail[0].Action)
	assert.Equal(t, AuditCompleted, trail[0].State)
	require.NotNil(t, trail[0].Timestamp)
	assert.Equal(t, req.CreatedAt, *trail[0].Timestamp)

	assert.Equal(t, "Pending Review", trail[1].Action)
	assert.Equal(t, AuditPending, trail[1].State)
	assert.Nil(t, trail[1].Timestamp)

	for _, entry := range trail[2:] {
		assert.Equal(t, "Awaiting Previous Approval", entry.Action)
		assert.Equal(t, AuditWaiting, entry.State)
	}
}

func TestBuildTrail_MidChainWithHold(t *testing.T) {
	chain := testChain()
	req := freshRequest(2)
	acted := time.Date(2025, 3, 2, 11, 0, 0, 0, time.UTC)
	req.ApprovalStatus = models.ApprovalStatusMap{
		0: {Status: models.ActionApproved, ApproverID: 1, Timestamp: acted, Comments: "ok"},
		1: {Status: models.ActionApproved, ApproverID: 2, Timestamp: acted},
		2: {Status: models.ActionKIV, ApproverID: 3, Timestamp: acted, Comments: "invoice missing"},
	}

	trail := BuildTrail(req, chain)

	assert.Equal(t, "Approved", trail[1].Action)
	assert.Equal(t, AuditCompleted, trail[1].State)
	assert.Equal(t, "ok", trail[1].Comments)

	// Acted levels beat positional states: level 2 acted (KIV) even though
	// it is also the current level.
	assert.Equal(t, "Kept in View", trail[3].Action)
	assert.Equal(t, AuditCompleted, trail[3].State)
	assert.Equal(t, "invoice missing", trail[3].Comments)

	assert.Equal(t, "Awaiting Previous Approval", trail[4].Action)
}

func TestBuildTrail_DeclinedRequest(t *testing.T) {
	chain := testChain()
	req := freshRequest(1)
	req.Status = models.StatusDeclined
	acted := time.Now()
	req.ApprovalStatus = models.ApprovalStatusMap{
		0: {Status: models.ActionApproved, ApproverID: 1, Timestamp: acted},
		1: {Status: models.ActionDeclined, ApproverID: 2, Timestamp: acted},
	}

	trail := BuildTrail(req, chain)

	assert.Equal(t, "Declined", trail[2].Action)
	// No level is "Pending Review" on a terminal request.
	for _, entry := range trail {
		assert.NotEqual(t, "Pending Review", entry.Action)
	}
}

func TestBuildTrail_RoleLabels(t *testing.T) {
	chain := testChain()
	trail := BuildTrail(freshRequest(0), chain)

	assert.Equal(t, "BRANCH APPROVER", trail[1].Level)
	assert.Equal(t, "HO ADMIN", trail[2].Level)
	assert.Equal(t, "DD OPERATIONS", trail[5].Level)
}

func TestBuildTrail_IsPure(t *testing.T) {
	chain := testChain()
	req := freshRequest(1)
	req.ApprovalStatus = models.ApprovalStatusMap{
		0: {Status: models.ActionApproved, ApproverID: 1, Timestamp: time.Now()},
	}

	first := BuildTrail(req, chain)
	second := BuildTrail(req, chain)
	assert.Equal(t, first, second)
}
