package workflow

import (
	"strings"
	"time"

	"github.com/Thintalltom/Paperless-Audit/internal/models"
)

// AuditState classifies an audit entry's position in the chain.
type AuditState string

const (
	AuditCompleted AuditState = "completed"
	AuditPending   AuditState = "pending"
	AuditWaiting   AuditState = "waiting"
)

// AuditEntry is one human-readable row of a request's approval audit trail.
type AuditEntry struct {
	Level     string     `json:"level"`
	User      string     `json:"user"`
	Action    string     `json:"action"`
	State     AuditState `json:"state"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Comments  string     `json:"comments,omitempty"`
}

// BuildTrail projects a request and its resolved chain into an ordered audit
// trail. It is pure: no I/O, no hidden state, and calling it twice on the
// same inputs yields identical output, so the trail can be re-derived at any
// time from the stored record and a re-resolved chain.
func BuildTrail(req *models.Request, chain []models.User) []AuditEntry {
	trail := make([]AuditEntry, 0, len(chain)+1)

	created := req.CreatedAt
	trail = append(trail, AuditEntry{
		Level:     "Initiator",
		User:      req.InitiatorName,
		Action:    "Created",
		State:     AuditCompleted,
		Timestamp: &created,
		Comments:  "Request created",
	})

	for i := range chain {
		approver := chain[i]
		entry := AuditEntry{
			Level: roleLabel(approver.Role),
			User:  approver.Name,
		}

		if acted, ok := req.ApprovalStatus[i]; ok {
			ts := acted.Timestamp
			entry.Action = actionLabel(acted.Status)
			entry.State = AuditCompleted
			entry.Timestamp = &ts
			entry.Comments = acted.Comments
			if entry.Comments == "" {
				entry.Comments = "Request " + string(acted.Status)
			}
		} else if i == req.CurrentApprovalLevel && req.Status == models.StatusPending {
			entry.Action = "Pending Review"
			entry.State = AuditPending
			entry.Comments = "Awaiting approval"
		} else {
			entry.Action = "Awaiting Previous Approval"
			entry.State = AuditWaiting
			entry.Comments = "Waiting for previous level approval"
		}

		trail = append(trail, entry)
	}

	return trail
}

func actionLabel(a models.Action) string {
	switch a {
	case models.ActionApproved:
		return "Approved"
	case models.ActionDeclined:
		return "Declined"
	case models.ActionKIV:
		return "Kept in View"
	}
	return string(a)
}

func roleLabel(r models.Role) string {
	return strings.ToUpper(strings.NewReplacer("_", " ", "-", " ").Replace(string(r)))
}
