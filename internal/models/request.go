package models

import (
	"time"

	"gorm.io/gorm"
)

// RequestStatus is the lifecycle status of an expense request.
type RequestStatus string

const (
	// StatusPending indicates the request is awaiting the current approver.
	StatusPending RequestStatus = "pending"
	// StatusApproved indicates every level approved; terminal.
	StatusApproved RequestStatus = "approved"
	// StatusDeclined indicates an approver declined; terminal.
	StatusDeclined RequestStatus = "declined"
)

// Action is an approver's decision on a request at its current level.
type Action string

const (
	ActionApproved Action = "approved"
	ActionDeclined Action = "declined"
	// ActionKIV ("keep in view") holds the request at the current level
	// without advancing it. The request stays pending and actionable by the
	// same approver.
	ActionKIV Action = "kiv"
)

// Valid reports whether the action is one of the known approver decisions.
func (a Action) Valid() bool {
	switch a {
	case ActionApproved, ActionDeclined, ActionKIV:
		return true
	}
	return false
}

// Terminal reports whether the status accepts no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusDeclined
}

// Attachment is an opaque file blob captured at request creation. Content is
// base64 at the persistence boundary; each file is limited to 2 MiB at intake.
type Attachment struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ApprovalEntry records one approver action at a chain level.
type ApprovalEntry struct {
	Status     Action    `json:"status"`
	ApproverID uint      `json:"approver_id"`
	Timestamp  time.Time `json:"timestamp"`
	Comments   string    `json:"comments"`
}

// HistoryEntry is an ApprovalEntry plus the level it was recorded at; the
// history is append-only and keeps repeated actions at the same level.
type HistoryEntry struct {
	Level      int       `json:"level"`
	ApproverID uint      `json:"approver_id"`
	Action     Action    `json:"action"`
	Comments   string    `json:"comments"`
	Timestamp  time.Time `json:"timestamp"`
}

// ApprovalStatusMap maps a zero-based chain level to the last action recorded
// at that level. JSON keys are stringified integers, matching the stored
// shape; it is an explicit sparse map, never an array.
type ApprovalStatusMap map[int]ApprovalEntry

// Request is the central entity of the approval workflow.
type Request struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	InitiatorName string `gorm:"not null" json:"initiator_name"`
	SupplierName  string `gorm:"not null" json:"supplier_name"`
	Amount        float64      `gorm:"not null" json:"amount"`
	Description   string       `gorm:"type:text;not null" json:"description"`
	Attachments   []Attachment `gorm:"serializer:json" json:"attachments,omitempty"`

	Status RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	// CurrentApprovalLevel is the zero-based index into the resolved chain of
	// the approver who may currently act.
	CurrentApprovalLevel int               `gorm:"not null;default:0" json:"current_approval_level"`
	ApprovalStatus       ApprovalStatusMap `gorm:"serializer:json" json:"approval_status"`
	ApprovalHistory      []HistoryEntry    `gorm:"serializer:json" json:"approval_history"`

	// BranchApproverID is the domain-resolved first-level approver, frozen at
	// creation so later lookups stay stable even if the roster changes.
	BranchApproverID uint `gorm:"index" json:"branch_approver_id"`

	AccountName string `json:"account_name"`
	CreatedBy   uint   `gorm:"not null;index" json:"created_by"`
	Creator     *User  `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// LastAction returns the most recent history entry, or nil for a freshly
// created request.
func (r *Request) LastAction() *HistoryEntry {
	if len(r.ApprovalHistory) == 0 {
		return nil
	}
	return &r.ApprovalHistory[len(r.ApprovalHistory)-1]
}

// OnHold reports whether the most recent action is a keep-in-view hold. KIV
// is a sticky display annotation: the request stays pending and the level
// does not move.
func (r *Request) OnHold() bool {
	last := r.LastAction()
	return r.Status == StatusPending && last != nil && last.Action == ActionKIV
}
