// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is a workflow role held by a user. Roles listed in the approval chain
// template mark the user as an approver; everyone else initiates requests.
type Role string

const (
	RoleInitiator      Role = "initiator"
	RoleBranchApprover Role = "branch-approver"
	RoleHOAdmin        Role = "ho_admin"
	RoleHOAuditor      Role = "ho_auditor"
	RoleAccountUnit    Role = "account_unit"
	RoleDDOperations   Role = "dd_operations"
	RoleDDFinance      Role = "dd_finance"
	RoleGED            Role = "ged"
	RoleFinance        Role = "finance"
)

// User represents an account in the approval system. Approvers are users
// whose role appears in the chain template; the branch-approver role is held
// by one user per organizational domain.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(32);not null;index;default:'initiator'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Domain returns the organizational domain derived from the account
// identifier's email suffix, or "" when the identifier has no domain part.
func (u *User) Domain() string {
	return EmailDomain(u.Email)
}

// EmailDomain extracts the part after '@' of an account identifier.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
