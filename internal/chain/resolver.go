// Package chain resolves the ordered sequence of approvers a request must
// traverse. The first slot of the template is domain-scoped: many users hold
// the branch-approver role, one per organizational domain, and the slot is
// filled by the approver whose domain matches the initiator's account domain.
// All remaining slots are singleton roles resolved against the current roster.
package chain

import (
	"context"
	"log/slog"

	"github.com/Thintalltom/Paperless-Audit/internal/models"
	"github.com/Thintalltom/Paperless-Audit/internal/observability"
)

// Template is the default ordering of approver role slots. The order is total
// and fixed except for the domain-scoped first slot, which is resolved per
// request.
var Template = []models.Role{
	models.RoleBranchApprover,
	models.RoleHOAdmin,
	models.RoleHOAuditor,
	models.RoleAccountUnit,
	models.RoleDDOperations,
	models.RoleDDFinance,
	models.RoleGED,
}

// DomainScopedRole is the one template slot with multiple holders.
const DomainScopedRole = models.RoleBranchApprover

// ApproverDirectory is the roster lookup the resolver depends on.
type ApproverDirectory interface {
	ListApprovers(ctx context.Context, roles []models.Role) ([]models.User, error)
}

// Resolver builds approval chains from a role template and an approver roster.
type Resolver struct {
	directory ApproverDirectory
	template  []models.Role
}

// NewResolver returns a Resolver over the given directory using the default
// template.
func NewResolver(directory ApproverDirectory) *Resolver {
	return &Resolver{directory: directory, template: Template}
}

// NewResolverWithTemplate returns a Resolver with a custom role ordering.
func NewResolverWithTemplate(directory ApproverDirectory, template []models.Role) *Resolver {
	return &Resolver{directory: directory, template: template}
}

// Template returns the resolver's role ordering.
func (r *Resolver) Template() []models.Role {
	return r.template
}

// ResolveForCreate produces the chain for a new request submitted by an
// initiator with the given account domain. The domain-scoped slot is filled
// by the branch approver whose domain matches; when no approver matches, the
// first branch approver on the roster is used as a fallback and a warning is
// logged. The caller freezes the chosen approver's ID into the request.
//
// A roster lookup failure returns the error; an empty roster yields an empty
// chain, which callers must treat as "cannot resolve approver for action".
func (r *Resolver) ResolveForCreate(ctx context.Context, initiatorDomain string) ([]models.User, error) {
	roster, err := r.directory.ListApprovers(ctx, r.template)
	if err != nil {
		return nil, err
	}
	return r.assemble(roster, func(candidates []models.User) *models.User {
		for i := range candidates {
			if candidates[i].Domain() == initiatorDomain {
				return &candidates[i]
			}
		}
		if len(candidates) > 0 {
			observability.GlobalLogger.Warn("no branch approver matches initiator domain, falling back to first",
				slog.String("initiator_domain", initiatorDomain),
				slog.String("fallback", candidates[0].Email),
			)
			return &candidates[0]
		}
		return nil
	}), nil
}

// ResolveForDisplay produces the chain for an existing request using its
// frozen branch approver ID. The domain-scoped slot is resolved by ID rather
// than by recomputing the domain match, so history stays stable even if
// approvers' domains change after creation.
func (r *Resolver) ResolveForDisplay(ctx context.Context, branchApproverID uint) ([]models.User, error) {
	roster, err := r.directory.ListApprovers(ctx, r.template)
	if err != nil {
		return nil, err
	}
	return r.assemble(roster, func(candidates []models.User) *models.User {
		for i := range candidates {
			if candidates[i].ID == branchApproverID {
				return &candidates[i]
			}
		}
		return nil
	}), nil
}

// assemble orders the roster by the template's role order. Unknown roles are
// dropped; the domain-scoped slot is filled by pick from its candidates and
// omitted entirely when pick returns nil. Non-scoped roles are singletons:
// the first roster entry per role wins.
func (r *Resolver) assemble(roster []models.User, pick func([]models.User) *models.User) []models.User {
	byRole := make(map[models.Role][]models.User, len(r.template))
	for _, u := range roster {
		byRole[u.Role] = append(byRole[u.Role], u)
	}

	chain := make([]models.User, 0, len(r.template))
	for _, role := range r.template {
		candidates := byRole[role]
		if len(candidates) == 0 {
			continue
		}
		if role == DomainScopedRole {
			if chosen := pick(candidates); chosen != nil {
				chain = append(chain, *chosen)
			}
			continue
		}
		chain = append(chain, candidates[0])
	}
	return chain
}
