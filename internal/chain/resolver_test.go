package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/Thintalltom/Paperless-Audit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type directoryStub struct {
	users []models.User
	err   error
}

func (d *directoryStub) ListApprovers(_ context.Context, roles []models.Role) ([]models.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	wanted := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		wanted[r] = true
	}
	var out []models.User
	for _, u := range d.users {
		if wanted[u.Role] {
			out = append(out, u)
		}
	}
	return out, nil
}

func fullRoster() []models.User {
	return []models.User{
		{ID: 1, Name: "Bola Ojo", Email: "bola@lagos.example.com", Role: models.RoleBranchApprover},
		{ID: 8, Name: "Kunle Oni", Email: "kunle@abuja.example.com", Role: models.RoleBranchApprover},
		{ID: 2, Name: "Chika Obi", Email: "chika@ho.example.com", Role: models.RoleHOAdmin},
		{ID: 3, Name: "Dayo Musa", Email: "dayo@ho.example.com", Role: models.RoleHOAuditor},
		{ID: 4, Name: "Efe Bello", Email: "efe@ho.example.com", Role: models.RoleAccountUnit},
		{ID: 5, Name: "Femi Ade", Email: "femi@ho.example.com", Role: models.RoleDDOperations},
		{ID: 6, Name: "Gozie Eke", Email: "gozie@ho.example.com", Role: models.RoleDDFinance},
		{ID: 7, Name: "Hauwa Sani", Email: "hauwa@ho.example.com", Role: models.RoleGED},
	}
}

func TestResolveForCreate_DomainMatch(t *testing.T) {
	r := NewResolver(&directoryStub{users: fullRoster()})

	chain, err := r.ResolveForCreate(context.Background(), "abuja.example.com")
	require.NoError(t, err)
	require.Len(t, chain, 7)
	assert.Equal(t, uint(8), chain[0].ID, "abuja branch approver fills the first slot")

	wantRoles := Template
	for i, u := range chain {
		assert.Equal(t, wantRoles[i], u.Role, "slot %d", i)
	}
}

func TestResolveForCreate_FallbackWhenNoDomainMatch(t *testing.T) {
	r := NewResolver(&directoryStub{users: fullRoster()})

	chain, err := r.ResolveForCreate(context.Background(), "nowhere.example.com")
	require.NoError(t, err)
	require.Len(t, chain, 7)
	assert.Equal(t, uint(1), chain[0].ID, "first branch approver on the roster is the fallback")
}

func TestResolveForCreate_NoBranchApproversOmitsSlot(t *testing.T) {
	roster := fullRoster()[2:] // drop both branch approvers
	r := NewResolver(&directoryStub{users: roster})

	chain, err := r.ResolveForCreate(context.Background(), "lagos.example.com")
	require.NoError(t, err)
	require.Len(t, chain, 6)
	assert.Equal(t, models.RoleHOAdmin, chain[0].Role)
}

func TestResolveForCreate_DirectoryErrorPropagates(t *testing.T) {
	boom := errors.New("roster unavailable")
	r := NewResolver(&directoryStub{err: boom})

	_, err := r.ResolveForCreate(context.Background(), "lagos.example.com")
	assert.ErrorIs(t, err, boom)
}

func TestResolveForDisplay_UsesFrozenID(t *testing.T) {
	r := NewResolver(&directoryStub{users: fullRoster()})

	// The frozen ID wins even when the initiator's domain would now pick a
	// different branch approver.
	chain, err := r.ResolveForDisplay(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, chain, 7)
	assert.Equal(t, uint(8), chain[0].ID)
}

func TestResolveForDisplay_FrozenApproverGone(t *testing.T) {
	roster := fullRoster()
	r := NewResolver(&directoryStub{users: roster})

	chain, err := r.ResolveForDisplay(context.Background(), 999)
	require.NoError(t, err)
	require.Len(t, chain, 6, "slot is omitted when the frozen approver left the roster")
	assert.Equal(t, models.RoleHOAdmin, chain[0].Role)
}

func TestAssemble_UnknownRolesDroppedAndSingletonFirstWins(t *testing.T) {
	roster := fullRoster()
	roster = append(roster,
		models.User{ID: 20, Name: "Imposter", Email: "x@ho.example.com", Role: models.Role("contractor")},
		models.User{ID: 21, Name: "Second Admin", Email: "y@ho.example.com", Role: models.RoleHOAdmin},
	)
	r := NewResolver(&directoryStub{users: roster})

	chain, err := r.ResolveForCreate(context.Background(), "lagos.example.com")
	require.NoError(t, err)
	require.Len(t, chain, 7)
	for _, u := range chain {
		assert.NotEqual(t, models.Role("contractor"), u.Role)
	}
	// Singleton roles take the first roster entry.
	assert.Equal(t, uint(2), chain[1].ID)
}

func TestNewResolverWithTemplate(t *testing.T) {
	short := []models.Role{models.RoleHOAdmin, models.RoleGED}
	r := NewResolverWithTemplate(&directoryStub{users: fullRoster()}, short)

	chain, err := r.ResolveForCreate(context.Background(), "lagos.example.com")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, models.RoleHOAdmin, chain[0].Role)
	assert.Equal(t, models.RoleGED, chain[1].Role)
}
