package seed

import (
	"testing"

	"github.com/Thintalltom/Paperless-Audit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Request{}))
	return db
}

func TestEnsureRoster_Idempotent(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	first, err := s.ensureRoster()
	require.NoError(t, err)
	assert.Len(t, first, len(builtinRoster))

	second, err := s.ensureRoster()
	require.NoError(t, err)
	assert.Len(t, second, len(builtinRoster))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, len(builtinRoster), count)

	// Re-running keeps the same IDs.
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestAssembleChain_TemplateOrder(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	roster, err := s.ensureRoster()
	require.NoError(t, err)

	chain := s.assembleChain(roster)
	require.Len(t, chain, 7)
	assert.Equal(t, models.RoleBranchApprover, chain[0].Role)
	assert.Equal(t, models.RoleGED, chain[6].Role)
	// The duplicate branch approver collapses to the first by roster order.
	assert.Equal(t, "bola.adeyemi@lagos.example.com", chain[0].Email)
}

func TestSeederRun(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db, Options{
		NumInitiators: 3,
		NumRequests:   12,
		SkipBcrypt:    true,
	})

	require.NoError(t, s.Run())

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, len(builtinRoster)+3, userCount)

	var requests []models.Request
	require.NoError(t, db.Find(&requests).Error)
	require.Len(t, requests, 12)

	for _, req := range requests {
		assert.NotZero(t, req.BranchApproverID)
		assert.NotZero(t, req.CreatedBy)
		assert.NotEmpty(t, req.SupplierName)
		assert.GreaterOrEqual(t, req.CurrentApprovalLevel, 0)
		assert.LessOrEqual(t, req.CurrentApprovalLevel, 6)

		switch req.Status {
		case models.StatusPending, models.StatusApproved, models.StatusDeclined:
		default:
			t.Fatalf("unexpected status %q for request %d", req.Status, req.ID)
		}

		// History and sparse status map stay consistent with progress.
		if len(req.ApprovalHistory) == 0 {
			assert.Equal(t, models.StatusPending, req.Status)
			assert.Equal(t, 0, req.CurrentApprovalLevel)
		}
	}
}

func TestFactoryBuildRequest(t *testing.T) {
	db := setupSeedDB(t)
	f := NewFactory(db, Options{InitiatorDomain: "lagos.example.com", SkipBcrypt: true})

	initiator, err := f.CreateUser()
	require.NoError(t, err)
	assert.Equal(t, models.RoleInitiator, initiator.Role)
	assert.Contains(t, initiator.Email, "@lagos.example.com")

	req := f.BuildRequest(initiator, 1)
	assert.Equal(t, initiator.Name, req.InitiatorName)
	assert.Equal(t, initiator.ID, req.CreatedBy)
	assert.Equal(t, uint(1), req.BranchApproverID)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Greater(t, req.Amount, 0.0)
	assert.NotEmpty(t, req.Description)
}
