// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"encoding/base64"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/Thintalltom/Paperless-Audit/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	username := fmt.Sprintf("%s_%s%d", first, last, gofakeit.Number(100, 999))

	user := &models.User{
		Name:     fmt.Sprintf("%s %s", first, last),
		Username: username,
		Email:    fmt.Sprintf("%s@%s", username, f.opts.InitiatorDomain),
		Role:     models.RoleInitiator,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = defaultSeedPassword
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(defaultSeedPassword), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildRequest constructs an expense request for the given initiator but does
// not persist it.
func (f *Factory) BuildRequest(initiator *models.User, branchApproverID uint, overrides ...func(*models.Request)) *models.Request {
	req := &models.Request{
		InitiatorName:        initiator.Name,
		SupplierName:         gofakeit.Company(),
		Amount:               float64(gofakeit.Number(50_000, 25_000_000)) / 100,
		Description:          gofakeit.Sentence(12),
		AccountName:          fmt.Sprintf("%s Operations", gofakeit.Company()),
		Status:               models.StatusPending,
		CurrentApprovalLevel: 0,
		ApprovalStatus:       models.ApprovalStatusMap{},
		ApprovalHistory:      []models.HistoryEntry{},
		BranchApproverID:     branchApproverID,
		CreatedBy:            initiator.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 60
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	req.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	if f.rng.Float32() < 0.35 {
		req.Attachments = []models.Attachment{f.buildAttachment()}
	}

	for _, override := range overrides {
		override(req)
	}
	return req
}

func (f *Factory) buildAttachment() models.Attachment {
	content := []byte(gofakeit.Paragraph(2, 4, 8, "\n"))
	return models.Attachment{
		Name:    fmt.Sprintf("invoice-%s.pdf", gofakeit.UUID()[:8]),
		Size:    int64(len(content)),
		Type:    "application/pdf",
		Content: base64.StdEncoding.EncodeToString(content),
	}
}

// CreateRequestsBatch persists multiple requests in a single DB call.
func (f *Factory) CreateRequestsBatch(requests []*models.Request) error {
	if len(requests) == 0 {
		return nil
	}
	if err := f.db.Create(&requests).Error; err != nil {
		return err
	}
	log.Printf("CreateRequestsBatch: %d requests", len(requests))
	return nil
}
