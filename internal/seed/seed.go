package seed

import (
	"fmt"
	"log"

	"github.com/Thintalltom/Paperless-Audit/internal/models"
	"github.com/Thintalltom/Paperless-Audit/internal/workflow"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultSeedPassword = "Password123!Demo"

// Options configuration for the seeder
type Options struct {
	NumInitiators int
	NumRequests   int
	ShouldClean   bool
	// InitiatorDomain is the email domain given to generated initiators. The
	// chain resolver matches it against branch approver domains.
	InitiatorDomain string
	MaxDays         int
	SkipBcrypt      bool
}

// rosterEntry describes one built-in approver account. Branch approvers carry
// their own email domain; everyone else sits at head office.
type rosterEntry struct {
	name     string
	username string
	email    string
	role     models.Role
}

// builtinRoster is the fixed approver set created on every seed run. Two
// branch approvers with distinct domains exercise domain-scoped resolution.
var builtinRoster = []rosterEntry{
	{"Bola Adeyemi", "bola_adeyemi", "bola.adeyemi@lagos.example.com", models.RoleBranchApprover},
	{"Chidi Okafor", "chidi_okafor", "chidi.okafor@abuja.example.com", models.RoleBranchApprover},
	{"Amina Yusuf", "amina_yusuf", "amina.yusuf@headoffice.example.com", models.RoleHOAdmin},
	{"Tunde Bakare", "tunde_bakare", "tunde.bakare@headoffice.example.com", models.RoleHOAuditor},
	{"Ngozi Eze", "ngozi_eze", "ngozi.eze@headoffice.example.com", models.RoleAccountUnit},
	{"Emeka Obi", "emeka_obi", "emeka.obi@headoffice.example.com", models.RoleDDOperations},
	{"Funke Alabi", "funke_alabi", "funke.alabi@headoffice.example.com", models.RoleDDFinance},
	{"Ibrahim Musa", "ibrahim_musa", "ibrahim.musa@headoffice.example.com", models.RoleGED},
}

// Seeder orchestrates demo data creation.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder with sensible defaults applied to opts.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumInitiators <= 0 {
		opts.NumInitiators = 10
	}
	if opts.NumRequests <= 0 {
		opts.NumRequests = 40
	}
	if opts.InitiatorDomain == "" {
		opts.InitiatorDomain = "lagos.example.com"
	}
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll truncates seeded tables.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE requests, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// Run populates the database: the built-in approver roster, a set of
// initiators, and requests at assorted stages of the approval chain.
func (s *Seeder) Run() error {
	log.Printf("Starting database seeding with %d initiators and %d requests...", s.opts.NumInitiators, s.opts.NumRequests)

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	roster, err := s.ensureRoster()
	if err != nil {
		return fmt.Errorf("failed to seed approver roster: %w", err)
	}
	log.Printf("%d approver accounts available", len(roster))

	initiators, err := s.seedInitiators()
	if err != nil {
		return fmt.Errorf("failed to create initiators: %w", err)
	}
	log.Printf("%d initiators created", len(initiators))

	created, err := s.seedRequests(roster, initiators)
	if err != nil {
		return fmt.Errorf("failed to create requests: %w", err)
	}
	log.Printf("%d requests created", created)

	log.Println("Database seeding completed successfully!")
	return nil
}

// ensureRoster creates the built-in approvers if they do not already exist.
func (s *Seeder) ensureRoster() ([]models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultSeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	roster := make([]models.User, 0, len(builtinRoster))
	for _, entry := range builtinRoster {
		var user models.User
		findErr := s.db.Where(models.User{Email: entry.email}).
			Attrs(models.User{
				Name:     entry.name,
				Username: entry.username,
				Password: string(hashedPassword),
				Role:     entry.role,
			}).
			FirstOrCreate(&user).Error
		if findErr != nil {
			return nil, findErr
		}
		roster = append(roster, user)
	}
	return roster, nil
}

func (s *Seeder) seedInitiators() ([]models.User, error) {
	initiators := make([]models.User, 0, s.opts.NumInitiators)
	for i := 0; i < s.opts.NumInitiators; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create initiator: %v", err)
			continue
		}
		initiators = append(initiators, *user)
	}
	return initiators, nil
}

// seedRequests builds requests and walks a random prefix of the approval
// chain for each, so the demo data covers fresh, mid-chain, held, declined,
// and fully approved states.
func (s *Seeder) seedRequests(roster, initiators []models.User) (int, error) {
	if len(initiators) == 0 {
		return 0, fmt.Errorf("no initiators to attribute requests to")
	}

	chain := s.assembleChain(roster)
	if len(chain) == 0 {
		return 0, fmt.Errorf("approver roster resolves to an empty chain")
	}

	batch := make([]*models.Request, 0, s.opts.NumRequests)
	for i := 0; i < s.opts.NumRequests; i++ {
		initiator := initiators[gofakeit.Number(0, len(initiators)-1)]
		req := s.factory.BuildRequest(&initiator, chain[0].ID)

		steps := gofakeit.Number(0, len(chain))
		for level := 0; level < steps; level++ {
			action := s.pickAction(level, steps, len(chain))
			next, applyErr := workflow.Apply(req, chain, &chain[req.CurrentApprovalLevel], action, gofakeit.Sentence(6))
			if applyErr != nil {
				return 0, applyErr
			}
			req = next
			if req.Status.Terminal() {
				break
			}
			if action == models.ActionKIV {
				// Holds keep the level; stop walking so some seeded
				// requests stay parked mid-chain.
				break
			}
		}
		batch = append(batch, req)
	}

	if err := s.factory.CreateRequestsBatch(batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// assembleChain orders the roster by the resolver's template, preferring the
// first branch approver for the domain-scoped slot.
func (s *Seeder) assembleChain(roster []models.User) []models.User {
	byRole := make(map[models.Role]models.User)
	for _, u := range roster {
		if _, seen := byRole[u.Role]; !seen {
			byRole[u.Role] = u
		}
	}
	template := []models.Role{
		models.RoleBranchApprover, models.RoleHOAdmin, models.RoleHOAuditor,
		models.RoleAccountUnit, models.RoleDDOperations, models.RoleDDFinance, models.RoleGED,
	}
	chain := make([]models.User, 0, len(template))
	for _, role := range template {
		if u, ok := byRole[role]; ok {
			chain = append(chain, u)
		}
	}
	return chain
}

func (s *Seeder) pickAction(level, steps, chainLen int) models.Action {
	// The final step of a partial walk occasionally declines or holds.
	if level == steps-1 && steps < chainLen {
		switch gofakeit.Number(0, 9) {
		case 0:
			return models.ActionDeclined
		case 1, 2:
			return models.ActionKIV
		}
	}
	return models.ActionApproved
}
