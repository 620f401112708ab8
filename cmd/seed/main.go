// Command seed fills a development database with realistic fixture data:
// an admin account, trainers, rooms, mobile units, a small course catalog
// and a pipeline of deals with scheduled sessions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogapp "github.com/formax/backend/internal/application/catalog"
	crmapp "github.com/formax/backend/internal/application/crm"
	identityapp "github.com/formax/backend/internal/application/identity"
	resourceapp "github.com/formax/backend/internal/application/resource"
	trainingapp "github.com/formax/backend/internal/application/training"
	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/training"
	"github.com/formax/backend/internal/infrastructure/config"
	"github.com/formax/backend/internal/infrastructure/logger"
	"github.com/formax/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
)

func main() {
	var (
		trainerCount int
		dealCount    int
		seed         uint64
	)
	flag.IntVar(&trainerCount, "trainers", 8, "Number of trainers to create")
	flag.IntVar(&dealCount, "deals", 15, "Number of deals to create")
	flag.Uint64Var(&seed, "seed", 1, "Random seed (0 for non-deterministic)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if cfg.App.Env == "production" {
		log.Fatal("Refusing to seed a production environment")
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	s := &seeder{
		faker: gofakeit.New(seed),
		log:   log,
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	authSessionRepo := persistence.NewGormAuthSessionRepository(db.DB)
	trainerRepo := persistence.NewGormTrainerRepository(db.DB)
	unavailabilityRepo := persistence.NewGormUnavailabilityRepository(db.DB)
	roomRepo := persistence.NewGormRoomRepository(db.DB)
	mobileUnitRepo := persistence.NewGormMobileUnitRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	dealRepo := persistence.NewGormDealRepository(db.DB)

	s.users = identityapp.NewUserService(userRepo, authSessionRepo)
	s.trainers = resourceapp.NewTrainerService(trainerRepo, unavailabilityRepo)
	s.facilities = resourceapp.NewFacilityService(roomRepo, mobileUnitRepo)
	s.catalog = catalogapp.NewCatalogService(productRepo, variantRepo)
	s.deals = crmapp.NewDealService(dealRepo)
	s.sessions = trainingapp.NewSessionService(sessionRepo, productRepo,
		resource.NewConflictService(sessionRepo, unavailabilityRepo))

	ctx := context.Background()
	if err := s.run(ctx, trainerCount, dealCount); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding complete")
}

type seeder struct {
	faker *gofakeit.Faker
	log   *zap.Logger

	users      *identityapp.UserService
	trainers   *resourceapp.TrainerService
	facilities *resourceapp.FacilityService
	catalog    *catalogapp.CatalogService
	deals      *crmapp.DealService
	sessions   *trainingapp.SessionService
}

// courseCatalog is the fixed set of courses the company actually sells;
// everything else is randomized around it.
var courseCatalog = []struct {
	code  string
	name  string
	hours int
	price int64
}{
	{"FORK-16", "Forklift operator", 16, 600},
	{"FORK-EXT", "Forklift operator extension", 8, 350},
	{"CRANE-24", "Overhead crane operator", 24, 900},
	{"PLAT-16", "Mobile elevating work platform", 16, 700},
	{"HDS-20", "Truck-mounted crane (HDS)", 20, 850},
	{"FIRST-AID", "Workplace first aid", 8, 250},
}

func (s *seeder) run(ctx context.Context, trainerCount, dealCount int) error {
	if err := s.seedUsers(ctx); err != nil {
		return fmt.Errorf("users: %w", err)
	}
	trainerIDs, err := s.seedTrainers(ctx, trainerCount)
	if err != nil {
		return fmt.Errorf("trainers: %w", err)
	}
	if err := s.seedFacilities(ctx); err != nil {
		return fmt.Errorf("facilities: %w", err)
	}
	courseIDs, err := s.seedCatalog(ctx)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := s.seedDeals(ctx, dealCount, trainerIDs, courseIDs); err != nil {
		return fmt.Errorf("deals: %w", err)
	}
	return nil
}

func (s *seeder) seedUsers(ctx context.Context) error {
	accounts := []identityapp.CreateUserRequest{
		{Email: "admin@formax.local", Password: "admin-dev-pass", DisplayName: "Administrator", Role: "admin"},
		{Email: "office@formax.local", Password: "office-dev-pass", DisplayName: "Office", Role: "office"},
		{Email: "logistics@formax.local", Password: "logistics-dev-pass", DisplayName: "Logistics", Role: "logistics"},
	}
	for _, req := range accounts {
		if _, err := s.users.CreateUser(ctx, req); err != nil {
			s.log.Warn("Skipping user", zap.String("email", req.Email), zap.Error(err))
			continue
		}
		s.log.Info("Created user", zap.String("email", req.Email), zap.String("role", req.Role))
	}
	return nil
}

func (s *seeder) seedTrainers(ctx context.Context, count int) ([]uuid.UUID, error) {
	specialtyPool := []string{"forklift", "crane", "platform", "hds", "first_aid"}
	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		specialties := []string{specialtyPool[i%len(specialtyPool)]}
		if s.faker.Bool() {
			specialties = append(specialties, specialtyPool[(i+1)%len(specialtyPool)])
		}
		trainer, err := s.trainers.CreateTrainer(ctx, resourceapp.CreateTrainerRequest{
			Name:        s.faker.Name(),
			Email:       s.faker.Email(),
			Phone:       s.faker.Phone(),
			Province:    s.faker.State(),
			Specialties: specialties,
			DailyRate:   decimal.NewFromInt(int64(s.faker.Number(250, 500))),
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, trainer.ID)

		// Roughly a third of trainers have a vacation window coming up
		if i%3 == 0 {
			from := time.Now().AddDate(0, 0, s.faker.Number(10, 40))
			_, err := s.trainers.AddUnavailability(ctx, trainer.ID, resourceapp.AddUnavailabilityRequest{
				From:   from,
				To:     from.AddDate(0, 0, s.faker.Number(3, 14)),
				Reason: "Vacation",
			})
			if err != nil {
				return nil, err
			}
		}
	}
	s.log.Info("Created trainers", zap.Int("count", len(ids)))
	return ids, nil
}

func (s *seeder) seedFacilities(ctx context.Context) error {
	for i := 1; i <= 3; i++ {
		_, err := s.facilities.CreateRoom(ctx, resourceapp.CreateRoomRequest{
			Name:     fmt.Sprintf("Training room %d", i),
			Location: s.faker.City(),
			Capacity: s.faker.Number(8, 24),
		})
		if err != nil {
			return err
		}
	}
	for i := 1; i <= 2; i++ {
		_, err := s.facilities.CreateMobileUnit(ctx, resourceapp.CreateMobileUnitRequest{
			Name:  fmt.Sprintf("Mobile unit %d", i),
			Plate: fmt.Sprintf("WX %d%s%s", s.faker.Number(1000, 9999), s.faker.RandomString([]string{"A", "B", "C"}), s.faker.RandomString([]string{"K", "L", "M"})),
		})
		if err != nil {
			return err
		}
	}
	s.log.Info("Created rooms and mobile units")
	return nil
}

func (s *seeder) seedCatalog(ctx context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(courseCatalog))
	for _, course := range courseCatalog {
		product, err := s.catalog.CreateProduct(ctx, catalogapp.CreateProductRequest{
			Code:         course.code,
			Name:         course.name,
			Hours:        course.hours,
			DefaultPrice: decimal.NewFromInt(course.price),
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, product.ID)

		// One open-enrollment variant per course, a few weeks out
		startsOn := time.Now().AddDate(0, 0, s.faker.Number(14, 60))
		_, err = s.catalog.CreateVariant(ctx, product.ID, catalogapp.CreateVariantRequest{
			StartsOn:     startsOn,
			Location:     s.faker.City(),
			SeatCapacity: s.faker.Number(6, 16),
			Price:        decimal.NewFromInt(course.price),
		})
		if err != nil {
			return nil, err
		}
	}
	s.log.Info("Created course catalog", zap.Int("courses", len(ids)))
	return ids, nil
}

func (s *seeder) seedDeals(ctx context.Context, count int, trainerIDs, courseIDs []uuid.UUID) error {
	for i := 0; i < count; i++ {
		courseID := courseIDs[i%len(courseIDs)]
		deal, err := s.deals.CreateDeal(ctx, crmapp.CreateDealRequest{
			Title:       fmt.Sprintf("%s for %s", s.faker.RandomString([]string{"Forklift training", "Crane training", "Platform training"}), s.faker.Company()),
			OrgName:     s.faker.Company(),
			PersonName:  s.faker.Name(),
			PersonEmail: s.faker.Email(),
			Value:       decimal.NewFromInt(int64(s.faker.Number(2000, 12000))),
			Currency:    "PLN",
		})
		if err != nil {
			return err
		}

		// Most deals already have a session on the calendar
		if i%4 == 3 {
			continue
		}
		start := time.Date(2026, time.Month(9+i%3), 1+i, 9, 0, 0, 0, time.UTC)
		created, err := s.sessions.CreateSession(ctx, trainingapp.CreateSessionRequest{
			CourseID: courseID,
			DealID:   &deal.ID,
			Title:    deal.Title,
			StartsAt: start,
			EndsAt:   start.Add(8 * time.Hour),
			Modality: string(training.ModalityOnSite),
			Location: s.faker.City(),
			Seats:    s.faker.Number(4, 12),
		})
		if err != nil {
			return err
		}
		_, err = s.sessions.AssignResources(ctx, created.ID, trainingapp.AssignResourcesRequest{
			AddTrainerIDs: []uuid.UUID{trainerIDs[i%len(trainerIDs)]},
		})
		if err != nil {
			return err
		}
		if _, err := s.sessions.Transition(ctx, created.ID, trainingapp.TransitionRequest{
			Status: string(training.StatusPlanned),
		}); err != nil {
			s.log.Warn("Leaving session as draft", zap.String("title", deal.Title), zap.Error(err))
		}
	}
	s.log.Info("Created deals and sessions", zap.Int("count", count))
	return nil
}
