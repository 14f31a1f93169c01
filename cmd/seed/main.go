package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"emotivision/internal/config"
	"emotivision/internal/db"
	apperrors "emotivision/internal/errors"
	"emotivision/internal/jsonlog"
	"emotivision/internal/model"
	"emotivision/internal/repository"
	"emotivision/internal/service"
)

// demoUser is one seeded account.
type demoUser struct {
	Username string
	Password string
	Email    string
	// Events per trailing day, oldest day first.
	EventsPerDay int
	Days         int
}

var demoUsers = []demoUser{
	{Username: "alice_demo", Password: "wonder1and", Email: "alice@example.com", EventsPerDay: 6, Days: 14},
	{Username: "bob_demo", Password: "builder42", Email: "bob@example.com", EventsPerDay: 3, Days: 7},
	{Username: "carol_demo", Password: "sings2much", Email: "", EventsPerDay: 1, Days: 30},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.EmotionEvent{}, &model.SessionRecord{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	mirror := jsonlog.NewStore(cfg.EmotionsDataPath)
	authService := service.NewAuthService(userRepo, nil)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	created, skipped, events := 0, 0, 0
	for _, du := range demoUsers {
		_, err := authService.Register(ctx, du.Username, du.Password, du.Email)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrDuplicateUsername):
			log.Printf("User %s already exists, keeping existing account", du.Username)
			skipped++
		default:
			log.Fatalf("Failed to create user %s: %v", du.Username, err)
		}

		n, err := seedEvents(ctx, eventRepo, mirror, rng, du)
		if err != nil {
			log.Fatalf("Failed to seed events for %s: %v", du.Username, err)
		}
		events += n
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users kept: %d", skipped)
	log.Printf("  - Events written: %d", events)
}

// seedEvents writes synthetic detections spread over the trailing window,
// directly through the repository so timestamps land on past days.
func seedEvents(ctx context.Context, events repository.EventRepository, mirror *jsonlog.Store, rng *rand.Rand, du demoUser) (int, error) {
	written := 0
	for day := du.Days - 1; day >= 0; day-- {
		for i := 0; i < du.EventsPerDay; i++ {
			emotion := model.Emotions[rng.Intn(len(model.Emotions))]
			age := ""
			if rng.Intn(2) == 0 {
				age = model.AgeBuckets[rng.Intn(len(model.AgeBuckets))]
			}
			ts := time.Now().AddDate(0, 0, -day).
				Add(-time.Duration(rng.Intn(8*3600)) * time.Second)

			event := &model.EmotionEvent{
				ID:         uuid.New(),
				Username:   du.Username,
				Emotion:    emotion,
				Confidence: 0.5 + rng.Float64()/2,
				Timestamp:  ts,
				Age:        age,
			}
			if err := events.Create(ctx, event); err != nil {
				return written, err
			}
			if err := mirror.Append(jsonlog.Entry{
				Username:   event.Username,
				Emotion:    event.Emotion,
				Confidence: event.Confidence,
				Age:        event.Age,
				Timestamp:  jsonlog.FormatTime(event.Timestamp),
			}); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}
