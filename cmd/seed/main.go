package main

import (
	"context"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tutorhub/internal/database"
	"tutorhub/internal/domain"
	"tutorhub/internal/modules/evidence"
	"tutorhub/internal/repository"
)

// Seeds a demo dataset: one admin, one tutor with weekly availability,
// one learner, and a booked slot for next Monday morning.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "tutorhub.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}
	if err := db.AutoMigrate(&evidence.Asset{}); err != nil {
		log.Fatal("migration failed:", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	availability := repository.NewAvailabilityRepository(db)
	slots := repository.NewSlotRepository(db)

	admin := seedUser(ctx, users, "admin@tutorhub.local", "admin12345", "Admin", domain.RoleAdmin)
	tutor := seedUser(ctx, users, "tutor@tutorhub.local", "tutor12345", "Tamara Tutor", domain.RoleTutor)
	learner := seedUser(ctx, users, "learner@tutorhub.local", "learner12345", "Lena Learner", domain.RoleLearner)
	log.Printf("users ready: admin=%d tutor=%d learner=%d", admin.ID, tutor.ID, learner.ID)

	rules := []domain.AvailabilityRule{
		{TutorID: tutor.ID, DayOfWeek: 1, OpenTime: "09:00", CloseTime: "13:00"},
		{TutorID: tutor.ID, DayOfWeek: 3, OpenTime: "14:00", CloseTime: "18:00"},
	}
	if err := availability.ReplaceForTutor(ctx, tutor.ID, rules); err != nil {
		log.Fatal("availability seed failed:", err)
	}

	start := nextMonday(10)
	slot := &domain.Slot{
		TutorID:   tutor.ID,
		LearnerID: learner.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    domain.SlotBooked,
	}
	if err := slots.Create(ctx, slot); err != nil {
		log.Println("slot seed skipped:", err)
	} else {
		log.Printf("booked slot %d at %s", slot.ID, start.Format(time.RFC3339))
	}

	log.Println("seed complete")
}

func seedUser(ctx context.Context, users *repository.UserRepository, email, password, name string, role domain.UserRole) *domain.User {
	if existing, err := users.GetByEmail(ctx, email); err == nil {
		return existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("bcrypt failed:", err)
	}
	u := &domain.User{Email: email, PasswordHash: string(hash), Name: name, Role: role}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal("user seed failed:", err)
	}
	return u
}

func nextMonday(hour int) time.Time {
	t := time.Now().UTC().AddDate(0, 0, 1)
	t = time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
