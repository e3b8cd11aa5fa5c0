// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"pulsepost/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password every seeded user gets.
const DefaultPassword = "password123"

var topics = []string{
	"golang performance tips",
	"indie game development",
	"homelab networking",
	"sourdough baking",
	"remote work culture",
	"machine learning papers",
	"personal finance basics",
	"urban gardening",
	"mechanical keyboards",
	"trail running",
}

// Seeder populates the database with realistic development data.
type Seeder struct {
	db           *gorm.DB
	passwordHash string
}

// NewSeeder creates a seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on invalid cost, which is a programming error here.
		panic(err)
	}
	return &Seeder{db: db, passwordHash: string(hash)}
}

// ClearAll wipes every seeded table. Dependents go first so foreign keys
// never dangle mid-wipe.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []any{
		&models.PostRecord{},
		&models.Schedule{},
		&models.ContentStyle{},
		&models.TemporaryCredential{},
		&models.LinkedAccount{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	return nil
}

// SeedUsers creates n users, each with a content style and a schedule. Around
// two thirds also get a linked account so the runner has someone to post for.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	log.Printf("Seeding %d users...", n)

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		user := &models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			Password: s.passwordHash,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("create user %q: %w", username, err)
		}

		if err := s.seedProfile(user); err != nil {
			return nil, err
		}
		if rand.Intn(3) < 2 {
			if err := s.seedLinkedAccount(user); err != nil {
				return nil, err
			}
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedProfile(user *models.User) error {
	tones := []string{models.ToneProfessional, models.ToneCasual, models.ToneHumorous, models.ToneInspiring}
	lengths := []string{models.LengthShort, models.LengthMedium, models.LengthLong}
	frequencies := []string{models.FrequencyDaily, models.FrequencyTwiceDaily, models.FrequencyWeekly}

	style := &models.ContentStyle{
		UserID:   user.ID,
		Topic:    topics[rand.Intn(len(topics))],
		Tone:     tones[rand.Intn(len(tones))],
		Length:   lengths[rand.Intn(len(lengths))],
		Hashtags: rand.Intn(4) > 0,
		Emojis:   rand.Intn(2) == 0,
	}
	if err := s.db.Create(style).Error; err != nil {
		return fmt.Errorf("create style for user %d: %w", user.ID, err)
	}

	schedule := &models.Schedule{
		UserID:    user.ID,
		Frequency: frequencies[rand.Intn(len(frequencies))],
		TimeOfDay: fmt.Sprintf("%02d:00", 7+rand.Intn(14)),
		Timezone:  "UTC",
		Enabled:   rand.Intn(4) > 0,
	}
	if err := s.db.Create(schedule).Error; err != nil {
		return fmt.Errorf("create schedule for user %d: %w", user.ID, err)
	}
	return nil
}

func (s *Seeder) seedLinkedAccount(user *models.User) error {
	account := &models.LinkedAccount{
		UserID:           user.ID,
		TwitterID:        fmt.Sprintf("%d", gofakeit.Number(100000000, 999999999)),
		ScreenName:       user.Username,
		Name:             gofakeit.Name(),
		ProfileImageURL:  gofakeit.ImageURL(128, 128),
		OAuthToken:       gofakeit.UUID(),
		OAuthTokenSecret: gofakeit.UUID(),
	}
	if err := s.db.Create(account).Error; err != nil {
		return fmt.Errorf("create linked account for user %d: %w", user.ID, err)
	}
	return nil
}

// SeedHistory creates n publish records spread over the given users, roughly
// 85% successful, backdated over the last 30 days.
func (s *Seeder) SeedHistory(users []*models.User, n int) (int, error) {
	log.Printf("Seeding %d post records...", n)

	created := 0
	for i := 0; i < n; i++ {
		user := users[rand.Intn(len(users))]
		content := gofakeit.Sentence(8 + rand.Intn(10))
		if len(content) > 280 {
			content = content[:277] + "..."
		}

		var record *models.PostRecord
		if rand.Intn(100) < 85 {
			record = models.NewSuccessRecord(user.ID, content, fmt.Sprintf("%d", gofakeit.Number(1000000000, 2000000000)))
		} else {
			record = models.NewFailedRecord(user.ID, content, "403 Forbidden: duplicate content")
		}

		createdAt := time.Now().UTC().Add(-time.Duration(rand.Intn(30*24)) * time.Hour)
		record.CreatedAt = createdAt
		if record.PostedAt != nil {
			record.PostedAt = &createdAt
		}

		if err := s.db.Create(record).Error; err != nil {
			return created, fmt.Errorf("create post record: %w", err)
		}
		created++
	}
	return created, nil
}
