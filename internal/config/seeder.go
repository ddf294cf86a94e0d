package config

import (
	"log"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/core/domain"
	"saccohub/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders. Seeding is a dev convenience only; production
// admins are promoted through the role endpoint.
func (s *Seeder) Run() error {
	if !s.cfg.IsDev() {
		log.Println("🌱 Seeders skipped outside dev mode")
		return nil
	}

	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminMember(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminMember seeds the bootstrap admin member
func (s *Seeder) seedAdminMember() error {
	var count int64
	s.db.Model(&models.Member{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &models.Member{
		MemberNo:         "SCH-00001",
		Username:         "admin",
		Email:            "admin@saccohub.example",
		FullName:         "System Administrator",
		Password:         hashedPassword,
		Role:             domain.RoleAdmin,
		MembershipStatus: domain.MembershipApproved,
		IsActive:         true,
		ApprovedAt:       &now,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded admin member: %s", admin.Username)
	return nil
}
