package config

import (
	"testing"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeederDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func TestSeederRunsInDevMode(t *testing.T) {
	db := newSeederDB(t)

	require.NoError(t, NewSeeder(db, &Config{AppMode: "dev"}).Run())

	var admin models.Member
	require.NoError(t, db.Where("role = ?", domain.RoleAdmin).First(&admin).Error)
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, domain.MembershipApproved, admin.MembershipStatus)
}

func TestSeederSkippedInProdMode(t *testing.T) {
	db := newSeederDB(t)

	require.NoError(t, NewSeeder(db, &Config{AppMode: "prod"}).Run())

	var count int64
	db.Model(&models.Member{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSeederIsIdempotent(t *testing.T) {
	db := newSeederDB(t)
	cfg := &Config{AppMode: "dev"}

	require.NoError(t, NewSeeder(db, cfg).Run())
	require.NoError(t, NewSeeder(db, cfg).Run())

	var count int64
	db.Model(&models.Member{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	assert.Equal(t, int64(1), count)
}
