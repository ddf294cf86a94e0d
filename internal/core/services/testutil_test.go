package services

import (
	"context"
	"testing"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database per test
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

// seedMember inserts an approved, active member and returns it
func seedMember(t *testing.T, db *gorm.DB, username string, role domain.Role) *models.Member {
	t.Helper()

	member := &models.Member{
		MemberNo:         "SCH-" + username,
		Username:         username,
		Email:            username + "@saccohub.example",
		FullName:         "Test " + username,
		Password:         "$2a$12$notarealhashnotarealhashnotarealhashnotareal",
		Role:             role,
		MembershipStatus: domain.MembershipApproved,
		IsActive:         true,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

// seedAccount inserts an active savings account for a member
func seedAccount(t *testing.T, db *gorm.DB, memberID uint, balance float64) *models.SavingsAccount {
	t.Helper()

	savingsRepo := repositories.NewSavingsRepository(db)
	account := &models.SavingsAccount{
		MemberID:     memberID,
		AccountNo:    newAccountNo(),
		AccountType:  domain.AccountRegular,
		Balance:      balance,
		InterestRate: 3.5,
		IsActive:     true,
	}
	require.NoError(t, savingsRepo.Create(context.Background(), account))
	return account
}

// seedLoan inserts a loan in the given status for a member
func seedLoan(t *testing.T, db *gorm.DB, memberID uint, status domain.LoanStatus) *models.Loan {
	t.Helper()

	loan := &models.Loan{
		MemberID:         memberID,
		LoanNo:           newLoanNo(),
		Principal:        10000,
		InterestRate:     12.0,
		TermMonths:       12,
		Status:           status,
		MonthlyPayment:   monthlyPayment(10000, 12.0, 12),
		RemainingBalance: 10000,
		Purpose:          "working capital",
	}
	require.NoError(t, db.Create(loan).Error)
	return loan
}

// activeWindow returns a voting window that is currently open
func activeWindow() (time.Time, time.Time) {
	now := time.Now()
	return now.Add(-time.Hour), now.Add(24 * time.Hour)
}
