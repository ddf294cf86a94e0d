package services

import (
	"context"
	"testing"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSavingsService(db *gorm.DB) *SavingsService {
	return NewSavingsService(repositories.NewSavingsRepository(db), repositories.NewMemberRepository(db))
}

func TestOpenAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newSavingsService(db)
	member := seedMember(t, db, "saver", domain.RoleMember)

	account, err := svc.OpenAccount(context.Background(), member.ID, &OpenAccountInput{AccountType: "FIXED_DEPOSIT"})
	require.NoError(t, err)

	assert.Equal(t, domain.AccountFixedDeposit, account.AccountType)
	assert.Equal(t, 0.0, account.Balance)
	assert.Equal(t, 7.0, account.InterestRate)
	assert.True(t, account.IsActive)

	_, err = svc.OpenAccount(context.Background(), member.ID, &OpenAccountInput{AccountType: "GOLD"})
	assert.ErrorIs(t, err, ErrInvalidAccountType)
}

func TestDepositAndWithdraw(t *testing.T) {
	db := newTestDB(t)
	svc := newSavingsService(db)
	member := seedMember(t, db, "saver", domain.RoleMember)
	account := seedAccount(t, db, member.ID, 0)

	tx, err := svc.Deposit(context.Background(), account.ID, member.ID, &MovementInput{Amount: 500, Description: "first deposit"})
	require.NoError(t, err)
	assert.Equal(t, domain.TxDeposit, tx.Type)
	assert.Equal(t, domain.TxStatusCompleted, tx.Status)

	tx, err = svc.Withdraw(context.Background(), account.ID, member.ID, &MovementInput{Amount: 200})
	require.NoError(t, err)
	assert.Equal(t, domain.TxWithdrawal, tx.Type)

	var stored models.SavingsAccount
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.Equal(t, 300.0, stored.Balance)

	var count int64
	db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	svc := newSavingsService(db)
	member := seedMember(t, db, "saver", domain.RoleMember)
	account := seedAccount(t, db, member.ID, 100)

	_, err := svc.Withdraw(context.Background(), account.ID, member.ID, &MovementInput{Amount: 150})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Balance untouched and no transaction written
	var stored models.SavingsAccount
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.Equal(t, 100.0, stored.Balance)

	var count int64
	db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMovementRejectsNonOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newSavingsService(db)
	member := seedMember(t, db, "saver", domain.RoleMember)
	other := seedMember(t, db, "other", domain.RoleMember)
	account := seedAccount(t, db, member.ID, 100)

	_, err := svc.Deposit(context.Background(), account.ID, other.ID, &MovementInput{Amount: 50})
	assert.ErrorIs(t, err, ErrNotAccountOwner)
}

func TestMovementRejectsClosedAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newSavingsService(db)
	member := seedMember(t, db, "saver", domain.RoleMember)
	account := seedAccount(t, db, member.ID, 100)

	require.NoError(t, db.Model(&models.SavingsAccount{}).Where("id = ?", account.ID).
		Update("is_active", false).Error)

	_, err := svc.Deposit(context.Background(), account.ID, member.ID, &MovementInput{Amount: 50})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestMovementRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	svc := newSavingsService(db)
	member := seedMember(t, db, "saver", domain.RoleMember)
	account := seedAccount(t, db, member.ID, 100)

	_, err := svc.Deposit(context.Background(), account.ID, member.ID, &MovementInput{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Withdraw(context.Background(), account.ID, member.ID, &MovementInput{Amount: -10})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAccrueMonthlyInterest(t *testing.T) {
	db := newTestDB(t)
	svc := newSavingsService(db)
	member := seedMember(t, db, "saver", domain.RoleMember)

	funded := seedAccount(t, db, member.ID, 12000) // 3.5% annual
	empty := seedAccount(t, db, member.ID, 0)

	count, err := svc.AccrueMonthlyInterest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count) // empty account skipped

	var stored models.SavingsAccount
	require.NoError(t, db.First(&stored, funded.ID).Error)
	// 12000 * 3.5% / 12 = 35
	assert.InDelta(t, 35.0, stored.AccruedInterest, 0.001)

	var tx models.Transaction
	require.NoError(t, db.Where("account_id = ?", funded.ID).First(&tx).Error)
	assert.Equal(t, domain.TxInterestPayment, tx.Type)
	assert.InDelta(t, 35.0, tx.Amount, 0.001)

	var none int64
	db.Model(&models.Transaction{}).Where("account_id = ?", empty.ID).Count(&none)
	assert.Equal(t, int64(0), none)
}
