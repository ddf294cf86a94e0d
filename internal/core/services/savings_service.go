package services

import (
	"context"
	"errors"
	"strings"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Savings service errors
var (
	ErrAccountNotFound    = errors.New("savings account not found")
	ErrAccountInactive    = errors.New("savings account is closed")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNotAccountOwner    = errors.New("not the account owner")
)

// Default annual interest rates per account type (percent)
var defaultInterestRates = map[domain.AccountType]float64{
	domain.AccountRegular:      3.5,
	domain.AccountFixedDeposit: 7.0,
	domain.AccountEmergency:    2.0,
}

// SavingsService handles savings account business logic
type SavingsService struct {
	savingsRepo *repositories.SavingsRepository
	memberRepo  repositories.MemberRepository
}

// NewSavingsService creates a new savings service
func NewSavingsService(savingsRepo *repositories.SavingsRepository, memberRepo repositories.MemberRepository) *SavingsService {
	return &SavingsService{
		savingsRepo: savingsRepo,
		memberRepo:  memberRepo,
	}
}

// OpenAccountInput represents account opening input
type OpenAccountInput struct {
	AccountType string `json:"account_type" validate:"required"`
}

// OpenAccount opens a new savings account for a member
func (s *SavingsService) OpenAccount(ctx context.Context, memberID uint, input *OpenAccountInput) (*models.SavingsAccount, error) {
	accountType := domain.AccountType(input.AccountType)
	if !accountType.Valid() {
		return nil, ErrInvalidAccountType
	}

	account := &models.SavingsAccount{
		MemberID:     memberID,
		AccountNo:    newAccountNo(),
		AccountType:  accountType,
		Balance:      0,
		InterestRate: defaultInterestRates[accountType],
		IsActive:     true,
	}

	if err := s.savingsRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetMyAccounts lists a member's savings accounts
func (s *SavingsService) GetMyAccounts(ctx context.Context, memberID uint) ([]*models.SavingsAccount, error) {
	return s.savingsRepo.GetByMemberID(ctx, memberID)
}

// MovementInput represents a deposit or withdrawal input
type MovementInput struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description,omitempty"`
}

// Deposit credits an account and records a COMPLETED transaction
func (s *SavingsService) Deposit(ctx context.Context, accountID, memberID uint, input *MovementInput) (*models.Transaction, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	account, err := s.ownedActiveAccount(ctx, accountID, memberID)
	if err != nil {
		return nil, err
	}

	account.Balance += input.Amount

	tx := &models.Transaction{
		Reference:   newTxReference(),
		MemberID:    memberID,
		AccountID:   &account.ID,
		Type:        domain.TxDeposit,
		Status:      domain.TxStatusCompleted,
		Amount:      input.Amount,
		Description: input.Description,
		PerformedBy: memberID,
	}

	if err := s.savingsRepo.ApplyMovement(ctx, account, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Withdraw debits an account and records a COMPLETED transaction
func (s *SavingsService) Withdraw(ctx context.Context, accountID, memberID uint, input *MovementInput) (*models.Transaction, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	account, err := s.ownedActiveAccount(ctx, accountID, memberID)
	if err != nil {
		return nil, err
	}

	if account.Balance < input.Amount {
		return nil, ErrInsufficientFunds
	}

	account.Balance -= input.Amount

	tx := &models.Transaction{
		Reference:   newTxReference(),
		MemberID:    memberID,
		AccountID:   &account.ID,
		Type:        domain.TxWithdrawal,
		Status:      domain.TxStatusCompleted,
		Amount:      input.Amount,
		Description: input.Description,
		PerformedBy: memberID,
	}

	if err := s.savingsRepo.ApplyMovement(ctx, account, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// AccrueMonthlyInterest posts one month of interest on every active account.
// Called by the cron service on the first day of the month.
func (s *SavingsService) AccrueMonthlyInterest(ctx context.Context) (int, error) {
	accounts, err := s.savingsRepo.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	accrued := 0
	for _, account := range accounts {
		if account.Balance <= 0 || account.InterestRate <= 0 {
			continue
		}

		interest := account.Balance * account.InterestRate / 100 / 12
		account.AccruedInterest += interest

		tx := &models.Transaction{
			Reference:   newTxReference(),
			MemberID:    account.MemberID,
			AccountID:   &account.ID,
			Type:        domain.TxInterestPayment,
			Status:      domain.TxStatusCompleted,
			Amount:      interest,
			Description: "Monthly interest accrual",
			PerformedBy: account.MemberID,
		}

		if err := s.savingsRepo.ApplyMovement(ctx, account, tx); err != nil {
			return accrued, err
		}
		accrued++
	}

	return accrued, nil
}

// ownedActiveAccount loads an account and checks ownership and state
func (s *SavingsService) ownedActiveAccount(ctx context.Context, accountID, memberID uint) (*models.SavingsAccount, error) {
	account, err := s.savingsRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if account.MemberID != memberID {
		return nil, ErrNotAccountOwner
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	return account, nil
}

// newAccountNo generates a savings account number
func newAccountNo() string {
	return "SAV-" + strings.ToUpper(uuid.New().String()[:8])
}

// newTxReference generates a unique transaction reference
func newTxReference() string {
	return uuid.New().String()
}
