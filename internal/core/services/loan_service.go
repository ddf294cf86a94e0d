package services

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Loan service errors
var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrInvalidLoanAction = errors.New("invalid loan action")
	ErrInvalidLoanStatus = errors.New("invalid loan status")
	ErrLoanAlreadyFinal  = errors.New("loan application already decided")
	ErrLoanNotApproved   = errors.New("loan is not in APPROVED status")
	ErrLoanNotDisbursed  = errors.New("loan is not in DISBURSED status")
	ErrInvalidLoanTerms  = errors.New("invalid loan terms")
	ErrNotLoanOwner      = errors.New("not the loan owner")
)

// Default annual loan interest rate (percent)
const defaultLoanRate = 12.0

// LoanService handles loan business logic
type LoanService struct {
	loanRepo      *repositories.LoanRepository
	notifyService *NotificationService
}

// NewLoanService creates a new loan service
func NewLoanService(loanRepo *repositories.LoanRepository, notifyService *NotificationService) *LoanService {
	return &LoanService{
		loanRepo:      loanRepo,
		notifyService: notifyService,
	}
}

// ApplyLoanInput represents a loan application input
type ApplyLoanInput struct {
	Principal  float64 `json:"principal" validate:"required,gt=0"`
	TermMonths int     `json:"term_months" validate:"required,min=1,max=120"`
	Purpose    string  `json:"purpose" validate:"required,max=500"`
}

// Apply submits a new loan application in PENDING status
func (s *LoanService) Apply(ctx context.Context, memberID uint, input *ApplyLoanInput) (*models.LoanResponse, error) {
	if input.Principal <= 0 || input.TermMonths < 1 || input.TermMonths > 120 {
		return nil, ErrInvalidLoanTerms
	}

	loan := &models.Loan{
		MemberID:         memberID,
		LoanNo:           newLoanNo(),
		Principal:        input.Principal,
		InterestRate:     defaultLoanRate,
		TermMonths:       input.TermMonths,
		Status:           domain.LoanPending,
		MonthlyPayment:   monthlyPayment(input.Principal, defaultLoanRate, input.TermMonths),
		RemainingBalance: input.Principal,
		Purpose:          input.Purpose,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan application submitted: %s (%.2f over %d months)", loan.LoanNo, loan.Principal, loan.TermMonths)

	return loan.ToResponse(), nil
}

// Decide applies an admin approve/reject decision to a PENDING application.
// Re-submitting the decision the application already reached is a no-op and
// succeeds; asking for the opposite final state fails with a conflict.
func (s *LoanService) Decide(ctx context.Context, loanID uint, action domain.LoanAction, adminID uint, remark string) (*models.LoanResponse, error) {
	if !action.Valid() {
		return nil, ErrInvalidLoanAction
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	if loan.Status.Final() {
		if loan.Status == action.Status() {
			return loan.ToResponse(), nil
		}
		return nil, ErrLoanAlreadyFinal
	}

	now := time.Now()
	loan.Status = action.Status()
	loan.ProcessedBy = &adminID
	loan.ProcessedAt = &now
	if remark != "" {
		loan.Remark = remark
	}

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan %s %s by admin ID %d", loan.LoanNo, loan.Status, adminID)

	if s.notifyService != nil {
		s.notifyService.NotifyLoanDecision(loan)
	}

	return loan.ToResponse(), nil
}

// Disburse marks an APPROVED loan as DISBURSED and records the payout
func (s *LoanService) Disburse(ctx context.Context, loanID uint, adminID uint) (*models.LoanResponse, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	if loan.Status == domain.LoanDisbursed {
		return loan.ToResponse(), nil
	}
	if loan.Status != domain.LoanApproved {
		return nil, ErrLoanNotApproved
	}

	loan.Status = domain.LoanDisbursed
	tx := &models.Transaction{
		Reference:   newTxReference(),
		MemberID:    loan.MemberID,
		LoanID:      &loan.ID,
		Type:        domain.TxLoanDisbursement,
		Status:      domain.TxStatusCompleted,
		Amount:      loan.Principal,
		Description: "Disbursement of loan " + loan.LoanNo,
		PerformedBy: adminID,
	}
	if err := s.loanRepo.ApplyMovement(ctx, loan, tx); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan %s disbursed (%.2f)", loan.LoanNo, loan.Principal)

	return loan.ToResponse(), nil
}

// RepayInput represents a loan repayment input
type RepayInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Repay records a repayment against a DISBURSED loan. The loan moves to
// COMPLETED once the remaining balance reaches zero.
func (s *LoanService) Repay(ctx context.Context, loanID, memberID uint, input *RepayInput) (*models.LoanResponse, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	if loan.MemberID != memberID {
		return nil, ErrNotLoanOwner
	}

	return s.applyRepayment(ctx, loan, input.Amount, memberID)
}

// RecordRepayment records a repayment collected at the counter by a
// treasurer on the member's behalf
func (s *LoanService) RecordRepayment(ctx context.Context, loanID, recordedBy uint, input *RepayInput) (*models.LoanResponse, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	return s.applyRepayment(ctx, loan, input.Amount, recordedBy)
}

// applyRepayment reduces the remaining balance and writes the repayment
// transaction atomically. Overpayment is clamped to the remaining balance.
func (s *LoanService) applyRepayment(ctx context.Context, loan *models.Loan, amount float64, performedBy uint) (*models.LoanResponse, error) {
	if loan.Status != domain.LoanDisbursed {
		return nil, ErrLoanNotDisbursed
	}

	applied := math.Min(amount, loan.RemainingBalance)
	loan.RemainingBalance -= applied
	if loan.RemainingBalance <= 0 {
		loan.RemainingBalance = 0
		loan.Status = domain.LoanCompleted
	}

	tx := &models.Transaction{
		Reference:   newTxReference(),
		MemberID:    loan.MemberID,
		LoanID:      &loan.ID,
		Type:        domain.TxLoanRepayment,
		Status:      domain.TxStatusCompleted,
		Amount:      applied,
		Description: "Repayment of loan " + loan.LoanNo,
		PerformedBy: performedBy,
	}
	if err := s.loanRepo.ApplyMovement(ctx, loan, tx); err != nil {
		return nil, err
	}

	return loan.ToResponse(), nil
}

// GetMyLoans lists a member's loans, newest first
func (s *LoanService) GetMyLoans(ctx context.Context, memberID uint) ([]*models.LoanResponse, error) {
	loans, err := s.loanRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.LoanResponse, 0, len(loans))
	for _, l := range loans {
		responses = append(responses, l.ToResponse())
	}
	return responses, nil
}

// ListApplications lists loan applications in a status, oldest first
func (s *LoanService) ListApplications(ctx context.Context, status domain.LoanStatus) ([]*models.LoanResponse, error) {
	if !status.Valid() {
		return nil, ErrInvalidLoanStatus
	}

	loans, err := s.loanRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.LoanResponse, 0, len(loans))
	for _, l := range loans {
		responses = append(responses, l.ToResponse())
	}
	return responses, nil
}

// ListLoansOutput represents paginated loan listing
type ListLoansOutput struct {
	Loans []*models.LoanResponse `json:"loans"`
	Total int64                  `json:"total"`
}

// ListLoans lists all loans with pagination
func (s *LoanService) ListLoans(ctx context.Context, offset, limit int) (*ListLoansOutput, error) {
	loans, total, err := s.loanRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.LoanResponse, 0, len(loans))
	for _, l := range loans {
		responses = append(responses, l.ToResponse())
	}
	return &ListLoansOutput{Loans: responses, Total: total}, nil
}

// monthlyPayment computes the amortized monthly payment for a principal at
// an annual rate (percent) over termMonths
func monthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	r := annualRate / 100 / 12
	if r == 0 {
		return round2(principal / float64(termMonths))
	}
	factor := math.Pow(1+r, float64(termMonths))
	return round2(principal * r * factor / (factor - 1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// newLoanNo generates a loan number
func newLoanNo() string {
	return "LN-" + strings.ToUpper(uuid.New().String()[:8])
}
