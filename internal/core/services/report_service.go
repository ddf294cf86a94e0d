package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
)

// Report service errors
var (
	ErrInvalidReportType = errors.New("invalid report type")
	ErrInvalidPeriod     = errors.New("invalid report period, expected YYYY-MM")
)

// ReportType identifies an admin report
type ReportType string

const (
	ReportMembershipSummary ReportType = "membership_summary"
	ReportLoanPortfolio     ReportType = "loan_portfolio"
	ReportSavingsOverview   ReportType = "savings_overview"
)

// Valid reports whether the report type is known
func (t ReportType) Valid() bool {
	switch t {
	case ReportMembershipSummary, ReportLoanPortfolio, ReportSavingsOverview:
		return true
	}
	return false
}

// ReportService builds admin reports from stored figures
type ReportService struct {
	memberRepo  repositories.MemberRepository
	savingsRepo *repositories.SavingsRepository
	loanRepo    *repositories.LoanRepository
	txRepo      *repositories.TransactionRepository
}

// NewReportService creates a new report service
func NewReportService(
	memberRepo repositories.MemberRepository,
	savingsRepo *repositories.SavingsRepository,
	loanRepo *repositories.LoanRepository,
	txRepo *repositories.TransactionRepository,
) *ReportService {
	return &ReportService{
		memberRepo:  memberRepo,
		savingsRepo: savingsRepo,
		loanRepo:    loanRepo,
		txRepo:      txRepo,
	}
}

// GenerateReportInput represents report generation input
type GenerateReportInput struct {
	ReportType string `json:"report_type" validate:"required"`
	Period     string `json:"period" validate:"required"` // YYYY-MM
}

// Report represents a generated report document
type Report struct {
	Filename string
	Content  []byte
}

// Generate builds the requested report for the given period as a plain-text
// document
func (s *ReportService) Generate(ctx context.Context, input *GenerateReportInput) (*Report, error) {
	reportType := ReportType(input.ReportType)
	if !reportType.Valid() {
		return nil, ErrInvalidReportType
	}

	period, err := time.Parse("2006-01", input.Period)
	if err != nil {
		return nil, ErrInvalidPeriod
	}

	var body string
	switch reportType {
	case ReportMembershipSummary:
		body, err = s.membershipSummary(ctx)
	case ReportLoanPortfolio:
		body, err = s.loanPortfolio(ctx)
	case ReportSavingsOverview:
		body, err = s.savingsOverview(ctx, period)
	}
	if err != nil {
		return nil, err
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "SACCOHUB %s REPORT\n", strings.ToUpper(strings.ReplaceAll(string(reportType), "_", " ")))
	fmt.Fprintf(&doc, "Period:    %s\n", period.Format("January 2006"))
	fmt.Fprintf(&doc, "Generated: %s\n", time.Now().Format(time.RFC3339))
	doc.WriteString(strings.Repeat("=", 48) + "\n\n")
	doc.WriteString(body)

	filename := fmt.Sprintf("%s_%s.txt", reportType, period.Format("2006-01"))

	return &Report{Filename: filename, Content: []byte(doc.String())}, nil
}

func (s *ReportService) membershipSummary(ctx context.Context) (string, error) {
	var doc strings.Builder
	for _, status := range []domain.MembershipStatus{
		domain.MembershipPending,
		domain.MembershipApproved,
		domain.MembershipSuspended,
		domain.MembershipTerminated,
	} {
		count, err := s.memberRepo.CountByStatus(ctx, status)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&doc, "%-12s %d\n", status, count)
	}
	return doc.String(), nil
}

func (s *ReportService) loanPortfolio(ctx context.Context) (string, error) {
	var doc strings.Builder
	for _, status := range []domain.LoanStatus{
		domain.LoanPending,
		domain.LoanApproved,
		domain.LoanDisbursed,
		domain.LoanCompleted,
		domain.LoanRejected,
		domain.LoanDefaulted,
	} {
		count, err := s.loanRepo.CountByStatus(ctx, status)
		if err != nil {
			return "", err
		}
		total, err := s.loanRepo.TotalPrincipalByStatus(ctx, status)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&doc, "%-12s %4d loans, principal %12.2f\n", status, count, total)
	}
	return doc.String(), nil
}

func (s *ReportService) savingsOverview(ctx context.Context, period time.Time) (string, error) {
	total, err := s.savingsRepo.TotalBalance(ctx)
	if err != nil {
		return "", err
	}

	monthStart := time.Date(period.Year(), period.Month(), 1, 0, 0, 0, 0, time.UTC)
	txCount, err := s.txRepo.CountSince(ctx, monthStart)
	if err != nil {
		return "", err
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "Total savings balance:       %12.2f\n", total)
	fmt.Fprintf(&doc, "Transactions since %s: %d\n", monthStart.Format("2006-01-02"), txCount)
	return doc.String(), nil
}
