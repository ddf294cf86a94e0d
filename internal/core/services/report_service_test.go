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

func newReportService(db *gorm.DB) *ReportService {
	return NewReportService(
		repositories.NewMemberRepository(db),
		repositories.NewSavingsRepository(db),
		repositories.NewLoanRepository(db),
		repositories.NewTransactionRepository(db),
	)
}

func TestGenerateRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	_, err := svc.Generate(context.Background(), &GenerateReportInput{
		ReportType: "quarterly_earnings",
		Period:     "2026-08",
	})
	assert.ErrorIs(t, err, ErrInvalidReportType)
}

func TestGenerateRejectsBadPeriod(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	for _, period := range []string{"August 2026", "2026-13", "2026", ""} {
		_, err := svc.Generate(context.Background(), &GenerateReportInput{
			ReportType: "membership_summary",
			Period:     period,
		})
		assert.ErrorIs(t, err, ErrInvalidPeriod, "period %q", period)
	}
}

func TestGenerateMembershipSummary(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	seedMember(t, db, "alice", domain.RoleMember)
	pending := seedMember(t, db, "bob", domain.RoleMember)
	require.NoError(t, db.Model(&models.Member{}).Where("id = ?", pending.ID).
		Update("membership_status", domain.MembershipPending).Error)

	report, err := svc.Generate(context.Background(), &GenerateReportInput{
		ReportType: "membership_summary",
		Period:     "2026-08",
	})
	require.NoError(t, err)

	assert.Equal(t, "membership_summary_2026-08.txt", report.Filename)

	content := string(report.Content)
	assert.Contains(t, content, "SACCOHUB MEMBERSHIP SUMMARY REPORT")
	assert.Contains(t, content, "Period:    August 2026")
	assert.Contains(t, content, "APPROVED")
	assert.Contains(t, content, "PENDING")
}

func TestGenerateLoanPortfolio(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	member := seedMember(t, db, "borrower", domain.RoleMember)
	seedLoan(t, db, member.ID, domain.LoanDisbursed)

	report, err := svc.Generate(context.Background(), &GenerateReportInput{
		ReportType: "loan_portfolio",
		Period:     "2026-08",
	})
	require.NoError(t, err)

	assert.Equal(t, "loan_portfolio_2026-08.txt", report.Filename)
	assert.Contains(t, string(report.Content), "DISBURSED")
}

func TestGenerateSavingsOverview(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	member := seedMember(t, db, "saver", domain.RoleMember)
	seedAccount(t, db, member.ID, 2500)

	report, err := svc.Generate(context.Background(), &GenerateReportInput{
		ReportType: "savings_overview",
		Period:     "2026-08",
	})
	require.NoError(t, err)

	assert.Equal(t, "savings_overview_2026-08.txt", report.Filename)
	assert.Contains(t, string(report.Content), "2500.00")
}
