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

func newDashboardService(db *gorm.DB) *DashboardService {
	return NewDashboardService(
		repositories.NewMemberRepository(db),
		repositories.NewSavingsRepository(db),
		repositories.NewLoanRepository(db),
		repositories.NewTransactionRepository(db),
		nil, // cache disabled
	)
}

func TestGetSummary(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)

	approved := seedMember(t, db, "alice", domain.RoleMember)
	pending := seedMember(t, db, "bob", domain.RoleMember)
	require.NoError(t, db.Model(&models.Member{}).Where("id = ?", pending.ID).
		Update("membership_status", domain.MembershipPending).Error)

	seedAccount(t, db, approved.ID, 1500)
	seedAccount(t, db, approved.ID, 500)
	seedLoan(t, db, approved.ID, domain.LoanPending)
	seedLoan(t, db, approved.ID, domain.LoanDisbursed)

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.ApprovedMembers)
	assert.Equal(t, int64(1), summary.PendingMembers)
	assert.Equal(t, 2000.0, summary.TotalSavings)
	assert.Equal(t, int64(1), summary.PendingLoans)
	assert.Equal(t, int64(1), summary.DisbursedLoans)
	assert.Equal(t, 10000.0, summary.DisbursedPrincipal)
	assert.NotEmpty(t, summary.GeneratedAt)
}

func TestRecentTransactionsLimit(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	member := seedMember(t, db, "saver", domain.RoleMember)

	for i := 0; i < 5; i++ {
		tx := &models.Transaction{
			Reference:   newTxReference(),
			MemberID:    member.ID,
			Type:        domain.TxDeposit,
			Status:      domain.TxStatusCompleted,
			Amount:      100,
			PerformedBy: member.ID,
		}
		require.NoError(t, db.Create(tx).Error)
	}

	txs, err := svc.RecentTransactions(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, txs, 3)
	assert.Equal(t, "Test saver", txs[0].MemberName)
}
