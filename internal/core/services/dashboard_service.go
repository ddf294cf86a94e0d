package services

import (
	"context"
	"encoding/json"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

const (
	dashboardCacheKey = "saccohub:dashboard:summary"
	dashboardCacheTTL = 60 * time.Second
)

// DashboardService aggregates cooperative-wide figures for the admin dashboard
type DashboardService struct {
	memberRepo  repositories.MemberRepository
	savingsRepo *repositories.SavingsRepository
	loanRepo    *repositories.LoanRepository
	txRepo      *repositories.TransactionRepository
	cache       *redis.Client // nil means caching disabled
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	memberRepo repositories.MemberRepository,
	savingsRepo *repositories.SavingsRepository,
	loanRepo *repositories.LoanRepository,
	txRepo *repositories.TransactionRepository,
	cache *redis.Client,
) *DashboardService {
	return &DashboardService{
		memberRepo:  memberRepo,
		savingsRepo: savingsRepo,
		loanRepo:    loanRepo,
		txRepo:      txRepo,
		cache:       cache,
	}
}

// DashboardSummary represents the admin dashboard aggregates
type DashboardSummary struct {
	ApprovedMembers    int64   `json:"approved_members"`
	PendingMembers     int64   `json:"pending_members"`
	TotalSavings       float64 `json:"total_savings"`
	PendingLoans       int64   `json:"pending_loans"`
	DisbursedLoans     int64   `json:"disbursed_loans"`
	DisbursedPrincipal float64 `json:"disbursed_principal"`
	TransactionsToday  int64   `json:"transactions_today"`
	GeneratedAt        string  `json:"generated_at"`
}

// GetSummary computes the dashboard aggregates, serving from the cache when
// a fresh copy exists
func (s *DashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var summary DashboardSummary
			if json.Unmarshal(cached, &summary) == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.computeSummary(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			// Cache failures are non-fatal; the next request recomputes
			s.cache.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL)
		}
	}

	return summary, nil
}

func (s *DashboardService) computeSummary(ctx context.Context) (*DashboardSummary, error) {
	approved, err := s.memberRepo.CountByStatus(ctx, domain.MembershipApproved)
	if err != nil {
		return nil, err
	}

	pending, err := s.memberRepo.CountByStatus(ctx, domain.MembershipPending)
	if err != nil {
		return nil, err
	}

	totalSavings, err := s.savingsRepo.TotalBalance(ctx)
	if err != nil {
		return nil, err
	}

	pendingLoans, err := s.loanRepo.CountByStatus(ctx, domain.LoanPending)
	if err != nil {
		return nil, err
	}

	disbursedLoans, err := s.loanRepo.CountByStatus(ctx, domain.LoanDisbursed)
	if err != nil {
		return nil, err
	}

	disbursedPrincipal, err := s.loanRepo.TotalPrincipalByStatus(ctx, domain.LoanDisbursed)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	txToday, err := s.txRepo.CountSince(ctx, midnight)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		ApprovedMembers:    approved,
		PendingMembers:     pending,
		TotalSavings:       totalSavings,
		PendingLoans:       pendingLoans,
		DisbursedLoans:     disbursedLoans,
		DisbursedPrincipal: disbursedPrincipal,
		TransactionsToday:  txToday,
		GeneratedAt:        now.Format(time.RFC3339),
	}, nil
}

// RecentTransactions lists the most recent transactions with member names
func (s *DashboardService) RecentTransactions(ctx context.Context, limit int) ([]*models.TransactionResponse, error) {
	txs, err := s.txRepo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, tx.ToResponse())
	}
	return responses, nil
}
