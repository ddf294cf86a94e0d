package services

import (
	"context"
	"log"

	"saccohub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron             *cron.Cron
	savingsService   *SavingsService
	proposalService  *ProposalService
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(
	savingsService *SavingsService,
	proposalService *ProposalService,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		savingsService:   savingsService,
		proposalService:  proposalService,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	// Monthly savings interest, first day of the month at 01:00
	if _, err := s.cron.AddFunc("0 1 1 * *", s.runInterestAccrual); err != nil {
		return err
	}

	// Close expired proposal voting windows, daily at 00:05
	if _, err := s.cron.AddFunc("5 0 * * *", s.runProposalClose); err != nil {
		return err
	}

	// Purge expired refresh tokens, daily at 02:00
	if _, err := s.cron.AddFunc("0 2 * * *", s.runTokenCleanup); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron jobs scheduled")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron jobs stopped")
}

func (s *CronService) runInterestAccrual() {
	count, err := s.savingsService.AccrueMonthlyInterest(context.Background())
	if err != nil {
		log.Printf("⚠️ Interest accrual failed after %d account(s): %v", count, err)
		return
	}
	log.Printf("✅ Interest accrued on %d account(s)", count)
}

func (s *CronService) runProposalClose() {
	if _, err := s.proposalService.CloseExpired(context.Background()); err != nil {
		log.Printf("⚠️ Proposal close job failed: %v", err)
	}
}

func (s *CronService) runTokenCleanup() {
	if err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("⚠️ Refresh token cleanup failed: %v", err)
	}
}
