package services

import (
	"context"
	"errors"
	"log"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"

	"gorm.io/gorm"
)

// Proposal service errors
var (
	ErrProposalNotFound   = errors.New("proposal not found")
	ErrProposalNotDraft   = errors.New("proposal is not in DRAFT status")
	ErrProposalNotActive  = errors.New("proposal is not open for voting")
	ErrVotingWindowClosed = errors.New("voting window is not open")
	ErrAlreadyVoted       = errors.New("member has already voted on this proposal")
	ErrInvalidVoteChoice  = errors.New("invalid vote choice")
	ErrInvalidWindow      = errors.New("voting window must close after it opens")
	ErrNotProposer        = errors.New("not the proposal owner")
)

// ProposalService handles governance proposal business logic
type ProposalService struct {
	proposalRepo *repositories.ProposalRepository
}

// NewProposalService creates a new proposal service
func NewProposalService(proposalRepo *repositories.ProposalRepository) *ProposalService {
	return &ProposalService{proposalRepo: proposalRepo}
}

// CreateProposalInput represents proposal creation input
type CreateProposalInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,max=50"`
}

// Create creates a new proposal in DRAFT status
func (s *ProposalService) Create(ctx context.Context, memberID uint, input *CreateProposalInput) (*models.Proposal, error) {
	proposal := &models.Proposal{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      domain.ProposalDraft,
		ProposedBy:  memberID,
	}

	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	return proposal, nil
}

// ActivateInput represents proposal activation input
type ActivateInput struct {
	OpensAt  time.Time `json:"opens_at" validate:"required"`
	ClosesAt time.Time `json:"closes_at" validate:"required"`
}

// Activate opens a DRAFT proposal for voting with the given window
func (s *ProposalService) Activate(ctx context.Context, proposalID uint, input *ActivateInput) (*models.Proposal, error) {
	if !input.ClosesAt.After(input.OpensAt) {
		return nil, ErrInvalidWindow
	}

	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}

	if proposal.Status == domain.ProposalActive {
		return proposal, nil
	}
	if proposal.Status != domain.ProposalDraft {
		return nil, ErrProposalNotDraft
	}

	proposal.Status = domain.ProposalActive
	proposal.OpensAt = &input.OpensAt
	proposal.ClosesAt = &input.ClosesAt

	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, err
	}

	log.Printf("✅ Proposal %d opened for voting until %s", proposal.ID, input.ClosesAt.Format(time.RFC3339))

	return proposal, nil
}

// ActivateOwn opens a member's own DRAFT proposal for voting. Admins use
// Activate directly and can open any proposal.
func (s *ProposalService) ActivateOwn(ctx context.Context, proposalID, memberID uint, input *ActivateInput) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}

	if proposal.ProposedBy != memberID {
		return nil, ErrNotProposer
	}

	return s.Activate(ctx, proposalID, input)
}

// VoteInput represents a vote input
type VoteInput struct {
	Choice string `json:"choice" validate:"required"`
}

// Vote casts a member's vote on an ACTIVE proposal. Each member votes at
// most once; the vote must land inside the voting window.
func (s *ProposalService) Vote(ctx context.Context, proposalID, memberID uint, input *VoteInput) (*models.Proposal, error) {
	choice := domain.VoteChoice(input.Choice)
	if !choice.Valid() {
		return nil, ErrInvalidVoteChoice
	}

	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}

	if proposal.Status != domain.ProposalActive {
		return nil, ErrProposalNotActive
	}
	if proposal.OpensAt == nil || proposal.ClosesAt == nil {
		return nil, ErrVotingWindowClosed
	}
	window := domain.VotingWindow{OpensAt: *proposal.OpensAt, ClosesAt: *proposal.ClosesAt}
	if !window.Open(time.Now()) {
		return nil, ErrVotingWindowClosed
	}

	if _, err := s.proposalRepo.GetVote(ctx, proposalID, memberID); err == nil {
		return nil, ErrAlreadyVoted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	vote := &models.Vote{
		ProposalID: proposalID,
		MemberID:   memberID,
		Choice:     choice,
	}
	if err := s.proposalRepo.CastVote(ctx, vote); err != nil {
		return nil, err
	}

	return s.proposalRepo.GetByID(ctx, proposalID)
}

// Cancel cancels a proposal that has not completed
func (s *ProposalService) Cancel(ctx context.Context, proposalID uint) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}

	if proposal.Status == domain.ProposalCancelled {
		return proposal, nil
	}
	if proposal.Status == domain.ProposalCompleted {
		return nil, ErrProposalNotActive
	}

	proposal.Status = domain.ProposalCancelled
	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, err
	}

	return proposal, nil
}

// Get gets a proposal by ID
func (s *ProposalService) Get(ctx context.Context, proposalID uint) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return proposal, nil
}

// ListProposalsOutput represents paginated proposal listing
type ListProposalsOutput struct {
	Proposals []*models.Proposal `json:"proposals"`
	Total     int64              `json:"total"`
}

// List lists proposals with pagination, newest first
func (s *ProposalService) List(ctx context.Context, offset, limit int) (*ListProposalsOutput, error) {
	proposals, total, err := s.proposalRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ListProposalsOutput{Proposals: proposals, Total: total}, nil
}

// CloseExpired completes ACTIVE proposals whose voting window has closed.
// Called by the cron service daily.
func (s *ProposalService) CloseExpired(ctx context.Context) (int, error) {
	proposals, err := s.proposalRepo.ListExpiredActive(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, proposal := range proposals {
		proposal.Status = domain.ProposalCompleted
		if err := s.proposalRepo.Update(ctx, proposal); err != nil {
			return closed, err
		}
		closed++
	}

	if closed > 0 {
		log.Printf("✅ Closed %d expired proposal(s)", closed)
	}

	return closed, nil
}
