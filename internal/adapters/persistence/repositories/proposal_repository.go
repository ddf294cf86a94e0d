package repositories

import (
	"context"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/core/domain"

	"gorm.io/gorm"
)

// ProposalRepository handles governance proposal data access
type ProposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new proposal repository
func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create creates a new proposal
func (r *ProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

// GetByID gets a proposal by ID with the proposer relation
func (r *ProposalRepository) GetByID(ctx context.Context, id uint) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).
		Preload("Proposer").
		First(&proposal, id).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// List lists proposals with pagination, newest first
func (r *ProposalRepository) List(ctx context.Context, offset, limit int) ([]*models.Proposal, int64, error) {
	var proposals []*models.Proposal
	var total int64

	r.db.WithContext(ctx).Model(&models.Proposal{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Proposer").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&proposals).Error

	return proposals, total, err
}

// ListExpiredActive lists ACTIVE proposals whose voting window closed before now
func (r *ProposalRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.ProposalActive).
		Where("closes_at IS NOT NULL AND closes_at <= ?", now).
		Find(&proposals).Error
	return proposals, err
}

// Update updates a proposal
func (r *ProposalRepository) Update(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Save(proposal).Error
}

// GetVote gets a member's vote on a proposal, nil when absent
func (r *ProposalRepository) GetVote(ctx context.Context, proposalID, memberID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("proposal_id = ? AND member_id = ?", proposalID, memberID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// CastVote records a vote and bumps the proposal tally in one DB transaction
func (r *ProposalRepository) CastVote(ctx context.Context, vote *models.Vote) error {
	column := map[domain.VoteChoice]string{
		domain.VoteFor:     "votes_for",
		domain.VoteAgainst: "votes_against",
		domain.VoteAbstain: "votes_abstain",
	}[vote.Choice]

	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Create(vote).Error; err != nil {
			return err
		}
		return dbtx.Model(&models.Proposal{}).
			Where("id = ?", vote.ProposalID).
			Update(column, gorm.Expr(column+" + 1")).Error
	})
}
