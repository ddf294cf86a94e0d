package services

import (
	"context"
	"errors"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"

	"gorm.io/gorm"
)

// Member service errors
var (
	ErrMemberNotFoundSvc  = errors.New("member not found")
	ErrInvalidStatusValue = errors.New("invalid membership status")
	ErrInvalidRoleValue   = errors.New("invalid role")
	ErrCannotChangeSelf   = errors.New("cannot change your own role or status")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// MemberService handles member management business logic
type MemberService struct {
	memberRepo    repositories.MemberRepository
	notifyService *NotificationService
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repositories.MemberRepository, notifyService *NotificationService) *MemberService {
	return &MemberService{
		memberRepo:    memberRepo,
		notifyService: notifyService,
	}
}

// GetProfile gets a member's own profile
func (s *MemberService) GetProfile(ctx context.Context, memberID uint) (*models.MemberResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFoundSvc
		}
		return nil, err
	}
	if !member.IsActive {
		return nil, ErrMemberInactive
	}
	return member.ToResponse(), nil
}

// UpdateProfileInput represents profile update input
type UpdateProfileInput struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

// UpdateProfile updates a member's own profile
func (s *MemberService) UpdateProfile(ctx context.Context, memberID uint, input *UpdateProfileInput) (*models.MemberResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFoundSvc
		}
		return nil, err
	}

	if input.Email != nil && *input.Email != member.Email {
		exists, err := s.memberRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailAlreadyExists
		}
		member.Email = *input.Email
	}
	if input.FullName != nil {
		member.FullName = *input.FullName
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member.ToResponse(), nil
}

// ChangeStatus transitions a member's membership status. The target status
// is checked against the membership allow-list; a transition to the current
// status is a no-op and succeeds (idempotent re-submission).
func (s *MemberService) ChangeStatus(ctx context.Context, memberID uint, status domain.MembershipStatus, adminID uint) (*models.MemberResponse, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatusValue
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFoundSvc
		}
		return nil, err
	}

	if member.MembershipStatus == status {
		return member.ToResponse(), nil
	}

	member.MembershipStatus = status
	if status == domain.MembershipApproved {
		now := time.Now()
		member.ApprovedAt = &now
		member.ApprovedBy = &adminID
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.NotifyMembershipStatus(member)
	}

	return member.ToResponse(), nil
}

// SetRole changes a member's role. Admins cannot change their own role.
func (s *MemberService) SetRole(ctx context.Context, memberID uint, role domain.Role, adminID uint) (*models.MemberResponse, error) {
	if !role.Valid() {
		return nil, ErrInvalidRoleValue
	}
	if memberID == adminID {
		return nil, ErrCannotChangeSelf
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFoundSvc
		}
		return nil, err
	}

	member.Role = role
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member.ToResponse(), nil
}

// Deactivate soft-deactivates a member account (no hard deletes)
func (s *MemberService) Deactivate(ctx context.Context, memberID uint, adminID uint) error {
	if memberID == adminID {
		return ErrCannotChangeSelf
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFoundSvc
		}
		return err
	}

	member.IsActive = false
	return s.memberRepo.Update(ctx, member)
}

// ListPending lists PENDING members ordered by join time ascending
func (s *MemberService) ListPending(ctx context.Context) ([]*models.MemberResponse, error) {
	members, err := s.memberRepo.ListByStatus(ctx, domain.MembershipPending)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, m.ToResponse())
	}
	return responses, nil
}

// ListMembersOutput represents paginated member listing
type ListMembersOutput struct {
	Members []*models.MemberResponse `json:"members"`
	Total   int64                    `json:"total"`
}

// ListMembers lists members with pagination
func (s *MemberService) ListMembers(ctx context.Context, offset, limit int) (*ListMembersOutput, error) {
	members, total, err := s.memberRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, m.ToResponse())
	}

	return &ListMembersOutput{Members: responses, Total: total}, nil
}
