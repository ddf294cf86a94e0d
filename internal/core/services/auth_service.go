package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/config"
	"saccohub/internal/core/domain"
	"saccohub/internal/pkg/jwt"
	"saccohub/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMemberExists       = errors.New("member already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrMemberInactive     = errors.New("member account is deactivated")
	ErrMembershipNotOpen  = errors.New("membership is not approved")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// AuthService handles authentication business logic
type AuthService struct {
	memberRepo       repositories.MemberRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	memberRepo repositories.MemberRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		memberRepo:       memberRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Member       *models.MemberResponse `json:"member"`
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
}

// Register registers a new member. The account starts PENDING and cannot
// log in until an admin approves the membership.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.MemberResponse, error) {
	if !password.Acceptable(input.Password) {
		return nil, ErrWeakPassword
	}

	// 1. Check if username already exists
	exists, err := s.memberRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMemberExists
	}

	// 2. Check if email already exists
	exists, err = s.memberRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMemberExists
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 4. Create member
	member := &models.Member{
		MemberNo:         newMemberNo(),
		Username:         input.Username,
		Email:            input.Email,
		FullName:         input.FullName,
		Password:         hashedPassword,
		Role:             domain.RoleMember,
		MembershipStatus: domain.MembershipPending,
		IsActive:         true,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	log.Printf("✅ Member registered: %s (MemberNo: %s, status PENDING)", member.Username, member.MemberNo)

	return member.ToResponse(), nil
}

// Login authenticates a member
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find member by username
	member, err := s.memberRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check account state
	if !member.IsActive {
		return nil, ErrMemberInactive
	}
	if member.MembershipStatus != domain.MembershipApproved {
		return nil, ErrMembershipNotOpen
	}

	// 3. Verify password
	if !password.Verify(input.Password, member.Password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Generate tokens
	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}

	// 5. Store refresh token
	if err := s.storeRefreshToken(ctx, member.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Member logged in: %s", member.Username)

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken refreshes the access token using refresh token (with rotation)
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	// 2. Find the stored token by hash
	tokenHash := password.HashToken(refreshToken)
	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// 3. Check revocation and expiry
	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	// 4. Get member and re-check account state
	member, err := s.memberRepo.GetByID(ctx, claims.MemberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	if !member.IsActive {
		return nil, ErrMemberInactive
	}
	if member.MembershipStatus != domain.MembershipApproved {
		return nil, ErrMembershipNotOpen
	}

	// 5. Revoke old refresh token (Token Rotation)
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	// 6. Generate and store new tokens
	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, member.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for member: %s", member.Username)

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return err
	}
	log.Printf("✅ Member logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a member
func (s *AuthService) LogoutAll(ctx context.Context, memberID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByMemberID(ctx, memberID); err != nil {
		return err
	}
	log.Printf("✅ All sessions revoked for member ID: %d", memberID)
	return nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(member *models.Member) (*domain.TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		member.ID,
		member.MemberNo,
		member.Username,
		member.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		member.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, memberID uint, refreshToken string) error {
	token := &models.RefreshToken{
		MemberID:  memberID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}

// newMemberNo generates a member number
func newMemberNo() string {
	return "SCH-" + strings.ToUpper(uuid.New().String()[:8])
}
