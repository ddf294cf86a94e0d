package handlers

import (
	"errors"
	"strings"
	"time"

	"saccohub/internal/config"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"
	"saccohub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService   *services.AuthService
	memberService *services.MemberService
	cfg           *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, memberService *services.MemberService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		memberService: memberService,
		cfg:           cfg,
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles member registration
// @Summary Register new member
// @Description Register a new member; the membership starts PENDING until an admin approves it
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	input := &services.RegisterInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Password: req.Password,
	}

	member, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 8 characters")
		case errors.Is(err, services.ErrMemberExists):
			return response.Conflict(c, "Username or email already exists")
		default:
			return response.InternalServerError(c, "Failed to register member")
		}
	}

	return response.Created(c, "Registration received, membership pending approval", fiber.Map{
		"member": member,
	})
}

// Login handles member login
// @Summary Login member
// @Description Authenticate an approved member and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	input := &services.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid username or password")
		case errors.Is(err, services.ErrMemberInactive):
			return response.Forbidden(c, "Member account is deactivated")
		case errors.Is(err, services.ErrMembershipNotOpen):
			return response.Forbidden(c, "Membership is not approved yet")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"member":        result.Member,
	})
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Refresh the access token using the refresh token (rotation)
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	result, err := h.authService.RefreshToken(c.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenExpired):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token expired, please login again")
		case errors.Is(err, services.ErrTokenRevoked):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token revoked, please login again")
		case errors.Is(err, services.ErrInvalidToken):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Invalid refresh token")
		case errors.Is(err, services.ErrMemberInactive), errors.Is(err, services.ErrMembershipNotOpen):
			h.clearAuthCookies(c)
			return response.Forbidden(c, "Membership is not in good standing")
		default:
			return response.InternalServerError(c, "Failed to refresh token")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"member":        result.Member,
	})
}

// Logout handles member logout
// @Summary Logout member
// @Description Logout and revoke the refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" {
		_ = h.authService.Logout(c.Context(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// LogoutAll handles logout from all devices
// @Summary Logout from all devices
// @Description Revoke all refresh tokens for the member
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.authService.LogoutAll(c.Context(), memberID); err != nil {
		return response.InternalServerError(c, "Failed to logout from all devices")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out from all devices", nil)
}

// Me returns the member behind the presented access token
// @Summary Current member
// @Description Return the authenticated member's profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	member, err := h.memberService.GetProfile(c.Context(), memberID)
	if err != nil {
		switch {
		// A deleted or deactivated account no longer has a valid session
		case errors.Is(err, services.ErrMemberNotFoundSvc), errors.Is(err, services.ErrMemberInactive):
			return response.Unauthorized(c, "Session is no longer valid")
		default:
			return response.InternalServerError(c, "Failed to load profile")
		}
	}

	return response.Success(c, "Profile retrieved", fiber.Map{
		"member": member,
	})
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-1 * time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  expired,
			Secure:   h.cfg.IsProd(),
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}
}
