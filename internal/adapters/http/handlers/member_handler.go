package handlers

import (
	"errors"

	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member self-service endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// GetProfile returns the authenticated member's profile
// @Summary Get own profile
// @Description Get the currently authenticated member's profile
// @Tags Member
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /user/profile [get]
func (h *MemberHandler) GetProfile(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	profile, err := h.memberService.GetProfile(c.Context(), memberID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFoundSvc), errors.Is(err, services.ErrMemberInactive):
			// A deleted or deactivated account no longer has a valid session
			return response.Unauthorized(c, "Unauthorized")
		default:
			return response.InternalServerError(c, "Failed to get profile")
		}
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"member": profile,
	})
}

// UpdateProfileRequest represents profile update request body
type UpdateProfileRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

// UpdateProfile updates the authenticated member's profile
// @Summary Update own profile
// @Description Update email or full name of the authenticated member
// @Tags Member
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /user/profile [put]
func (h *MemberHandler) UpdateProfile(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateProfileInput{
		Email:    req.Email,
		FullName: req.FullName,
	}

	profile, err := h.memberService.UpdateProfile(c.Context(), memberID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFoundSvc):
			return response.Unauthorized(c, "Unauthorized")
		case errors.Is(err, services.ErrEmailAlreadyExists):
			return response.Conflict(c, "Email already exists")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"member": profile,
	})
}
