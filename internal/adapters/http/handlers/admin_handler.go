package handlers

import (
	"errors"

	"saccohub/internal/core/domain"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/pagination"
	"saccohub/internal/pkg/response"
	"saccohub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Number of rows returned by the recent-transactions feed
const recentTransactionLimit = 20

// AdminHandler handles admin endpoints
type AdminHandler struct {
	memberService    *services.MemberService
	dashboardService *services.DashboardService
	reportService    *services.ReportService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	memberService *services.MemberService,
	dashboardService *services.DashboardService,
	reportService *services.ReportService,
) *AdminHandler {
	return &AdminHandler{
		memberService:    memberService,
		dashboardService: dashboardService,
		reportService:    reportService,
	}
}

// ChangeStatusRequest represents a membership status change request body
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ChangeMemberStatus transitions a member's membership status
// @Summary Change membership status
// @Description Transition a member to PENDING, APPROVED, SUSPENDED or TERMINATED. Re-submitting the current status succeeds without changes.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body ChangeStatusRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/members/{id}/status [patch]
func (h *AdminHandler) ChangeMemberStatus(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("id")
	if err != nil || memberID <= 0 {
		return response.BadRequest(c, "Invalid member ID")
	}

	adminID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	member, err := h.memberService.ChangeStatus(c.Context(), uint(memberID), domain.MembershipStatus(req.Status), adminID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatusValue):
			return response.BadRequest(c, "Invalid membership status: "+req.Status)
		case errors.Is(err, services.ErrMemberNotFoundSvc):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to change member status")
		}
	}

	return response.Success(c, "Member status updated", fiber.Map{
		"member": member,
	})
}

// SetRoleRequest represents a role change request body
type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SetMemberRole changes a member's role
// @Summary Change member role
// @Description Assign MEMBER, ADMIN, TREASURER or CHAIRPERSON to a member
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body SetRoleRequest true "Target role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/members/{id}/role [patch]
func (h *AdminHandler) SetMemberRole(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("id")
	if err != nil || memberID <= 0 {
		return response.BadRequest(c, "Invalid member ID")
	}

	adminID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	member, err := h.memberService.SetRole(c.Context(), uint(memberID), domain.Role(req.Role), adminID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRoleValue):
			return response.BadRequest(c, "Invalid role: "+req.Role)
		case errors.Is(err, services.ErrCannotChangeSelf):
			return response.Forbidden(c, "Cannot change your own role")
		case errors.Is(err, services.ErrMemberNotFoundSvc):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to change member role")
		}
	}

	return response.Success(c, "Member role updated", fiber.Map{
		"member": member,
	})
}

// DeactivateMember deactivates a member account
// @Summary Deactivate member
// @Description Soft-deactivate a member account; the member can no longer log in
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/members/{id} [delete]
func (h *AdminHandler) DeactivateMember(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("id")
	if err != nil || memberID <= 0 {
		return response.BadRequest(c, "Invalid member ID")
	}

	adminID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.memberService.Deactivate(c.Context(), uint(memberID), adminID); err != nil {
		switch {
		case errors.Is(err, services.ErrCannotChangeSelf):
			return response.Forbidden(c, "Cannot deactivate your own account")
		case errors.Is(err, services.ErrMemberNotFoundSvc):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to deactivate member")
		}
	}

	return response.Success(c, "Member deactivated", nil)
}

// ListPendingMembers lists members awaiting approval
// @Summary List pending members
// @Description List members in PENDING status, oldest registration first. Empty list when none are waiting.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/pending-members [get]
func (h *AdminHandler) ListPendingMembers(c *fiber.Ctx) error {
	members, err := h.memberService.ListPending(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list pending members")
	}

	return response.Success(c, "Pending members retrieved", fiber.Map{
		"members": members,
		"count":   len(members),
	})
}

// ListMembers lists all members with pagination
// @Summary List members
// @Description List all members with pagination
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/members [get]
func (h *AdminHandler) ListMembers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.memberService.ListMembers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "Members retrieved", pagination.NewResponse(result.Members, params, result.Total))
}

// RecentTransactions lists the latest transactions
// @Summary Recent transactions
// @Description List the 20 most recent transactions with member names, newest first
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/recent-transactions [get]
func (h *AdminHandler) RecentTransactions(c *fiber.Ctx) error {
	txs, err := h.dashboardService.RecentTransactions(c.Context(), recentTransactionLimit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list recent transactions")
	}

	return response.Success(c, "Recent transactions retrieved", fiber.Map{
		"transactions": txs,
		"count":        len(txs),
	})
}

// DashboardSummary returns cooperative-wide aggregates
// @Summary Dashboard summary
// @Description Aggregated membership, savings and loan figures for the admin dashboard
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/dashboard [get]
func (h *AdminHandler) DashboardSummary(c *fiber.Ctx) error {
	summary, err := h.dashboardService.GetSummary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard summary")
	}

	return response.Success(c, "Dashboard summary retrieved", summary)
}

// GenerateReportRequest represents report generation request body
type GenerateReportRequest struct {
	ReportType string `json:"report_type" validate:"required"`
	Period     string `json:"period" validate:"required"`
}

// GenerateReport builds and returns a report document
// @Summary Generate report
// @Description Generate a membership, loan or savings report for a YYYY-MM period and return it as a downloadable document
// @Tags Admin
// @Accept json
// @Produce plain
// @Security BearerAuth
// @Param body body GenerateReportRequest true "Report parameters"
// @Success 200 {string} string "Report document"
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/reports/generate [post]
func (h *AdminHandler) GenerateReport(c *fiber.Ctx) error {
	var req GenerateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	report, err := h.reportService.Generate(c.Context(), &services.GenerateReportInput{
		ReportType: req.ReportType,
		Period:     req.Period,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReportType):
			return response.BadRequest(c, "Invalid report type: "+req.ReportType)
		case errors.Is(err, services.ErrInvalidPeriod):
			return response.BadRequest(c, "Invalid period, expected YYYY-MM")
		default:
			return response.InternalServerError(c, "Failed to generate report")
		}
	}

	return response.Download(c, report.Filename, report.Content)
}
