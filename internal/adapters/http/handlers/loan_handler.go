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

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// Apply submits a loan application
// @Summary Apply for a loan
// @Description Submit a loan application; it starts PENDING until an admin decides
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ApplyLoanInput true "Loan terms"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ApplyLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	loan, err := h.loanService.Apply(c.Context(), memberID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLoanTerms):
			return response.BadRequest(c, "Invalid loan terms")
		default:
			return response.InternalServerError(c, "Failed to submit loan application")
		}
	}

	return response.Created(c, "Loan application submitted", fiber.Map{
		"loan": loan,
	})
}

// MyLoans lists the member's loans
// @Summary List own loans
// @Description List the authenticated member's loans, newest first
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loans, err := h.loanService.GetMyLoans(c.Context(), memberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved", fiber.Map{
		"loans": loans,
		"count": len(loans),
	})
}

// RepayRequest represents a loan repayment request body
type RepayRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Repay records a repayment against a disbursed loan
// @Summary Repay loan
// @Description Record a repayment; the loan completes when the balance reaches zero
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body RepayRequest true "Amount"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/repay [post]
func (h *LoanHandler) Repay(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loanID, err := c.ParamsInt("id")
	if err != nil || loanID <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req RepayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	loan, err := h.loanService.Repay(c.Context(), uint(loanID), memberID, &services.RepayInput{Amount: req.Amount})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, services.ErrNotLoanOwner):
			return response.Forbidden(c, "Not the loan owner")
		case errors.Is(err, services.ErrLoanNotDisbursed):
			return response.BadRequest(c, "Loan is not disbursed")
		default:
			return response.InternalServerError(c, "Failed to record repayment")
		}
	}

	return response.Success(c, "Repayment recorded", fiber.Map{
		"loan": loan,
	})
}

// ListApplications lists loan applications for admins
// @Summary List loan applications
// @Description List loan applications in a status (default PENDING), oldest first
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Loan status filter"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/loans/applications [get]
func (h *LoanHandler) ListApplications(c *fiber.Ctx) error {
	status := domain.LoanStatus(c.Query("status", string(domain.LoanPending)))

	loans, err := h.loanService.ListApplications(c.Context(), status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLoanStatus):
			return response.BadRequest(c, "Invalid loan status: "+string(status))
		default:
			return response.InternalServerError(c, "Failed to list loan applications")
		}
	}

	return response.Success(c, "Loan applications retrieved", fiber.Map{
		"loans": loans,
		"count": len(loans),
	})
}

// DecideRequest represents an optional decision remark
type DecideRequest struct {
	Remark string `json:"remark"`
}

// Decide applies an approve/reject decision to an application
// @Summary Decide loan application
// @Description Approve or reject a PENDING application. Re-submitting the decision already applied succeeds; the opposite decision on a decided loan returns a conflict.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param action path string true "approve or reject"
// @Param body body DecideRequest false "Optional remark"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/loans/applications/{id}/{action} [patch]
func (h *LoanHandler) Decide(c *fiber.Ctx) error {
	adminID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loanID, err := c.ParamsInt("id")
	if err != nil || loanID <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	action := domain.LoanAction(c.Params("action"))
	if !action.Valid() {
		return response.BadRequest(c, "Invalid action: "+c.Params("action"))
	}

	var req DecideRequest
	_ = c.BodyParser(&req) // body is optional

	loan, err := h.loanService.Decide(c.Context(), uint(loanID), action, adminID, req.Remark)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLoanAction):
			return response.BadRequest(c, "Invalid action")
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, services.ErrLoanAlreadyFinal):
			return response.Conflict(c, "Loan application already decided")
		default:
			return response.InternalServerError(c, "Failed to decide loan application")
		}
	}

	return response.Success(c, "Loan application "+string(loan.Status), fiber.Map{
		"loan": loan,
	})
}

// RecordRepayment records a repayment collected at the counter
// @Summary Record loan repayment
// @Description Record a repayment received from the member at the counter; the loan completes when the balance reaches zero
// @Tags Treasury
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body RepayRequest true "Amount"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /treasury/loans/{id}/repayments [post]
func (h *LoanHandler) RecordRepayment(c *fiber.Ctx) error {
	treasurerID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loanID, err := c.ParamsInt("id")
	if err != nil || loanID <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req RepayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	loan, err := h.loanService.RecordRepayment(c.Context(), uint(loanID), treasurerID, &services.RepayInput{Amount: req.Amount})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, services.ErrLoanNotDisbursed):
			return response.BadRequest(c, "Loan is not disbursed")
		default:
			return response.InternalServerError(c, "Failed to record repayment")
		}
	}

	return response.Success(c, "Repayment recorded", fiber.Map{
		"loan": loan,
	})
}

// Disburse marks an approved loan as disbursed
// @Summary Disburse loan
// @Description Mark an APPROVED loan as DISBURSED and record the payout transaction
// @Tags Treasury
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /treasury/loans/{id}/disburse [post]
func (h *LoanHandler) Disburse(c *fiber.Ctx) error {
	adminID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loanID, err := c.ParamsInt("id")
	if err != nil || loanID <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.Disburse(c.Context(), uint(loanID), adminID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, services.ErrLoanNotApproved):
			return response.BadRequest(c, "Loan is not in APPROVED status")
		default:
			return response.InternalServerError(c, "Failed to disburse loan")
		}
	}

	return response.Success(c, "Loan disbursed", fiber.Map{
		"loan": loan,
	})
}

// ListLoans lists all loans with pagination
// @Summary List loans
// @Description List all loans with pagination, newest first
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/loans [get]
func (h *LoanHandler) ListLoans(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.loanService.ListLoans(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved", pagination.NewResponse(result.Loans, params, result.Total))
}
