package handlers

import (
	"context"
	"errors"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"
	"saccohub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// SavingsHandler handles savings account endpoints
type SavingsHandler struct {
	savingsService *services.SavingsService
}

// NewSavingsHandler creates a new savings handler
func NewSavingsHandler(savingsService *services.SavingsService) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService}
}

// OpenAccount opens a new savings account
// @Summary Open savings account
// @Description Open a REGULAR, FIXED_DEPOSIT or EMERGENCY savings account
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.OpenAccountInput true "Account type"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /savings/accounts [post]
func (h *SavingsHandler) OpenAccount(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.OpenAccountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	account, err := h.savingsService.OpenAccount(c.Context(), memberID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAccountType):
			return response.BadRequest(c, "Invalid account type: "+input.AccountType)
		default:
			return response.InternalServerError(c, "Failed to open account")
		}
	}

	return response.Created(c, "Savings account opened", fiber.Map{
		"account": account,
	})
}

// MyAccounts lists the member's savings accounts
// @Summary List own savings accounts
// @Description List the authenticated member's savings accounts
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /savings/accounts [get]
func (h *SavingsHandler) MyAccounts(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	accounts, err := h.savingsService.GetMyAccounts(c.Context(), memberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list accounts")
	}

	return response.Success(c, "Accounts retrieved", fiber.Map{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// Deposit credits a savings account
// @Summary Deposit into account
// @Description Deposit money into one of the member's savings accounts
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body services.MovementInput true "Amount"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /savings/accounts/{id}/deposit [post]
func (h *SavingsHandler) Deposit(c *fiber.Ctx) error {
	return h.movement(c, h.savingsService.Deposit, "Deposit recorded")
}

// Withdraw debits a savings account
// @Summary Withdraw from account
// @Description Withdraw money from one of the member's savings accounts
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body services.MovementInput true "Amount"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /savings/accounts/{id}/withdraw [post]
func (h *SavingsHandler) Withdraw(c *fiber.Ctx) error {
	return h.movement(c, h.savingsService.Withdraw, "Withdrawal recorded")
}

func (h *SavingsHandler) movement(
	c *fiber.Ctx,
	apply func(ctx context.Context, accountID, memberID uint, input *services.MovementInput) (*models.Transaction, error),
	message string,
) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	accountID, err := c.ParamsInt("id")
	if err != nil || accountID <= 0 {
		return response.BadRequest(c, "Invalid account ID")
	}

	var input services.MovementInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	tx, err := apply(c.Context(), uint(accountID), memberID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, services.ErrInsufficientFunds):
			return response.BadRequest(c, "Insufficient funds")
		case errors.Is(err, services.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		case errors.Is(err, services.ErrNotAccountOwner):
			return response.Forbidden(c, "Not the account owner")
		case errors.Is(err, services.ErrAccountInactive):
			return response.BadRequest(c, "Account is closed")
		default:
			return response.InternalServerError(c, "Failed to apply movement")
		}
	}

	return response.Success(c, message, fiber.Map{
		"transaction": tx,
	})
}
