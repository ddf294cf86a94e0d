package handlers

import (
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/pagination"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler handles member transaction history endpoints
type TransactionHandler struct {
	txService *services.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(txService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{txService: txService}
}

// MyTransactions lists the member's transactions
// @Summary List own transactions
// @Description List the authenticated member's transactions with pagination, newest first
// @Tags Member
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /user/transactions [get]
func (h *TransactionHandler) MyTransactions(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	result, err := h.txService.GetMyTransactions(c.Context(), memberID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list transactions")
	}

	return response.Success(c, "Transactions retrieved", pagination.NewResponse(result.Transactions, params, result.Total))
}
