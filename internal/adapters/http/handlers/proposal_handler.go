package handlers

import (
	"errors"
	"time"

	"saccohub/internal/core/services"
	"saccohub/internal/pkg/pagination"
	"saccohub/internal/pkg/response"
	"saccohub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ProposalHandler handles governance proposal endpoints
type ProposalHandler struct {
	proposalService *services.ProposalService
}

// NewProposalHandler creates a new proposal handler
func NewProposalHandler(proposalService *services.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

// Create creates a new proposal
// @Summary Create proposal
// @Description Create a governance proposal in DRAFT status
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProposalInput true "Proposal"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /proposals [post]
func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateProposalInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	proposal, err := h.proposalService.Create(c.Context(), memberID, &input)
	if err != nil {
		return response.InternalServerError(c, "Failed to create proposal")
	}

	return response.Created(c, "Proposal created", fiber.Map{
		"proposal": proposal,
	})
}

// ActivateRequest represents a proposal activation request body
type ActivateRequest struct {
	OpensAt  time.Time `json:"opens_at" validate:"required"`
	ClosesAt time.Time `json:"closes_at" validate:"required"`
}

// Activate opens a proposal for voting
// @Summary Activate proposal
// @Description Open a DRAFT proposal for voting with the given window
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Param body body ActivateRequest true "Voting window"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/proposals/{id}/activate [patch]
func (h *ProposalHandler) Activate(c *fiber.Ctx) error {
	proposalID, err := c.ParamsInt("id")
	if err != nil || proposalID <= 0 {
		return response.BadRequest(c, "Invalid proposal ID")
	}

	var req ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	proposal, err := h.proposalService.Activate(c.Context(), uint(proposalID), &services.ActivateInput{
		OpensAt:  req.OpensAt,
		ClosesAt: req.ClosesAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidWindow):
			return response.BadRequest(c, "Voting window must close after it opens")
		case errors.Is(err, services.ErrProposalNotFound):
			return response.NotFound(c, "Proposal not found")
		case errors.Is(err, services.ErrProposalNotDraft):
			return response.BadRequest(c, "Proposal is not in DRAFT status")
		default:
			return response.InternalServerError(c, "Failed to activate proposal")
		}
	}

	return response.Success(c, "Proposal opened for voting", fiber.Map{
		"proposal": proposal,
	})
}

// ActivateOwn opens the member's own proposal for voting
// @Summary Activate own proposal
// @Description Open your own DRAFT proposal for voting with the given window
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Param body body ActivateRequest true "Voting window"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /proposals/{id}/activate [patch]
func (h *ProposalHandler) ActivateOwn(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	proposalID, err := c.ParamsInt("id")
	if err != nil || proposalID <= 0 {
		return response.BadRequest(c, "Invalid proposal ID")
	}

	var req ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	proposal, err := h.proposalService.ActivateOwn(c.Context(), uint(proposalID), memberID, &services.ActivateInput{
		OpensAt:  req.OpensAt,
		ClosesAt: req.ClosesAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotProposer):
			return response.Forbidden(c, "Only the proposer can activate this proposal")
		case errors.Is(err, services.ErrInvalidWindow):
			return response.BadRequest(c, "Voting window must close after it opens")
		case errors.Is(err, services.ErrProposalNotFound):
			return response.NotFound(c, "Proposal not found")
		case errors.Is(err, services.ErrProposalNotDraft):
			return response.BadRequest(c, "Proposal is not in DRAFT status")
		default:
			return response.InternalServerError(c, "Failed to activate proposal")
		}
	}

	return response.Success(c, "Proposal opened for voting", fiber.Map{
		"proposal": proposal,
	})
}

// Vote casts a vote on a proposal
// @Summary Vote on proposal
// @Description Cast FOR, AGAINST or ABSTAIN on an active proposal; one vote per member
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Param body body services.VoteInput true "Choice"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /proposals/{id}/vote [post]
func (h *ProposalHandler) Vote(c *fiber.Ctx) error {
	memberID, ok := c.Locals("memberID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	proposalID, err := c.ParamsInt("id")
	if err != nil || proposalID <= 0 {
		return response.BadRequest(c, "Invalid proposal ID")
	}

	var input services.VoteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	proposal, err := h.proposalService.Vote(c.Context(), uint(proposalID), memberID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidVoteChoice):
			return response.BadRequest(c, "Invalid vote choice: "+input.Choice)
		case errors.Is(err, services.ErrProposalNotFound):
			return response.NotFound(c, "Proposal not found")
		case errors.Is(err, services.ErrProposalNotActive):
			return response.BadRequest(c, "Proposal is not open for voting")
		case errors.Is(err, services.ErrVotingWindowClosed):
			return response.BadRequest(c, "Voting window is not open")
		case errors.Is(err, services.ErrAlreadyVoted):
			return response.Conflict(c, "You have already voted on this proposal")
		default:
			return response.InternalServerError(c, "Failed to cast vote")
		}
	}

	return response.Success(c, "Vote recorded", fiber.Map{
		"proposal": proposal,
	})
}

// Get returns a single proposal
// @Summary Get proposal
// @Description Get a proposal with its tallies
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /proposals/{id} [get]
func (h *ProposalHandler) Get(c *fiber.Ctx) error {
	proposalID, err := c.ParamsInt("id")
	if err != nil || proposalID <= 0 {
		return response.BadRequest(c, "Invalid proposal ID")
	}

	proposal, err := h.proposalService.Get(c.Context(), uint(proposalID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProposalNotFound):
			return response.NotFound(c, "Proposal not found")
		default:
			return response.InternalServerError(c, "Failed to get proposal")
		}
	}

	return response.Success(c, "Proposal retrieved", fiber.Map{
		"proposal": proposal,
	})
}

// List lists proposals with pagination
// @Summary List proposals
// @Description List proposals with pagination, newest first
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /proposals [get]
func (h *ProposalHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.proposalService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list proposals")
	}

	return response.Success(c, "Proposals retrieved", pagination.NewResponse(result.Proposals, params, result.Total))
}

// Cancel cancels a proposal
// @Summary Cancel proposal
// @Description Cancel a proposal that has not completed
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/proposals/{id} [delete]
func (h *ProposalHandler) Cancel(c *fiber.Ctx) error {
	proposalID, err := c.ParamsInt("id")
	if err != nil || proposalID <= 0 {
		return response.BadRequest(c, "Invalid proposal ID")
	}

	proposal, err := h.proposalService.Cancel(c.Context(), uint(proposalID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProposalNotFound):
			return response.NotFound(c, "Proposal not found")
		case errors.Is(err, services.ErrProposalNotActive):
			return response.BadRequest(c, "Completed proposals cannot be cancelled")
		default:
			return response.InternalServerError(c, "Failed to cancel proposal")
		}
	}

	return response.Success(c, "Proposal cancelled", fiber.Map{
		"proposal": proposal,
	})
}
