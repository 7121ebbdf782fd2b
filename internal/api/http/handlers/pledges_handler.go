package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-eco/ecopledge-service/internal/api/dto"
	"github.com/campus-eco/ecopledge-service/internal/auth"
	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/service"
)

// PledgesHandler exposes the daily pledge endpoints.
type PledgesHandler struct {
	pledges *service.PledgeService
}

// NewPledgesHandler constructs handler.
func NewPledgesHandler(pledgeService *service.PledgeService) *PledgesHandler {
	return &PledgesHandler{pledges: pledgeService}
}

// Submit handles POST /api/pledges.
func (h *PledgesHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.PledgeSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Category == "" {
		return fiber.NewError(http.StatusBadRequest, "category required")
	}

	pledge, balance, err := h.pledges.Submit(c.Context(), principal.User.ID, req.Category, req.Description)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"pledge":  pledgeResponse(pledge),
			"balance": balance,
		},
	})
}

// History handles GET /api/pledges.
func (h *PledgesHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	pledges, err := h.pledges.History(c.Context(), principal.User.ID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	items := make([]dto.PledgeResponse, 0, len(pledges))
	for _, pledge := range pledges {
		items = append(items, pledgeResponse(pledge))
	}
	return c.JSON(fiber.Map{"data": items})
}

func pledgeResponse(pledge *domain.Pledge) dto.PledgeResponse {
	return dto.PledgeResponse{
		ID:          pledge.ID,
		Category:    pledge.Category,
		Description: pledge.Description,
		Points:      pledge.Points,
		PledgeDate:  pledge.PledgeDate.Format("2006-01-02"),
		CreatedAt:   pledge.CreatedAt,
	}
}
