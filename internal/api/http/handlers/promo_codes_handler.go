package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-eco/ecopledge-service/internal/api/dto"
	"github.com/campus-eco/ecopledge-service/internal/auth"
	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/service"
)

// PromoCodesHandler exposes promo claims and administration.
type PromoCodesHandler struct {
	promos *service.PromoService
}

// NewPromoCodesHandler constructs handler.
func NewPromoCodesHandler(promoService *service.PromoService) *PromoCodesHandler {
	return &PromoCodesHandler{promos: promoService}
}

// Claim handles POST /api/promos/claim.
func (h *PromoCodesHandler) Claim(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ClaimPromoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	balance, err := h.promos.Claim(c.Context(), principal.User.ID, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"balance": balance}})
}

// List handles GET /api/admin/promo-codes.
func (h *PromoCodesHandler) List(c *fiber.Ctx) error {
	promos, err := h.promos.List(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(promos))
	for _, promo := range promos {
		items = append(items, promoResponse(promo))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /api/admin/promo-codes.
func (h *PromoCodesHandler) Create(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.PromoUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	promo := &domain.PromoCode{
		Code:       req.Code,
		Points:     req.Points,
		UsageLimit: req.UsageLimit,
		Active:     req.Active,
		ExpiresAt:  req.ExpiresAt,
	}
	if err := h.promos.Create(c.Context(), actor, promo); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": promoResponse(promo)})
}

// Update handles PUT /api/admin/promo-codes/:id.
func (h *PromoCodesHandler) Update(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.PromoUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	promo := &domain.PromoCode{
		ID:         c.Params("id"),
		Points:     req.Points,
		UsageLimit: req.UsageLimit,
		Active:     req.Active,
		ExpiresAt:  req.ExpiresAt,
	}
	if err := h.promos.Update(c.Context(), actor, promo); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": promoResponse(promo)})
}

func promoResponse(promo *domain.PromoCode) fiber.Map {
	return fiber.Map{
		"id":          promo.ID,
		"code":        promo.Code,
		"points":      promo.Points,
		"usage_limit": promo.UsageLimit,
		"usage_count": promo.UsageCount,
		"active":      promo.Active,
		"expires_at":  promo.ExpiresAt,
	}
}
