package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-eco/ecopledge-service/internal/api/dto"
	"github.com/campus-eco/ecopledge-service/internal/auth"
	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/service"
)

// RedemptionsHandler exposes the redemption flow: request, QR refresh
// and in-person verification.
type RedemptionsHandler struct {
	rewards *service.RewardService
}

// NewRedemptionsHandler constructs handler.
func NewRedemptionsHandler(rewardService *service.RewardService) *RedemptionsHandler {
	return &RedemptionsHandler{rewards: rewardService}
}

// Redeem handles POST /api/rewards/:id/redeem.
func (h *RedemptionsHandler) Redeem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	redemption, token, err := h.rewards.Redeem(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.RedeemResponse{
			Redemption: redemptionResponse(redemption),
			QRToken:    token,
		},
	})
}

// Mine handles GET /api/redemptions.
func (h *RedemptionsHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	redemptions, err := h.rewards.UserRedemptions(c.Context(), principal.User.ID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": redemptionResponses(redemptions)})
}

// Refresh handles POST /api/redemptions/:id/refresh. It reissues the QR
// payload for a pending redemption owned by the caller.
func (h *RedemptionsHandler) Refresh(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	token, err := h.rewards.RefreshToken(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"qr_token": token}})
}

// RefreshCheck handles POST /api/redemptions/refresh-check. It is a
// staleness probe only; expired or tampered tokens still answer here.
func (h *RedemptionsHandler) RefreshCheck(c *fiber.Ctx) error {
	var req dto.VerifyRedemptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(fiber.Map{
		"data": dto.RefreshCheckResponse{NeedsRefresh: h.rewards.NeedsRefresh(req.Token)},
	})
}

// Pending handles GET /api/admin/redemptions.
func (h *RedemptionsHandler) Pending(c *fiber.Ctx) error {
	redemptions, err := h.rewards.PendingRedemptions(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": redemptionResponses(redemptions)})
}

// Verify handles POST /api/admin/redemptions/verify. The scanned QR
// payload is checked and, if valid, the redemption is consumed.
func (h *RedemptionsHandler) Verify(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.VerifyRedemptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	redemption, err := h.rewards.VerifyRedemption(c.Context(), actor, req.Token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": redemptionResponse(redemption)})
}

func redemptionResponse(redemption *domain.Redemption) dto.RedemptionResponse {
	return dto.RedemptionResponse{
		ID:         redemption.ID,
		Code:       redemption.Code,
		RewardID:   redemption.RewardID,
		UserID:     redemption.UserID,
		PointsCost: redemption.PointsCost,
		Status:     string(redemption.Status),
		VerifiedAt: redemption.VerifiedAt,
		CreatedAt:  redemption.CreatedAt,
	}
}

func redemptionResponses(redemptions []*domain.Redemption) []dto.RedemptionResponse {
	items := make([]dto.RedemptionResponse, 0, len(redemptions))
	for _, redemption := range redemptions {
		items = append(items, redemptionResponse(redemption))
	}
	return items
}
