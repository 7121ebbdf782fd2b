package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-eco/ecopledge-service/internal/api/dto"
	"github.com/campus-eco/ecopledge-service/internal/auth"
	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/service"
)

// RewardsHandler exposes the reward catalog for participants and its
// administration for canteen admins.
type RewardsHandler struct {
	rewards *service.RewardService
}

// NewRewardsHandler constructs handler.
func NewRewardsHandler(rewardService *service.RewardService) *RewardsHandler {
	return &RewardsHandler{rewards: rewardService}
}

// Catalog handles GET /api/rewards.
func (h *RewardsHandler) Catalog(c *fiber.Ctx) error {
	rewards, err := h.rewards.Catalog(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rewardResponses(rewards)})
}

// ListAll handles GET /api/admin/rewards.
func (h *RewardsHandler) ListAll(c *fiber.Ctx) error {
	rewards, err := h.rewards.AllRewards(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rewardResponses(rewards)})
}

// Create handles POST /api/admin/rewards.
func (h *RewardsHandler) Create(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.RewardUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	reward := &domain.Reward{
		Name:        req.Name,
		Description: req.Description,
		PointsCost:  req.PointsCost,
		Stock:       req.Stock,
		Active:      req.Active,
	}
	if err := h.rewards.CreateReward(c.Context(), actor, reward); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": rewardResponse(reward)})
}

// Update handles PUT /api/admin/rewards/:id.
func (h *RewardsHandler) Update(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.RewardUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	reward := &domain.Reward{
		ID:          c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
		PointsCost:  req.PointsCost,
		Stock:       req.Stock,
		Active:      req.Active,
	}
	if err := h.rewards.UpdateReward(c.Context(), actor, reward); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rewardResponse(reward)})
}

func rewardResponse(reward *domain.Reward) dto.RewardResponse {
	return dto.RewardResponse{
		ID:          reward.ID,
		Name:        reward.Name,
		Description: reward.Description,
		PointsCost:  reward.PointsCost,
		Stock:       reward.Stock,
		Active:      reward.Active,
	}
}

func rewardResponses(rewards []*domain.Reward) []dto.RewardResponse {
	items := make([]dto.RewardResponse, 0, len(rewards))
	for _, reward := range rewards {
		items = append(items, rewardResponse(reward))
	}
	return items
}

// actorFromContext projects the authenticated principal into the actor
// identity services record in the audit trail.
func actorFromContext(c *fiber.Ctx) (service.Actor, bool) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{ID: principal.User.ID, Role: principal.Role}, true
}
