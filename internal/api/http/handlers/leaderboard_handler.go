package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-eco/ecopledge-service/internal/service"
)

// LeaderboardHandler exposes the points ranking.
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
}

// NewLeaderboardHandler constructs handler.
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboardService}
}

// Top handles GET /api/leaderboard.
func (h *LeaderboardHandler) Top(c *fiber.Ctx) error {
	entries, err := h.leaderboard.Top(c.Context(), c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
