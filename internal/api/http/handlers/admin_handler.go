package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-eco/ecopledge-service/internal/api/dto"
	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/observability"
	"github.com/campus-eco/ecopledge-service/internal/service"
)

// AdminHandler exposes account administration, the dashboard summary,
// the audit trail and runtime settings.
type AdminHandler struct {
	admin   *service.AdminService
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{admin: adminService, metrics: metrics}
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.Context(), 5, 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"recent_users": userResponses(users),
		},
	})
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// ChangeRole handles PUT /api/admin/users/:id/role.
func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Role == "" {
		return fiber.NewError(http.StatusBadRequest, "role required")
	}

	user, err := h.admin.ChangeRole(c.Context(), actor, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// SetBanned handles PUT /api/admin/users/:id/ban.
func (h *AdminHandler) SetBanned(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.SetBannedRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.admin.SetBanned(c.Context(), actor, c.Params("id"), req.Banned)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// AdjustPoints handles POST /api/admin/users/:id/points.
func (h *AdminHandler) AdjustPoints(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.AdjustPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	balance, err := h.admin.AdjustPoints(c.Context(), actor, c.Params("id"), req.Delta, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"balance": balance}})
}

// AuditTrail handles GET /api/admin/audit-logs.
func (h *AdminHandler) AuditTrail(c *fiber.Ctx) error {
	entries, err := h.admin.AuditTrail(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	items := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AuditLogResponse{
			ID:        entry.ID,
			ActorID:   entry.ActorID,
			ActorRole: entry.ActorRole,
			Action:    entry.Action,
			Entity:    entry.Entity,
			EntityID:  entry.EntityID,
			Meta:      entry.Meta,
			CreatedAt: entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Settings handles GET /api/admin/settings. It reports runtime counters
// for operators.
func (h *AdminHandler) Settings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"request_totals": h.metrics.RequestTotals(),
			"error_totals":   h.metrics.ErrorTotals(),
		},
	})
}

func userResponses(users []*domain.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, userResponse(user))
	}
	return items
}
