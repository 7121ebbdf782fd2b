package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-eco/ecopledge-service/internal/api/http/handlers"
	"github.com/campus-eco/ecopledge-service/internal/auth"
	"github.com/campus-eco/ecopledge-service/internal/authz"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Pledges        *handlers.PledgesHandler
	Rewards        *handlers.RewardsHandler
	Redemptions    *handlers.RedemptionsHandler
	PromoCodes     *handlers.PromoCodesHandler
	Donations      *handlers.DonationsHandler
	Leaderboard    *handlers.LeaderboardHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Authority      *authz.Authority
}

// RegisterRoutes wires HTTP routes. Admin routes carry a module gate
// evaluated per request against the caller's current role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	api.Get("/me", cfg.Auth.Me)

	api.Post("/pledges", cfg.Pledges.Submit)
	api.Get("/pledges", cfg.Pledges.History)

	api.Get("/rewards", cfg.Rewards.Catalog)
	api.Post("/rewards/:id/redeem", cfg.Redemptions.Redeem)
	api.Get("/redemptions", cfg.Redemptions.Mine)
	api.Post("/redemptions/refresh-check", cfg.Redemptions.RefreshCheck)
	api.Post("/redemptions/:id/refresh", cfg.Redemptions.Refresh)

	api.Post("/promos/claim", cfg.PromoCodes.Claim)

	api.Post("/donations", cfg.Donations.Donate)
	api.Get("/donations", cfg.Donations.Mine)

	api.Get("/leaderboard", cfg.Leaderboard.Top)

	admin := api.Group("/admin", auth.RequireAdmin())

	admin.Get("/dashboard",
		auth.RequireModule(cfg.Authority, authz.ModuleDashboard), cfg.Admin.Dashboard)

	users := admin.Group("/users", auth.RequireModule(cfg.Authority, authz.ModuleUsers))
	users.Get("/", cfg.Admin.ListUsers)
	users.Put("/:id/role", cfg.Admin.ChangeRole)
	users.Put("/:id/ban", cfg.Admin.SetBanned)

	admin.Post("/users/:id/points",
		auth.RequireModule(cfg.Authority, authz.ModulePoints), cfg.Admin.AdjustPoints)

	rewards := admin.Group("/rewards", auth.RequireModule(cfg.Authority, authz.ModuleRewards))
	rewards.Get("/", cfg.Rewards.ListAll)
	rewards.Post("/", cfg.Rewards.Create)
	rewards.Put("/:id", cfg.Rewards.Update)

	redemptions := admin.Group("/redemptions", auth.RequireModule(cfg.Authority, authz.ModuleRedemptions))
	redemptions.Get("/", cfg.Redemptions.Pending)
	redemptions.Post("/verify", cfg.Redemptions.Verify)

	promos := admin.Group("/promo-codes", auth.RequireModule(cfg.Authority, authz.ModulePromoCodes))
	promos.Get("/", cfg.PromoCodes.List)
	promos.Post("/", cfg.PromoCodes.Create)
	promos.Put("/:id", cfg.PromoCodes.Update)

	donations := admin.Group("/donations", auth.RequireModule(cfg.Authority, authz.ModuleDonations))
	donations.Get("/", cfg.Donations.Pending)
	donations.Post("/:id/resolve", cfg.Donations.Resolve)

	admin.Get("/gcash",
		auth.RequireModule(cfg.Authority, authz.ModuleGcash), cfg.Donations.PendingGcash)

	admin.Get("/audit-logs",
		auth.RequireModule(cfg.Authority, authz.ModuleAuditLogs), cfg.Admin.AuditTrail)

	admin.Get("/settings",
		auth.RequireModule(cfg.Authority, authz.ModuleSettings), cfg.Admin.Settings)
}
