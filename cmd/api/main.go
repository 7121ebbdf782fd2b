package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-eco/ecopledge-service/internal/api/http"
	"github.com/campus-eco/ecopledge-service/internal/api/http/handlers"
	"github.com/campus-eco/ecopledge-service/internal/auth"
	"github.com/campus-eco/ecopledge-service/internal/authz"
	"github.com/campus-eco/ecopledge-service/internal/config"
	"github.com/campus-eco/ecopledge-service/internal/events"
	"github.com/campus-eco/ecopledge-service/internal/observability"
	"github.com/campus-eco/ecopledge-service/internal/persistence"
	"github.com/campus-eco/ecopledge-service/internal/qrtoken"
	"github.com/campus-eco/ecopledge-service/internal/repository"
	"github.com/campus-eco/ecopledge-service/internal/service"
	"github.com/campus-eco/ecopledge-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	pledgeRepo := repository.NewPledgeRepository(pool)
	rewardRepo := repository.NewRewardRepository(pool)
	redemptionRepo := repository.NewRedemptionRepository(pool)
	promoRepo := repository.NewPromoCodeRepository(pool)
	donationRepo := repository.NewDonationRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)

	authority := authz.NewAuthority(authz.DefaultPermissionTable())
	qrAuthority := qrtoken.NewAuthority(
		cfg.Redemption.Secret,
		cfg.Redemption.ValidityWindow(),
		cfg.Redemption.RefreshThreshold(),
	)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	leaderboardService := service.NewLeaderboardService(redis.Client, userRepo, logger)
	pledgeService := service.NewPledgeService(pledgeRepo, userRepo, redis.Client, leaderboardService, dispatcher, logger)
	rewardService := service.NewRewardService(service.RewardDependencies{
		RewardRepo:     rewardRepo,
		RedemptionRepo: redemptionRepo,
		UserRepo:       userRepo,
		AuditRepo:      auditRepo,
		QRAuthority:    qrAuthority,
		Dispatcher:     dispatcher,
	})
	promoService := service.NewPromoService(promoRepo, userRepo, auditRepo, leaderboardService, dispatcher)
	donationService := service.NewDonationService(donationRepo, userRepo, auditRepo, dispatcher)
	adminService := service.NewAdminService(userRepo, auditRepo, leaderboardService, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Pledges:        handlers.NewPledgesHandler(pledgeService),
		Rewards:        handlers.NewRewardsHandler(rewardService),
		Redemptions:    handlers.NewRedemptionsHandler(rewardService),
		PromoCodes:     handlers.NewPromoCodesHandler(promoService),
		Donations:      handlers.NewDonationsHandler(donationService),
		Leaderboard:    handlers.NewLeaderboardHandler(leaderboardService),
		Admin:          handlers.NewAdminHandler(adminService, metrics),
		AuthMiddleware: authMiddleware,
		Authority:      authority,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
