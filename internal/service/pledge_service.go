package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/events"
	"github.com/campus-eco/ecopledge-service/internal/repository"
	apperrors "github.com/campus-eco/ecopledge-service/pkg/util"
)

// pledgePoints maps pledge categories to their point award.
var pledgePoints = map[string]int64{
	"reusable_container": 15,
	"bike_commute":       20,
	"meatless_meal":      10,
	"waste_segregation":  10,
	"energy_saving":      10,
}

// PledgeService coordinates daily eco-pledge submissions.
type PledgeService struct {
	pledges     repository.PledgeRepository
	users       repository.UserRepository
	redis       *redis.Client
	leaderboard *LeaderboardService
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewPledgeService builds the service.
func NewPledgeService(
	pledges repository.PledgeRepository,
	users repository.UserRepository,
	client *redis.Client,
	leaderboard *LeaderboardService,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *PledgeService {
	return &PledgeService{
		pledges:     pledges,
		users:       users,
		redis:       client,
		leaderboard: leaderboard,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Submit records today's pledge and awards its points. One pledge per
// user per day: Redis takes the fast-path rejection, the unique
// constraint in Postgres is the source of truth.
func (s *PledgeService) Submit(ctx context.Context, userID, category, description string) (*domain.Pledge, int64, error) {
	points, ok := pledgePoints[strings.ToLower(category)]
	if !ok {
		return nil, 0, apperrors.NewValidationError("unknown pledge category", map[string]any{"category": category})
	}

	today := time.Now().Truncate(24 * time.Hour)
	if err := s.reserveDailySlot(ctx, userID, today); err != nil {
		return nil, 0, err
	}

	pledge := &domain.Pledge{
		UserID:      userID,
		Category:    strings.ToLower(category),
		Description: description,
		Points:      points,
		PledgeDate:  today,
	}
	if err := s.pledges.Create(ctx, pledge); err != nil {
		if errors.Is(err, repository.ErrPledgeExists) {
			return nil, 0, apperrors.NewConflict("pledge already submitted today", nil)
		}
		return nil, 0, apperrors.MapError(err)
	}

	balance, err := s.users.AdjustPoints(ctx, userID, points)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	s.leaderboard.RecordPoints(ctx, userID, points)

	s.publish(ctx, events.EventPledgeSubmitted, userID, events.PledgeSubmittedPayload{
		PledgeID: pledge.ID,
		Category: pledge.Category,
		Points:   points,
	})
	s.publish(ctx, events.EventPointsAwarded, userID, events.PointsAwardedPayload{
		Delta:   points,
		Balance: balance,
		Reason:  "daily_pledge",
	})

	return pledge, balance, nil
}

// History lists the user's past pledges.
func (s *PledgeService) History(ctx context.Context, userID string, limit, offset int) ([]*domain.Pledge, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	pledges, err := s.pledges.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return pledges, nil
}

// reserveDailySlot claims the per-day Redis key. Redis being down is not
// fatal; the database constraint still holds the line.
func (s *PledgeService) reserveDailySlot(ctx context.Context, userID string, day time.Time) error {
	if s.redis == nil {
		return nil
	}
	key := "pledge:" + userID + ":" + day.Format("2006-01-02")
	ok, err := s.redis.SetNX(ctx, key, 1, 36*time.Hour).Result()
	if err != nil {
		s.logger.Warn("pledge dedup check failed; deferring to database", zap.Error(err))
		return nil
	}
	if !ok {
		return apperrors.NewConflict("pledge already submitted today", nil)
	}
	return nil
}

func (s *PledgeService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
