package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-eco/ecopledge-service/internal/repository"
)

const leaderboardKey = "leaderboard:points"

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

// LeaderboardService ranks users by lifetime points. Redis sorted sets
// serve reads; Postgres is both the write-through target (via the users
// table) and the fallback when Redis is unreachable.
type LeaderboardService struct {
	redis  *redis.Client
	users  repository.UserRepository
	logger *zap.Logger
}

// NewLeaderboardService builds the service. The redis client may be nil.
func NewLeaderboardService(client *redis.Client, users repository.UserRepository, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{redis: client, users: users, logger: logger}
}

// RecordPoints bumps the user's leaderboard score. Failures are logged
// and swallowed; the users table remains authoritative.
func (s *LeaderboardService) RecordPoints(ctx context.Context, userID string, delta int64) {
	if s.redis == nil || delta == 0 {
		return
	}
	if err := s.redis.ZIncrBy(ctx, leaderboardKey, float64(delta), userID).Err(); err != nil {
		s.logger.Warn("leaderboard increment failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// Top returns the highest-scoring users.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if s.redis != nil {
		entries, err := s.topFromRedis(ctx, limit)
		if err == nil {
			return entries, nil
		}
		s.logger.Warn("leaderboard read from redis failed; falling back to postgres", zap.Error(err))
	}
	return s.topFromPostgres(ctx, limit)
}

func (s *LeaderboardService) topFromRedis(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	ranked, err := s.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(ranked))
	for i, member := range ranked {
		userID, _ := member.Member.(string)
		entry := LeaderboardEntry{
			Rank:   i + 1,
			UserID: userID,
			Points: int64(member.Score),
		}
		if user, err := s.users.GetByID(ctx, userID); err == nil {
			entry.Name = user.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *LeaderboardService) topFromPostgres(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	users, err := s.users.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: user.ID,
			Name:   user.Name,
			Points: user.Points,
		})
	}
	return entries, nil
}
