package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/repository"
)

// In-memory repository stubs. Only what the service tests need.

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = "u" + strconv.Itoa(len(r.users)+1)
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) List(_ context.Context, _, _ int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	return nil
}

func (r *stubUserRepo) UpdateStatus(_ context.Context, id string, status domain.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Status = status
	return nil
}

func (r *stubUserRepo) AdjustPoints(_ context.Context, id string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	if user.Points+delta < 0 {
		return 0, repository.ErrInsufficientPoints
	}
	user.Points += delta
	return user.Points, nil
}

func (r *stubUserRepo) TopByPoints(_ context.Context, _ int) ([]*domain.User, error) {
	return r.List(context.Background(), 0, 0)
}

type stubRewardRepo struct {
	mu      sync.Mutex
	rewards map[string]*domain.Reward
}

func newStubRewardRepo(rewards ...*domain.Reward) *stubRewardRepo {
	repo := &stubRewardRepo{rewards: make(map[string]*domain.Reward)}
	for _, reward := range rewards {
		repo.rewards[reward.ID] = reward
	}
	return repo
}

func (r *stubRewardRepo) Create(_ context.Context, reward *domain.Reward) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reward.ID = "r" + strconv.Itoa(len(r.rewards)+1)
	r.rewards[reward.ID] = reward
	return nil
}

func (r *stubRewardRepo) Update(_ context.Context, reward *domain.Reward) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rewards[reward.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.rewards[reward.ID] = reward
	return nil
}

func (r *stubRewardRepo) GetByID(_ context.Context, id string) (*domain.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reward, ok := r.rewards[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *reward
	return &copied, nil
}

func (r *stubRewardRepo) ListActive(_ context.Context) ([]*domain.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Reward
	for _, reward := range r.rewards {
		if reward.Active {
			copied := *reward
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *stubRewardRepo) ListAll(_ context.Context, _, _ int) ([]*domain.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Reward
	for _, reward := range r.rewards {
		copied := *reward
		out = append(out, &copied)
	}
	return out, nil
}

func (r *stubRewardRepo) DecrementStock(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reward, ok := r.rewards[id]
	if !ok || reward.Stock <= 0 {
		return repository.ErrOutOfStock
	}
	reward.Stock--
	return nil
}

func (r *stubRewardRepo) IncrementStock(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reward, ok := r.rewards[id]
	if !ok {
		return pgx.ErrNoRows
	}
	reward.Stock++
	return nil
}

type stubRedemptionRepo struct {
	mu          sync.Mutex
	redemptions map[string]*domain.Redemption
}

func newStubRedemptionRepo() *stubRedemptionRepo {
	return &stubRedemptionRepo{redemptions: make(map[string]*domain.Redemption)}
}

func (r *stubRedemptionRepo) Create(_ context.Context, redemption *domain.Redemption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	redemption.ID = "d" + strconv.Itoa(len(r.redemptions)+1)
	copied := *redemption
	r.redemptions[redemption.ID] = &copied
	return nil
}

func (r *stubRedemptionRepo) GetByID(_ context.Context, id string) (*domain.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	redemption, ok := r.redemptions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *redemption
	return &copied, nil
}

func (r *stubRedemptionRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]*domain.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Redemption
	for _, redemption := range r.redemptions {
		if redemption.UserID == userID {
			copied := *redemption
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *stubRedemptionRepo) ListByStatus(_ context.Context, status domain.RedemptionStatus, _, _ int) ([]*domain.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Redemption
	for _, redemption := range r.redemptions {
		if redemption.Status == status {
			copied := *redemption
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *stubRedemptionRepo) MarkVerified(_ context.Context, id, verifierID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	redemption, ok := r.redemptions[id]
	if !ok || redemption.Status != domain.RedemptionStatusPending {
		return repository.ErrRedemptionNotPending
	}
	redemption.Status = domain.RedemptionStatusVerified
	redemption.VerifiedBy = &verifierID
	return nil
}

func (r *stubRedemptionRepo) MarkCancelled(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	redemption, ok := r.redemptions[id]
	if !ok || redemption.Status != domain.RedemptionStatusPending {
		return repository.ErrRedemptionNotPending
	}
	redemption.Status = domain.RedemptionStatusCancelled
	return nil
}

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *stubAuditRepo) Record(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubAuditRepo) List(_ context.Context, _, _ int) ([]*domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.AuditLog{}, r.entries...), nil
}
