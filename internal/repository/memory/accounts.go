package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"sound-byte/internal/domain"
	"sound-byte/internal/util"
)

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type authorityRepo struct{ s *Store }

func (r authorityRepo) Upsert(ctx context.Context, authority *domain.Authority) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	remember(ctx, r.s.st.authorities, authority.Name)
	r.s.st.authorities[authority.Name] = struct{}{}
	return nil
}

type accountRepo struct{ s *Store }

func (r accountRepo) Upsert(ctx context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, name := range account.Authorities {
		if _, ok := r.s.st.authorities[name]; !ok {
			return fmt.Errorf("account %s references missing authority %s", account.Email, name)
		}
	}
	now := time.Now()
	if existing, ok := r.s.st.accounts[account.Email]; ok {
		account.ID = existing.account.ID
		account.CreatedAt = existing.account.CreatedAt
	} else {
		if account.ID == "" {
			account.ID = util.NewULID()
		}
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	stored := *account
	stored.Authorities = nil
	remember(ctx, r.s.st.accounts, account.Email)
	r.s.st.accounts[account.Email] = accountRow{
		account:     stored,
		authorities: append([]string(nil), account.Authorities...),
	}
	return nil
}

func (r accountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.st.accounts[email]
	if !ok {
		return nil, nil
	}
	acc := row.account
	acc.Authorities = append([]string(nil), row.authorities...)
	return &acc, nil
}

type studyHistoryRepo struct{ s *Store }

func (r studyHistoryRepo) keyTaken(h *domain.StudyHistory) bool {
	for id, existing := range r.s.st.histories {
		if id != h.ID && existing.SameKey(h) {
			return true
		}
	}
	return false
}

func (r studyHistoryRepo) FindByID(ctx context.Context, id string) (*domain.StudyHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	h, ok := r.s.st.histories[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r studyHistoryRepo) FindByKey(ctx context.Context, userID string, exerciseID int64, startTime time.Time) (*domain.StudyHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	probe := &domain.StudyHistory{UserID: userID, ExerciseID: exerciseID, StartTime: startTime}
	for _, id := range sortedKeys(r.s.st.histories) {
		if h := r.s.st.histories[id]; h.SameKey(probe) {
			return &h, nil
		}
	}
	return nil, nil
}

func (r studyHistoryRepo) Create(ctx context.Context, history *domain.StudyHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if history.ID == "" {
		history.ID = util.NewULID()
	}
	if _, ok := r.s.st.histories[history.ID]; ok || r.keyTaken(history) {
		return domain.ErrConflict
	}
	now := time.Now()
	history.CreatedAt = now
	history.UpdatedAt = now
	remember(ctx, r.s.st.histories, history.ID)
	r.s.st.histories[history.ID] = *history
	return nil
}

func (r studyHistoryRepo) Update(ctx context.Context, history *domain.StudyHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.st.histories[history.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.keyTaken(history) {
		return domain.ErrConflict
	}
	history.CreatedAt = existing.CreatedAt
	history.UpdatedAt = time.Now()
	remember(ctx, r.s.st.histories, history.ID)
	r.s.st.histories[history.ID] = *history
	return nil
}
