// Package memory is an in-process implementation of the repository ports.
// A transaction journals the writes made through its context and reverts
// only those on failure. Writes outside the transaction are untouched, and
// id sequences are not rewound.
package memory

import (
	"context"
	"fmt"
	"sync"

	"sound-byte/internal/domain"
)

type taskRow struct {
	id           int64
	exerciseID   int64
	serialNumber int
	options      []int64
	correct      int64
	parts        map[int]int64
}

type accountRow struct {
	account     domain.Account
	authorities []string
}

type state struct {
	groups      map[int64]domain.Group
	series      map[int64]domain.Series
	exercises   map[int64]domain.Exercise
	resources   map[int64]domain.Resource
	tasks       map[int64]taskRow
	authorities map[string]struct{}
	accounts    map[string]accountRow
	histories   map[string]domain.StudyHistory
	resourceSeq int64
	taskSeq     int64
}

func newState() state {
	return state{
		groups:      map[int64]domain.Group{},
		series:      map[int64]domain.Series{},
		exercises:   map[int64]domain.Exercise{},
		resources:   map[int64]domain.Resource{},
		tasks:       map[int64]taskRow{},
		authorities: map[string]struct{}{},
		accounts:    map[string]accountRow{},
		histories:   map[string]domain.StudyHistory{},
	}
}

// Store holds all entities behind one mutex.
type Store struct {
	mu sync.RWMutex
	st state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

type txKey struct{}

// journal holds the undo steps of one transaction, newest last.
type journal struct {
	undo []func()
}

// remember journals how to restore m[k] when ctx carries a transaction.
// Callers hold the store's write lock.
func remember[K comparable, V any](ctx context.Context, m map[K]V, k K) {
	j, ok := ctx.Value(txKey{}).(*journal)
	if !ok {
		return
	}
	old, existed := m[k]
	j.undo = append(j.undo, func() {
		if existed {
			m[k] = old
		} else {
			delete(m, k)
		}
	})
}

func (s *Store) revert(j *journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// WithTransaction implements domain.TransactionManager. Nested calls join
// the outer transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*journal); ok {
		return fn(ctx)
	}

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			s.revert(j)
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		s.revert(j)
	}
	return err
}

func (s *Store) Groups() domain.GroupRepository { return groupRepo{s} }
func (s *Store) Series() domain.SeriesRepository { return seriesRepo{s} }
func (s *Store) Exercises() domain.ExerciseRepository { return exerciseRepo{s} }
func (s *Store) Resources() domain.ResourceRepository { return resourceRepo{s} }
func (s *Store) Tasks() domain.TaskRepository { return taskRepo{s} }
func (s *Store) Authorities() domain.AuthorityRepository { return authorityRepo{s} }
func (s *Store) Accounts() domain.AccountRepository { return accountRepo{s} }
func (s *Store) StudyHistories() domain.StudyHistoryRepository { return studyHistoryRepo{s} }

type groupRepo struct{ s *Store }

func (r groupRepo) SaveAll(ctx context.Context, groups []*domain.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range groups {
		if _, ok := r.s.st.groups[g.ID]; ok {
			return fmt.Errorf("group %d: %w", g.ID, domain.ErrConflict)
		}
	}
	for _, g := range groups {
		remember(ctx, r.s.st.groups, g.ID)
		r.s.st.groups[g.ID] = domain.Group{ID: g.ID, Name: g.Name, Description: g.Description}
	}
	return nil
}

func (r groupRepo) FindByID(ctx context.Context, id int64) (*domain.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.st.groups[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r groupRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.st.groups)), nil
}

type seriesRepo struct{ s *Store }

func (r seriesRepo) SaveAll(ctx context.Context, series []*domain.Series) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range series {
		if _, ok := r.s.st.series[s.ID]; ok {
			return fmt.Errorf("series %d: %w", s.ID, domain.ErrConflict)
		}
		if _, ok := r.s.st.groups[s.GroupID]; !ok {
			return fmt.Errorf("series %d references missing group %d", s.ID, s.GroupID)
		}
	}
	for _, s := range series {
		remember(ctx, r.s.st.series, s.ID)
		r.s.st.series[s.ID] = domain.Series{ID: s.ID, GroupID: s.GroupID, Name: s.Name, Description: s.Description}
	}
	return nil
}

func (r seriesRepo) FindByID(ctx context.Context, id int64) (*domain.Series, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.st.series[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r seriesRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.st.series)), nil
}

type exerciseRepo struct{ s *Store }

func (r exerciseRepo) SaveAll(ctx context.Context, exercises []*domain.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range exercises {
		if _, ok := r.s.st.exercises[e.ID]; ok {
			return fmt.Errorf("exercise %d: %w", e.ID, domain.ErrConflict)
		}
		if _, ok := r.s.st.series[e.SeriesID]; !ok {
			return fmt.Errorf("exercise %d references missing series %d", e.ID, e.SeriesID)
		}
	}
	for _, e := range exercises {
		stored := *e
		stored.Tasks = nil
		remember(ctx, r.s.st.exercises, e.ID)
		r.s.st.exercises[e.ID] = stored
	}
	return nil
}

func (r exerciseRepo) FindByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.st.exercises[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r exerciseRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.st.exercises)), nil
}

type resourceRepo struct{ s *Store }

func (r resourceRepo) SaveAll(ctx context.Context, resources []*domain.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, res := range resources {
		if res.ID == 0 {
			r.s.st.resourceSeq++
			res.ID = r.s.st.resourceSeq
		}
		remember(ctx, r.s.st.resources, res.ID)
		r.s.st.resources[res.ID] = *res
	}
	return nil
}

func (r resourceRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.st.resources)), nil
}

type taskRepo struct{ s *Store }

func (r taskRepo) resourceID(res *domain.Resource) (int64, error) {
	if res == nil || res.ID == 0 {
		return 0, fmt.Errorf("task references an unsaved resource")
	}
	if _, ok := r.s.st.resources[res.ID]; !ok {
		return 0, fmt.Errorf("task references missing resource %d", res.ID)
	}
	return res.ID, nil
}

func (r taskRepo) SaveAll(ctx context.Context, tasks []*domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]taskRow, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := r.s.st.exercises[t.ExerciseID]; !ok {
			return fmt.Errorf("task %d references missing exercise %d", t.SerialNumber, t.ExerciseID)
		}
		row := taskRow{exerciseID: t.ExerciseID, serialNumber: t.SerialNumber, parts: map[int]int64{}}
		for _, opt := range t.AnswerOptions() {
			id, err := r.resourceID(opt)
			if err != nil {
				return err
			}
			row.options = append(row.options, id)
		}
		id, err := r.resourceID(t.CorrectAnswer())
		if err != nil {
			return err
		}
		row.correct = id
		for pos, res := range t.AnswerParts() {
			id, err := r.resourceID(res)
			if err != nil {
				return err
			}
			row.parts[pos] = id
		}
		rows = append(rows, row)
	}
	for i, row := range rows {
		r.s.st.taskSeq++
		row.id = r.s.st.taskSeq
		tasks[i].ID = row.id
		remember(ctx, r.s.st.tasks, row.id)
		r.s.st.tasks[row.id] = row
	}
	return nil
}

func (r taskRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.st.tasks)), nil
}
