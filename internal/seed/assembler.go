package seed

import (
	"context"
	"fmt"
	"sort"

	"sound-byte/internal/domain"
)

// Sink is the set of repositories a seed pass writes to.
type Sink struct {
	Groups    domain.GroupRepository
	Series    domain.SeriesRepository
	Exercises domain.ExerciseRepository
	Tasks     domain.TaskRepository
	Resources domain.ResourceRepository
}

// ResourceRegistry interns resources by content so every task of a pass
// that uses the same word shares one persisted resource.
type ResourceRegistry struct {
	byKey map[string]*domain.Resource
	order []*domain.Resource
}

func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{byKey: make(map[string]*domain.Resource)}
}

// Intern returns the registered resource equal to r, registering r if new.
func (reg *ResourceRegistry) Intern(r *domain.Resource) *domain.Resource {
	if existing, ok := reg.byKey[r.Key()]; ok {
		return existing
	}
	reg.byKey[r.Key()] = r
	reg.order = append(reg.order, r)
	return r
}

// Unsaved returns registered resources that have no id yet, in registration order.
func (reg *ResourceRegistry) Unsaved() []*domain.Resource {
	var out []*domain.Resource
	for _, r := range reg.order {
		if r.ID == 0 {
			out = append(out, r)
		}
	}
	return out
}

func (reg *ResourceRegistry) Len() int {
	return len(reg.order)
}

// Assembler links converted entities to their parents and builds the
// group -> series -> exercise aggregate of the pass. Parents known from
// earlier stages are cached; anything else is looked up in the sink.
type Assembler struct {
	sink      Sink
	groups    map[int64]*domain.Group
	series    map[int64]*domain.Series
	exercises map[int64]struct{}
	resources *ResourceRegistry
}

func NewAssembler(sink Sink) *Assembler {
	return &Assembler{
		sink:      sink,
		groups:    make(map[int64]*domain.Group),
		series:    make(map[int64]*domain.Series),
		exercises: make(map[int64]struct{}),
		resources: NewResourceRegistry(),
	}
}

func (a *Assembler) Resources() *ResourceRegistry {
	return a.resources
}

func (a *Assembler) group(ctx context.Context, id int64) (*domain.Group, error) {
	if g, ok := a.groups[id]; ok {
		return g, nil
	}
	g, err := a.sink.Groups.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("look up group %d: %w", id, err)
	}
	if g != nil {
		a.groups[id] = g
	}
	return g, nil
}

func (a *Assembler) seriesByID(ctx context.Context, id int64) (*domain.Series, error) {
	if s, ok := a.series[id]; ok {
		return s, nil
	}
	s, err := a.sink.Series.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("look up series %d: %w", id, err)
	}
	if s != nil {
		a.series[id] = s
	}
	return s, nil
}

func (a *Assembler) hasExercise(ctx context.Context, id int64) (bool, error) {
	if _, ok := a.exercises[id]; ok {
		return true, nil
	}
	e, err := a.sink.Exercises.FindByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("look up exercise %d: %w", id, err)
	}
	if e != nil {
		a.exercises[id] = struct{}{}
	}
	return e != nil, nil
}

// AttachGroups registers top-level groups, rejecting duplicate ids.
func (a *Assembler) AttachGroups(ctx context.Context, groups []*domain.Group) error {
	seen := make(map[int64]struct{}, len(groups))
	for _, g := range groups {
		if _, dup := seen[g.ID]; dup {
			return &AssemblyError{Entity: "group", ID: g.ID, Reason: "is declared more than once"}
		}
		seen[g.ID] = struct{}{}
		if err := g.Validate(); err != nil {
			return &AssemblyError{Entity: "group", ID: g.ID, Reason: err.Error()}
		}
	}
	for _, g := range groups {
		a.groups[g.ID] = g
	}
	return nil
}

// AttachSeries requires every series' group to exist and adds the series
// to it.
func (a *Assembler) AttachSeries(ctx context.Context, series []*domain.Series) error {
	seen := make(map[int64]struct{}, len(series))
	for _, s := range series {
		if _, dup := seen[s.ID]; dup {
			return &AssemblyError{Entity: "series", ID: s.ID, Reason: "is declared more than once"}
		}
		seen[s.ID] = struct{}{}
		if err := s.Validate(); err != nil {
			return &AssemblyError{Entity: "series", ID: s.ID, Reason: err.Error()}
		}
		g, err := a.group(ctx, s.GroupID)
		if err != nil {
			return err
		}
		if g == nil {
			return &AssemblyError{Entity: "series", ID: s.ID, Parent: "group", ParentID: s.GroupID, Reason: "does not exist"}
		}
		g.AddSeries(s)
	}
	for _, s := range series {
		a.series[s.ID] = s
	}
	return nil
}

// AttachExercises requires every exercise's series to exist, adds the
// exercise to it and interns the resources of any tasks the exercise
// already carries.
func (a *Assembler) AttachExercises(ctx context.Context, exercises []*domain.Exercise) error {
	seen := make(map[int64]struct{}, len(exercises))
	for _, e := range exercises {
		if _, dup := seen[e.ID]; dup {
			return &AssemblyError{Entity: "exercise", ID: e.ID, Reason: "is declared more than once"}
		}
		if _, known := a.exercises[e.ID]; known {
			return &AssemblyError{Entity: "exercise", ID: e.ID, Reason: "already exists"}
		}
		seen[e.ID] = struct{}{}
		if err := e.Validate(); err != nil {
			return &AssemblyError{Entity: "exercise", ID: e.ID, Reason: err.Error()}
		}
		s, err := a.seriesByID(ctx, e.SeriesID)
		if err != nil {
			return err
		}
		if s == nil {
			return &AssemblyError{Entity: "exercise", ID: e.ID, Parent: "series", ParentID: e.SeriesID, Reason: "does not exist"}
		}
		s.AddExercise(e)
		for _, t := range e.Tasks {
			t.ExerciseID = e.ID
			t.ReplaceResources(a.resources.Intern)
		}
	}
	for id := range seen {
		a.exercises[id] = struct{}{}
	}
	return nil
}

// AttachTasks requires every task's exercise to exist and interns the
// task's resources.
func (a *Assembler) AttachTasks(ctx context.Context, tasks []*domain.Task) error {
	for _, t := range tasks {
		ok, err := a.hasExercise(ctx, t.ExerciseID)
		if err != nil {
			return err
		}
		if !ok {
			return &AssemblyError{Entity: "task", ID: int64(t.SerialNumber), Parent: "exercise", ParentID: t.ExerciseID, Reason: "does not exist"}
		}
		t.ReplaceResources(a.resources.Intern)
	}
	return nil
}

func (a *Assembler) nextExerciseID() int64 {
	var max int64
	for id := range a.exercises {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func (a *Assembler) lowestGroupID() (int64, bool) {
	ids := make([]int64, 0, len(a.groups))
	for id := range a.groups {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return 0, false
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0], true
}

// SentenceSeries is the programmatically built part of the exercise graph.
// Container is non-nil when the target series had to be created.
type SentenceSeries struct {
	Container *domain.Series
	Exercise  *domain.Exercise
}

// SynthesizeSentenceSeries builds the two-word sentence recognition
// exercise and attaches it to the sentence series, creating that series
// under the lowest-id group when no source declared it.
func (a *Assembler) SynthesizeSentenceSeries(ctx context.Context) (*SentenceSeries, error) {
	out := &SentenceSeries{}
	target, err := a.seriesByID(ctx, sentenceSeriesID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		groupID, found := a.lowestGroupID()
		if !found {
			return nil, &AssemblyError{Entity: "series", ID: sentenceSeriesID, Parent: "group", Reason: "has no group to attach to"}
		}
		out.Container = domain.NewSeries(sentenceSeriesID, groupID, sentenceSeriesName, sentenceSeriesDescription)
		if err := a.AttachSeries(ctx, []*domain.Series{out.Container}); err != nil {
			return nil, err
		}
	}

	exercise, err := buildSentenceExercise(a.nextExerciseID())
	if err != nil {
		return nil, err
	}
	if err := a.AttachExercises(ctx, []*domain.Exercise{exercise}); err != nil {
		return nil, err
	}
	out.Exercise = exercise
	return out, nil
}
