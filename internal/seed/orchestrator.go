package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sound-byte/internal/domain"
	"sound-byte/internal/ingest"

	"go.uber.org/zap"
)

// State is the orchestrator's position in a seed pass.
type State string

const (
	StateIdle           State = "IDLE"
	StateSourceResolved State = "SOURCE_RESOLVED"
	StateSkipped        State = "SKIPPED"
	StateSeeding        State = "SEEDING"
	StateDone           State = "DONE"
	StateFailed         State = "FAILED"
)

type StageResult struct {
	Stage   Kind `json:"stage"`
	Loaded  int  `json:"loaded"`
	Skipped int  `json:"skipped"`
}

type Result struct {
	State      State         `json:"state"`
	Reason     string        `json:"reason,omitempty"`
	Source     string        `json:"source,omitempty"`
	Stages     []StageResult `json:"stages,omitempty"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
}

// Status is the externally visible view of the seeded graph.
type Status struct {
	State     State   `json:"state"`
	Seeded    bool    `json:"seeded"`
	Groups    int64   `json:"groups"`
	Series    int64   `json:"series"`
	Exercises int64   `json:"exercises"`
	Tasks     int64   `json:"tasks"`
	Resources int64   `json:"resources"`
	LastRun   *Result `json:"lastRun,omitempty"`
}

type Options struct {
	Folder            string
	Format            ingest.Format
	RowPolicy         ingest.RowPolicy
	SingleTransaction bool
	// Disabled keeps the exercise graph untouched; accounts are still bootstrapped.
	Disabled          bool
}

// Orchestrator drives the one-time seed pass:
// Idle -> SourceResolved -> (Skipped | Seeding -> Done), Failed on error.
type Orchestrator struct {
	opts      Options
	sink      Sink
	tx        domain.TransactionManager
	lock      domain.SeedLock
	bootstrap *Bootstrapper
	log       *zap.Logger

	source    Source
	byFormat  map[ingest.Format]ingest.RecordParser
	overrides map[Kind]ingest.RecordParser

	mu    sync.Mutex
	state State
	last  *Result
}

type Option func(*Orchestrator)

// WithSource bypasses folder resolution.
func WithSource(src Source) Option {
	return func(o *Orchestrator) { o.source = src }
}

// WithParser sets the record parser for one stage regardless of format.
func WithParser(kind Kind, p ingest.RecordParser) Option {
	return func(o *Orchestrator) { o.overrides[kind] = p }
}

func NewOrchestrator(opts Options, sink Sink, tx domain.TransactionManager, lock domain.SeedLock, bootstrap *Bootstrapper, log *zap.Logger, options ...Option) (*Orchestrator, error) {
	if opts.Format == "" {
		opts.Format = ingest.FormatCSV
	}
	if opts.RowPolicy == "" {
		opts.RowPolicy = ingest.RowPolicyAbort
	}
	o := &Orchestrator{
		opts:      opts,
		sink:      sink,
		tx:        tx,
		lock:      lock,
		bootstrap: bootstrap,
		log:       log,
		byFormat:  make(map[ingest.Format]ingest.RecordParser),
		overrides: make(map[Kind]ingest.RecordParser),
		state:     StateIdle,
	}
	for _, f := range []ingest.Format{ingest.FormatCSV, ingest.FormatTSV, ingest.FormatXLSX} {
		p, err := ingest.ParserFor(f)
		if err != nil {
			return nil, err
		}
		o.byFormat[f] = p
	}
	if _, ok := o.byFormat[opts.Format]; !ok {
		return nil, &ConfigurationError{Setting: "seed.format", Value: string(opts.Format), Err: errors.New("unsupported format")}
	}
	for _, opt := range options {
		opt(o)
	}
	return o, nil
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	prev := o.state
	o.state = s
	o.mu.Unlock()
	o.log.Info("Seed state changed", zap.String("from", string(prev)), zap.String("to", string(s)))
}

// OnApplicationReady ensures the bootstrap accounts, then runs the seed
// pass unless seeding is disabled. Bootstrap failures are returned before
// any seeding is attempted.
func (o *Orchestrator) OnApplicationReady(ctx context.Context) (*Result, error) {
	if o.bootstrap != nil {
		if err := o.bootstrap.Bootstrap(ctx); err != nil {
			return nil, &BootstrapError{Err: err}
		}
	}
	if o.opts.Disabled {
		now := time.Now()
		res := &Result{StartedAt: now, FinishedAt: now}
		o.skip(res, "seeding disabled")
		o.setState(StateSkipped)
		o.mu.Lock()
		o.last = res
		o.mu.Unlock()
		return res, nil
	}
	return o.Run(ctx)
}

// Run performs at most one seed pass. It returns a Result describing the
// outcome even when err is non-nil.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	res := &Result{StartedAt: time.Now()}
	o.setState(StateIdle)

	err := o.run(ctx, res)
	res.FinishedAt = time.Now()
	if err != nil {
		res.State = StateFailed
		res.Reason = err.Error()
		o.setState(StateFailed)
		o.log.Error("Seed pass failed", zap.String("source", res.Source), zap.Error(err))
	} else {
		o.setState(res.State)
	}

	o.mu.Lock()
	o.last = res
	o.mu.Unlock()
	return res, err
}

func (o *Orchestrator) run(ctx context.Context, res *Result) error {
	src := o.source
	if src == nil {
		resolved, err := ResolveSource(o.opts.Folder, o.opts.Format)
		if err != nil {
			return err
		}
		src = resolved
	}
	res.Source = src.Location()
	if err := src.Verify(requiredKinds); err != nil {
		return err
	}
	o.setState(StateSourceResolved)

	seeded, err := o.seeded(ctx)
	if err != nil {
		return err
	}
	if seeded {
		o.skip(res, "exercise groups already present")
		return nil
	}

	release, acquired, err := o.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire seed lock: %w", err)
	}
	if !acquired {
		o.skip(res, "another instance holds the seed lock")
		return nil
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			o.log.Warn("Failed to release seed lock", zap.Error(err))
		}
	}()

	// the lock holder before us may have finished seeding
	if seeded, err = o.seeded(ctx); err != nil {
		return err
	}
	if seeded {
		o.skip(res, "exercise groups already present")
		return nil
	}

	o.setState(StateSeeding)
	p := &pass{src: src, asm: NewAssembler(o.sink)}
	if o.opts.SingleTransaction {
		err = o.tx.WithTransaction(ctx, func(ctx context.Context) error {
			return o.runStages(ctx, p, res, func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
		})
	} else {
		err = o.runStages(ctx, p, res, o.tx.WithTransaction)
	}
	if err != nil {
		return err
	}
	res.State = StateDone
	o.log.Info("Seed pass completed", zap.String("source", res.Source), zap.Int("resources", p.asm.Resources().Len()))
	return nil
}

func (o *Orchestrator) skip(res *Result, reason string) {
	res.State = StateSkipped
	res.Reason = reason
	o.log.Info("Seed pass skipped", zap.String("reason", reason))
}

func (o *Orchestrator) seeded(ctx context.Context) (bool, error) {
	n, err := o.sink.Groups.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count exercise groups: %w", err)
	}
	return n > 0, nil
}

type pass struct {
	src Source
	asm *Assembler
}

type txRunner func(ctx context.Context, fn func(context.Context) error) error

type stage struct {
	kind Kind
	run  func(ctx context.Context, p *pass, inTx txRunner) (StageResult, error)
}

func (o *Orchestrator) stages() []stage {
	return []stage{
		{KindGroups, o.loadGroups},
		{KindSeries, o.loadSeries},
		{KindExercises, o.loadExercises},
		{KindSeries1Tasks, o.loadSeries1Tasks},
		{KindSeries2, o.loadSeries2},
		{KindSentenceSeries, o.synthesizeSentenceSeries},
	}
}

func (o *Orchestrator) runStages(ctx context.Context, p *pass, res *Result, inTx txRunner) error {
	for _, st := range o.stages() {
		o.log.Info("Seed stage started", zap.String("stage", string(st.kind)))
		sr, err := st.run(ctx, p, inTx)
		if err != nil {
			return &StageError{Stage: st.kind, Err: err}
		}
		sr.Stage = st.kind
		res.Stages = append(res.Stages, sr)
		o.log.Info("Seed stage finished",
			zap.String("stage", string(st.kind)),
			zap.Int("loaded", sr.Loaded),
			zap.Int("skipped", sr.Skipped),
		)
	}
	return nil
}

func (o *Orchestrator) parserFor(kind Kind, format ingest.Format) ingest.RecordParser {
	if p, ok := o.overrides[kind]; ok {
		return p
	}
	return o.byFormat[format]
}

// load opens the stage's file, converts every row and closes the file
// before returning.
func load[T any](o *Orchestrator, p *pass, kind Kind, conv ingest.Converter[T]) ([]T, int, error) {
	rc, err := p.src.Open(kind)
	if err != nil {
		return nil, 0, err
	}
	seq := ingest.Ingest(rc, p.src.FileName(kind), o.parserFor(kind, p.src.Format()), conv, o.log)
	return ingest.Collect(seq, o.opts.RowPolicy, o.log)
}

// persistTasks saves resources first so task links can reference their ids.
func (o *Orchestrator) persistTasks(ctx context.Context, p *pass, tasks []*domain.Task) error {
	if unsaved := p.asm.Resources().Unsaved(); len(unsaved) > 0 {
		if err := o.sink.Resources.SaveAll(ctx, unsaved); err != nil {
			return fmt.Errorf("save resources: %w", err)
		}
	}
	if len(tasks) == 0 {
		return nil
	}
	if err := o.sink.Tasks.SaveAll(ctx, tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func tasksOf(exercises []*domain.Exercise) []*domain.Task {
	var tasks []*domain.Task
	for _, e := range exercises {
		tasks = append(tasks, e.Tasks...)
	}
	return tasks
}

func (o *Orchestrator) loadGroups(ctx context.Context, p *pass, inTx txRunner) (StageResult, error) {
	groups, skipped, err := load(o, p, KindGroups, GroupConverter)
	if err != nil {
		return StageResult{}, err
	}
	err = inTx(ctx, func(ctx context.Context) error {
		if err := p.asm.AttachGroups(ctx, groups); err != nil {
			return err
		}
		return o.sink.Groups.SaveAll(ctx, groups)
	})
	return StageResult{Loaded: len(groups), Skipped: skipped}, err
}

func (o *Orchestrator) loadSeries(ctx context.Context, p *pass, inTx txRunner) (StageResult, error) {
	series, skipped, err := load(o, p, KindSeries, SeriesConverter)
	if err != nil {
		return StageResult{}, err
	}
	err = inTx(ctx, func(ctx context.Context) error {
		if err := p.asm.AttachSeries(ctx, series); err != nil {
			return err
		}
		return o.sink.Series.SaveAll(ctx, series)
	})
	return StageResult{Loaded: len(series), Skipped: skipped}, err
}

func (o *Orchestrator) loadExercises(ctx context.Context, p *pass, inTx txRunner) (StageResult, error) {
	exercises, skipped, err := load(o, p, KindExercises, ExerciseConverter)
	if err != nil {
		return StageResult{}, err
	}
	err = inTx(ctx, func(ctx context.Context) error {
		if err := p.asm.AttachExercises(ctx, exercises); err != nil {
			return err
		}
		return o.sink.Exercises.SaveAll(ctx, exercises)
	})
	return StageResult{Loaded: len(exercises), Skipped: skipped}, err
}

func (o *Orchestrator) loadSeries1Tasks(ctx context.Context, p *pass, inTx txRunner) (StageResult, error) {
	tasks, skipped, err := load(o, p, KindSeries1Tasks, Series1TaskConverter)
	if err != nil {
		return StageResult{}, err
	}
	err = inTx(ctx, func(ctx context.Context) error {
		if err := p.asm.AttachTasks(ctx, tasks); err != nil {
			return err
		}
		return o.persistTasks(ctx, p, tasks)
	})
	return StageResult{Loaded: len(tasks), Skipped: skipped}, err
}

func (o *Orchestrator) loadSeries2(ctx context.Context, p *pass, inTx txRunner) (StageResult, error) {
	exercises, skipped, err := load(o, p, KindSeries2, Series2ExerciseConverter)
	if err != nil {
		return StageResult{}, err
	}
	err = inTx(ctx, func(ctx context.Context) error {
		if err := p.asm.AttachExercises(ctx, exercises); err != nil {
			return err
		}
		if err := o.sink.Exercises.SaveAll(ctx, exercises); err != nil {
			return err
		}
		return o.persistTasks(ctx, p, tasksOf(exercises))
	})
	return StageResult{Loaded: len(exercises), Skipped: skipped}, err
}

func (o *Orchestrator) synthesizeSentenceSeries(ctx context.Context, p *pass, inTx txRunner) (StageResult, error) {
	err := inTx(ctx, func(ctx context.Context) error {
		synth, err := p.asm.SynthesizeSentenceSeries(ctx)
		if err != nil {
			return err
		}
		if synth.Container != nil {
			o.log.Info("Sentence series not declared, creating it", zap.Int64("group_id", synth.Container.GroupID))
			if err := o.sink.Series.SaveAll(ctx, []*domain.Series{synth.Container}); err != nil {
				return err
			}
		}
		exercises := []*domain.Exercise{synth.Exercise}
		if err := o.sink.Exercises.SaveAll(ctx, exercises); err != nil {
			return err
		}
		return o.persistTasks(ctx, p, tasksOf(exercises))
	})
	if err != nil {
		return StageResult{}, err
	}
	return StageResult{Loaded: 1}, nil
}

// Status recomputes the seed status from the sink.
func (o *Orchestrator) Status(ctx context.Context) (*Status, error) {
	st := &Status{State: o.State()}
	counts := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&st.Groups, o.sink.Groups.Count},
		{&st.Series, o.sink.Series.Count},
		{&st.Exercises, o.sink.Exercises.Count},
		{&st.Tasks, o.sink.Tasks.Count},
		{&st.Resources, o.sink.Resources.Count},
	}
	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	st.Seeded = st.Groups > 0

	o.mu.Lock()
	if o.last != nil {
		last := *o.last
		st.LastRun = &last
	}
	o.mu.Unlock()
	return st, nil
}
