package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"playlist_syncer/internal/domain"
	"playlist_syncer/internal/metrics"
)

// ErrBusy is returned by a trigger while another run is active.
var ErrBusy = errors.New("a run is already in progress")

type State string

const (
	StateIdle     State = "idle"
	StateParsing  State = "parsing"
	StateCreating State = "creating"
)

const (
	statusIdle         = "idle"
	statusParseStarted = "starting parse..."
	statusParseDone    = "finished parsing m3u file!"
	statusCreateStart  = "starting file creation..."
	statusCreateDone   = "finished creating files!"

	publishTimeout = 10 * time.Second
)

// Ingester fetches the playlist and reconciles it with the store.
type Ingester interface {
	Run(ctx context.Context, url string, report domain.ProgressFunc) (*domain.RunStats, error)
}

// Materializer regenerates the output files.
type Materializer interface {
	Run(ctx context.Context, settings *domain.Settings, report domain.ProgressFunc) (*domain.RunStats, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.RunEvent) error
}

type Config struct {
	CheckInterval time.Duration
	RunTimeout    time.Duration
	FetchHour     int
	FetchMinute   int
	FetchOnStart  bool
}

// Scheduler owns the idle/parsing/creating state machine. Triggers return
// at once; the run itself happens on a background goroutine and reports
// through Status. Only one run is active at a time.
type Scheduler struct {
	ingester     Ingester
	materializer Materializer
	settings     SettingsReader
	publisher    Publisher
	cfg          Config
	logger       *slog.Logger
	now          func() time.Time

	mu        sync.Mutex
	state     State
	status    string
	nextFetch time.Time

	wg sync.WaitGroup
}

type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithPublisher announces every finished run.
func WithPublisher(p Publisher) Option {
	return func(s *Scheduler) { s.publisher = p }
}

func NewScheduler(
	ingester Ingester,
	materializer Materializer,
	settings SettingsReader,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) *Scheduler {
	s := &Scheduler{
		ingester:     ingester,
		materializer: materializer,
		settings:     settings,
		cfg:          cfg,
		logger:       logger.With("component", "scheduler"),
		now:          time.Now,
		state:        StateIdle,
		status:       statusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.nextFetch = s.followingFetch(s.now())
	metrics.SetBusy(false)
	return s
}

// Start runs the timer loop until ctx is done. Every CheckInterval it
// compares the clock with NextFetch and starts a parse when it is due.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"check_interval", s.cfg.CheckInterval,
		"next_fetch", s.NextFetch(),
	)

	if s.cfg.FetchOnStart {
		if err := s.TriggerParse(ctx); err != nil {
			s.logger.Warn("startup fetch not started", "error", err)
		}
	}

	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.checkDue(ctx)
		}
	}
}

func (s *Scheduler) checkDue(ctx context.Context) {
	s.mu.Lock()
	now := s.now()
	due := !now.Before(s.nextFetch)
	if due {
		s.nextFetch = s.followingFetch(now)
	}
	next := s.nextFetch
	s.mu.Unlock()

	if !due {
		return
	}

	s.logger.Info("scheduled fetch due", "next_fetch", next)
	if err := s.TriggerParse(ctx); err != nil {
		s.logger.Warn("scheduled fetch skipped", "error", err)
	}
}

// Wait blocks until the background run, if any, has finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// TriggerParse starts a parse run followed by a create run. It returns
// ErrBusy if a run is already active.
func (s *Scheduler) TriggerParse(ctx context.Context) error {
	if err := s.begin(StateParsing, statusParseStarted); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.runParse(context.WithoutCancel(ctx))
	return nil
}

// TriggerCreate starts a create run on its own. It returns ErrBusy if a run
// is already active.
func (s *Scheduler) TriggerCreate(ctx context.Context) error {
	if err := s.begin(StateCreating, statusCreateStart); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.runCreate(context.WithoutCancel(ctx))
	return nil
}

func (s *Scheduler) begin(state State, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrBusy
	}
	s.setStateLocked(state, status)
	return nil
}

func (s *Scheduler) transition(state State, status string) {
	s.mu.Lock()
	s.setStateLocked(state, status)
	s.mu.Unlock()
}

func (s *Scheduler) runParse(ctx context.Context) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	start := s.now()
	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.finish(ctx, domain.PhaseParse, start, nil, fmt.Errorf("load settings: %w", err))
		return
	}

	stats, err := s.ingester.Run(ctx, settings.URL, s.setStatus)
	s.Reschedule()
	if err != nil {
		s.finish(ctx, domain.PhaseParse, start, stats, err)
		return
	}
	s.complete(ctx, domain.PhaseParse, start, stats, StateCreating, statusParseDone)

	s.materialize(ctx, settings)
}

func (s *Scheduler) runCreate(ctx context.Context) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.finish(ctx, domain.PhaseCreate, s.now(), nil, fmt.Errorf("load settings: %w", err))
		return
	}

	s.materialize(ctx, settings)
}

func (s *Scheduler) materialize(ctx context.Context, settings *domain.Settings) {
	start := s.now()
	stats, err := s.materializer.Run(ctx, settings, s.setStatus)
	if err != nil {
		s.finish(ctx, domain.PhaseCreate, start, stats, err)
		return
	}
	s.complete(ctx, domain.PhaseCreate, start, stats, StateIdle, statusCreateDone)
}

// complete records a successful phase and moves on to next.
func (s *Scheduler) complete(ctx context.Context, phase domain.Phase, start time.Time, stats *domain.RunStats, next State, status string) {
	s.transition(next, status)
	metrics.RecordRun(string(phase), nil, s.now().Sub(start))
	s.logger.Info("run finished", "phase", phase)
	s.publish(ctx, phase, true, status, stats)
}

// finish records a failed phase and returns to idle.
func (s *Scheduler) finish(ctx context.Context, phase domain.Phase, start time.Time, stats *domain.RunStats, err error) {
	status := fmt.Sprintf("%s failed: %v", phase, err)
	s.transition(StateIdle, status)

	metrics.RecordRun(string(phase), err, s.now().Sub(start))
	s.logger.Error("run failed", "phase", phase, "error", err)
	s.publish(ctx, phase, false, status, stats)
}

func (s *Scheduler) publish(ctx context.Context, phase domain.Phase, success bool, status string, stats *domain.RunStats) {
	if s.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := &domain.RunEvent{
		Phase:     phase,
		Success:   success,
		Status:    status,
		Stats:     stats,
		Timestamp: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish run event", "phase", phase, "error", err)
	}
}

func (s *Scheduler) setStateLocked(state State, status string) {
	s.state = state
	s.status = status
	metrics.SetBusy(state != StateIdle)
}

func (s *Scheduler) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Status returns the most recent human-readable progress text.
func (s *Scheduler) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsBusy reports whether a parse or create run is active.
func (s *Scheduler) IsBusy() bool {
	return s.State() != StateIdle
}

func (s *Scheduler) NextFetch() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextFetch
}

// Reschedule moves the next fetch to tomorrow at the configured time.
func (s *Scheduler) Reschedule() {
	s.mu.Lock()
	s.nextFetch = s.followingFetch(s.now())
	next := s.nextFetch
	s.mu.Unlock()

	s.logger.Debug("next fetch scheduled", "next_fetch", next)
}

// followingFetch returns the fetch time on the calendar day after t, in t's
// location.
func (s *Scheduler) followingFetch(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, s.cfg.FetchHour, s.cfg.FetchMinute, 0, 0, t.Location())
}
