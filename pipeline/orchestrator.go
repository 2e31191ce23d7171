package pipeline

import (
	"context"
	"errors"
	"time"

	"scanbridge-backend/delivery"
	"scanbridge-backend/metrics"
	"scanbridge-backend/models"

	"go.uber.org/zap"
)

var (
	// ErrInactive means the scanner intake is stopped; decode events are
	// refused until Start.
	ErrInactive = errors.New("scanner intake is stopped")
	// ErrClosed means the pipeline loop has shut down.
	ErrClosed = errors.New("pipeline is shut down")
)

// Engine is the delivery side the orchestrator drives; satisfied by
// *delivery.Engine and by fakes in tests.
type Engine interface {
	Send(ctx context.Context, rec models.ScanRecord, cfg models.WebhookConfig) delivery.Result
}

// HistoryStore persists ledger snapshots; satisfied by *database.HistoryStore.
type HistoryStore interface {
	Load() ([]models.ScanRecord, error)
	Save(records []models.ScanRecord) error
}

// ConfigSource yields the current webhook config; satisfied by
// *database.ConfigStore. It is read freshly at gate-check and at send
// start, never cached across an event's lifetime.
type ConfigSource interface {
	Load() (models.WebhookConfig, error)
}

// SubmitOutcome describes what the pipeline did with one decode event.
// Exactly one of Accepted, Deduplicated, Throttled is set.
type SubmitOutcome struct {
	Accepted     bool
	Deduplicated bool
	Throttled    bool
	RetryAfterMs int64             // advisory wait, only when Throttled
	Record       models.ScanRecord // only when Accepted
}

// Options tune the orchestrator; zero values pick sane defaults.
type Options struct {
	DebounceWindow time.Duration
	Now            func() time.Time
	Logger         *zap.Logger
}

// Orchestrator wires debouncer, gate, ledger and delivery engine together.
// A single loop goroutine owns every piece of mutable state; public methods
// hand it closures over the ops channel, so no two ledger mutations ever
// run concurrently and no locks are needed. Delivery attempts run in their
// own goroutines and post results back into the loop, keyed by record id.
type Orchestrator struct {
	engine  Engine
	history HistoryStore
	config  ConfigSource
	log     *zap.Logger
	now     func() time.Time

	// loop-owned state
	debouncer *Debouncer
	gate      *Gate
	ledger    *Ledger
	active    bool

	ops  chan func()
	quit chan struct{}
	done chan struct{}
}

func NewOrchestrator(engine Engine, history HistoryStore, config ConfigSource, opts Options) *Orchestrator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		engine:    engine,
		history:   history,
		config:    config,
		log:       log,
		now:       now,
		debouncer: NewDebouncer(opts.DebounceWindow),
		gate:      NewGate(),
		ledger:    NewLedger(now),
		active:    true,
		ops:       make(chan func(), 64),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run restores the persisted ledger and processes operations until
// Shutdown. Call it once, in its own goroutine.
func (o *Orchestrator) Run() {
	defer close(o.done)
	o.restore()
	for {
		select {
		case <-o.quit:
			// Drain what is already queued so callers blocked on a reply
			// are not stranded, then stop.
			for {
				select {
				case op := <-o.ops:
					op()
				default:
					return
				}
			}
		case op := <-o.ops:
			op()
		}
	}
}

// Shutdown stops the loop. In-flight deliveries are not cancelled; their
// results are discarded and the affected records stay pending, which is an
// accepted end state.
func (o *Orchestrator) Shutdown() {
	select {
	case <-o.quit:
	default:
		close(o.quit)
	}
	<-o.done
}

// Submit runs one decode event through the pipeline and reports the
// outcome. Debounce drops are silent, throttle rejections carry the
// remaining wait, acceptances return the pending record whose delivery is
// already underway.
func (o *Orchestrator) Submit(text, format string) (SubmitOutcome, error) {
	metrics.ScansSubmittedTotal.Inc()
	type reply struct {
		out SubmitOutcome
		err error
	}
	ch := make(chan reply, 1)
	if err := o.do(func() {
		out, err := o.handleDecode(text, format)
		ch <- reply{out, err}
	}); err != nil {
		return SubmitOutcome{}, err
	}
	r, err := awaitReply(o, ch)
	if err != nil {
		return SubmitOutcome{}, err
	}
	return r.out, r.err
}

// TodayView returns today's records, newest first.
func (o *Orchestrator) TodayView() ([]models.ScanRecord, error) {
	ch := make(chan []models.ScanRecord, 1)
	if err := o.do(func() {
		o.pruneAndPersist()
		ch <- o.ledger.TodayView()
	}); err != nil {
		return nil, err
	}
	return awaitReply(o, ch)
}

// Clear empties the scan history.
func (o *Orchestrator) Clear() error {
	ch := make(chan struct{}, 1)
	if err := o.do(func() {
		o.ledger.Clear()
		o.persist()
		ch <- struct{}{}
	}); err != nil {
		return err
	}
	_, err := awaitReply(o, ch)
	return err
}

// Start resumes the scanner intake.
func (o *Orchestrator) Start() error {
	return o.setActive(true)
}

// Stop pauses the scanner intake. Deliveries already in flight keep
// running and still reconcile.
func (o *Orchestrator) Stop() error {
	return o.setActive(false)
}

// Active reports whether the intake currently accepts decode events.
func (o *Orchestrator) Active() (bool, error) {
	ch := make(chan bool, 1)
	if err := o.do(func() { ch <- o.active }); err != nil {
		return false, err
	}
	return awaitReply(o, ch)
}

func (o *Orchestrator) setActive(active bool) error {
	ch := make(chan struct{}, 1)
	if err := o.do(func() {
		o.active = active
		ch <- struct{}{}
	}); err != nil {
		return err
	}
	_, err := awaitReply(o, ch)
	return err
}

// do schedules op onto the loop, failing once the pipeline is shut down.
func (o *Orchestrator) do(op func()) error {
	select {
	case <-o.quit:
		return ErrClosed
	case o.ops <- op:
		return nil
	}
}

// awaitReply waits for the loop to answer, bailing out if the loop
// terminates first (an op enqueued during shutdown may never run).
func awaitReply[T any](o *Orchestrator, ch <-chan T) (T, error) {
	select {
	case v := <-ch:
		return v, nil
	case <-o.done:
		// Prefer a reply that raced in just before the loop stopped.
		select {
		case v := <-ch:
			return v, nil
		default:
			var zero T
			return zero, ErrClosed
		}
	}
}

// handleDecode runs inside the loop.
func (o *Orchestrator) handleDecode(text, format string) (SubmitOutcome, error) {
	if !o.active {
		return SubmitOutcome{}, ErrInactive
	}

	now := o.now()
	o.pruneAndPersist()

	if !o.debouncer.Accept(text, now) {
		metrics.ScansDeduplicatedTotal.Inc()
		return SubmitOutcome{Deduplicated: true}, nil
	}

	cfg, err := o.config.Load()
	if err != nil {
		o.log.Error("webhook config load failed, using defaults", zap.Error(err))
		cfg = models.DefaultWebhookConfig()
	}

	if ok, remaining := o.gate.Check(now, cfg.Pause()); !ok {
		metrics.ScansThrottledTotal.Inc()
		return SubmitOutcome{Throttled: true, RetryAfterMs: RemainingMs(remaining)}, nil
	}

	rec := models.NewScanRecord(text, format, now)
	o.ledger.Insert(rec)
	o.persist()
	metrics.ScansAcceptedTotal.Inc()
	o.log.Info("scan accepted",
		zap.String("id", rec.ID),
		zap.String("format", rec.Format))

	go o.deliver(rec, cfg)

	return SubmitOutcome{Accepted: true, Record: rec}, nil
}

// deliver runs outside the loop: one goroutine per accepted scan. The
// config is re-read at send start so a settings edit made after the gate
// check still applies, while an edit mid-send does not.
func (o *Orchestrator) deliver(rec models.ScanRecord, fallback models.WebhookConfig) {
	cfg, err := o.config.Load()
	if err != nil {
		o.log.Error("webhook config load failed at send, using gate-check config", zap.Error(err))
		cfg = fallback
	}

	res := o.engine.Send(context.Background(), rec, cfg)

	if err := o.do(func() { o.applyResult(rec.ID, res) }); err != nil {
		// Shut down mid-flight; the record stays pending forever, which is
		// an accepted end state.
		o.log.Warn("delivery result discarded, pipeline closed", zap.String("id", rec.ID))
	}
}

// applyResult runs inside the loop and reconciles a delivery outcome by id.
func (o *Orchestrator) applyResult(id string, res delivery.Result) {
	o.pruneAndPersist()
	if !o.ledger.UpdateStatus(id, res.Status, res.ResponseCode, res.Error) {
		// Pruned mid-flight; the result is simply dropped.
		o.log.Debug("delivery result for unknown record", zap.String("id", id))
		return
	}
	o.persist()
	o.log.Info("delivery reconciled",
		zap.String("id", id),
		zap.String("status", string(res.Status)))
}

func (o *Orchestrator) restore() {
	records, err := o.history.Load()
	if err != nil {
		o.log.Error("history restore failed, starting empty", zap.Error(err))
		return
	}
	o.ledger.Replace(records)
	if removed := o.ledger.PruneToToday(); removed > 0 || len(records) > 0 {
		o.persist()
	}
	o.log.Info("history restored", zap.Int("records", o.ledger.Len()))
}

func (o *Orchestrator) pruneAndPersist() {
	if o.ledger.PruneToToday() > 0 {
		o.persist()
	}
}

func (o *Orchestrator) persist() {
	if err := o.history.Save(o.ledger.Snapshot()); err != nil {
		o.log.Error("history persist failed", zap.Error(err))
	}
}
