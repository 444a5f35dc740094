// Package pipeline runs one extract, transform and load pass over the daily series.
package pipeline

import (
	"context"
	"time"

	"github.com/navid-fn/stockpipe/configs"
	"github.com/navid-fn/stockpipe/internal/drivers/alphavantage"
	"github.com/navid-fn/stockpipe/internal/events"
	"github.com/navid-fn/stockpipe/internal/models"
	"github.com/navid-fn/stockpipe/internal/storage"
	"github.com/navid-fn/stockpipe/internal/transform"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// Extractor fetches the raw daily series of a symbol.
type Extractor interface {
	FetchDaily(ctx context.Context, symbol string) (models.RawSeries, error)
}

// Archiver keeps a copy of transformed rows before the table is replaced.
type Archiver interface {
	Archive(ctx context.Context, runID, symbol string, rows []models.DailyPrice) (string, error)
}

// Publisher announces finished runs.
type Publisher interface {
	Publish(ctx context.Context, event events.RunEvent) error
}

type (
	ConfigLoader     func() (*configs.PipelineConfig, error)
	ExtractorFactory func(cfg *configs.PipelineConfig, logger *logrus.Entry) Extractor
	WarehouseFactory func(ctx context.Context, cfg *configs.PipelineConfig, logger *logrus.Entry) (storage.Warehouse, error)
)

// Result is the outcome of a single run.
type Result struct {
	RunID    string
	State    State
	FailedAt State // state that failed, only set when State is Failed
	Message  string
	Status   int
	Rows     int
	Archive  string
}

// Runner executes pipeline runs. It holds no per-run state, so one Runner may
// serve concurrent invocations.
type Runner struct {
	loadConfig   ConfigLoader
	newExtractor ExtractorFactory
	newWarehouse WarehouseFactory
	archiver     Archiver
	publisher    Publisher
	logger       *logrus.Logger
	now          func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

func WithConfigLoader(fn ConfigLoader) Option {
	return func(r *Runner) { r.loadConfig = fn }
}

func WithExtractorFactory(fn ExtractorFactory) Option {
	return func(r *Runner) { r.newExtractor = fn }
}

func WithWarehouseFactory(fn WarehouseFactory) Option {
	return func(r *Runner) { r.newWarehouse = fn }
}

// WithArchiver enables Parquet snapshots of each run.
func WithArchiver(a Archiver) Option {
	return func(r *Runner) { r.archiver = a }
}

// WithPublisher enables run events.
func WithPublisher(p Publisher) Option {
	return func(r *Runner) { r.publisher = p }
}

// NewRunner creates a runner wired to the environment, Alpha Vantage and ClickHouse.
func NewRunner(logger *logrus.Logger, opts ...Option) *Runner {
	r := &Runner{
		loadConfig:   configs.PipelineLoad,
		newExtractor: newAlphaVantageExtractor,
		newWarehouse: newClickHouseWarehouse,
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newAlphaVantageExtractor(cfg *configs.PipelineConfig, logger *logrus.Entry) Extractor {
	return alphavantage.NewClient(cfg.APIKey,
		alphavantage.WithBaseURL(cfg.BaseURL),
		alphavantage.WithLogger(logger),
	)
}

func newClickHouseWarehouse(ctx context.Context, cfg *configs.PipelineConfig, logger *logrus.Entry) (storage.Warehouse, error) {
	dest := models.TableRef{Dataset: cfg.Dataset, Table: cfg.Table}
	return storage.NewClickHouseWarehouse(ctx, cfg.DSN(), dest.String(), logger)
}

// run tracks one invocation.
type run struct {
	id     string
	state  State
	cfg    *configs.PipelineConfig
	logger *logrus.Entry
}

func (rn *run) enter(s State) {
	rn.logger.WithFields(logrus.Fields{"from": rn.state, "to": s}).Debug("State transition")
	rn.state = s
}

// fail moves the run to Failed and builds the error result.
func (rn *run) fail(err error) Result {
	label, message := describe(err)
	rn.logger.WithError(err).WithField("state", rn.state).Errorf("%s: %s", label, message)

	failedAt := rn.state
	rn.state = Failed
	return Result{
		State:    Failed,
		FailedAt: failedAt,
		Message:  message,
		Status:   statusFor(Failed),
	}
}

// Run executes the pipeline once. Errors never escape: every failure becomes
// a Result with status 500.
func (r *Runner) Run(ctx context.Context) Result {
	started := r.now()
	id := uuid.NewString()
	rn := &run{
		id:     id,
		state:  AwaitingConfig,
		logger: r.logger.WithField("run_id", id),
	}
	rn.logger.Info("Pipeline run started")

	res := r.execute(ctx, rn)
	res.RunID = rn.id

	rn.logger.WithFields(logrus.Fields{
		"state":    res.State,
		"status":   res.Status,
		"rows":     res.Rows,
		"duration": r.now().Sub(started).String(),
	}).Info("Pipeline run finished")

	r.publish(ctx, rn, res, started)
	return res
}

func (r *Runner) execute(ctx context.Context, rn *run) Result {
	cfg, err := r.loadConfig()
	if err != nil {
		return rn.fail(err)
	}
	rn.cfg = cfg
	rn.logger = rn.logger.WithFields(logrus.Fields{"symbol": cfg.Symbol, "table": cfg.Dataset + "." + cfg.Table})

	rn.enter(Extracting)
	series, err := r.newExtractor(cfg, rn.logger).FetchDaily(ctx, cfg.Symbol)
	if err != nil {
		return rn.fail(err)
	}
	rn.logger.WithField("days", len(series)).Info("Extraction finished")

	rn.enter(Transforming)
	rows, err := transform.Transform(series)
	if err != nil {
		return rn.fail(err)
	}
	archivePath := r.archive(ctx, rn, rows)

	rn.enter(Loading)
	wh, err := r.newWarehouse(ctx, cfg, rn.logger)
	if err != nil {
		return rn.fail(err)
	}
	defer func() {
		if err := wh.Close(); err != nil {
			rn.logger.WithError(err).Warn("Failed to close warehouse connection")
		}
	}()

	dest := models.TableRef{Dataset: cfg.Dataset, Table: cfg.Table}
	if err := wh.Load(ctx, models.NewLoadJob(dest, rows)); err != nil {
		return rn.fail(err)
	}

	rn.enter(Done)
	return Result{
		State:   Done,
		Message: SuccessMessage,
		Status:  statusFor(Done),
		Rows:    len(rows),
		Archive: archivePath,
	}
}

// archive snapshots rows when an archiver is configured. Failures are logged only.
func (r *Runner) archive(ctx context.Context, rn *run, rows []models.DailyPrice) string {
	if r.archiver == nil {
		return ""
	}
	path, err := r.archiver.Archive(ctx, rn.id, rn.cfg.Symbol, rows)
	if err != nil {
		rn.logger.WithError(err).Warn("Snapshot archive failed")
		return ""
	}
	rn.logger.WithField("path", path).Info("Snapshot archived")
	return path
}

// publish emits the run event when a publisher is configured. Failures are logged only.
func (r *Runner) publish(ctx context.Context, rn *run, res Result, started time.Time) {
	if r.publisher == nil {
		return
	}

	event := events.RunEvent{
		RunID:      rn.id,
		State:      res.State.String(),
		Status:     res.Status,
		Message:    res.Message,
		Rows:       res.Rows,
		StartedAt:  started.UTC(),
		FinishedAt: r.now().UTC(),
	}
	if rn.cfg != nil {
		event.Symbol = rn.cfg.Symbol
		event.Table = rn.cfg.Dataset + "." + rn.cfg.Table
	}
	if res.State == Failed {
		event.FailedAt = res.FailedAt.String()
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := r.publisher.Publish(pubCtx, event); err != nil {
		rn.logger.WithError(err).Warn("Failed to publish run event")
	}
}
