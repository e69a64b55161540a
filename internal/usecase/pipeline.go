package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"DataDigest/internal/domain"
	"DataDigest/internal/ports"
	"DataDigest/internal/simulation"
)

const tracerName = "DataDigest/internal/usecase"

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Every stage except Simulator is optional.
type PipelineDeps struct {
	Source      ports.ArticleSource
	Simulator   ports.Simulator
	Exporter    ports.DatasetExporter
	Warehouse   ports.WarehouseLoader
	Documents   ports.DocumentSink
	Transformer ports.Transformer
	Notifier    ports.Notifier
	Snapshots   ports.SnapshotStore
	Logger      *slog.Logger
	// Seed fixes the generator; 0 draws a fresh seed for every run.
	Seed int64
	// Now overrides the clock, mainly in tests.
	Now func() time.Time
}

// Pipeline implements fetch -> simulate -> export -> load -> transform -> notify.
type Pipeline struct {
	source      ports.ArticleSource
	simulator   ports.Simulator
	exporter    ports.DatasetExporter
	warehouse   ports.WarehouseLoader
	documents   ports.DocumentSink
	transformer ports.Transformer
	notifier    ports.Notifier
	snapshots   ports.SnapshotStore
	logger      *slog.Logger
	seed        int64
	now         func() time.Time
	tracer      trace.Tracer
}

// Result describes one finished run.
type Result struct {
	RunID   string
	Seed    int64
	Outputs []string
	Dataset domain.Dataset
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	simulator := deps.Simulator
	if simulator == nil {
		simulator = simulation.NewEngine(simulation.DefaultTables())
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source:      deps.Source,
		simulator:   simulator,
		exporter:    deps.Exporter,
		warehouse:   deps.Warehouse,
		documents:   deps.Documents,
		transformer: deps.Transformer,
		notifier:    deps.Notifier,
		snapshots:   deps.Snapshots,
		logger:      deps.Logger,
		seed:        deps.Seed,
		now:         now,
		tracer:      otel.Tracer(tracerName),
	}
}

// Run executes one full pass for day. It stops at the first failing stage.
func (p *Pipeline) Run(ctx context.Context, day time.Time) (Result, error) {
	res := Result{RunID: uuid.NewString(), Seed: p.seed}

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(attribute.String("run_id", res.RunID)))
	defer span.End()

	if res.Seed == 0 {
		seed, err := simulation.NewSeed()
		if err != nil {
			return res, p.fail(span, fmt.Errorf("draw seed: %w", err))
		}
		res.Seed = seed
	}
	p.info("pipeline started", "run_id", res.RunID, "seed", res.Seed, "day", day.Format("2006-01-02"))
	rng := simulation.NewSeededRNG(res.Seed)

	var articles []domain.Article
	if p.source != nil {
		err := p.stage(ctx, "fetch", func(ctx context.Context) error {
			var err error
			articles, err = p.source.FetchDaily(ctx, day, rng)
			return err
		})
		if err != nil {
			return res, p.fail(span, fmt.Errorf("fetch daily: %w", err))
		}
	}
	p.info("articles collected", "count", len(articles))

	_, simSpan := p.tracer.Start(ctx, "simulate")
	res.Dataset = p.simulator.AssembleWith(rng, articles, p.now())
	res.Dataset.Summary.Seed = res.Seed
	simSpan.End()
	for _, c := range res.Dataset.Summary.Collections {
		p.info("collection assembled", "kind", c.Kind, "records", c.Records, "coverage", c.Coverage, "mean_"+c.EngagementMetric, c.MeanEngagement)
	}

	collections := res.Dataset.Collections()

	if p.exporter != nil {
		err := p.stage(ctx, "export", func(ctx context.Context) error {
			var err error
			res.Outputs, err = p.exporter.Export(ctx, res.Dataset, res.Dataset.Summary.GeneratedAt)
			return err
		})
		if err != nil {
			return res, p.fail(span, fmt.Errorf("export dataset: %w", err))
		}
		p.info("dataset exported", "files", len(res.Outputs))
	}

	if p.warehouse != nil {
		err := p.stage(ctx, "load", func(ctx context.Context) error {
			return p.warehouse.Load(ctx, res.RunID, collections)
		})
		if err != nil {
			return res, p.fail(span, fmt.Errorf("load warehouse: %w", err))
		}
	}

	if p.documents != nil {
		err := p.stage(ctx, "documents", func(ctx context.Context) error {
			return p.documents.Replace(ctx, res.RunID, collections)
		})
		if err != nil {
			return res, p.fail(span, fmt.Errorf("replace documents: %w", err))
		}
	}

	if p.transformer != nil {
		if err := p.stage(ctx, "transform", p.transformer.Transform); err != nil {
			return res, p.fail(span, fmt.Errorf("transform: %w", err))
		}
	}

	if p.snapshots != nil {
		p.snapshots.Store(domain.Snapshot{
			RunID:      res.RunID,
			Day:        day.Format("2006-01-02"),
			Outputs:    res.Outputs,
			FinishedAt: p.now().UTC(),
			Dataset:    res.Dataset,
		})
	}

	if p.notifier != nil {
		report := BuildReport(res.RunID, res.Dataset.Summary)
		err := p.stage(ctx, "notify", func(ctx context.Context) error {
			return p.notifier.PublishReport(ctx, report)
		})
		if err != nil {
			return res, p.fail(span, fmt.Errorf("notify: %w", err))
		}
	}

	p.info("pipeline finished", "run_id", res.RunID)
	return res, nil
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	p.debug("stage done", "stage", name, "elapsed", time.Since(start), "error", err)
	return err
}

func (p *Pipeline) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
