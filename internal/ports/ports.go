package ports

import (
	"context"
	"math/rand"
	"time"

	"DataDigest/internal/domain"
)

// ArticleSource pulls the article collection the simulation is keyed to.
// rng drives any engagement signal the source has to estimate.
type ArticleSource interface {
	FetchDaily(ctx context.Context, day time.Time, rng *rand.Rand) ([]domain.Article, error)
}

// Simulator turns articles into the synthetic collections and their summary.
// It continues drawing from rng, the stream the run started with.
type Simulator interface {
	AssembleWith(rng *rand.Rand, articles []domain.Article, now time.Time) domain.Dataset
}

// DatasetExporter writes every collection to durable files and reports their paths.
type DatasetExporter interface {
	Export(ctx context.Context, ds domain.Dataset, stamp time.Time) ([]string, error)
}

// WarehouseLoader bulk-loads collections into warehouse tables.
type WarehouseLoader interface {
	Load(ctx context.Context, runID string, collections []domain.Collection) error
}

// DocumentSink stores collections as documents.
type DocumentSink interface {
	Replace(ctx context.Context, runID string, collections []domain.Collection) error
}

// Transformer runs downstream SQL models over the loaded tables.
type Transformer interface {
	Transform(ctx context.Context) error
}

// Notifier delivers the run report to a chat channel.
type Notifier interface {
	PublishReport(ctx context.Context, report string) error
}

// SnapshotStore keeps the latest assembled dataset for readers.
type SnapshotStore interface {
	Store(snapshot domain.Snapshot)
	Latest() (domain.Snapshot, bool)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
