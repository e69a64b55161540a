package usecase

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"DataDigest/internal/domain"
	"DataDigest/internal/infrastructure/memory"
	"DataDigest/internal/simulation"
)

var fixedNow = time.Date(2025, time.September, 24, 6, 0, 0, 0, time.UTC)

type sourceStub struct {
	articles []domain.Article
	err      error
	gotRand  bool
	rng      *rand.Rand
	// draws is how many values the source takes from the run generator.
	draws int
}

func (s *sourceStub) FetchDaily(_ context.Context, _ time.Time, rng *rand.Rand) ([]domain.Article, error) {
	s.gotRand = rng != nil
	s.rng = rng
	for i := 0; i < s.draws; i++ {
		rng.Float64()
	}
	return s.articles, s.err
}

type simulatorStub struct {
	rng *rand.Rand
}

func (s *simulatorStub) AssembleWith(rng *rand.Rand, articles []domain.Article, now time.Time) domain.Dataset {
	s.rng = rng
	return domain.Dataset{Articles: articles, Summary: domain.Summary{Articles: len(articles), Seed: -1}}
}

type exporterStub struct {
	stamp time.Time
	err   error
}

func (e *exporterStub) Export(_ context.Context, ds domain.Dataset, stamp time.Time) ([]string, error) {
	e.stamp = stamp
	if e.err != nil {
		return nil, e.err
	}
	return []string{"traffic.csv"}, nil
}

type loaderStub struct {
	calls []string
	runID string
	kinds []domain.DatasetKind
	err   error
}

func (l *loaderStub) Load(_ context.Context, runID string, collections []domain.Collection) error {
	l.calls = append(l.calls, "load")
	l.runID = runID
	for _, c := range collections {
		l.kinds = append(l.kinds, c.Kind)
	}
	return l.err
}

func (l *loaderStub) Replace(_ context.Context, runID string, _ []domain.Collection) error {
	l.calls = append(l.calls, "documents")
	return nil
}

type transformStub struct {
	called bool
	err    error
}

func (t *transformStub) Transform(context.Context) error {
	t.called = true
	return t.err
}

type notifierStub struct {
	reports []string
}

func (n *notifierStub) PublishReport(_ context.Context, report string) error {
	n.reports = append(n.reports, report)
	return nil
}

func sampleArticles() []domain.Article {
	return []domain.Article{
		{ID: "a", Title: "Python tips", URL: "https://example.org/a", Publication: "freecodecamp", Claps: 300},
		{ID: "b", Title: "Data contracts", URL: "https://example.org/b", Publication: "hackernoon", Claps: 12},
	}
}

func TestPipelineRunsAllStages(t *testing.T) {
	t.Parallel()

	source := &sourceStub{articles: sampleArticles()}
	exporter := &exporterStub{}
	loader := &loaderStub{}
	transform := &transformStub{}
	notifier := &notifierStub{}
	snapshots := memory.NewSnapshotStore()

	p := NewPipeline(PipelineDeps{
		Source:      source,
		Exporter:    exporter,
		Warehouse:   loader,
		Documents:   loader,
		Transformer: transform,
		Notifier:    notifier,
		Snapshots:   snapshots,
		Seed:        42,
		Now:         func() time.Time { return fixedNow },
	})

	res, err := p.Run(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !source.gotRand {
		t.Fatal("expected the source to receive the run generator")
	}
	if res.Seed != 42 || res.RunID == "" {
		t.Fatalf("unexpected result identity %+v", res)
	}
	if len(res.Dataset.Traffic) != 60 {
		t.Fatalf("expected 60 traffic rows, got %d", len(res.Dataset.Traffic))
	}
	if !exporter.stamp.Equal(fixedNow) {
		t.Fatalf("expected export stamp %v, got %v", fixedNow, exporter.stamp)
	}
	if strings.Join(loader.calls, ",") != "load,documents" || loader.runID != res.RunID {
		t.Fatalf("unexpected loader calls %v run %s", loader.calls, loader.runID)
	}
	if len(loader.kinds) != 4 || loader.kinds[3] != domain.KindArticles {
		t.Fatalf("unexpected loaded kinds %v", loader.kinds)
	}
	if !transform.called {
		t.Fatal("expected transform to run")
	}
	if len(notifier.reports) != 1 || !strings.Contains(notifier.reports[0], res.RunID) {
		t.Fatalf("unexpected reports %v", notifier.reports)
	}

	snap, ok := snapshots.Latest()
	if !ok || snap.RunID != res.RunID || snap.Day != "2025-09-24" || len(snap.Outputs) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestPipelineStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	loader := &loaderStub{err: errors.New("disk full")}
	transform := &transformStub{}
	notifier := &notifierStub{}
	snapshots := memory.NewSnapshotStore()

	p := NewPipeline(PipelineDeps{
		Source:      &sourceStub{articles: sampleArticles()},
		Warehouse:   loader,
		Transformer: transform,
		Notifier:    notifier,
		Snapshots:   snapshots,
		Seed:        7,
	})

	_, err := p.Run(context.Background(), fixedNow)
	if err == nil || !strings.Contains(err.Error(), "load warehouse") || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
	if transform.called || len(notifier.reports) != 0 {
		t.Fatal("stages after the failure must not run")
	}
	if _, ok := snapshots.Latest(); ok {
		t.Fatal("failed run must not publish a snapshot")
	}
}

func TestPipelineFetchError(t *testing.T) {
	t.Parallel()

	p := NewPipeline(PipelineDeps{Source: &sourceStub{err: errors.New("offline")}, Seed: 1})
	if _, err := p.Run(context.Background(), fixedNow); err == nil || !strings.Contains(err.Error(), "fetch daily") {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestPipelineEmptyInputAndRandomSeed(t *testing.T) {
	t.Parallel()

	p := NewPipeline(PipelineDeps{Source: &sourceStub{}})

	res, err := p.Run(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Seed == 0 {
		t.Fatal("expected a drawn seed")
	}
	if res.Dataset.Summary.Articles != 0 || len(res.Dataset.SocialMentions) != 0 {
		t.Fatalf("expected empty dataset, got %+v", res.Dataset.Summary)
	}
	for _, c := range res.Dataset.Summary.Collections {
		if c.Coverage != 0 || c.Records != 0 {
			t.Fatalf("expected zero summary, got %+v", c)
		}
	}
}

func TestPipelineIsReproducible(t *testing.T) {
	t.Parallel()

	run := func() domain.Dataset {
		p := NewPipeline(PipelineDeps{
			Source: &sourceStub{articles: sampleArticles()},
			Seed:   99,
			Now:    func() time.Time { return fixedNow },
		})
		res, err := p.Run(context.Background(), fixedNow)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return res.Dataset
	}

	a, b := run(), run()
	if len(a.SocialMentions) != len(b.SocialMentions) || len(a.ForumSubmissions) != len(b.ForumSubmissions) {
		t.Fatal("expected the same mention counts for the same seed")
	}
	for i := range a.Traffic {
		if a.Traffic[i] != b.Traffic[i] {
			t.Fatalf("traffic row %d differs", i)
		}
	}
}

func TestPipelineSimulatesOnTheFetchStream(t *testing.T) {
	t.Parallel()

	source := &sourceStub{articles: sampleArticles()}
	sim := &simulatorStub{}
	res, err := NewPipeline(PipelineDeps{Source: source, Simulator: sim, Seed: 21}).Run(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if source.rng == nil || sim.rng != source.rng {
		t.Fatal("expected the simulator to continue the generator handed to the source")
	}
	if res.Dataset.Summary.Seed != 21 {
		t.Fatalf("expected the run seed on the summary, got %d", res.Dataset.Summary.Seed)
	}
}

func TestPipelineSimulationFollowsSourceDraws(t *testing.T) {
	t.Parallel()

	const seed = 33
	source := &sourceStub{articles: sampleArticles(), draws: 3}
	res, err := NewPipeline(PipelineDeps{
		Source: source,
		Seed:   seed,
		Now:    func() time.Time { return fixedNow },
	}).Run(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	rng := simulation.NewSeededRNG(seed)
	for i := 0; i < source.draws; i++ {
		rng.Float64()
	}
	want := simulation.NewEngine(simulation.DefaultTables()).AssembleWith(rng, sampleArticles(), fixedNow)

	if len(res.Dataset.Traffic) != len(want.Traffic) {
		t.Fatalf("traffic rows %d, want %d", len(res.Dataset.Traffic), len(want.Traffic))
	}
	for i := range want.Traffic {
		if res.Dataset.Traffic[i] != want.Traffic[i] {
			t.Fatalf("traffic row %d differs from a single continued stream", i)
		}
	}
	if len(res.Dataset.SocialMentions) != len(want.SocialMentions) || len(res.Dataset.ForumSubmissions) != len(want.ForumSubmissions) {
		t.Fatal("mention counts differ from a single continued stream")
	}
}
