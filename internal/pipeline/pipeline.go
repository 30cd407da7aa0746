package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/campus-tree-forest/internal/domain"
	"github.com/couchcryptid/campus-tree-forest/internal/observability"
)

// Extractor fetches and parses the whole census.
type Extractor interface {
	Extract(ctx context.Context) (domain.Census, error)
}

// Publisher forwards the aggregate set to a downstream consumer.
type Publisher interface {
	Publish(ctx context.Context, ds *domain.Dataset) error
}

// Pipeline runs the one-shot extract-aggregate-publish load and holds the
// resulting dataset for readers.
type Pipeline struct {
	extractor Extractor
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	dataset   atomic.Pointer[domain.Dataset]
	loaded    atomic.Bool
}

// New creates a Pipeline. Pass a nil publisher to skip publishing.
func New(e Extractor, pub Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the load attempt has finished, successful
// or not, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.loaded.Load() {
		return errors.New("census has not been loaded yet")
	}
	return nil
}

// Dataset returns the current snapshot. Before the load completes it is an
// empty dataset, so callers render no trees rather than failing.
func (p *Pipeline) Dataset() *domain.Dataset {
	if ds := p.dataset.Load(); ds != nil {
		return ds
	}
	return &domain.Dataset{}
}

// Run performs the single load. A fetch or parse failure is logged and leaves
// an empty dataset in place; it is not returned, and there is no retry.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.logger.Info("census load started")

	ds := p.load(ctx)
	p.dataset.Store(ds)
	p.loaded.Store(true)
	p.metrics.DatasetLoaded.Set(1)
	p.metrics.GeneraLoaded.Set(float64(len(ds.Genera)))
	p.metrics.LoadDuration.Observe(time.Since(start).Seconds())

	if ds.Err != nil {
		return nil
	}

	p.logger.Info("census loaded",
		"records", ds.Records,
		"skipped", ds.Skipped,
		"genera", len(ds.Genera),
		"duration", time.Since(start),
	)

	p.publish(ctx, ds)
	return nil
}

func (p *Pipeline) load(ctx context.Context) *domain.Dataset {
	census, err := p.extractor.Extract(ctx)
	if err != nil {
		p.logger.Error("census load failed", "error", err)
		p.metrics.LoadFailures.Inc()
		return domain.FailedDataset(err)
	}

	p.metrics.RecordsParsed.Add(float64(len(census.Records)))
	p.metrics.RecordsSkipped.Add(float64(census.Skipped))
	return domain.NewDataset(census)
}

func (p *Pipeline) publish(ctx context.Context, ds *domain.Dataset) {
	if p.publisher == nil || len(ds.Genera) == 0 {
		return
	}
	if err := p.publisher.Publish(ctx, ds); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error("publish aggregates failed", "error", err, "genera", len(ds.Genera))
		p.metrics.PublishFailures.Inc()
		return
	}
	p.metrics.AggregatesPublished.Add(float64(len(ds.Genera)))
}
