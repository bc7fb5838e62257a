// Package render hydrates the visible identifiers of a page into grid
// items. Every item is rendered independently: a failed detail fetch
// becomes an error placeholder for that item only, and a failed image
// download degrades the item to text.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/pagination"
)

// DetailFetcher loads the summary of one object.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, id catalog.ObjectID) (catalog.ArtworkSummary, error)
}

// ImageFetcher downloads image bytes.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Config holds renderer configuration.
type Config struct {
	// Concurrency is the number of items hydrated at once. 1 renders
	// strictly one item after another.
	Concurrency int

	// FetchImages enables image downloads for items with an image URL.
	FetchImages bool
}

// DefaultConfig returns the sequential, image-fetching configuration.
func DefaultConfig() Config {
	return Config{
		Concurrency: 1,
		FetchImages: true,
	}
}

// Renderer turns pages into grids.
type Renderer struct {
	details DetailFetcher
	images  ImageFetcher
	config  Config
	logger  zerolog.Logger
}

// New creates a renderer. images may be nil, in which case no image is
// ever fetched.
func New(details DetailFetcher, images ImageFetcher, cfg Config) *Renderer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Concurrency > pagination.PageSize {
		cfg.Concurrency = pagination.PageSize
	}

	return &Renderer{
		details: details,
		images:  images,
		config:  cfg,
		logger:  log.With().Str("component", "renderer").Logger(),
	}
}

// RenderItem hydrates a single object.
func (r *Renderer) RenderItem(ctx context.Context, id catalog.ObjectID) Item {
	summary, err := r.details.FetchDetail(ctx, id)
	if err != nil {
		ItemsTotal.WithLabelValues("failed").Inc()
		r.logger.Warn().
			Err(err).
			Str("object_id", id.String()).
			Msg("Artwork detail failed")
		return failedItem(id, err)
	}

	item := Item{
		ID:      id,
		Status:  StatusOK,
		Summary: &summary,
	}

	if summary.HasImage() && r.config.FetchImages && r.images != nil {
		img, err := r.loadImage(ctx, summary.ImageURL)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("object_id", id.String()).
				Str("image_url", summary.ImageURL).
				Msg("Image unavailable, rendering text only")
			item.ImageErr = err
		} else {
			item.Image = img
		}
	}

	outcome := "ok"
	if item.ImageErr != nil {
		outcome = "image_degraded"
	}
	ItemsTotal.WithLabelValues(outcome).Inc()
	return item
}

// loadImage downloads and probes image bytes.
func (r *Renderer) loadImage(ctx context.Context, url string) (*Image, error) {
	data, err := r.images.FetchImage(ctx, url)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return &Image{
		URL:    url,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   len(data),
		Data:   data,
	}, nil
}

// RenderPage hydrates every visible id of page. The grid keeps page order
// and always has one item per visible id.
func (r *Renderer) RenderPage(ctx context.Context, page pagination.Page) Grid {
	start := time.Now()
	items := make([]Item, len(page.VisibleIDs))

	if r.config.Concurrency <= 1 || len(page.VisibleIDs) <= 1 {
		for i, id := range page.VisibleIDs {
			items[i] = r.RenderItem(ctx, id)
		}
	} else {
		r.renderParallel(ctx, page.VisibleIDs, items)
	}

	for i := range items {
		items[i].Index = i
		items[i].Column = i % Columns
	}

	grid := Grid{Page: page, Items: items, Columns: Columns}

	PageDuration.Observe(time.Since(start).Seconds())
	r.logger.Info().
		Int("page", page.Number).
		Int("items", len(items)).
		Int("failed", grid.Failed()).
		Dur("duration", time.Since(start)).
		Msg("Page rendered")

	return grid
}

type indexedItem struct {
	index int
	item  Item
}

// renderParallel fans ids out to a bounded worker pool and writes each
// result back to its own index.
func (r *Renderer) renderParallel(ctx context.Context, ids []catalog.ObjectID, items []Item) {
	queue := make(chan int, len(ids))
	results := make(chan indexedItem, len(ids))

	for i := range ids {
		queue <- i
	}
	close(queue)

	workers := min(r.config.Concurrency, len(ids))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go r.worker(ctx, ids, queue, results, &wg, w)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		items[res.index] = res.item
	}
}

// worker renders queued indices until the queue is drained.
func (r *Renderer) worker(ctx context.Context, ids []catalog.ObjectID, queue <-chan int, results chan<- indexedItem, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	processed := 0

	for i := range queue {
		results <- indexedItem{index: i, item: r.RenderItem(ctx, ids[i])}
		processed++
	}

	r.logger.Debug().
		Int("worker_id", workerID).
		Int("items_processed", processed).
		Msg("Worker completed")
}
