package archive

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/docgo"
	"github.com/hupe1980/docgo/blobstore"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// finder is the slice of *mongo.Collection exports read from.
type finder interface {
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
}

// ExportOptions contains options for Export.
type ExportOptions struct {
	// Filter narrows the exported documents. Nil exports the whole
	// collection.
	Filter any

	// Compressor encodes the document stream. Defaults to Zstd.
	Compressor Compressor

	// Limiter, when set, bounds documents per second.
	Limiter *rate.Limiter
}

// Export streams a collection into an archive blob and returns the
// number of exported documents. On failure the blob is aborted, so a
// partial archive is never published.
//
// Documents are copied as raw BSON straight off the wire, bypassing
// the record structs.
func Export[T docgo.Record](ctx context.Context, coll *docgo.Collection[T], store blobstore.Store, name string, optFns ...func(o *ExportOptions)) (int64, error) {
	opts := ExportOptions{
		Compressor: Zstd,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	driver, err := coll.Driver()
	if err != nil {
		return 0, err
	}

	meta := Meta{
		Database:   driver.Database().Name(),
		Collection: driver.Name(),
		CreatedAt:  time.Now().UTC(),
	}
	return exportDocuments(ctx, driver, store, name, meta, opts)
}

func exportDocuments(ctx context.Context, src finder, store blobstore.Store, name string, meta Meta, opts ExportOptions) (count int64, err error) {
	blob, err := store.Create(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive blob: %w", err)
	}
	defer func() {
		if err != nil {
			_ = blob.Abort()
		}
	}()

	w, err := NewWriter(blob, meta, func(o *WriterOptions) {
		o.Compressor = opts.Compressor
	})
	if err != nil {
		return 0, err
	}

	filter := opts.Filter
	if filter == nil {
		filter = bson.D{}
	}

	cur, err := src.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = cur.Close(ctx)
	}()

	for cur.Next(ctx) {
		if opts.Limiter != nil {
			if err = opts.Limiter.Wait(ctx); err != nil {
				return 0, err
			}
		}
		if err = w.WriteDocument(cur.Current); err != nil {
			return 0, err
		}
	}
	if err = cur.Err(); err != nil {
		return 0, err
	}

	if err = w.Close(); err != nil {
		return 0, err
	}
	if err = blob.Close(); err != nil {
		return 0, fmt.Errorf("failed to publish archive blob: %w", err)
	}
	return w.Count(), nil
}

// ExportAllOptions contains options for ExportAll.
type ExportAllOptions struct {
	// Compressor encodes the document streams. Defaults to Zstd.
	Compressor Compressor

	// Concurrency bounds the number of collections exported in
	// parallel. Default: 4.
	Concurrency int

	// RatePerSecond, when positive, bounds documents per second across
	// all collections.
	RatePerSecond int
}

// ExportAll archives every collection bound in the registry, one blob
// per collection named by BlobName. It returns the document count per
// blob name. The first failing collection cancels the rest.
func ExportAll(ctx context.Context, registry *docgo.Registry, store blobstore.Store, optFns ...func(o *ExportAllOptions)) (map[string]int64, error) {
	opts := ExportAllOptions{
		Compressor:  Zstd,
		Concurrency: defaultConcurrency,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.RatePerSecond)
	}

	colls, err := registry.BoundCollections()
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	counts := make(map[string]int64, len(colls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, coll := range colls {
		g.Go(func() error {
			name := BlobName(coll.Database().Name(), coll.Name())
			meta := Meta{
				Database:   coll.Database().Name(),
				Collection: coll.Name(),
				CreatedAt:  time.Now().UTC(),
			}
			n, err := exportDocuments(gctx, coll, store, name, meta, ExportOptions{
				Compressor: opts.Compressor,
				Limiter:    limiter,
			})
			if err != nil {
				return fmt.Errorf("failed to export %s: %w", name, err)
			}

			mu.Lock()
			counts[name] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
