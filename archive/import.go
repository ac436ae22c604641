package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hupe1980/docgo"
	"github.com/hupe1980/docgo/blobstore"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultBatchSize   = 500
	defaultConcurrency = 4
)

// importTarget is the slice of *mongo.Collection imports write to.
type importTarget interface {
	InsertMany(ctx context.Context, documents any, opts ...options.Lister[options.InsertManyOptions]) (*mongo.InsertManyResult, error)
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...options.Lister[options.BulkWriteOptions]) (*mongo.BulkWriteResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongo.DeleteResult, error)
}

// ImportOptions contains options for Import.
type ImportOptions struct {
	// BatchSize is the number of documents per insert batch.
	// Default: 500.
	BatchSize int

	// Drop clears the collection before importing.
	Drop bool

	// Upsert replaces existing documents by _id instead of inserting,
	// so importing into a non-empty collection converges rather than
	// failing on duplicate keys.
	Upsert bool

	// Limiter, when set, bounds documents per second.
	Limiter *rate.Limiter
}

// Import restores an archive blob into a collection and returns the
// number of restored documents. Documents keep their archived _id
// values, so importing into a non-empty collection can fail on
// duplicate keys unless Drop or Upsert is set.
func Import[T docgo.Record](ctx context.Context, coll *docgo.Collection[T], store blobstore.Store, name string, optFns ...func(o *ImportOptions)) (int64, error) {
	opts := ImportOptions{
		BatchSize: defaultBatchSize,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	driver, err := coll.Driver()
	if err != nil {
		return 0, err
	}

	rc, err := store.Open(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive blob: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	r, err := NewReader(rc)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = r.Close()
	}()

	return importInto(ctx, r, driver, opts)
}

func importInto(ctx context.Context, r *Reader, dst importTarget, opts ImportOptions) (int64, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}

	if opts.Drop {
		if _, err := dst.DeleteMany(ctx, bson.D{}); err != nil {
			return 0, fmt.Errorf("failed to clear collection: %w", err)
		}
	}

	var total int64
	batch := make([]any, 0, opts.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if opts.Upsert {
			if _, err := dst.BulkWrite(ctx, upsertModels(batch)); err != nil {
				return err
			}
		} else {
			if _, err := dst.InsertMany(ctx, batch); err != nil {
				return err
			}
		}
		total += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for {
		doc, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, err
		}
		if opts.Limiter != nil {
			if err := opts.Limiter.Wait(ctx); err != nil {
				return total, err
			}
		}
		batch = append(batch, bson.Raw(doc))
		if len(batch) >= opts.BatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

// upsertModels turns a batch of raw documents into replace-by-_id
// upserts. A document without an _id falls back to a plain insert.
func upsertModels(batch []any) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(batch))
	for _, doc := range batch {
		raw := doc.(bson.Raw)
		id, err := raw.LookupErr("_id")
		if err != nil {
			models = append(models, mongo.NewInsertOneModel().SetDocument(raw))
			continue
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: id}}).
			SetReplacement(raw).
			SetUpsert(true))
	}
	return models
}

// ImportAllOptions contains options for ImportAll.
type ImportAllOptions struct {
	// Prefix narrows which blobs are considered. Default: every ".dgar"
	// blob in the store.
	Prefix string

	// BatchSize is the number of documents per insert batch.
	// Default: 500.
	BatchSize int

	// Drop clears each target collection before importing into it.
	Drop bool

	// Upsert replaces existing documents by _id instead of inserting.
	Upsert bool

	// Concurrency bounds the number of archives imported in parallel.
	// Default: 4.
	Concurrency int

	// RatePerSecond, when positive, bounds documents per second across
	// all archives.
	RatePerSecond int
}

// ImportAll restores every archive under the prefix into the registry's
// database. The target collection comes from each archive's meta
// document, not from the blob name. It returns the document count per
// blob name.
func ImportAll(ctx context.Context, registry *docgo.Registry, store blobstore.Store, optFns ...func(o *ImportAllOptions)) (map[string]int64, error) {
	opts := ImportAllOptions{
		BatchSize:   defaultBatchSize,
		Concurrency: defaultConcurrency,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	db := registry.Database()
	if db == nil {
		return nil, docgo.ErrNoDatabase
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.RatePerSecond)
	}

	names, err := store.List(ctx, opts.Prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive blobs: %w", err)
	}

	var mu sync.Mutex
	counts := make(map[string]int64)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, name := range names {
		if !strings.HasSuffix(name, blobSuffix) {
			continue
		}
		g.Go(func() error {
			rc, err := store.Open(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", name, err)
			}
			defer func() {
				_ = rc.Close()
			}()

			r, err := NewReader(rc)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			defer func() {
				_ = r.Close()
			}()

			meta := r.Meta()
			if meta.Collection == "" {
				return fmt.Errorf("%w: %s names no collection", ErrCorrupt, name)
			}

			n, err := importInto(gctx, r, db.Collection(meta.Collection), ImportOptions{
				BatchSize: opts.BatchSize,
				Drop:      opts.Drop,
				Upsert:    opts.Upsert,
				Limiter:   limiter,
			})
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", name, err)
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
