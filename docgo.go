package docgo

import (
	"context"
	"errors"
	"iter"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// driverCollection is the slice of the driver collection API the CRUD
// protocol consumes. *mongo.Collection satisfies it; tests substitute
// fakes to exercise the protocol without a server.
type driverCollection interface {
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents any, opts ...options.Lister[options.InsertManyOptions]) (*mongo.InsertManyResult, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongo.DeleteResult, error)
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	FindOneAndDelete(ctx context.Context, filter any, opts ...options.Lister[options.FindOneAndDeleteOptions]) *mongo.SingleResult
	FindOneAndReplace(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.FindOneAndReplaceOptions]) *mongo.SingleResult
	FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongo.SingleResult
	CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error)
}

// Collection is the typed handle for running the CRUD protocol against
// the collection a record type resolved to at registration. Handles are
// cheap; Coll may be called per operation or the handle kept around.
//
// All operations serialize records as partial documents: fields holding
// their zero value are omitted, so unset state never overwrites stored
// state and never participates in filters.
type Collection[T Record] struct {
	registry *Registry
	meta     *typeMeta

	// fake replaces the resolved driver collection in tests
	fake driverCollection
}

// Name returns the resolved collection name.
func (c *Collection[T]) Name() string {
	return c.meta.storage.Collection
}

// Storage returns the effective storage settings resolved at registration.
func (c *Collection[T]) Storage() Storage {
	return c.meta.storage
}

// Driver returns the underlying driver collection handle for operations
// outside the CRUD protocol, such as index management or aggregation.
func (c *Collection[T]) Driver() (*mongo.Collection, error) {
	return c.registry.collectionFor(c.meta)
}

func (c *Collection[T]) collection() (driverCollection, error) {
	if c.fake != nil {
		return c.fake, nil
	}
	return c.registry.collectionFor(c.meta)
}

func (c *Collection[T]) newRecord() T {
	return reflect.New(c.meta.typ).Interface().(T)
}

func (c *Collection[T]) document(rec T) (bson.D, error) {
	rv, err := recordValue(rec)
	if err != nil {
		return nil, err
	}
	return c.meta.plan.document(rv, rec, nil, nil), nil
}

// InsertOptions contains options for Insert.
type InsertOptions struct {
	// Driver options are passed through to the driver's InsertOne.
	Driver []options.Lister[options.InsertOneOptions]
}

// Insert writes rec as a new document. The identifier is bound to rec
// only after the server acknowledges the write: records without an
// identifier receive the generated one, and a failed insert leaves rec
// untouched so it can be retried.
func (c *Collection[T]) Insert(ctx context.Context, rec T, optFns ...func(*InsertOptions)) error {
	start := time.Now()

	var opts InsertOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	err := c.insert(ctx, rec, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordInsert(duration, err)
	c.registry.logger.LogInsert(ctx, c.Name(), loggedID(rec), err)

	return err
}

func (c *Collection[T]) insert(ctx context.Context, rec T, opts InsertOptions) error {
	doc, err := c.document(rec)
	if err != nil {
		return err
	}
	if err := validateRecord(rec); err != nil {
		return err
	}

	if !rec.HasDocumentID() {
		if gen, ok := any(rec).(DocumentIDGenerator); ok {
			doc = append(doc, bson.E{Key: idKey, Value: gen.GenerateDocumentID()})
		}
	}

	coll, err := c.collection()
	if err != nil {
		return err
	}

	res, err := coll.InsertOne(ctx, doc, opts.Driver...)
	if err != nil {
		return err
	}

	return rec.SetDocumentID(res.InsertedID)
}

// InsertManyOptions contains options for InsertMany.
type InsertManyOptions struct {
	// Driver options are passed through to the driver's InsertMany.
	Driver []options.Lister[options.InsertManyOptions]
}

// InsertMany writes recs as new documents in a single call and binds the
// returned identifiers pairwise. An empty slice is a no-op that contacts
// no server.
func (c *Collection[T]) InsertMany(ctx context.Context, recs []T, optFns ...func(*InsertManyOptions)) error {
	start := time.Now()

	var opts InsertManyOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	err := c.insertMany(ctx, recs, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordInsertMany(len(recs), duration, err)
	c.registry.logger.LogInsertMany(ctx, c.Name(), len(recs), err)

	return err
}

func (c *Collection[T]) insertMany(ctx context.Context, recs []T, opts InsertManyOptions) error {
	if len(recs) == 0 {
		return nil
	}

	docs := make([]any, len(recs))
	for i, rec := range recs {
		doc, err := c.document(rec)
		if err != nil {
			return err
		}
		if err := validateRecord(rec); err != nil {
			return err
		}
		if !rec.HasDocumentID() {
			if gen, ok := any(rec).(DocumentIDGenerator); ok {
				doc = append(doc, bson.E{Key: idKey, Value: gen.GenerateDocumentID()})
			}
		}
		docs[i] = doc
	}

	coll, err := c.collection()
	if err != nil {
		return err
	}

	res, err := coll.InsertMany(ctx, docs, opts.Driver...)
	if err != nil {
		return err
	}

	for i, rec := range recs {
		if i >= len(res.InsertedIDs) {
			break
		}
		if err := rec.SetDocumentID(res.InsertedIDs[i]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateOptions contains options for Update.
type UpdateOptions struct {
	// Upsert inserts the document when no match exists.
	Upsert bool
	// Reload re-fetches the document after the update so rec reflects the
	// stored state, including changes applied server-side.
	Reload bool
	// Driver options are passed through to the driver's UpdateOne.
	Driver []options.Lister[options.UpdateOneOptions]
}

// Update applies an update document to the stored document matching
// rec's identifier. rec must carry an identifier; updating an unsaved
// record is a programming error reported as ErrIDUnset.
//
// Update returns true when an existing document was modified. An upsert
// that inserted rather than modified returns false.
func (c *Collection[T]) Update(ctx context.Context, rec T, update any, optFns ...func(*UpdateOptions)) (bool, error) {
	start := time.Now()

	var opts UpdateOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	modified, err := c.update(ctx, rec, update, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordUpdate(duration, err)
	c.registry.logger.LogUpdate(ctx, c.Name(), loggedID(rec), modified, err)

	return modified, err
}

func (c *Collection[T]) update(ctx context.Context, rec T, update any, opts UpdateOptions) (bool, error) {
	if err := requireID(rec); err != nil {
		return false, err
	}

	coll, err := c.collection()
	if err != nil {
		return false, err
	}

	driverOpts := opts.Driver
	if opts.Upsert {
		driverOpts = append([]options.Lister[options.UpdateOneOptions]{options.UpdateOne().SetUpsert(true)}, driverOpts...)
	}

	res, err := coll.UpdateOne(ctx, bson.D{{Key: idKey, Value: rec.DocumentID()}}, update, driverOpts...)
	if err != nil {
		return false, err
	}

	if opts.Reload {
		if err := c.reload(ctx, rec, ReloadOptions{}); err != nil {
			return false, err
		}
	}

	return res.ModifiedCount == 1, nil
}

// ReplaceOptions contains options for Replace.
type ReplaceOptions struct {
	// Upsert inserts replacement when no document matches rec's state.
	Upsert bool
	// Driver options are passed through to the driver's ReplaceOne.
	Driver []options.Lister[options.ReplaceOptions]
}

// Replace swaps the stored document matching rec's partial document for
// replacement and returns replacement with its identifier settled: an
// upsert binds the server-assigned identifier, otherwise a replacement
// without an identifier inherits rec's.
func (c *Collection[T]) Replace(ctx context.Context, rec, replacement T, optFns ...func(*ReplaceOptions)) (T, error) {
	start := time.Now()

	var opts ReplaceOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	out, err := c.replace(ctx, rec, replacement, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordReplace(duration, err)
	c.registry.logger.LogReplace(ctx, c.Name(), loggedID(replacement), err)

	return out, err
}

func (c *Collection[T]) replace(ctx context.Context, rec, replacement T, opts ReplaceOptions) (T, error) {
	var zero T

	filter, err := c.document(rec)
	if err != nil {
		return zero, err
	}
	doc, err := c.document(replacement)
	if err != nil {
		return zero, err
	}
	if err := validateRecord(replacement); err != nil {
		return zero, err
	}

	coll, err := c.collection()
	if err != nil {
		return zero, err
	}

	driverOpts := opts.Driver
	if opts.Upsert {
		driverOpts = append([]options.Lister[options.ReplaceOptions]{options.Replace().SetUpsert(true)}, driverOpts...)
	}

	res, err := coll.ReplaceOne(ctx, filter, doc, driverOpts...)
	if err != nil {
		return zero, err
	}

	switch {
	case res.UpsertedID != nil:
		if err := replacement.SetDocumentID(res.UpsertedID); err != nil {
			return zero, err
		}
	case !replacement.HasDocumentID() && rec.HasDocumentID():
		if err := replacement.SetDocumentID(rec.DocumentID()); err != nil {
			return zero, err
		}
	}

	return replacement, nil
}

// ReloadOptions contains options for Reload.
type ReloadOptions struct {
	// Driver options are passed through to the driver's FindOne.
	Driver []options.Lister[options.FindOneOptions]
}

// Reload replaces rec's in-memory state with the stored document, looked
// up by identifier. Aliases of rec observe the refresh. A record whose
// document no longer exists reloads with mongo.ErrNoDocuments.
func (c *Collection[T]) Reload(ctx context.Context, rec T, optFns ...func(*ReloadOptions)) error {
	start := time.Now()

	var opts ReloadOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	err := c.reload(ctx, rec, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordReload(duration, err)
	c.registry.logger.LogReload(ctx, c.Name(), loggedID(rec), err)

	return err
}

func (c *Collection[T]) reload(ctx context.Context, rec T, opts ReloadOptions) error {
	if err := requireID(rec); err != nil {
		return err
	}

	coll, err := c.collection()
	if err != nil {
		return err
	}

	fresh := c.newRecord()
	if err := coll.FindOne(ctx, bson.D{{Key: idKey, Value: rec.DocumentID()}}, opts.Driver...).Decode(fresh); err != nil {
		return err
	}
	if err := validateRecord(fresh); err != nil {
		return err
	}

	replaceState(rec, fresh)
	return nil
}

// DeleteOptions contains options for Delete.
type DeleteOptions struct {
	// Driver options are passed through to the driver's DeleteOne.
	Driver []options.Lister[options.DeleteOneOptions]
}

// Delete removes the stored document matching rec's partial document.
// It returns true when a document was removed. rec keeps its identifier;
// re-inserting the record afterwards restores it under the same one.
func (c *Collection[T]) Delete(ctx context.Context, rec T, optFns ...func(*DeleteOptions)) (bool, error) {
	start := time.Now()

	var opts DeleteOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	deleted, err := c.delete(ctx, rec, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordDelete(duration, err)
	c.registry.logger.LogDelete(ctx, c.Name(), deleted, err)

	return deleted, err
}

func (c *Collection[T]) delete(ctx context.Context, rec T, opts DeleteOptions) (bool, error) {
	filter, err := c.document(rec)
	if err != nil {
		return false, err
	}

	coll, err := c.collection()
	if err != nil {
		return false, err
	}

	res, err := coll.DeleteOne(ctx, filter, opts.Driver...)
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// DeleteManyOptions contains options for DeleteMany.
type DeleteManyOptions struct {
	// Driver options are passed through to the driver's DeleteMany.
	Driver []options.Lister[options.DeleteManyOptions]
}

// DeleteMany removes the stored documents matching any of recs in a
// single call, combining the per-record partial documents under $or.
// It returns the number of documents removed. An empty slice is a no-op
// that contacts no server.
func (c *Collection[T]) DeleteMany(ctx context.Context, recs []T, optFns ...func(*DeleteManyOptions)) (int64, error) {
	start := time.Now()

	var opts DeleteManyOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	deleted, err := c.deleteMany(ctx, recs, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordDeleteMany(len(recs), duration, err)
	c.registry.logger.LogDeleteMany(ctx, c.Name(), len(recs), deleted, err)

	return deleted, err
}

func (c *Collection[T]) deleteMany(ctx context.Context, recs []T, opts DeleteManyOptions) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	filters := make(bson.A, len(recs))
	for i, rec := range recs {
		doc, err := c.document(rec)
		if err != nil {
			return 0, err
		}
		filters[i] = doc
	}

	coll, err := c.collection()
	if err != nil {
		return 0, err
	}

	res, err := coll.DeleteMany(ctx, bson.D{{Key: "$or", Value: filters}}, opts.Driver...)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// FindOptions contains options for Find.
type FindOptions struct {
	// Driver options are passed through to the driver's Find, e.g.
	// options.Find().SetSort(...) or SetLimit(...).
	Driver []options.Lister[options.FindOptions]
}

// Find returns a lazy sequence of the records matching filter. A nil
// filter matches everything. Decoding happens per document as the
// sequence is consumed; breaking out of the range closes the cursor.
// Each range over the returned sequence issues a fresh query.
func (c *Collection[T]) Find(ctx context.Context, filter any, optFns ...func(*FindOptions)) iter.Seq2[T, error] {
	var opts FindOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	return func(yield func(T, error) bool) {
		start := time.Now()
		var zero T
		docs := 0

		finish := func(err error) {
			c.registry.metrics.RecordFind(docs, time.Since(start), err)
			c.registry.logger.LogFind(ctx, c.Name(), docs, err)
		}

		coll, err := c.collection()
		if err != nil {
			finish(err)
			yield(zero, err)
			return
		}

		cur, err := coll.Find(ctx, orEmptyFilter(filter), opts.Driver...)
		if err != nil {
			finish(err)
			yield(zero, err)
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			rec := c.newRecord()
			if err := cur.Decode(rec); err != nil {
				finish(err)
				yield(zero, err)
				return
			}
			if err := validateRecord(rec); err != nil {
				finish(err)
				yield(zero, err)
				return
			}
			docs++
			if !yield(rec, nil) {
				finish(nil)
				return
			}
		}

		err = cur.Err()
		finish(err)
		if err != nil {
			yield(zero, err)
		}
	}
}

// FindAll collects the records matching filter into a slice. Convenience
// wrapper around Find for callers that want everything up front.
func (c *Collection[T]) FindAll(ctx context.Context, filter any, optFns ...func(*FindOptions)) ([]T, error) {
	var out []T
	for rec, err := range c.Find(ctx, filter, optFns...) {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// FindOneOptions contains options for FindOne.
type FindOneOptions struct {
	// Driver options are passed through to the driver's FindOne.
	Driver []options.Lister[options.FindOneOptions]
}

// FindOne returns the first record matching filter, or the zero value
// with a nil error when nothing matches. Absence is an ordinary outcome,
// not an error.
func (c *Collection[T]) FindOne(ctx context.Context, filter any, optFns ...func(*FindOneOptions)) (T, error) {
	start := time.Now()

	var opts FindOneOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	rec, found, err := c.findOne(ctx, filter, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordFindOne(duration, err)
	c.registry.logger.LogFindOne(ctx, c.Name(), "find_one", found, err)

	return rec, err
}

func (c *Collection[T]) findOne(ctx context.Context, filter any, opts FindOneOptions) (T, bool, error) {
	var zero T

	coll, err := c.collection()
	if err != nil {
		return zero, false, err
	}

	return c.decodeOne(coll.FindOne(ctx, orEmptyFilter(filter), opts.Driver...))
}

// FindOneAndDeleteOptions contains options for FindOneAndDelete.
type FindOneAndDeleteOptions struct {
	// Driver options are passed through to the driver's FindOneAndDelete.
	Driver []options.Lister[options.FindOneAndDeleteOptions]
}

// FindOneAndDelete removes the first document matching filter and
// returns it as a record. The zero value with a nil error means nothing
// matched.
func (c *Collection[T]) FindOneAndDelete(ctx context.Context, filter any, optFns ...func(*FindOneAndDeleteOptions)) (T, error) {
	start := time.Now()

	var opts FindOneAndDeleteOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	rec, found, err := c.findOneAndDelete(ctx, filter, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordFindOne(duration, err)
	c.registry.logger.LogFindOne(ctx, c.Name(), "find_one_and_delete", found, err)

	return rec, err
}

func (c *Collection[T]) findOneAndDelete(ctx context.Context, filter any, opts FindOneAndDeleteOptions) (T, bool, error) {
	var zero T

	coll, err := c.collection()
	if err != nil {
		return zero, false, err
	}

	return c.decodeOne(coll.FindOneAndDelete(ctx, orEmptyFilter(filter), opts.Driver...))
}

// FindOneAndUpdateOptions contains options for FindOneAndUpdate.
type FindOneAndUpdateOptions struct {
	// After returns the post-update document instead of the pre-update one.
	After bool
	// Upsert inserts a document when no match exists.
	Upsert bool
	// Driver options are passed through to the driver's FindOneAndUpdate.
	Driver []options.Lister[options.FindOneAndUpdateOptions]
}

// FindOneAndUpdate applies an update document to the first document
// matching filter and returns the document's record, pre-update by
// default or post-update with After. The zero value with a nil error
// means nothing matched.
func (c *Collection[T]) FindOneAndUpdate(ctx context.Context, filter, update any, optFns ...func(*FindOneAndUpdateOptions)) (T, error) {
	start := time.Now()

	var opts FindOneAndUpdateOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	rec, found, err := c.findOneAndUpdate(ctx, filter, update, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordFindOne(duration, err)
	c.registry.logger.LogFindOne(ctx, c.Name(), "find_one_and_update", found, err)

	return rec, err
}

func (c *Collection[T]) findOneAndUpdate(ctx context.Context, filter, update any, opts FindOneAndUpdateOptions) (T, bool, error) {
	var zero T

	coll, err := c.collection()
	if err != nil {
		return zero, false, err
	}

	driverOpts := opts.Driver
	if opts.After || opts.Upsert {
		builder := options.FindOneAndUpdate()
		if opts.After {
			builder = builder.SetReturnDocument(options.After)
		}
		if opts.Upsert {
			builder = builder.SetUpsert(true)
		}
		driverOpts = append([]options.Lister[options.FindOneAndUpdateOptions]{builder}, driverOpts...)
	}

	return c.decodeOne(coll.FindOneAndUpdate(ctx, orEmptyFilter(filter), update, driverOpts...))
}

// FindOneAndReplaceOptions contains options for FindOneAndReplace.
type FindOneAndReplaceOptions struct {
	// After returns the post-replace document instead of the pre-replace one.
	After bool
	// Upsert inserts the replacement when no match exists.
	Upsert bool
	// Driver options are passed through to the driver's FindOneAndReplace.
	Driver []options.Lister[options.FindOneAndReplaceOptions]
}

// FindOneAndReplace swaps the first document matching filter for
// replacement, which may be a record or a raw document. When After is
// set and replacement is a record of this collection's type, that record
// is refreshed in place with the stored document and returned, so the
// caller's reference stays current. The zero value with a nil error
// means nothing matched.
func (c *Collection[T]) FindOneAndReplace(ctx context.Context, filter, replacement any, optFns ...func(*FindOneAndReplaceOptions)) (T, error) {
	start := time.Now()

	var opts FindOneAndReplaceOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	rec, found, err := c.findOneAndReplace(ctx, filter, replacement, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordFindOne(duration, err)
	c.registry.logger.LogFindOne(ctx, c.Name(), "find_one_and_replace", found, err)

	return rec, err
}

func (c *Collection[T]) findOneAndReplace(ctx context.Context, filter, replacement any, opts FindOneAndReplaceOptions) (T, bool, error) {
	var zero T

	doc := replacement
	if rec, ok := replacement.(Record); ok {
		if err := validateRecord(rec); err != nil {
			return zero, false, err
		}
		d, err := Document(rec)
		if err != nil {
			return zero, false, err
		}
		doc = d
	}

	coll, err := c.collection()
	if err != nil {
		return zero, false, err
	}

	driverOpts := opts.Driver
	if opts.After || opts.Upsert {
		builder := options.FindOneAndReplace()
		if opts.After {
			builder = builder.SetReturnDocument(options.After)
		}
		if opts.Upsert {
			builder = builder.SetUpsert(true)
		}
		driverOpts = append([]options.Lister[options.FindOneAndReplaceOptions]{builder}, driverOpts...)
	}

	res := coll.FindOneAndReplace(ctx, orEmptyFilter(filter), doc, driverOpts...)

	if opts.After {
		if same, ok := replacement.(T); ok {
			fresh := c.newRecord()
			err := res.Decode(fresh)
			switch {
			case errors.Is(err, mongo.ErrNoDocuments):
				return zero, false, nil
			case err != nil:
				return zero, false, err
			}
			if err := validateRecord(fresh); err != nil {
				return zero, false, err
			}
			replaceState(same, fresh)
			return same, true, nil
		}
	}

	return c.decodeOne(res)
}

// CountOptions contains options for CountDocuments.
type CountOptions struct {
	// Driver options are passed through to the driver's CountDocuments.
	Driver []options.Lister[options.CountOptions]
}

// CountDocuments returns the number of documents matching filter. A nil
// filter counts the whole collection.
func (c *Collection[T]) CountDocuments(ctx context.Context, filter any, optFns ...func(*CountOptions)) (int64, error) {
	start := time.Now()

	var opts CountOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	count, err := c.countDocuments(ctx, filter, opts)
	duration := time.Since(start)

	c.registry.metrics.RecordCount(duration, err)
	c.registry.logger.LogCount(ctx, c.Name(), count, err)

	return count, err
}

func (c *Collection[T]) countDocuments(ctx context.Context, filter any, opts CountOptions) (int64, error) {
	coll, err := c.collection()
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, orEmptyFilter(filter), opts.Driver...)
}

// decodeOne turns a driver single result into a record. Absence maps to
// the zero value with found false and a nil error.
func (c *Collection[T]) decodeOne(res *mongo.SingleResult) (T, bool, error) {
	var zero T

	rec := c.newRecord()
	err := res.Decode(rec)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return zero, false, nil
	case err != nil:
		return zero, false, err
	}
	if err := validateRecord(rec); err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

// requireID reports ErrIDUnset for records without a bound identifier.
// Operations that address a document by identifier call this first so
// the caller's bug surfaces before any server round trip.
func requireID(rec Record) error {
	if rec == nil {
		return ErrNilRecord
	}
	rv := reflect.ValueOf(rec)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ErrNilRecord
	}
	if !rec.HasDocumentID() {
		return ErrIDUnset
	}
	return nil
}

// loggedID extracts rec's identifier for log fields without tripping on
// nil or unsaved records.
func loggedID(rec Record) any {
	if rec == nil {
		return nil
	}
	rv := reflect.ValueOf(rec)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	if !rec.HasDocumentID() {
		return nil
	}
	return rec.DocumentID()
}

func orEmptyFilter(filter any) any {
	if filter == nil {
		return bson.D{}
	}
	return filter
}
