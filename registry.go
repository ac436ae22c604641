package docgo

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Registry tracks registered record types and binds them to a database.
// The zero value is not usable; create one with NewRegistry. Most
// applications use the package-level default registry via Register, Use
// and Coll instead of constructing their own.
//
// A Registry is safe for concurrent use. The database can be swapped at
// runtime with Use; bindings of registered types are recomputed lazily
// on their next operation.
type Registry struct {
	mu    sync.RWMutex
	types map[reflect.Type]*typeMeta

	db atomic.Pointer[mongo.Database]

	logger  *Logger
	metrics MetricsCollector
}

// typeMeta holds everything resolved about a record type at registration:
// the effective storage settings, the field plan and the lazily computed
// collection binding.
type typeMeta struct {
	typ        reflect.Type // the record struct type, not the pointer
	storage    Storage
	plan       *fieldPlan
	dbOverride *mongo.Database

	binding atomic.Pointer[binding]
}

// binding pairs a resolved driver collection with the database it was
// resolved against. Recomputing a binding is idempotent, so concurrent
// resolution races are harmless and need no lock.
type binding struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewRegistry creates an isolated Registry.
func NewRegistry(optFns ...Option) *Registry {
	opts := applyOptions(optFns)

	r := &Registry{
		types:   make(map[reflect.Type]*typeMeta),
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}
	if opts.database != nil {
		r.db.Store(opts.database)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the package-level registry used by Register, Use and Coll.
func Default() *Registry {
	return defaultRegistry
}

// Use binds db as the registry's database. Registered types rebind to the
// new database lazily on their next operation.
func (r *Registry) Use(db *mongo.Database) {
	r.db.Store(db)
}

// Use binds db on the default registry.
func Use(db *mongo.Database) {
	defaultRegistry.Use(db)
}

// Database returns the currently bound database, or nil if none is bound.
func (r *Registry) Database() *mongo.Database {
	return r.db.Load()
}

// RegisterOptions contains options for record type registration.
type RegisterOptions struct {
	// Database pins this type to a specific database, overriding whatever
	// the registry is bound to.
	Database *mongo.Database
}

// RegisterIn registers the record type T in registry r. T must be a
// pointer to a struct that reaches a non-empty collection name through
// its storage chain and maps a field to the reserved _id key.
//
// Registration resolves the type's storage settings and serialization
// plan once; a DefinitionError reports anything that would make the type
// unusable at operation time.
func RegisterIn[T Record](r *Registry, optFns ...func(*RegisterOptions)) error {
	var opts RegisterOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	pt := reflect.TypeFor[T]()
	if pt.Kind() != reflect.Pointer || pt.Elem().Kind() != reflect.Struct {
		return &DefinitionError{Type: pt, Reason: "record type must be a pointer to a struct"}
	}
	t := pt.Elem()

	storage := resolveStorage(t)
	if storage.Collection == "" {
		return &DefinitionError{Type: pt, Reason: "no collection configured anywhere in the storage chain"}
	}

	plan, err := planFor(t)
	if err != nil {
		return &DefinitionError{Type: pt, Reason: "unserializable record type", cause: err}
	}
	if !plan.hasID {
		return &DefinitionError{Type: pt, Reason: "no field maps to the reserved _id key; embed an identifier base inline"}
	}

	meta := &typeMeta{
		typ:        t,
		storage:    storage,
		plan:       plan,
		dbOverride: opts.Database,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t]; ok {
		return &DefinitionError{Type: pt, Reason: "type already registered"}
	}
	r.types[t] = meta

	r.logger.LogRegister(pt.String(), storage.Collection)

	return nil
}

// Register registers the record type T in the default registry.
func Register[T Record](optFns ...func(*RegisterOptions)) error {
	return RegisterIn[T](defaultRegistry, optFns...)
}

// MustRegisterIn is like RegisterIn but panics on error. Intended for
// package-level var blocks and init functions.
func MustRegisterIn[T Record](r *Registry, optFns ...func(*RegisterOptions)) {
	if err := RegisterIn[T](r, optFns...); err != nil {
		panic(err)
	}
}

// MustRegister is like Register but panics on error.
func MustRegister[T Record](optFns ...func(*RegisterOptions)) {
	if err := Register[T](optFns...); err != nil {
		panic(err)
	}
}

// CollIn returns the typed collection handle for T in registry r.
// It panics if T has not been registered; registration errors surface
// earlier, from RegisterIn.
func CollIn[T Record](r *Registry) *Collection[T] {
	pt := reflect.TypeFor[T]()
	var meta *typeMeta
	if pt.Kind() == reflect.Pointer {
		r.mu.RLock()
		meta = r.types[pt.Elem()]
		r.mu.RUnlock()
	}
	if meta == nil {
		panic(fmt.Sprintf("docgo: %s is not a registered record type", pt))
	}
	return &Collection[T]{registry: r, meta: meta}
}

// Coll returns the typed collection handle for T in the default registry.
func Coll[T Record]() *Collection[T] {
	return CollIn[T](defaultRegistry)
}

// collectionFor resolves the driver collection for meta against the
// registry's current database, reusing the cached binding when the
// database has not changed since the last resolution.
func (r *Registry) collectionFor(meta *typeMeta) (*mongo.Collection, error) {
	db := meta.dbOverride
	if db == nil {
		db = r.db.Load()
	}
	if db == nil {
		return nil, ErrNoDatabase
	}

	if b := meta.binding.Load(); b != nil && b.db == db {
		return b.coll, nil
	}

	coll := db.Collection(meta.storage.Collection, meta.storage.collectionOptions())
	meta.binding.Store(&binding{db: db, coll: coll})
	return coll, nil
}

// BoundCollections resolves the driver collection of every registered
// type, deduplicated by namespace and sorted for deterministic order.
func (r *Registry) BoundCollections() ([]*mongo.Collection, error) {
	r.mu.RLock()
	metas := make([]*typeMeta, 0, len(r.types))
	for _, meta := range r.types {
		metas = append(metas, meta)
	}
	r.mu.RUnlock()

	seen := make(map[string]struct{}, len(metas))
	colls := make([]*mongo.Collection, 0, len(metas))
	for _, meta := range metas {
		coll, err := r.collectionFor(meta)
		if err != nil {
			return nil, err
		}
		ns := coll.Database().Name() + "." + coll.Name()
		if _, ok := seen[ns]; ok {
			continue
		}
		seen[ns] = struct{}{}
		colls = append(colls, coll)
	}

	sort.Slice(colls, func(i, j int) bool {
		if colls[i].Database().Name() != colls[j].Database().Name() {
			return colls[i].Database().Name() < colls[j].Database().Name()
		}
		return colls[i].Name() < colls[j].Name()
	})

	return colls, nil
}
