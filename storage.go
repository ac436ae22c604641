package docgo

import (
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"
)

// Storage holds the per-type storage settings of a record type: the target
// collection and the consistency/codec policies its operations run under.
//
// A zero field means "inherit from the embedding chain". Record types declare
// overrides by implementing StorageProvider; types that declare nothing
// inherit everything from their embedded bases. The effective Storage of a
// registered type is resolved once, at registration time, and must end up
// with a non-empty Collection.
type Storage struct {
	// Collection is the name of the target collection.
	Collection string

	// BSONOptions configures driver-side marshal/unmarshal behavior.
	BSONOptions *options.BSONOptions

	// Registry is the BSON codec registry used for this type's documents.
	Registry *bson.Registry

	// ReadPreference selects which servers are eligible for reads.
	ReadPreference *readpref.ReadPref

	// WriteConcern is the write acknowledgement policy.
	WriteConcern *writeconcern.WriteConcern

	// ReadConcern is the read isolation policy.
	ReadConcern *readconcern.ReadConcern
}

// StorageProvider is implemented by record types that declare storage
// overrides. The method is called on a zero value during registration, so
// it must not depend on instance state.
type StorageProvider interface {
	Storage() Storage
}

// Merge overlays the non-zero fields of overlay onto s and returns the
// result. Fields left zero in overlay keep the value from s, so merging is
// idempotent and order-stable.
func (s Storage) Merge(overlay Storage) Storage {
	if overlay.Collection != "" {
		s.Collection = overlay.Collection
	}
	if overlay.BSONOptions != nil {
		s.BSONOptions = overlay.BSONOptions
	}
	if overlay.Registry != nil {
		s.Registry = overlay.Registry
	}
	if overlay.ReadPreference != nil {
		s.ReadPreference = overlay.ReadPreference
	}
	if overlay.WriteConcern != nil {
		s.WriteConcern = overlay.WriteConcern
	}
	if overlay.ReadConcern != nil {
		s.ReadConcern = overlay.ReadConcern
	}
	return s
}

// collectionOptions translates the resolved settings into driver collection
// options. Zero fields are simply not set, leaving the driver defaults in
// charge.
func (s Storage) collectionOptions() *options.CollectionOptionsBuilder {
	opts := options.Collection()
	if s.BSONOptions != nil {
		opts.SetBSONOptions(s.BSONOptions)
	}
	if s.Registry != nil {
		opts.SetRegistry(s.Registry)
	}
	if s.ReadPreference != nil {
		opts.SetReadPreference(s.ReadPreference)
	}
	if s.WriteConcern != nil {
		opts.SetWriteConcern(s.WriteConcern)
	}
	if s.ReadConcern != nil {
		opts.SetReadConcern(s.ReadConcern)
	}
	return opts
}

// resolveStorage computes the effective Storage for the struct type t by
// walking its embedded fields depth-first. Embeds are overlaid in reverse
// declaration order so that the first-declared (primary) base wins over
// later ones, and the type's own declaration wins over all of them. "Own"
// follows Go method promotion: whatever Storage method the type's pointer
// exposes is the final overlay, which is idempotent when the method is
// merely promoted from a base already visited.
func resolveStorage(t reflect.Type) Storage {
	var s Storage
	for i := t.NumField() - 1; i >= 0; i-- {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() != reflect.Struct {
			continue
		}
		s = s.Merge(resolveStorage(ft))
	}
	return s.Merge(declaredStorage(t))
}

// declaredStorage returns what t's method set declares, or a zero Storage
// if t has no Storage method. The call happens on a fresh zero value.
func declaredStorage(t reflect.Type) Storage {
	if sp, ok := reflect.New(t).Interface().(StorageProvider); ok {
		return sp.Storage()
	}
	return Storage{}
}
