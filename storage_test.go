package docgo

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"
)

func typeOf[T any](t *testing.T) reflect.Type {
	t.Helper()
	return reflect.TypeFor[T]()
}

func applyCollectionOptions(t *testing.T, s Storage) *options.CollectionOptions {
	t.Helper()
	built := &options.CollectionOptions{}
	for _, fn := range s.collectionOptions().List() {
		require.NoError(t, fn(built))
	}
	return built
}

type animalRec struct {
	Base `bson:",inline"`
	Name string `bson:"name,omitempty"`
}

func (animalRec) Storage() Storage {
	return Storage{
		Collection:   "animals",
		WriteConcern: writeconcern.Majority(),
	}
}

type dogRec struct {
	animalRec `bson:",inline"`
	Breed     string `bson:"breed,omitempty"`
}

type catRec struct {
	animalRec `bson:",inline"`
	Indoor    bool `bson:"indoor,omitempty"`
}

func (catRec) Storage() Storage {
	return Storage{Collection: "cats"}
}

type shepherdRec struct {
	dogRec `bson:",inline"`
}

func (shepherdRec) Storage() Storage {
	return Storage{
		Collection:  "shepherds",
		ReadConcern: readconcern.Majority(),
	}
}

type shepherdPuppyRec struct {
	shepherdRec `bson:",inline"`
}

type plainRec struct {
	Base `bson:",inline"`
}

type primarySource struct{}

func (primarySource) Storage() Storage {
	return Storage{
		Collection:  "primary",
		ReadConcern: readconcern.Local(),
	}
}

type secondarySource struct{}

func (secondarySource) Storage() Storage {
	return Storage{
		Collection:     "secondary",
		WriteConcern:   writeconcern.W1(),
		ReadPreference: readpref.SecondaryPreferred(),
	}
}

type mixedRec struct {
	Base            `bson:",inline"`
	primarySource   `bson:"-"`
	secondarySource `bson:"-"`
}

func TestStorageMerge(t *testing.T) {
	t.Run("OverlayWins", func(t *testing.T) {
		base := Storage{Collection: "base", WriteConcern: writeconcern.W1()}
		merged := base.Merge(Storage{Collection: "override"})

		assert.Equal(t, "override", merged.Collection)
		assert.Equal(t, writeconcern.W1(), merged.WriteConcern)
	})

	t.Run("ZeroFieldsInherit", func(t *testing.T) {
		base := Storage{
			Collection:     "base",
			ReadPreference: readpref.Primary(),
			ReadConcern:    readconcern.Majority(),
		}
		merged := base.Merge(Storage{})

		assert.Equal(t, base, merged)
	})

	t.Run("Idempotent", func(t *testing.T) {
		base := Storage{Collection: "base"}
		overlay := Storage{Collection: "override", ReadConcern: readconcern.Local()}

		once := base.Merge(overlay)
		twice := once.Merge(overlay)
		assert.Equal(t, once, twice)
	})
}

func TestResolveStorage(t *testing.T) {
	t.Run("OwnDeclaration", func(t *testing.T) {
		s := resolveStorage(typeOf[animalRec](t))

		assert.Equal(t, "animals", s.Collection)
		assert.Equal(t, writeconcern.Majority(), s.WriteConcern)
	})

	t.Run("InheritedFromBase", func(t *testing.T) {
		s := resolveStorage(typeOf[dogRec](t))

		assert.Equal(t, "animals", s.Collection)
		assert.Equal(t, writeconcern.Majority(), s.WriteConcern)
	})

	t.Run("OverrideReplacesOnlySetFields", func(t *testing.T) {
		s := resolveStorage(typeOf[catRec](t))

		assert.Equal(t, "cats", s.Collection)
		assert.Equal(t, writeconcern.Majority(), s.WriteConcern)
	})

	t.Run("NearestOverrideWins", func(t *testing.T) {
		s := resolveStorage(typeOf[shepherdRec](t))

		assert.Equal(t, "shepherds", s.Collection)
		assert.Equal(t, readconcern.Majority(), s.ReadConcern)
		assert.Equal(t, writeconcern.Majority(), s.WriteConcern)
	})

	t.Run("DeepChainInherits", func(t *testing.T) {
		s := resolveStorage(typeOf[shepherdPuppyRec](t))

		assert.Equal(t, "shepherds", s.Collection)
	})

	t.Run("FirstDeclaredBaseWins", func(t *testing.T) {
		s := resolveStorage(typeOf[mixedRec](t))

		assert.Equal(t, "primary", s.Collection)
		assert.Equal(t, readconcern.Local(), s.ReadConcern)
		assert.Equal(t, writeconcern.W1(), s.WriteConcern)
		assert.Equal(t, readpref.SecondaryPreferred().Mode(), s.ReadPreference.Mode())
	})

	t.Run("NoDeclarationAnywhere", func(t *testing.T) {
		s := resolveStorage(typeOf[plainRec](t))

		assert.Equal(t, Storage{}, s)
	})

	t.Run("Deterministic", func(t *testing.T) {
		first := resolveStorage(typeOf[mixedRec](t))
		second := resolveStorage(typeOf[mixedRec](t))

		require.Equal(t, first.Collection, second.Collection)
		require.Equal(t, first.WriteConcern, second.WriteConcern)
		require.Equal(t, first.ReadConcern, second.ReadConcern)
	})
}

func TestCollectionOptions(t *testing.T) {
	t.Run("ZeroStorageSetsNothing", func(t *testing.T) {
		opts := Storage{Collection: "c"}.collectionOptions()
		assert.Empty(t, opts.List())
	})

	t.Run("SetFieldsTranslate", func(t *testing.T) {
		s := Storage{
			Collection:     "c",
			ReadPreference: readpref.Primary(),
			WriteConcern:   writeconcern.Majority(),
			ReadConcern:    readconcern.Majority(),
		}
		built := applyCollectionOptions(t, s)

		assert.Equal(t, readpref.Primary().Mode(), built.ReadPreference.Mode())
		assert.Equal(t, writeconcern.Majority(), built.WriteConcern)
		assert.Equal(t, readconcern.Majority(), built.ReadConcern)
	})
}
