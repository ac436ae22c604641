package docgo_test

import (
	"context"
	"testing"

	"github.com/hupe1980/docgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Animal struct {
	docgo.Base `bson:",inline"`
	Name       string `bson:"name,omitempty"`
}

func (Animal) Storage() docgo.Storage {
	return docgo.Storage{Collection: "animals"}
}

type Dog struct {
	Animal `bson:",inline"`
	Breed  string `bson:"breed,omitempty"`
}

type Cat struct {
	Animal `bson:",inline"`
	Indoor bool `bson:"indoor,omitempty"`
}

func (Cat) Storage() docgo.Storage {
	return docgo.Storage{Collection: "cats"}
}

// offlineClient builds a driver client without requiring a reachable
// deployment. The driver dials lazily, so database and collection
// handles resolve locally.
func offlineClient(t *testing.T) *mongo.Client {
	t.Helper()
	client, err := mongo.Connect(options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})
	return client
}

func TestBindingLifecycle(t *testing.T) {
	client := offlineClient(t)

	r := docgo.NewRegistry()
	require.NoError(t, docgo.RegisterIn[*Dog](r))

	dogs := docgo.CollIn[*Dog](r)

	t.Run("NoDatabaseBound", func(t *testing.T) {
		_, err := dogs.Driver()
		require.ErrorIs(t, err, docgo.ErrNoDatabase)
	})

	t.Run("ResolveAfterUse", func(t *testing.T) {
		r.Use(client.Database("zoo"))

		coll, err := dogs.Driver()
		require.NoError(t, err)
		assert.Equal(t, "animals", coll.Name())
		assert.Equal(t, "zoo", coll.Database().Name())
	})

	t.Run("BindingIsCached", func(t *testing.T) {
		first, err := dogs.Driver()
		require.NoError(t, err)
		second, err := dogs.Driver()
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("RebindAfterUse", func(t *testing.T) {
		old, err := dogs.Driver()
		require.NoError(t, err)

		r.Use(client.Database("zoo2"))

		coll, err := dogs.Driver()
		require.NoError(t, err)
		assert.NotSame(t, old, coll)
		assert.Equal(t, "zoo2", coll.Database().Name())
	})

	t.Run("FreshHandleSharesBinding", func(t *testing.T) {
		a, err := docgo.CollIn[*Dog](r).Driver()
		require.NoError(t, err)
		b, err := dogs.Driver()
		require.NoError(t, err)
		assert.Same(t, a, b)
	})
}

func TestPerTypeDatabaseOverride(t *testing.T) {
	client := offlineClient(t)

	r := docgo.NewRegistry(docgo.WithDatabase(client.Database("main")))
	require.NoError(t, docgo.RegisterIn[*Dog](r))
	require.NoError(t, docgo.RegisterIn[*Cat](r, func(o *docgo.RegisterOptions) {
		o.Database = client.Database("aux")
	}))

	dogColl, err := docgo.CollIn[*Dog](r).Driver()
	require.NoError(t, err)
	catColl, err := docgo.CollIn[*Cat](r).Driver()
	require.NoError(t, err)

	assert.Equal(t, "main", dogColl.Database().Name())
	assert.Equal(t, "aux", catColl.Database().Name())

	// Swapping the registry database must not move the pinned type.
	r.Use(client.Database("moved"))

	dogColl, err = docgo.CollIn[*Dog](r).Driver()
	require.NoError(t, err)
	catColl, err = docgo.CollIn[*Cat](r).Driver()
	require.NoError(t, err)

	assert.Equal(t, "moved", dogColl.Database().Name())
	assert.Equal(t, "aux", catColl.Database().Name())
}

func TestBoundCollections(t *testing.T) {
	client := offlineClient(t)

	r := docgo.NewRegistry()
	require.NoError(t, docgo.RegisterIn[*Dog](r))

	t.Run("NoDatabase", func(t *testing.T) {
		_, err := r.BoundCollections()
		require.ErrorIs(t, err, docgo.ErrNoDatabase)
	})

	t.Run("DeduplicatedAndSorted", func(t *testing.T) {
		require.NoError(t, docgo.RegisterIn[*Cat](r))
		require.NoError(t, docgo.RegisterIn[*Animal](r)) // shares "animals" with Dog
		r.Use(client.Database("zoo"))

		colls, err := r.BoundCollections()
		require.NoError(t, err)
		require.Len(t, colls, 2)
		assert.Equal(t, "animals", colls[0].Name())
		assert.Equal(t, "cats", colls[1].Name())
	})
}
