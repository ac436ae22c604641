package integration_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/hupe1980/docgo"
)

// itUser is the primary fixture: driver-assigned object ids.
type itUser struct {
	docgo.Base `bson:",inline"`

	Name   string `bson:"name,omitempty"`
	Email  string `bson:"email,omitempty"`
	Age    int    `bson:"age,omitempty"`
	Active bool   `bson:"active,omitempty"`
}

func (itUser) Storage() docgo.Storage {
	return docgo.Storage{Collection: "users"}
}

// itTask uses client-generated UUID identifiers.
type itTask struct {
	docgo.UUIDBase `bson:",inline"`

	Title string `bson:"title,omitempty"`
	Done  bool   `bson:"done,omitempty"`
}

func (itTask) Storage() docgo.Storage {
	return docgo.Storage{Collection: "tasks"}
}

// testDatabase connects to the deployment named by MONGODB_URI and
// returns a throwaway database that is dropped on cleanup. Tests are
// skipped when the variable is unset or the deployment is unreachable.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}

	ctx := context.Background()

	client, err := docgo.Connect(ctx, uri)
	require.NoError(t, err)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("MongoDB not available: %v", err)
	}

	db := client.Database(fmt.Sprintf("docgo_it_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// newTestRegistry registers the fixture types in an isolated registry
// bound to db.
func newTestRegistry(t *testing.T, db *mongo.Database) *docgo.Registry {
	t.Helper()

	r := docgo.NewRegistry(docgo.WithDatabase(db))
	docgo.MustRegisterIn[*itUser](r)
	docgo.MustRegisterIn[*itTask](r)
	return r
}
