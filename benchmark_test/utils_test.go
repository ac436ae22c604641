package benchmark_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"

	"github.com/hupe1980/docgo"
	"github.com/hupe1980/docgo/testutil"
)

// benchAccount is the workhorse fixture: an inline identifier base plus a
// spread of scalar and composite fields.
type benchAccount struct {
	docgo.Base `bson:",inline"`

	Name   string   `bson:"name,omitempty"`
	Email  string   `bson:"email,omitempty"`
	Age    int      `bson:"age,omitempty"`
	Active bool     `bson:"active,omitempty"`
	Score  float64  `bson:"score,omitempty"`
	Tags   []string `bson:"tags,omitempty"`
	Bio    string   `bson:"bio,omitempty"`
}

func (benchAccount) Storage() docgo.Storage {
	return docgo.Storage{Collection: "accounts"}
}

func newAccount(rng *testutil.RNG) *benchAccount {
	return &benchAccount{
		Name:   rng.Name(),
		Email:  rng.Email(),
		Age:    20 + rng.Intn(50),
		Active: rng.Bool(),
		Score:  rng.Float64(),
		Tags:   []string{rng.Word(), rng.Word()},
		Bio:    rng.Sentence(12),
	}
}

// benchEvent resolves its storage through a two-base embedding chain, so
// registering it walks the whole merge path.
type benchTenantScoped struct {
	docgo.Base `bson:",inline"`
}

func (benchTenantScoped) Storage() docgo.Storage {
	return docgo.Storage{WriteConcern: writeconcern.Majority()}
}

type benchAudited struct {
	CreatedBy string `bson:"createdBy,omitempty"`
}

func (benchAudited) Storage() docgo.Storage {
	return docgo.Storage{ReadConcern: readconcern.Majority()}
}

type benchEvent struct {
	benchTenantScoped `bson:",inline"`
	benchAudited      `bson:",inline"`

	Kind string `bson:"kind,omitempty"`
}

func (benchEvent) Storage() docgo.Storage {
	return docgo.Storage{Collection: "events"}
}

// rawDocuments marshals n generated documents up front so the timed region
// measures only archive work. It returns the documents and their total size.
func rawDocuments(b *testing.B, rng *testutil.RNG, n, fields int) ([][]byte, int64) {
	b.Helper()

	docs := make([][]byte, n)
	var total int64
	for i := range docs {
		raw, err := bson.Marshal(rng.Document(fields))
		if err != nil {
			b.Fatal(err)
		}
		docs[i] = raw
		total += int64(len(raw))
	}
	return docs, total
}
