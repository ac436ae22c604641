package benchmark_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hupe1980/docgo"
	"github.com/hupe1980/docgo/testutil"
)

func BenchmarkDocument(b *testing.B) {
	rng := testutil.NewRNG(1)
	acc := newAccount(rng)

	b.Run("Full", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := docgo.Document(acc); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Bound", func(b *testing.B) {
		bound := newAccount(rng)
		bound.ID = bson.NewObjectID()

		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := docgo.Document(bound); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Include", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, err := docgo.Document(acc, func(o *docgo.DocumentOptions) {
				o.Include = []string{"Name", "Email"}
			})
			if err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Exclude", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, err := docgo.Document(acc, func(o *docgo.DocumentOptions) {
				o.Exclude = []string{"Bio", "Tags"}
			})
			if err != nil {
				b.Fatal(err)
			}
		}
	})

	// A record with most fields at their zero value projects almost
	// nothing; this is the update-after-partial-change shape.
	b.Run("Sparse", func(b *testing.B) {
		sparse := &benchAccount{Name: "n"}

		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := docgo.Document(sparse); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Parallel", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if _, err := docgo.Document(acc); err != nil {
					b.Fatal(err)
				}
			}
		})
	})
}

// BenchmarkMarshalRecord is the driver-codec baseline for BenchmarkDocument:
// a full struct marshal without zero-field elision.
func BenchmarkMarshalRecord(b *testing.B) {
	rng := testutil.NewRNG(1)
	acc := newAccount(rng)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := bson.Marshal(acc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRegister(b *testing.B) {
	b.Run("Flat", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			r := docgo.NewRegistry()
			if err := docgo.RegisterIn[*benchAccount](r); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Chained", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			r := docgo.NewRegistry()
			if err := docgo.RegisterIn[*benchEvent](r); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkColl(b *testing.B) {
	r := docgo.NewRegistry()
	docgo.MustRegisterIn[*benchAccount](r)

	b.Run("Lookup", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if c := docgo.CollIn[*benchAccount](r); c == nil {
				b.Fatal("nil collection")
			}
		}
	})

	b.Run("Parallel", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if c := docgo.CollIn[*benchAccount](r); c == nil {
					b.Fatal("nil collection")
				}
			}
		})
	})
}

func BenchmarkStorageMerge(b *testing.B) {
	base := docgo.Storage{Collection: "base"}
	overlay := benchEvent{}.Storage()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := base.Merge(overlay)
		if s.Collection != "events" {
			b.Fatal("unexpected merge result")
		}
	}
}

func BenchmarkUUID(b *testing.B) {
	b.Run("Marshal", func(b *testing.B) {
		u := docgo.NewUUID()

		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, _, err := u.MarshalBSONValue(); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Unmarshal", func(b *testing.B) {
		u := docgo.NewUUID()
		t, data, err := u.MarshalBSONValue()
		if err != nil {
			b.Fatal(err)
		}

		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			var got docgo.UUID
			if err := got.UnmarshalBSONValue(t, data); err != nil {
				b.Fatal(err)
			}
		}
	})
}
