// Package docgo maps Go structs to MongoDB documents.
//
// Docgo is a thin object-document layer on top of the official driver.
// Record types declare where and how they are stored, inherit those
// settings through struct embedding, and run a small CRUD protocol that
// keeps the in-memory record and the stored document consistent.
//
// # Quick Start
//
//	type User struct {
//	    docgo.Base `bson:",inline"`
//	    Name  string `bson:"name,omitempty"`
//	    Email string `bson:"email,omitempty"`
//	}
//
//	func (User) Storage() docgo.Storage {
//	    return docgo.Storage{Collection: "users"}
//	}
//
//	func main() {
//	    ctx := context.Background()
//	    client, _ := docgo.Connect(ctx, "mongodb://localhost:27017")
//	    defer client.Disconnect(ctx)
//
//	    docgo.MustRegister[*User]()
//	    docgo.Use(client.Database("app"))
//
//	    users := docgo.Coll[*User]()
//
//	    u := &User{Name: "Ada", Email: "ada@example.com"}
//	    _ = users.Insert(ctx, u) // u.ID is bound after the insert
//
//	    found, _ := users.FindOne(ctx, bson.D{{Key: "name", Value: "Ada"}})
//	    _ = found
//	}
//
// # Storage Inheritance
//
// Storage settings merge across embedded record types, nearest override
// first. A base type picks the defaults, concrete types override what
// differs:
//
//	type Animal struct {
//	    docgo.Base `bson:",inline"`
//	    Name string `bson:"name,omitempty"`
//	}
//
//	func (Animal) Storage() docgo.Storage {
//	    return docgo.Storage{Collection: "animals"}
//	}
//
//	type Dog struct {
//	    Animal `bson:",inline"`
//	    Breed string `bson:"breed,omitempty"`
//	}
//
// Dog stores in "animals". A type overriding Storage replaces only the
// fields it sets; everything else is inherited.
//
// # Partial Documents
//
// Records serialize as partial documents: zero-valued fields are
// omitted. Filters built from records therefore match on set state only,
// and replacing a document never resurrects unset fields.
//
// # Consistency Protocol
//
// Insert binds identifiers only after the server acknowledges a write.
// Update addresses documents strictly by identifier. Reload refreshes a
// record in place so every alias observes the stored state. FindOne
// treats absence as an ordinary outcome, not an error.
//
// # Archives
//
// The archive subpackage streams collections to and from compressed
// archive files on local disk or blob storage (S3, MinIO or in-memory
// via the blobstore subpackage).
package docgo
