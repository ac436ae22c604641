package docgo

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Record is the capability set every persistent record type implements,
// usually by embedding Base or UUIDBase with a bson:",inline" tag. The
// type parameter of Collection is constrained to it, with T being the
// pointer type (e.g. Coll[*User]).
type Record interface {
	// DocumentID returns the current identifier value, which may be the
	// type's zero identifier when the record was never persisted.
	DocumentID() any

	// SetDocumentID binds an identifier, accepting both the native
	// identifier type and the driver's raw rendition of it (for example
	// bson.Binary for binary-encoded identifiers). Passing nil clears it.
	SetDocumentID(id any) error

	// HasDocumentID reports whether an identifier has been bound.
	HasDocumentID() bool
}

// DocumentIDGenerator is implemented by record types whose identifiers are
// generated client-side before insert (UUIDBase does this). The generated
// value travels in the serialized document; it is bound to the record only
// after the driver reports success.
type DocumentIDGenerator interface {
	GenerateDocumentID() any
}

// Validator is an optional hook invoked after decoding a stored document
// into a record and before serializing a record for a write. A non-nil
// return aborts the operation with a *ValidationError wrapping it.
type Validator interface {
	Validate() error
}

// Base is the default embeddable record base. Its identifier is a
// bson.ObjectID assigned by the driver on first insert.
//
// Embed it inline so the identifier lands under the reserved key:
//
//	type User struct {
//	    docgo.Base `bson:",inline"`
//	    Name       string `bson:"name"`
//	}
type Base struct {
	ID bson.ObjectID `bson:"_id,omitempty"`
}

// DocumentID implements Record.
func (b *Base) DocumentID() any { return b.ID }

// SetDocumentID implements Record. It accepts bson.ObjectID, its hex
// string form, or nil.
func (b *Base) SetDocumentID(id any) error {
	switch v := id.(type) {
	case nil:
		b.ID = bson.NilObjectID
	case bson.ObjectID:
		b.ID = v
	case string:
		oid, err := bson.ObjectIDFromHex(v)
		if err != nil {
			return fmt.Errorf("docgo: invalid object id %q: %w", v, err)
		}
		b.ID = oid
	default:
		return fmt.Errorf("docgo: cannot bind %T as object id", id)
	}
	return nil
}

// HasDocumentID implements Record.
func (b *Base) HasDocumentID() bool { return !b.ID.IsZero() }

// UUID is a 16-byte RFC 4122 identifier stored as BSON binary subtype 4.
type UUID [16]byte

// NewUUID returns a random (version 4) UUID.
func NewUUID() UUID { return UUID(uuid.New()) }

// ParseUUID parses the canonical textual form.
func ParseUUID(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, err
	}
	return UUID(id), nil
}

// IsZero reports whether u is the all-zero UUID.
func (u UUID) IsZero() bool { return u == UUID{} }

func (u UUID) String() string { return uuid.UUID(u).String() }

// MarshalBSONValue implements bson.ValueMarshaler.
func (u UUID) MarshalBSONValue() (byte, []byte, error) {
	t, data, err := bson.MarshalValue(bson.Binary{Subtype: bson.TypeBinaryUUID, Data: u[:]})
	return byte(t), data, err
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (u *UUID) UnmarshalBSONValue(t byte, data []byte) error {
	if bson.Type(t) != bson.TypeBinary {
		return fmt.Errorf("docgo: cannot decode %s as UUID", bson.Type(t))
	}
	var bin bson.Binary
	if err := bson.UnmarshalValue(bson.TypeBinary, data, &bin); err != nil {
		return err
	}
	return u.fromBinary(bin)
}

func (u *UUID) fromBinary(bin bson.Binary) error {
	if bin.Subtype != bson.TypeBinaryUUID && bin.Subtype != bson.TypeBinaryUUIDOld {
		return fmt.Errorf("docgo: unexpected binary subtype %#x for UUID", bin.Subtype)
	}
	if len(bin.Data) != 16 {
		return fmt.Errorf("docgo: UUID binary must be 16 bytes, got %d", len(bin.Data))
	}
	copy(u[:], bin.Data)
	return nil
}

// UUIDBase is an embeddable record base whose identifier is a
// client-generated UUID. Unlike Base, the identifier is created by docgo
// right before the first insert and sent with the document.
type UUIDBase struct {
	ID UUID `bson:"_id,omitempty"`
}

// DocumentID implements Record.
func (b *UUIDBase) DocumentID() any { return b.ID }

// SetDocumentID implements Record. It accepts UUID, bson.Binary (as
// returned in insert results), the canonical string form, or nil.
func (b *UUIDBase) SetDocumentID(id any) error {
	switch v := id.(type) {
	case nil:
		b.ID = UUID{}
	case UUID:
		b.ID = v
	case bson.Binary:
		return b.ID.fromBinary(v)
	case string:
		parsed, err := ParseUUID(v)
		if err != nil {
			return fmt.Errorf("docgo: invalid uuid %q: %w", v, err)
		}
		b.ID = parsed
	default:
		return fmt.Errorf("docgo: cannot bind %T as uuid", id)
	}
	return nil
}

// HasDocumentID implements Record.
func (b *UUIDBase) HasDocumentID() bool { return !b.ID.IsZero() }

// GenerateDocumentID implements DocumentIDGenerator.
func (b *UUIDBase) GenerateDocumentID() any { return NewUUID() }

// replaceState swaps the struct contents behind dst with those behind src.
// Holders of the dst pointer observe the fresh state; the pointer itself is
// the stable record identity.
func replaceState(dst, src any) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	dv.Set(sv)
}

// validateRecord runs the optional Validate hook.
func validateRecord(rec any) error {
	v, ok := rec.(Validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return &ValidationError{Type: reflect.TypeOf(rec), cause: err}
	}
	return nil
}
