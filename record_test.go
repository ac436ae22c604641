package docgo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBase(t *testing.T) {
	t.Run("Unsaved", func(t *testing.T) {
		var b Base
		assert.False(t, b.HasDocumentID())
		assert.Equal(t, bson.NilObjectID, b.DocumentID())
	})

	t.Run("SetObjectID", func(t *testing.T) {
		var b Base
		oid := bson.NewObjectID()

		require.NoError(t, b.SetDocumentID(oid))
		assert.True(t, b.HasDocumentID())
		assert.Equal(t, oid, b.DocumentID())
	})

	t.Run("SetHexString", func(t *testing.T) {
		var b Base
		oid := bson.NewObjectID()

		require.NoError(t, b.SetDocumentID(oid.Hex()))
		assert.Equal(t, oid, b.ID)
	})

	t.Run("SetInvalidHex", func(t *testing.T) {
		var b Base
		err := b.SetDocumentID("not-a-hex-id")
		require.Error(t, err)
		assert.False(t, b.HasDocumentID())
	})

	t.Run("SetUnsupportedType", func(t *testing.T) {
		var b Base
		err := b.SetDocumentID(42)
		require.Error(t, err)
	})

	t.Run("SetNilClears", func(t *testing.T) {
		var b Base
		require.NoError(t, b.SetDocumentID(bson.NewObjectID()))
		require.NoError(t, b.SetDocumentID(nil))
		assert.False(t, b.HasDocumentID())
	})
}

func TestUUID(t *testing.T) {
	t.Run("NewIsUnique", func(t *testing.T) {
		a := NewUUID()
		b := NewUUID()

		assert.False(t, a.IsZero())
		assert.NotEqual(t, a, b)
	})

	t.Run("ParseRoundTrip", func(t *testing.T) {
		a := NewUUID()
		parsed, err := ParseUUID(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	})

	t.Run("ParseInvalid", func(t *testing.T) {
		_, err := ParseUUID("definitely not a uuid")
		require.Error(t, err)
	})

	t.Run("BSONValueRoundTrip", func(t *testing.T) {
		a := NewUUID()

		typ, data, err := a.MarshalBSONValue()
		require.NoError(t, err)
		require.Equal(t, byte(bson.TypeBinary), typ)

		var out UUID
		require.NoError(t, out.UnmarshalBSONValue(typ, data))
		assert.Equal(t, a, out)
	})

	t.Run("RejectsNonBinary", func(t *testing.T) {
		var out UUID
		err := out.UnmarshalBSONValue(byte(bson.TypeString), []byte{})
		require.Error(t, err)
	})
}

func TestUUIDBase(t *testing.T) {
	t.Run("Unsaved", func(t *testing.T) {
		var b UUIDBase
		assert.False(t, b.HasDocumentID())
	})

	t.Run("SetUUID", func(t *testing.T) {
		var b UUIDBase
		id := NewUUID()

		require.NoError(t, b.SetDocumentID(id))
		assert.True(t, b.HasDocumentID())
		assert.Equal(t, id, b.DocumentID())
	})

	t.Run("SetBinarySubtype4", func(t *testing.T) {
		var b UUIDBase
		id := NewUUID()

		require.NoError(t, b.SetDocumentID(bson.Binary{Subtype: bson.TypeBinaryUUID, Data: id[:]}))
		assert.Equal(t, id, b.ID)
	})

	t.Run("SetBinaryLegacySubtype", func(t *testing.T) {
		var b UUIDBase
		id := NewUUID()

		require.NoError(t, b.SetDocumentID(bson.Binary{Subtype: bson.TypeBinaryUUIDOld, Data: id[:]}))
		assert.Equal(t, id, b.ID)
	})

	t.Run("SetBinaryWrongSubtype", func(t *testing.T) {
		var b UUIDBase
		err := b.SetDocumentID(bson.Binary{Subtype: bson.TypeBinaryGeneric, Data: make([]byte, 16)})
		require.Error(t, err)
	})

	t.Run("SetBinaryWrongLength", func(t *testing.T) {
		var b UUIDBase
		err := b.SetDocumentID(bson.Binary{Subtype: bson.TypeBinaryUUID, Data: []byte{1, 2, 3}})
		require.Error(t, err)
	})

	t.Run("SetString", func(t *testing.T) {
		var b UUIDBase
		id := NewUUID()

		require.NoError(t, b.SetDocumentID(id.String()))
		assert.Equal(t, id, b.ID)
	})

	t.Run("SetNilClears", func(t *testing.T) {
		var b UUIDBase
		require.NoError(t, b.SetDocumentID(NewUUID()))
		require.NoError(t, b.SetDocumentID(nil))
		assert.False(t, b.HasDocumentID())
	})

	t.Run("GeneratesIDs", func(t *testing.T) {
		var b UUIDBase
		id := b.GenerateDocumentID()

		u, ok := id.(UUID)
		require.True(t, ok)
		assert.False(t, u.IsZero())
		assert.False(t, b.HasDocumentID(), "generation must not bind the id")
	})
}

func TestReplaceState(t *testing.T) {
	rec := &animalRec{Name: "Rex"}
	require.NoError(t, rec.SetDocumentID(bson.NewObjectID()))
	alias := rec

	fresh := &animalRec{Name: "Bella"}
	require.NoError(t, fresh.SetDocumentID(bson.NewObjectID()))

	replaceState(rec, fresh)

	assert.Equal(t, "Bella", alias.Name)
	assert.Equal(t, fresh.ID, alias.ID)
	assert.Same(t, rec, alias)
}

type guardedRec struct {
	Base `bson:",inline"`
	Text string `bson:"text,omitempty"`
}

var errGuarded = errors.New("text rejected")

func (r *guardedRec) Validate() error {
	if r.Text == "forbidden" {
		return errGuarded
	}
	return nil
}

func TestValidateRecord(t *testing.T) {
	t.Run("NoHook", func(t *testing.T) {
		require.NoError(t, validateRecord(&animalRec{Name: "Rex"}))
	})

	t.Run("HookAccepts", func(t *testing.T) {
		require.NoError(t, validateRecord(&guardedRec{Text: "fine"}))
	})

	t.Run("HookRejects", func(t *testing.T) {
		err := validateRecord(&guardedRec{Text: "forbidden"})
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ErrorIs(t, err, errGuarded)
	})
}
