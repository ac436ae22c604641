package docgo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type valueRec struct{}

func (valueRec) DocumentID() any         { return nil }
func (valueRec) SetDocumentID(any) error { return nil }
func (valueRec) HasDocumentID() bool     { return false }
func (valueRec) Storage() Storage        { return Storage{Collection: "values"} }

type headlessRec struct {
	Base `bson:"base"`
	Name string `bson:"name,omitempty"`
}

func (headlessRec) Storage() Storage { return Storage{Collection: "headless"} }

type brokenPlanRec struct {
	Base `bson:",inline"`
	A    string `bson:"q"`
	B    string `bson:"q"`
}

func (brokenPlanRec) Storage() Storage { return Storage{Collection: "broken"} }

func TestRegisterIn(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterIn[*catRec](r))
	})

	t.Run("Duplicate", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterIn[*catRec](r))

		err := RegisterIn[*catRec](r)
		var derr *DefinitionError
		require.ErrorAs(t, err, &derr)
		assert.Contains(t, derr.Error(), "already registered")
	})

	t.Run("NonPointerType", func(t *testing.T) {
		r := NewRegistry()

		err := RegisterIn[valueRec](r)
		var derr *DefinitionError
		require.ErrorAs(t, err, &derr)
		assert.Contains(t, derr.Error(), "pointer to a struct")
	})

	t.Run("NoCollection", func(t *testing.T) {
		r := NewRegistry()

		err := RegisterIn[*plainRec](r)
		var derr *DefinitionError
		require.ErrorAs(t, err, &derr)
		assert.Contains(t, derr.Error(), "no collection")
	})

	t.Run("NoIDKey", func(t *testing.T) {
		r := NewRegistry()

		err := RegisterIn[*headlessRec](r)
		var derr *DefinitionError
		require.ErrorAs(t, err, &derr)
		assert.Contains(t, derr.Error(), "_id")
	})

	t.Run("UnserializableType", func(t *testing.T) {
		r := NewRegistry()

		err := RegisterIn[*brokenPlanRec](r)
		var derr *DefinitionError
		require.ErrorAs(t, err, &derr)
		require.NotNil(t, errors.Unwrap(err))
		assert.Contains(t, errors.Unwrap(err).Error(), "duplicate key")
	})
}

func TestMustRegisterIn(t *testing.T) {
	t.Run("PanicsOnError", func(t *testing.T) {
		r := NewRegistry()
		require.Panics(t, func() {
			MustRegisterIn[*plainRec](r)
		})
	})

	t.Run("NoPanicOnSuccess", func(t *testing.T) {
		r := NewRegistry()
		require.NotPanics(t, func() {
			MustRegisterIn[*catRec](r)
		})
	})
}

func TestCollIn(t *testing.T) {
	t.Run("Registered", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterIn[*catRec](r))

		c := CollIn[*catRec](r)
		assert.Equal(t, "cats", c.Name())
		assert.Equal(t, "cats", c.Storage().Collection)
	})

	t.Run("UnregisteredPanics", func(t *testing.T) {
		r := NewRegistry()
		require.Panics(t, func() {
			CollIn[*catRec](r)
		})
	})

	t.Run("NonPointerPanics", func(t *testing.T) {
		r := NewRegistry()
		require.Panics(t, func() {
			CollIn[valueRec](r)
		})
	})

	t.Run("HandlesShareMeta", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterIn[*catRec](r))

		a := CollIn[*catRec](r)
		b := CollIn[*catRec](r)
		assert.Same(t, a.meta, b.meta)
	})
}

type defaultRegRec struct {
	Base `bson:",inline"`
}

func (defaultRegRec) Storage() Storage { return Storage{Collection: "default_reg"} }

func TestDefaultRegistry(t *testing.T) {
	require.NotNil(t, Default())

	MustRegister[*defaultRegRec]()
	c := Coll[*defaultRegRec]()
	assert.Equal(t, "default_reg", c.Name())
	assert.Same(t, Default(), c.registry)
}
