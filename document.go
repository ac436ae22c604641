package docgo

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// idKey is the reserved identifier key of the document store.
const idKey = "_id"

// planField describes one serializable field of a record type.
type planField struct {
	name  string // Go field name, used by include/exclude filters
	key   string // storage alias (bson key)
	index []int  // reflect index path from the root struct
	isID  bool
}

// fieldPlan is the compiled serialization metadata of a record type. Plans
// are computed once per type and shared; building a partial document is a
// walk over the plan, never over struct tags.
type fieldPlan struct {
	typ    reflect.Type
	fields []planField
	hasID  bool
}

var planCache sync.Map // reflect.Type -> *fieldPlan

// planFor returns the cached plan for the struct type t, compiling it on
// first use.
func planFor(t reflect.Type) (*fieldPlan, error) {
	if p, ok := planCache.Load(t); ok {
		return p.(*fieldPlan), nil
	}
	p, err := compilePlan(t)
	if err != nil {
		return nil, err
	}
	actual, _ := planCache.LoadOrStore(t, p)
	return actual.(*fieldPlan), nil
}

func compilePlan(t reflect.Type) (*fieldPlan, error) {
	p := &fieldPlan{typ: t}
	seen := make(map[string]struct{})
	if err := p.addFields(t, nil, seen); err != nil {
		return nil, err
	}
	return p, nil
}

// addFields flattens the struct type t into the plan. Tag handling follows
// the driver's struct codec: "-" skips, the first tag part names the key,
// untagged fields use the lowercased field name, and ",inline" flattens a
// struct field into the parent document.
func (p *fieldPlan) addFields(t reflect.Type, prefix []int, seen map[string]struct{}) error {
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.PkgPath != "" && (!sf.Anonymous || sf.Type.Kind() != reflect.Struct) {
			continue
		}

		key, skip, inline := parseTag(sf.Tag.Get("bson"))
		if skip {
			continue
		}

		index := make([]int, 0, len(prefix)+1)
		index = append(append(index, prefix...), i)

		if inline {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() != reflect.Struct {
				return fmt.Errorf("docgo: inline field %s.%s must be a struct", t, sf.Name)
			}
			if err := p.addFields(ft, index, seen); err != nil {
				return err
			}
			continue
		}

		if key == "" {
			key = strings.ToLower(sf.Name)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("docgo: duplicate key %q in %s", key, t)
		}
		seen[key] = struct{}{}

		f := planField{name: sf.Name, key: key, index: index, isID: key == idKey}
		if f.isID {
			p.hasID = true
		}
		p.fields = append(p.fields, f)
	}
	return nil
}

func parseTag(tag string) (key string, skip, inline bool) {
	if tag == "-" {
		return "", true, false
	}
	parts := strings.Split(tag, ",")
	for _, flag := range parts[1:] {
		if flag == "inline" {
			inline = true
		}
	}
	return parts[0], false, inline
}

// document projects the record value rv into a partial bson.D: non-zero
// fields under their aliases, the identifier only when bound. The document
// is built fresh on every call.
func (p *fieldPlan) document(rv reflect.Value, rec Record, include, exclude map[string]struct{}) bson.D {
	doc := bson.D{}
	bound := rec.HasDocumentID()
	for _, f := range p.fields {
		if include != nil {
			if _, ok := include[f.name]; !ok {
				continue
			}
		}
		if _, ok := exclude[f.name]; ok {
			continue
		}
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			// Nil embedded pointer on the path, nothing to project.
			continue
		}
		if f.isID {
			if !bound {
				continue
			}
		} else if fv.IsZero() {
			continue
		}
		doc = append(doc, bson.E{Key: f.key, Value: fv.Interface()})
	}
	return doc
}

// DocumentOptions contains options for Document.
type DocumentOptions struct {
	// Include restricts the projection to the named Go fields. Unknown
	// names are ignored.
	Include []string

	// Exclude drops the named Go fields from the projection.
	Exclude []string
}

// Document builds the partial BSON document for rec: every field holding a
// non-zero value appears under its storage alias, embedded bases tagged
// ",inline" are flattened, and an unbound identifier is dropped entirely so
// the store assigns its own. Works for any Record, registered or not.
func Document(rec Record, optFns ...func(*DocumentOptions)) (bson.D, error) {
	var opts DocumentOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	rv, err := recordValue(rec)
	if err != nil {
		return nil, err
	}
	plan, err := planFor(rv.Type())
	if err != nil {
		return nil, err
	}
	return plan.document(rv, rec, fieldSet(opts.Include), fieldSet(opts.Exclude)), nil
}

func fieldSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// recordValue unwraps rec down to its addressable struct value.
func recordValue(rec Record) (reflect.Value, error) {
	if rec == nil {
		return reflect.Value{}, ErrNilRecord
	}
	rv := reflect.ValueOf(rec)
	if rv.Kind() != reflect.Pointer {
		return reflect.Value{}, fmt.Errorf("docgo: record must be a pointer to a struct, got %T", rec)
	}
	if rv.IsNil() {
		return reflect.Value{}, ErrNilRecord
	}
	ev := rv.Elem()
	if ev.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("docgo: record must be a pointer to a struct, got %T", rec)
	}
	return ev, nil
}
