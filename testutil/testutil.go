package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// words is the vocabulary fixture values are drawn from.
var words = []string{
	"amber", "basil", "cedar", "delta", "ember", "fjord", "grove",
	"hazel", "iris", "juniper", "krill", "lotus", "maple", "nectar",
	"onyx", "pearl", "quartz", "raven", "sage", "thyme", "umber",
	"violet", "willow", "xenon", "yarrow", "zephyr",
}

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int32n returns a non-negative pseudo-random int32 in [0,n).
func (r *RNG) Int32n(n int32) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int31n(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Bool returns a pseudo-random boolean.
func (r *RNG) Bool() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(2) == 1
}

// Word returns a pseudo-random lowercase word.
func (r *RNG) Word() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wordLocked()
}

func (r *RNG) wordLocked() string {
	return words[r.rand.Intn(len(words))]
}

// Name returns a pseudo-random two-part name like "hazel-quartz".
func (r *RNG) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wordLocked() + "-" + r.wordLocked()
}

// Email returns a pseudo-random address under example.com.
func (r *RNG) Email() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("%s.%d@example.com", r.wordLocked(), r.rand.Intn(10000))
}

// Sentence returns n pseudo-random words joined by spaces.
func (r *RNG) Sentence(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := make([]byte, 0, n*8)
	for i := range n {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, r.wordLocked()...)
	}
	return string(buf)
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := make([]byte, n)
	// math/rand Read never fails
	_, _ = r.rand.Read(buf)
	return buf
}

// Document generates a bson.D with the given number of fields. Field
// keys are stable ("field00", "field01", ...) while values cycle
// through string, int32, int64, float64 and bool so a batch exercises
// every scalar encoder.
func (r *RNG) Document(fields int) bson.D {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := make(bson.D, 0, fields)
	for i := range fields {
		key := fmt.Sprintf("field%02d", i)
		var value any
		switch i % 5 {
		case 0:
			value = r.wordLocked()
		case 1:
			value = r.rand.Int31()
		case 2:
			value = r.rand.Int63()
		case 3:
			value = r.rand.Float64()
		case 4:
			value = r.rand.Intn(2) == 1
		}
		doc = append(doc, bson.E{Key: key, Value: value})
	}
	return doc
}

// Documents generates a batch of documents, each with the given number
// of fields.
func (r *RNG) Documents(n, fields int) []bson.D {
	docs := make([]bson.D, n)
	for i := range docs {
		docs[i] = r.Document(fields)
	}
	return docs
}
