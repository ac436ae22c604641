// Package testutil provides testing utilities for docgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source that generates
// deterministic fixture data: names, emails, sentences, and raw BSON
// documents.
//
//	rng := testutil.NewRNG(42)
//	doc := rng.Document(8)        // bson.D with 8 pseudo-random fields
//	docs := rng.Documents(100, 8) // batch of 100
//
// Two RNGs with the same seed produce the same sequence, and Reset
// rewinds a source to its initial state, so fixtures are reproducible
// across runs and packages.
package testutil
