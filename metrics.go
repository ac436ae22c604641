package docgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    insertCounter prometheus.Counter
//	    findHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordInsert(duration time.Duration, err error) {
//	    p.insertCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordInsertMany is called after each bulk insert operation.
	// count is the number of records attempted.
	RecordInsertMany(count int, duration time.Duration, err error)

	// RecordUpdate is called after each update operation.
	RecordUpdate(duration time.Duration, err error)

	// RecordReplace is called after each replace operation.
	RecordReplace(duration time.Duration, err error)

	// RecordReload is called after each reload operation.
	RecordReload(duration time.Duration, err error)

	// RecordDelete is called after each single-record delete operation.
	RecordDelete(duration time.Duration, err error)

	// RecordDeleteMany is called after each bulk delete operation.
	// count is the number of records the filter covered.
	RecordDeleteMany(count int, duration time.Duration, err error)

	// RecordFind is called after each streamed query finishes or is
	// abandoned. docs is the number of records yielded.
	RecordFind(docs int, duration time.Duration, err error)

	// RecordFindOne is called after each single-document fetch, including
	// the find-and-modify variants.
	RecordFindOne(duration time.Duration, err error)

	// RecordCount is called after each count query.
	RecordCount(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)          {}
func (NoopMetricsCollector) RecordInsertMany(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)          {}
func (NoopMetricsCollector) RecordReplace(time.Duration, error)         {}
func (NoopMetricsCollector) RecordReload(time.Duration, error)          {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)          {}
func (NoopMetricsCollector) RecordDeleteMany(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFind(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordFindOne(time.Duration, error)         {}
func (NoopMetricsCollector) RecordCount(time.Duration, error)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	InsertManyCount  atomic.Int64
	InsertManyDocs   atomic.Int64
	UpdateCount      atomic.Int64
	UpdateErrors     atomic.Int64
	ReplaceCount     atomic.Int64
	ReplaceErrors    atomic.Int64
	ReloadCount      atomic.Int64
	ReloadErrors     atomic.Int64
	DeleteCount      atomic.Int64
	DeleteErrors     atomic.Int64
	DeleteManyCount  atomic.Int64
	DeleteManyDocs   atomic.Int64
	FindCount        atomic.Int64
	FindErrors       atomic.Int64
	FindDocs         atomic.Int64
	FindTotalNanos   atomic.Int64
	FindOneCount     atomic.Int64
	FindOneErrors    atomic.Int64
	CountQueries     atomic.Int64
	CountErrors      atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordInsertMany implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsertMany(count int, duration time.Duration, err error) {
	b.InsertManyCount.Add(1)
	b.InsertManyDocs.Add(int64(count))
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordReplace implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReplace(duration time.Duration, err error) {
	b.ReplaceCount.Add(1)
	if err != nil {
		b.ReplaceErrors.Add(1)
	}
}

// RecordReload implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReload(duration time.Duration, err error) {
	b.ReloadCount.Add(1)
	if err != nil {
		b.ReloadErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordDeleteMany implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDeleteMany(count int, duration time.Duration, err error) {
	b.DeleteManyCount.Add(1)
	b.DeleteManyDocs.Add(int64(count))
}

// RecordFind implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFind(docs int, duration time.Duration, err error) {
	b.FindCount.Add(1)
	b.FindDocs.Add(int64(docs))
	b.FindTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FindErrors.Add(1)
	}
}

// RecordFindOne implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFindOne(duration time.Duration, err error) {
	b.FindOneCount.Add(1)
	if err != nil {
		b.FindOneErrors.Add(1)
	}
}

// RecordCount implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCount(duration time.Duration, err error) {
	b.CountQueries.Add(1)
	if err != nil {
		b.CountErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:     b.InsertCount.Load(),
		InsertErrors:    b.InsertErrors.Load(),
		InsertAvgNanos:  b.getAvgInsertNanos(),
		InsertManyCount: b.InsertManyCount.Load(),
		InsertManyDocs:  b.InsertManyDocs.Load(),
		UpdateCount:     b.UpdateCount.Load(),
		UpdateErrors:    b.UpdateErrors.Load(),
		ReplaceCount:    b.ReplaceCount.Load(),
		ReplaceErrors:   b.ReplaceErrors.Load(),
		ReloadCount:     b.ReloadCount.Load(),
		ReloadErrors:    b.ReloadErrors.Load(),
		DeleteCount:     b.DeleteCount.Load(),
		DeleteErrors:    b.DeleteErrors.Load(),
		DeleteManyCount: b.DeleteManyCount.Load(),
		DeleteManyDocs:  b.DeleteManyDocs.Load(),
		FindCount:       b.FindCount.Load(),
		FindErrors:      b.FindErrors.Load(),
		FindDocs:        b.FindDocs.Load(),
		FindAvgNanos:    b.getAvgFindNanos(),
		FindOneCount:    b.FindOneCount.Load(),
		FindOneErrors:   b.FindOneErrors.Load(),
		CountQueries:    b.CountQueries.Load(),
		CountErrors:     b.CountErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgInsertNanos() int64 {
	count := b.InsertCount.Load()
	if count == 0 {
		return 0
	}
	return b.InsertTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgFindNanos() int64 {
	count := b.FindCount.Load()
	if count == 0 {
		return 0
	}
	return b.FindTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount     int64
	InsertErrors    int64
	InsertAvgNanos  int64
	InsertManyCount int64
	InsertManyDocs  int64
	UpdateCount     int64
	UpdateErrors    int64
	ReplaceCount    int64
	ReplaceErrors   int64
	ReloadCount     int64
	ReloadErrors    int64
	DeleteCount     int64
	DeleteErrors    int64
	DeleteManyCount int64
	DeleteManyDocs  int64
	FindCount       int64
	FindErrors      int64
	FindDocs        int64
	FindAvgNanos    int64
	FindOneCount    int64
	FindOneErrors   int64
	CountQueries    int64
	CountErrors     int64
}
