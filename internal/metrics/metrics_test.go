package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := New()

	if m.TotalOps() != 0 {
		t.Errorf("expected 0 ops, got %d", m.TotalOps())
	}
	if m.AverageLatency() != 0 {
		t.Errorf("expected 0 latency, got %v", m.AverageLatency())
	}
	if m.P99Latency() != 0 {
		t.Errorf("expected 0 p99, got %v", m.P99Latency())
	}
}

func TestOpString(t *testing.T) {
	want := []string{"find", "insert", "remove", "replace", "count", "next"}
	ops := AllOps()
	if len(ops) != len(want) {
		t.Fatalf("expected %d ops, got %d", len(want), len(ops))
	}
	for i, op := range ops {
		if op.String() != want[i] {
			t.Errorf("Op(%d).String() = %s, want %s", op, op, want[i])
		}
	}
	if Op(99).String() != "unknown" {
		t.Error("expected unknown for out-of-range op")
	}
}

func TestMetricsRecord(t *testing.T) {
	m := New()

	m.Record(OpFind, Hit, 10*time.Millisecond)
	m.Record(OpFind, Miss, 20*time.Millisecond)
	m.Record(OpInsert, Hit, 30*time.Millisecond)
	m.Record(OpInsert, Error, 40*time.Millisecond)

	if m.TotalOps() != 4 {
		t.Errorf("expected 4 ops, got %d", m.TotalOps())
	}
	if m.Errors() != 1 {
		t.Errorf("expected 1 error, got %d", m.Errors())
	}

	find := m.Op(OpFind)
	if find.Hits != 1 || find.Misses != 1 || find.Errors != 0 {
		t.Errorf("unexpected find stats %+v", find)
	}
	if find.Total() != 2 {
		t.Errorf("expected 2 finds, got %d", find.Total())
	}

	if avg := m.AverageLatency(); avg != 25*time.Millisecond {
		t.Errorf("expected average 25ms, got %v", avg)
	}
}

func TestMetricsIgnoresUnknownOp(t *testing.T) {
	m := New()
	m.Record(Op(-1), Hit, time.Millisecond)
	m.Record(numOps, Hit, time.Millisecond)

	if m.TotalOps() != 0 {
		t.Errorf("expected unknown ops to be ignored, got %d", m.TotalOps())
	}
	if (m.Op(numOps) != OpStats{}) {
		t.Error("expected empty stats for unknown op")
	}
}

func TestMetricsP99(t *testing.T) {
	m := New()
	for i := 1; i <= 100; i++ {
		m.Record(OpCount, Hit, time.Duration(i)*time.Millisecond)
	}

	if p99 := m.P99Latency(); p99 != 100*time.Millisecond {
		t.Errorf("expected p99 100ms, got %v", p99)
	}
}

func TestMetricsSampleLimit(t *testing.T) {
	m := NewWithConfig(Config{MaxLatencySamples: 10})
	for _i := 0; _i < 50; _i++ {
		m.Record(OpNext, Miss, time.Millisecond)
	}

	m.mu.RLock()
	n := len(m.latencies)
	m.mu.RUnlock()
	if n != 10 {
		t.Errorf("expected 10 samples, got %d", n)
	}
	if m.TotalOps() != 50 {
		t.Errorf("expected 50 ops, got %d", m.TotalOps())
	}
}

func TestMetricsReset(t *testing.T) {
	m := New()
	m.Record(OpRemove, Hit, time.Millisecond)
	m.Reset()

	if m.P99Latency() != 0 {
		t.Error("expected samples to be cleared")
	}
	if m.TotalOps() != 1 {
		t.Error("expected totals to survive reset")
	}
}

func TestMetricsConcurrent(t *testing.T) {
	m := New()
	var wg sync.WaitGroup

	for _i := 0; _i < 10; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _i := 0; _i < 100; _i++ {
				m.Record(OpReplace, Hit, time.Microsecond)
			}
		}()
	}
	wg.Wait()

	if m.TotalOps() != 1000 {
		t.Errorf("expected 1000 ops, got %d", m.TotalOps())
	}
	if m.Op(OpReplace).Hits != 1000 {
		t.Errorf("expected 1000 replace hits, got %d", m.Op(OpReplace).Hits)
	}
}

func TestSnapshot(t *testing.T) {
	m := New()
	m.Record(OpInsert, Hit, time.Millisecond)
	m.Record(OpRemove, Miss, time.Millisecond)

	snap := m.Snapshot()
	if snap.TotalOps != 2 {
		t.Errorf("expected 2 ops, got %d", snap.TotalOps)
	}
	if len(snap.Ops) != len(AllOps()) {
		t.Errorf("expected stats for every op, got %d", len(snap.Ops))
	}
	if snap.Ops[OpRemove].Misses != 1 {
		t.Errorf("expected 1 remove miss, got %d", snap.Ops[OpRemove].Misses)
	}
	if snap.Elapsed <= 0 {
		t.Error("expected positive elapsed time")
	}
}
