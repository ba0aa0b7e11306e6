// Package metrics collects per-operation statistics for list workloads.
//
// Every list call made by the load generator is recorded with its operation
// (find, insert, remove, replace, count, next), its outcome (hit, miss,
// error) and its latency. Counters are atomic; latency samples are bounded.
//
// # Basic Usage
//
//	m := metrics.New()
//
//	start := time.Now()
//	_, ok := list.Find(42)
//	outcome := metrics.Miss
//	if ok {
//	    outcome = metrics.Hit
//	}
//	m.Record(metrics.OpFind, outcome, time.Since(start))
//
//	snap := m.Snapshot()
//	fmt.Printf("ops: %d, ops/s: %.0f, p99: %v\n",
//	    snap.TotalOps, snap.OverallOpsPerSecond, snap.P99Latency)
//
// # Thread Safety
//
// All operations are safe for concurrent use.
package metrics
