// Package client provides a load generator for stress testing an ordered list.
//
// The Client issues a weighted mix of list operations (find, insert, remove,
// replace, count, next) at random indices through a worker pool and records
// every call in a metrics.Metrics.
//
// # Basic Usage
//
//	l, _ := llist.New(llist.DefaultConfig())
//
//	config := client.DefaultConfig()
//	config.Mix = client.Mix{Find: 90, Insert: 5, Remove: 5}
//	cl := client.New(l, config)
//
//	// Run for a duration
//	snap := cl.RunFor(ctx, 10*time.Second)
//	fmt.Printf("ops: %d, ops/s: %.0f\n", snap.TotalOps, snap.OverallOpsPerSecond)
//
//	// Or run a fixed number of operations
//	snap, err := cl.RunRequests(ctx, 10000)
//
// # Payload Verification
//
// Generated payloads carry an xxh3 checksum of their index and body (see
// Payload). Every successful find is checked with VerifyPayload, so a payload
// read back at the wrong index is counted as an error and in Corrupted.
//
// # Configuration
//
// The Config struct allows tuning:
//   - NumWorkers: parallel workers (0 = CPU count)
//   - Mix: relative weight of each operation
//   - KeyRange: index space size
//   - PayloadSize: length of generated payload strings
//   - RequestsLimit: max operations (0 = unlimited)
//   - Seed: random seed (0 = time based)
package client
