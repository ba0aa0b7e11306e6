// Package worker provides a goroutine pool for concurrent job execution.
//
// The Pool manages a fixed number of worker goroutines that process jobs
// from a shared bounded queue. The load generator in package client drives
// list operations through it.
//
// # Basic Usage
//
//	pool := worker.NewPool(4) // 4 workers
//	pool.Start(ctx)
//	defer pool.Stop()
//
//	// Submit jobs
//	for i := 0; i < 100; i++ {
//	    pool.SubmitWait(func() {
//	        // do work
//	    })
//	}
//	pool.Drain() // wait until the queue is empty
//
// Submit never blocks and reports false when the queue is full or the pool
// is not running. SubmitWait blocks until there is room or the pool stops.
//
// # Configuration
//
// Use NewPoolWithConfig for custom settings:
//
//	config := worker.PoolConfig{
//	    NumWorkers:  8,
//	    QueueFactor: 200, // Queue size = 8 * 200 = 1600
//	}
//	pool := worker.NewPoolWithConfig(config)
//
// # Graceful Shutdown
//
// Stop() cancels the pool context, waits for in-flight jobs and discards
// jobs still queued. Completed() reports how many jobs have finished.
// A stopped pool can be started again.
package worker
