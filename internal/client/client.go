package client

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"rwlist/internal/llist"
	"rwlist/internal/logger"
	"rwlist/internal/metrics"
	"rwlist/internal/worker"
)

// Config はClientの設定
type Config struct {
	NumWorkers    int    // ワーカー数（0でCPU数）
	Mix           Mix    // 操作の配分
	KeyRange      int    // インデックスの範囲（0〜KeyRange-1）
	PayloadSize   int    // ペイロード文字列の長さ
	RequestsLimit uint64 // リクエスト上限（0で無制限）
	Seed          int64  // 乱数シード（0で時刻）
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		NumWorkers:    0,
		Mix:           DefaultMix(),
		KeyRange:      1000,
		PayloadSize:   16,
		RequestsLimit: 0,
	}
}

// Client はリストに対する負荷生成器
type Client struct {
	config  Config
	list    *llist.List
	pool    *worker.Pool
	metrics *metrics.Metrics

	issued    atomic.Uint64
	corrupted atomic.Uint64
	running   atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New は新しいClientを作成する。不正な値はデフォルトで補う
func New(l *llist.List, config Config) *Client {
	defaults := DefaultConfig()
	if config.Mix.Validate() != nil {
		config.Mix = defaults.Mix
	}
	if config.KeyRange <= 0 {
		config.KeyRange = defaults.KeyRange
	}
	if config.PayloadSize <= 0 {
		config.PayloadSize = defaults.PayloadSize
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	return &Client{
		config:  config,
		list:    l,
		pool:    worker.NewPool(config.NumWorkers),
		metrics: metrics.New(),
	}
}

// Start は負荷生成を開始する
func (c *Client) Start(ctx context.Context) {
	if c.running.Swap(true) {
		return
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.pool.Start(c.ctx)

	logger.Info("client", "Client started (workers: %d, write_ratio: %.1f%%, keys: %d)",
		c.pool.NumWorkers(), c.config.Mix.WriteRatio()*100, c.config.KeyRange)

	c.wg.Add(1)
	go c.generateRequests()
}

// generateRequests はリクエストを生成し続ける
func (c *Client) generateRequests() {
	defer c.wg.Done()

	if c.list == nil {
		logger.Error("client", "No list to drive")
		return
	}

	rng := rand.New(rand.NewSource(c.config.Seed))

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		if c.config.RequestsLimit > 0 && c.issued.Load() >= c.config.RequestsLimit {
			return
		}

		op := c.config.Mix.pick(rng)
		index := rng.Intn(c.config.KeyRange)
		var payload string
		if op == metrics.OpInsert || op == metrics.OpReplace {
			payload = Payload(index, randomPayload(rng, c.config.PayloadSize))
		}

		if !c.pool.SubmitWait(c.createJob(op, index, payload)) {
			return
		}
		c.issued.Add(1)
	}
}

// createJob は1回のリスト操作を行うジョブを作成する
func (c *Client) createJob(op metrics.Op, index int, payload string) worker.Job {
	return func() {
		start := time.Now()
		outcome := c.apply(op, index, payload)
		c.metrics.Record(op, outcome, time.Since(start))
	}
}

// apply は操作を実行して結果を分類する
func (c *Client) apply(op metrics.Op, index int, payload string) metrics.Outcome {
	var ok bool
	switch op {
	case metrics.OpFind:
		var got any
		if got, ok = c.list.Find(index); ok {
			if err := VerifyPayload(index, got); err != nil {
				c.corrupted.Add(1)
				logger.Error("client", "find %d: %v", index, err)
				return metrics.Error
			}
		}
	case metrics.OpInsert:
		if err := c.list.InsertOrReplace(index, payload); err != nil {
			if !errors.Is(err, llist.ErrFull) {
				logger.Warn("client", "insert %d: %v", index, err)
			}
			return metrics.Error
		}
		ok = true
	case metrics.OpRemove:
		_, ok = c.list.Remove(index)
	case metrics.OpReplace:
		_, ok = c.list.Replace(index, payload)
	case metrics.OpCount:
		c.list.Count()
		ok = true
	case metrics.OpNext:
		_, ok = c.list.NextIndex(index)
	default:
		return metrics.Error
	}
	if ok {
		return metrics.Hit
	}
	return metrics.Miss
}

// randomPayload は長さ n の16進文字列を返す
func randomPayload(rng *rand.Rand, n int) string {
	buf := make([]byte, (n+1)/2)
	_, _ = rng.Read(buf)
	return hex.EncodeToString(buf)[:n]
}

// Stop は負荷生成を停止する
func (c *Client) Stop() {
	if !c.running.Swap(false) {
		return
	}

	c.cancel()
	c.wg.Wait()
	c.pool.Stop()

	logger.Info("client", "Client stopped (%d ops issued)", c.issued.Load())
}

// Metrics はメトリクスを返す
func (c *Client) Metrics() *metrics.Metrics {
	return c.metrics
}

// Issued は発行済みのリクエスト数を返す
func (c *Client) Issued() uint64 {
	return c.issued.Load()
}

// Corrupted は検証に失敗した読み出しの数を返す
func (c *Client) Corrupted() uint64 {
	return c.corrupted.Load()
}

// IsRunning は実行中かどうかを返す
func (c *Client) IsRunning() bool {
	return c.running.Load()
}

// RunFor は指定時間だけ負荷生成を実行する
func (c *Client) RunFor(ctx context.Context, duration time.Duration) *metrics.Snapshot {
	c.Start(ctx)

	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}

	c.Stop()

	snapshot := c.metrics.Snapshot()
	return &snapshot
}

// RunRequests は指定数のリクエストを追加で実行し、全て完了するまで待つ
func (c *Client) RunRequests(ctx context.Context, count uint64) (*metrics.Snapshot, error) {
	if c.running.Load() {
		return nil, fmt.Errorf("client is already running")
	}
	c.config.RequestsLimit = c.issued.Load() + count
	c.Start(ctx)
	c.wg.Wait()
	c.pool.Drain()
	c.Stop()

	snapshot := c.metrics.Snapshot()
	return &snapshot, nil
}
