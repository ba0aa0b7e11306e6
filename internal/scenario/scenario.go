package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rwlist/internal/client"
	"rwlist/internal/events"
	"rwlist/internal/llist"
	"rwlist/internal/logger"
	"rwlist/internal/metrics"
)

// Config はシナリオの設定
type Config struct {
	Name        string        // シナリオ名
	Description string        // 説明
	Duration    time.Duration // 実行時間

	// リスト設定
	MaxLen  int // リストの最大要素数（0で無制限）
	Prefill int // 開始前に挿入するインデックス数（0〜Prefill-1）

	// クライアント設定
	Workers     int        // ワーカー数（0でCPU数）
	Mix         client.Mix // 操作の配分
	KeyRange    int        // インデックスの範囲
	PayloadSize int        // ペイロード長
	Seed        int64      // 乱数シード（0で時刻）
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Name:        "default",
		Description: "Default mixed workload",
		Duration:    10 * time.Second,
		MaxLen:      0,
		Prefill:     500,
		Workers:     8,
		Mix:         client.DefaultMix(),
		KeyRange:    1000,
		PayloadSize: 16,
	}
}

// Validate は設定を検証する
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	if c.MaxLen < 0 {
		return fmt.Errorf("max_len must be non-negative")
	}
	if c.Prefill < 0 {
		return fmt.Errorf("prefill must be non-negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	if c.KeyRange <= 0 {
		return fmt.Errorf("key_range must be positive")
	}
	if err := c.Mix.Validate(); err != nil {
		return err
	}
	return nil
}

// Result はシナリオ実行結果
type Result struct {
	ScenarioName string
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration

	// メトリクス
	TotalOps     uint64
	Errors       uint64
	Ops          map[metrics.Op]metrics.OpStats
	OpsPerSecond float64
	AvgLatency   time.Duration
	P99Latency   time.Duration

	// イベント統計
	Events        map[events.EventType]uint64
	DroppedEvents uint64

	// リストの最終状態
	FinalCount int
	Corrupted  uint64 // 検証に失敗した読み出し数
	Invariant  error  // Check() の結果（nil なら昇順・重複なし）
}

// Engine はシナリオ実行エンジン
type Engine struct {
	config Config
	log    *logger.Logger

	list   *llist.List
	bus    *events.Bus
	client *client.Client

	mu      sync.RWMutex
	running bool
}

// New は新しいEngineを作成する
func New(config Config) *Engine {
	return &Engine{
		config: config,
	}
}

// SetLogger はリストのトレース出力先を設定する
func (e *Engine) SetLogger(l *logger.Logger) {
	e.log = l
}

// Run はシナリオを実行する
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if err := e.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", e.config.Name, err)
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("scenario is already running")
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	logger.Info("scenario", "=== Scenario '%s' started ===", e.config.Name)
	logger.Info("scenario", "Description: %s", e.config.Description)

	result := &Result{
		ScenarioName: e.config.Name,
		StartTime:    time.Now(),
	}

	if err := e.setup(); err != nil {
		return nil, fmt.Errorf("setup failed: %w", err)
	}

	counted := e.countEvents()

	scenarioCtx, cancel := context.WithTimeout(ctx, e.config.Duration)
	defer cancel()

	e.client.Start(scenarioCtx)
	<-scenarioCtx.Done()
	logger.Info("scenario", "Scenario duration completed, stopping client...")
	e.client.Stop()

	e.bus.Close()
	result.Events = <-counted
	result.DroppedEvents = e.bus.Dropped()

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	e.collectResults(result)

	if result.Invariant != nil {
		logger.Error("scenario", "Invariant violated: %v", result.Invariant)
	}
	logger.Info("scenario", "=== Scenario '%s' completed ===", e.config.Name)

	return result, nil
}

// setup はリストとクライアントを準備する
func (e *Engine) setup() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, err := llist.New(llist.Config{Name: e.config.Name, MaxLen: e.config.MaxLen})
	if err != nil {
		return err
	}
	if e.log != nil {
		l.SetLogger(e.log)
	}

	// 事前投入はイベント集計の対象外
	prefill := e.config.Prefill
	if e.config.MaxLen > 0 && prefill > e.config.MaxLen {
		prefill = e.config.MaxLen
	}
	for i := 0; i < prefill; i++ {
		if err := l.InsertOrReplace(i, client.Payload(i, "seed")); err != nil {
			return fmt.Errorf("prefill index %d: %w", i, err)
		}
	}

	e.bus = events.NewBusWithBuffer(4096)
	l.SetEventBus(e.bus)
	e.list = l

	e.client = client.New(l, client.Config{
		NumWorkers:  e.config.Workers,
		Mix:         e.config.Mix,
		KeyRange:    e.config.KeyRange,
		PayloadSize: e.config.PayloadSize,
		Seed:        e.config.Seed,
	})
	return nil
}

// countEvents はバスが閉じられるまでイベントを種類ごとに数える
func (e *Engine) countEvents() <-chan map[events.EventType]uint64 {
	ch := e.bus.Subscribe()
	out := make(chan map[events.EventType]uint64, 1)
	go func() {
		counts := make(map[events.EventType]uint64)
		for ev := range ch {
			counts[ev.Type]++
		}
		out <- counts
	}()
	return out
}

// collectResults は結果を収集する
func (e *Engine) collectResults(result *Result) {
	snapshot := e.client.Metrics().Snapshot()
	result.TotalOps = snapshot.TotalOps
	result.Errors = snapshot.Errors
	result.Ops = snapshot.Ops
	result.OpsPerSecond = snapshot.OverallOpsPerSecond
	result.AvgLatency = snapshot.AverageLatency
	result.P99Latency = snapshot.P99Latency

	result.Corrupted = e.client.Corrupted()
	result.FinalCount = e.list.Count()
	result.Invariant = e.list.Check()
}

// Report は結果をフォーマットして返す
func (r *Result) Report() string {
	invariant := "OK (ascending, no duplicates)"
	if r.Invariant != nil {
		invariant = "VIOLATED: " + r.Invariant.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, `
================================================================================
                         SCENARIO REPORT: %s
================================================================================

EXECUTION SUMMARY
-----------------
  Start Time:     %s
  End Time:       %s
  Duration:       %v

TRAFFIC METRICS
---------------
  Total Ops:        %d
  Errors:           %d
  Ops/sec:          %.0f
  Avg Latency:      %v
  P99 Latency:      %v

PER OPERATION
-------------
`,
		r.ScenarioName,
		r.StartTime.Format("2006-01-02 15:04:05"),
		r.EndTime.Format("2006-01-02 15:04:05"),
		r.Duration.Round(time.Millisecond),
		r.TotalOps,
		r.Errors,
		r.OpsPerSecond,
		r.AvgLatency.Round(time.Microsecond),
		r.P99Latency.Round(time.Microsecond),
	)

	for _, op := range metrics.AllOps() {
		s := r.Ops[op]
		if s.Total() == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %-10s total=%-8d hit=%-8d miss=%-8d error=%d\n",
			op, s.Total(), s.Hits, s.Misses, s.Errors)
	}

	b.WriteString("\nMUTATION EVENTS\n---------------\n")
	types := make([]string, 0, len(r.Events))
	for t := range r.Events {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(&b, "  %-10s %d\n", t+":", r.Events[events.EventType(t)])
	}
	fmt.Fprintf(&b, "  %-10s %d\n", "dropped:", r.DroppedEvents)

	fmt.Fprintf(&b, `
FINAL LIST STATE
----------------
  Count:          %d
  Corrupt Reads:  %d
  Ordering:       %s

================================================================================`,
		r.FinalCount, r.Corrupted, invariant)

	return b.String()
}

// IsRunning は実行中かどうかを返す
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// List は直近の実行で使ったリストを返す
func (e *Engine) List() *llist.List {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.list
}

// Metrics はクライアントメトリクスを返す
func (e *Engine) Metrics() *metrics.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.client == nil {
		return nil
	}
	snapshot := e.client.Metrics().Snapshot()
	return &snapshot
}
