package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Op はリスト操作の種類
type Op int

const (
	OpFind Op = iota
	OpInsert
	OpRemove
	OpReplace
	OpCount
	OpNext
	numOps
)

// AllOps は全操作を定義順で返す
func AllOps() []Op {
	ops := make([]Op, 0, numOps)
	for op := Op(0); op < numOps; op++ {
		ops = append(ops, op)
	}
	return ops
}

func (o Op) String() string {
	switch o {
	case OpFind:
		return "find"
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpCount:
		return "count"
	case OpNext:
		return "next"
	default:
		return "unknown"
	}
}

// Outcome は操作の結果
type Outcome int

const (
	Hit   Outcome = iota // 対象が見つかった、または書き込みに成功した
	Miss                 // 対象のインデックスが存在しない
	Error                // エラーが返された（ErrFull など）
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// opCounter は操作ごとのカウンタ
type opCounter struct {
	hits   atomic.Uint64
	misses atomic.Uint64
	errors atomic.Uint64
}

// Config はメトリクスの設定
type Config struct {
	MaxLatencySamples int // P99 計算に使うサンプル数の上限
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{MaxLatencySamples: 1000}
}

// Metrics はリスト操作のメトリクスを収集する
type Metrics struct {
	ops            [numOps]opCounter
	totalOps       atomic.Uint64
	totalLatencyNs atomic.Uint64

	mu                sync.RWMutex
	startTime         time.Time
	lastResetTime     time.Time
	windowOps         uint64
	latencies         []time.Duration
	maxLatencySamples int
}

// New は新しいメトリクスを作成する
func New() *Metrics {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig は設定を指定してメトリクスを作成する
func NewWithConfig(config Config) *Metrics {
	if config.MaxLatencySamples <= 0 {
		config.MaxLatencySamples = DefaultConfig().MaxLatencySamples
	}
	now := time.Now()
	return &Metrics{
		startTime:         now,
		lastResetTime:     now,
		latencies:         make([]time.Duration, 0, config.MaxLatencySamples),
		maxLatencySamples: config.MaxLatencySamples,
	}
}

// Record は1回の操作を記録する
func (m *Metrics) Record(op Op, outcome Outcome, latency time.Duration) {
	if op < 0 || op >= numOps {
		return
	}

	c := &m.ops[op]
	switch outcome {
	case Hit:
		c.hits.Add(1)
	case Miss:
		c.misses.Add(1)
	default:
		c.errors.Add(1)
	}
	m.totalOps.Add(1)
	m.totalLatencyNs.Add(uint64(latency.Nanoseconds()))

	m.mu.Lock()
	m.windowOps++
	if len(m.latencies) < m.maxLatencySamples {
		m.latencies = append(m.latencies, latency)
	}
	m.mu.Unlock()
}

// TotalOps は総操作数を返す
func (m *Metrics) TotalOps() uint64 {
	return m.totalOps.Load()
}

// OpStats は操作ごとの集計
type OpStats struct {
	Hits   uint64
	Misses uint64
	Errors uint64
}

// Total はその操作の総数を返す
func (s OpStats) Total() uint64 {
	return s.Hits + s.Misses + s.Errors
}

// Op は指定操作の集計を返す
func (m *Metrics) Op(op Op) OpStats {
	if op < 0 || op >= numOps {
		return OpStats{}
	}
	c := &m.ops[op]
	return OpStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Errors: c.errors.Load(),
	}
}

// Errors は全操作のエラー数を返す
func (m *Metrics) Errors() uint64 {
	var n uint64
	for i := range m.ops {
		n += m.ops[i].errors.Load()
	}
	return n
}

// OpsPerSecond は直近ウィンドウの秒間操作数を返す
func (m *Metrics) OpsPerSecond() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	elapsed := time.Since(m.lastResetTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(m.windowOps) / elapsed
}

// OverallOpsPerSecond は開始からの平均秒間操作数を返す
func (m *Metrics) OverallOpsPerSecond() float64 {
	elapsed := time.Since(m.startTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(m.totalOps.Load()) / elapsed
}

// AverageLatency は平均レイテンシを返す
func (m *Metrics) AverageLatency() time.Duration {
	total := m.totalOps.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.totalLatencyNs.Load() / total)
}

// P99Latency はP99レイテンシを返す（サンプルベース）
func (m *Metrics) P99Latency() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.latencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	idx := int(float64(len(sorted)) * 0.99)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Reset はウィンドウメトリクスをリセットする
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.windowOps = 0
	m.lastResetTime = time.Now()
	m.latencies = m.latencies[:0]
}

// Snapshot はメトリクスのスナップショット
type Snapshot struct {
	TotalOps            uint64
	Errors              uint64
	Ops                 map[Op]OpStats
	OpsPerSecond        float64
	OverallOpsPerSecond float64
	AverageLatency      time.Duration
	P99Latency          time.Duration
	Elapsed             time.Duration
}

// Snapshot は現在のメトリクスのスナップショットを返す
func (m *Metrics) Snapshot() Snapshot {
	ops := make(map[Op]OpStats, numOps)
	for _, op := range AllOps() {
		ops[op] = m.Op(op)
	}
	return Snapshot{
		TotalOps:            m.TotalOps(),
		Errors:              m.Errors(),
		Ops:                 ops,
		OpsPerSecond:        m.OpsPerSecond(),
		OverallOpsPerSecond: m.OverallOpsPerSecond(),
		AverageLatency:      m.AverageLatency(),
		P99Latency:          m.P99Latency(),
		Elapsed:             time.Since(m.startTime),
	}
}
