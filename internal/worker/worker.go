package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"rwlist/internal/logger"
)

// Job はワーカーが実行するジョブを表す
type Job func()

// PoolConfig はワーカープールの設定
type PoolConfig struct {
	NumWorkers  int // ワーカー数（0でCPU数）
	QueueFactor int // キューサイズ = NumWorkers * QueueFactor
}

// DefaultPoolConfig はデフォルト設定を返す
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		NumWorkers:  0,
		QueueFactor: 100,
	}
}

// Pool はゴルーチンのプールを管理する
type Pool struct {
	numWorkers int
	jobs       chan Job

	workers    sync.WaitGroup // 起動中のワーカー
	submitters sync.WaitGroup // SubmitWait でブロック中の呼び出し

	mu       sync.Mutex
	drained  *sync.Cond // pending が 0 になるか ctx が終わると通知される
	pending  int        // 受け付け済みで未完了のジョブ数
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	stopping bool

	completed atomic.Uint64
}

// NewPool は新しいワーカープールを作成する
// numWorkers が 0 以下の場合は CPU 数を使用
func NewPool(numWorkers int) *Pool {
	config := DefaultPoolConfig()
	config.NumWorkers = numWorkers
	return NewPoolWithConfig(config)
}

// NewPoolWithConfig は設定を指定してワーカープールを作成する
func NewPoolWithConfig(config PoolConfig) *Pool {
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	queueFactor := config.QueueFactor
	if queueFactor <= 0 {
		queueFactor = DefaultPoolConfig().QueueFactor
	}
	p := &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numWorkers*queueFactor),
	}
	p.drained = sync.NewCond(&p.mu)
	return p
}

// Start はワーカープールを起動する。起動済みなら何もしない
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	context.AfterFunc(p.ctx, p.wake)

	for _i := 0; _i < p.numWorkers; _i++ {
		p.workers.Add(1)
		go p.worker(p.ctx)
	}

	logger.Debug("worker", "pool started with %d workers", p.numWorkers)
}

// wake は Drain で待っている呼び出しを起こす
func (p *Pool) wake() {
	p.mu.Lock()
	p.drained.Broadcast()
	p.mu.Unlock()
}

// worker は個々のワーカーゴルーチン
func (p *Pool) worker(ctx context.Context) {
	defer p.workers.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			job()
			p.completed.Add(1)
			p.done(1)
		}
	}
}

// done は n 件のジョブを pending から外す
func (p *Pool) done(n int) {
	p.mu.Lock()
	p.pending -= n
	if p.pending == 0 {
		p.drained.Broadcast()
	}
	p.mu.Unlock()
}

// accepting は新しいジョブを受け付けられるかを返す。p.mu 保持中に呼ぶ
func (p *Pool) accepting() bool {
	return p.started && !p.stopping && p.ctx.Err() == nil
}

// Submit はジョブをプールに送信する。キューが満杯なら false を返す
func (p *Pool) Submit(job Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.accepting() {
		return false
	}

	select {
	case p.jobs <- job:
		p.pending++
		return true
	default:
		return false
	}
}

// SubmitWait はジョブを送信し、キューに空きがなければプールが止まるまでブロックする
func (p *Pool) SubmitWait(job Job) bool {
	p.mu.Lock()
	if !p.accepting() {
		p.mu.Unlock()
		return false
	}
	ctx := p.ctx
	p.pending++
	p.submitters.Add(1)
	p.mu.Unlock()
	defer p.submitters.Done()

	select {
	case <-ctx.Done():
		p.done(1)
		return false
	case p.jobs <- job:
		return true
	}
}

// Drain は受け付け済みのジョブが全て終わるか、プールの ctx が終わるまで待つ
func (p *Pool) Drain() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.started && p.pending > 0 && p.ctx.Err() == nil {
		p.drained.Wait()
	}
}

// Stop はワーカープールを停止する。実行中のジョブの完了を待ち、
// 未実行のジョブは破棄する。
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started || p.stopping {
		p.mu.Unlock()
		return
	}
	p.stopping = true
	p.cancel()
	p.mu.Unlock()

	p.submitters.Wait()
	p.workers.Wait()

	// 取り残されたジョブを破棄する
	dropped := 0
	for empty := false; !empty; {
		select {
		case <-p.jobs:
			dropped++
		default:
			empty = true
		}
	}
	if dropped > 0 {
		p.done(dropped)
	}

	p.mu.Lock()
	p.started = false
	p.stopping = false
	p.mu.Unlock()

	logger.Debug("worker", "pool stopped after %d jobs (%d dropped)", p.completed.Load(), dropped)
}

// NumWorkers はワーカー数を返す
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// QueueSize は現在のキューサイズを返す
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

// Completed は完了したジョブ数を返す
func (p *Pool) Completed() uint64 {
	return p.completed.Load()
}
