package client

import (
	"errors"
	"fmt"
	"math/rand"

	"rwlist/internal/metrics"
)

// Mix は操作ごとの重み。重みの比率で操作が選ばれる
type Mix struct {
	Find    int `yaml:"find" json:"find"`
	Insert  int `yaml:"insert" json:"insert"`
	Remove  int `yaml:"remove" json:"remove"`
	Replace int `yaml:"replace" json:"replace"`
	Count   int `yaml:"count" json:"count"`
	Next    int `yaml:"next" json:"next"`
}

// DefaultMix は読み取り中心の標準的な配分を返す
func DefaultMix() Mix {
	return Mix{Find: 50, Insert: 20, Remove: 10, Replace: 10, Count: 5, Next: 5}
}

func (m Mix) weights() [6]struct {
	op     metrics.Op
	weight int
} {
	return [6]struct {
		op     metrics.Op
		weight int
	}{
		{metrics.OpFind, m.Find},
		{metrics.OpInsert, m.Insert},
		{metrics.OpRemove, m.Remove},
		{metrics.OpReplace, m.Replace},
		{metrics.OpCount, m.Count},
		{metrics.OpNext, m.Next},
	}
}

// Total は重みの合計を返す
func (m Mix) Total() int {
	total := 0
	for _, w := range m.weights() {
		total += w.weight
	}
	return total
}

// WriteRatio は書き込み操作の割合（0.0〜1.0）を返す
func (m Mix) WriteRatio() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.Insert+m.Remove+m.Replace) / float64(total)
}

// Validate は重みを検証する
func (m Mix) Validate() error {
	for _, w := range m.weights() {
		if w.weight < 0 {
			return fmt.Errorf("mix weight for %s must be non-negative, got %d", w.op, w.weight)
		}
	}
	if m.Total() == 0 {
		return errors.New("mix must have at least one positive weight")
	}
	return nil
}

// pick は重みに従って操作を1つ選ぶ
func (m Mix) pick(rng *rand.Rand) metrics.Op {
	n := rng.Intn(m.Total())
	for _, w := range m.weights() {
		if n < w.weight {
			return w.op
		}
		n -= w.weight
	}
	return metrics.OpFind
}
