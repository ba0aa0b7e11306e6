package scenario

import (
	"time"

	"rwlist/internal/client"
)

// QuickScenario はクイックテスト用シナリオを返す
// 短時間での動作確認用
func QuickScenario() Config {
	return Config{
		Name:        "quick",
		Description: "Quick mixed workload for verification",
		Duration:    3 * time.Second,
		Prefill:     100,
		Workers:     4,
		Mix:         client.DefaultMix(),
		KeyRange:    200,
		PayloadSize: 8,
	}
}

// ReadHeavyScenario は読み取り中心のシナリオを返す
// 共有ロックの並行性を確認する
func ReadHeavyScenario() Config {
	return Config{
		Name:        "readheavy",
		Description: "Concurrent readers with occasional writers",
		Duration:    10 * time.Second,
		Prefill:     1000,
		Workers:     16,
		Mix:         client.Mix{Find: 80, Count: 5, Next: 10, Insert: 3, Remove: 2},
		KeyRange:    1000,
		PayloadSize: 16,
	}
}

// WriteHeavyScenario は書き込み中心のシナリオを返す
// 排他ロックの競合を確認する
func WriteHeavyScenario() Config {
	return Config{
		Name:        "writeheavy",
		Description: "Writers contending for the exclusive lock",
		Duration:    10 * time.Second,
		Prefill:     200,
		Workers:     16,
		Mix:         client.Mix{Find: 10, Insert: 40, Remove: 30, Replace: 20},
		KeyRange:    1000,
		PayloadSize: 16,
	}
}

// ChurnScenario は挿入と削除を繰り返すシナリオを返す
// 小さなインデックス空間でリンクの付け替えを集中させる
func ChurnScenario() Config {
	return Config{
		Name:        "churn",
		Description: "Insert/remove churn on a small index space",
		Duration:    10 * time.Second,
		Prefill:     0,
		Workers:     8,
		Mix:         client.Mix{Insert: 45, Remove: 45, Next: 10},
		KeyRange:    64,
		PayloadSize: 8,
	}
}

// BoundedScenario は MaxLen 付きリストのシナリオを返す
// ErrFull がエラーとして集計される
func BoundedScenario() Config {
	return Config{
		Name:        "bounded",
		Description: "Capped list rejecting inserts past MaxLen",
		Duration:    5 * time.Second,
		MaxLen:      256,
		Prefill:     256,
		Workers:     8,
		Mix:         client.Mix{Find: 40, Insert: 40, Remove: 10, Replace: 10},
		KeyRange:    2048,
		PayloadSize: 8,
	}
}

var presets = map[string]func() Config{
	"quick":      QuickScenario,
	"readheavy":  ReadHeavyScenario,
	"writeheavy": WriteHeavyScenario,
	"churn":      ChurnScenario,
	"bounded":    BoundedScenario,
}

// GetPreset は名前からプリセットシナリオを取得する
func GetPreset(name string) (Config, bool) {
	if fn, ok := presets[name]; ok {
		return fn(), true
	}
	return Config{}, false
}

// ListPresets は利用可能なプリセット名を返す
func ListPresets() []string {
	return []string{"quick", "readheavy", "writeheavy", "churn", "bounded"}
}
