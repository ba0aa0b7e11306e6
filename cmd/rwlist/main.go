// Package main is the entry point for rwlist.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rwlist/internal/config"
	"rwlist/internal/logger"
	"rwlist/internal/scenario"
)

var (
	version = "dev"
)

// errInvariant は実行後の検証で昇順が崩れていた場合のエラー
var errInvariant = errors.New("list invariant violated")

// overrides はコマンドラインで指定された上書き値
type overrides struct {
	duration time.Duration
	workers  int
	maxLen   int
	logLevel string
}

func main() {
	// フラグ定義
	var (
		configFile  = flag.String("config", "", "設定ファイルパス (YAML/JSON)")
		presetName  = flag.String("preset", "", "プリセットシナリオ名 (quick, readheavy, writeheavy, churn, bounded)")
		duration    = flag.Duration("duration", 0, "シナリオ実行時間 (例: 10s, 1m)")
		workers     = flag.Int("workers", 0, "クライアントワーカー数")
		maxLen      = flag.Int("max-len", -1, "リストの最大要素数 (0で無制限)")
		logLevel    = flag.String("log-level", "", "ログレベル (debug, info, warn, error)")
		listPresets = flag.Bool("list-presets", false, "利用可能なプリセットを表示")
		walkthrough = flag.Bool("walkthrough", false, "基本操作のウォークスルーを実行")
		showVersion = flag.Bool("version", false, "バージョンを表示")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `rwlist - Ordered Concurrent List Stress Runner

Usage:
  rwlist [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # プリセットシナリオを実行
  rwlist --preset quick

  # 設定ファイルから実行
  rwlist --config scenario.yaml

  # フラグでカスタマイズ
  rwlist --preset churn --duration 30s --workers 32

  # 上限付きリストでロックのトレースを見る
  rwlist --preset bounded --max-len 64 --log-level debug

  # 基本操作を順に実行して表示
  rwlist --walkthrough
`)
	}

	flag.Parse()

	// バージョン表示
	if *showVersion {
		fmt.Printf("rwlist version %s\n", version)
		return
	}

	// プリセット一覧表示
	if *listPresets {
		printPresets(os.Stdout)
		return
	}

	ov := overrides{
		duration: *duration,
		workers:  *workers,
		maxLen:   *maxLen,
		logLevel: *logLevel,
	}

	// ウォークスルー
	if *walkthrough {
		if err := applyLogLevel(ov.logLevel, ""); err != nil {
			logger.Error("", "設定エラー: %v", err)
			os.Exit(1)
		}
		if err := scenario.Walkthrough(os.Stdout, logger.Default); err != nil {
			logger.Error("", "ウォークスルー失敗: %v", err)
			os.Exit(1)
		}
		return
	}

	// シナリオ設定の決定
	scenarioConfig, err := buildScenarioConfig(*configFile, *presetName, ov)
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	// シナリオ実行
	if err := runScenario(scenarioConfig); err != nil {
		logger.Error("", "シナリオ実行エラー: %v", err)
		os.Exit(1)
	}
}

// applyLogLevel はフラグまたは設定ファイルのログレベルをデフォルトロガーに反映する
func applyLogLevel(flagLevel, fileLevel string) error {
	s := fileLevel
	if flagLevel != "" {
		s = flagLevel
	}
	level, err := logger.ParseLevel(s)
	if err != nil {
		return err
	}
	logger.Default.SetLevel(level)
	return nil
}

// buildScenarioConfig はシナリオ設定を構築する
func buildScenarioConfig(configFile, presetName string, ov overrides) (scenario.Config, error) {
	var cfg scenario.Config
	var fileLevel string

	// 1. 設定ファイルから読み込み
	if configFile != "" {
		fileConfig, err := config.LoadFile(configFile)
		if err != nil {
			return cfg, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
		if err := fileConfig.Validate(); err != nil {
			return cfg, fmt.Errorf("設定検証エラー: %w", err)
		}
		cfg, err = fileConfig.ToScenarioConfig()
		if err != nil {
			return cfg, fmt.Errorf("設定変換エラー: %w", err)
		}
		fileLevel = fileConfig.Log.Level
	} else if presetName != "" {
		// 2. プリセットから読み込み
		preset, ok := scenario.GetPreset(presetName)
		if !ok {
			return cfg, fmt.Errorf("不明なプリセット: %s (利用可能: %v)", presetName, scenario.ListPresets())
		}
		cfg = preset
	} else {
		// 3. デフォルト（quickシナリオ）
		cfg = scenario.QuickScenario()
	}

	if err := applyLogLevel(ov.logLevel, fileLevel); err != nil {
		return cfg, err
	}

	// フラグでオーバーライド
	if ov.duration > 0 {
		cfg.Duration = ov.duration
	}
	if ov.workers > 0 {
		cfg.Workers = ov.workers
	}
	if ov.maxLen >= 0 {
		cfg.MaxLen = ov.maxLen
	}

	return cfg, cfg.Validate()
}

// runScenario はシナリオを実行する
func runScenario(cfg scenario.Config) error {
	fmt.Println("rwlist - Ordered Concurrent List Stress Runner")
	fmt.Println("==============================================")
	fmt.Printf("Scenario: %s\n", cfg.Name)
	fmt.Printf("Duration: %v\n", cfg.Duration)
	fmt.Printf("Workers: %d, KeyRange: %d, MaxLen: %d, Prefill: %d\n",
		cfg.Workers, cfg.KeyRange, cfg.MaxLen, cfg.Prefill)
	fmt.Printf("Write ratio: %.1f%%\n", cfg.Mix.WriteRatio()*100)
	fmt.Println("==============================================")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Println("\n中断シグナルを受信、シナリオを終了中...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// シナリオ実行
	engine := scenario.New(cfg)
	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	// レポート出力
	fmt.Println(result.Report())

	if result.Invariant != nil {
		return fmt.Errorf("%w: %v", errInvariant, result.Invariant)
	}
	return nil
}

// printPresets は利用可能なプリセットを表示する
func printPresets(w io.Writer) {
	fmt.Fprintln(w, "利用可能なプリセットシナリオ:")
	fmt.Fprintln(w)

	for _, name := range scenario.ListPresets() {
		preset, _ := scenario.GetPreset(name)
		fmt.Fprintf(w, "  %-12s %s\n", name, preset.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "使用例: rwlist --preset quick")
}
