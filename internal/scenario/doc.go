// Package scenario は順序付きリストに対するストレスシナリオ実行機能を提供する。
//
// シナリオエンジンはリスト、イベントバス、Clientを組み合わせ、
// 指定時間だけ負荷をかけた後にリストの不変条件（昇順・重複なし）を検証する。
//
// # 機能
//
// - シナリオ定義と実行
// - 定義済みプリセットシナリオ
// - 実行結果のレポート生成
// - 基本操作のウォークスルー
//
// # プリセットシナリオ
//
// - quick: 短時間の動作確認
// - readheavy: 読み取り中心の負荷
// - writeheavy: 書き込み中心の負荷
// - churn: 小さなインデックス空間での挿入・削除の繰り返し
// - bounded: MaxLen 付きリスト
//
// # 使用例
//
//	config := scenario.ReadHeavyScenario()
//	engine := scenario.New(config)
//	result, err := engine.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Report())
package scenario
