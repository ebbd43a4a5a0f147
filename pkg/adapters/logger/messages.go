package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Codec core
		"Input buffer is empty":                     "入力バッファが空です",
		"Invalid output geometry %dx%d":             "出力サイズ %dx%d が不正です",
		"Input is stream metadata only":             "入力はストリームのメタデータのみです",
		"Parsing video data failed: %s":             "映像データの解析に失敗しました: %s",
		"Decoder creation failed: %s":               "デコーダーの作成に失敗しました: %s",
		"Failed creating video parser: %s":          "映像パーサーの作成に失敗しました: %s",
		"Failed mapping frame: %s":                  "フレームのマップに失敗しました: %s",
		"Could not unmap frame: %s":                 "フレームのアンマップに失敗しました: %s",
		"Could not free RGB buffer: %s":             "RGBバッファの解放に失敗しました: %s",
		"Could not allocate RGB buffer: %s":         "RGBバッファの確保に失敗しました: %s",
		"Error destroying decoder: %s":              "デコーダーの破棄でエラーが発生しました: %s",
		"Error destroying parser: %s":               "パーサーの破棄でエラーが発生しました: %s",
		"Error decoding frame: %s":                  "フレームのデコードでエラーが発生しました: %s",
		"Video stream exceeds %dx%d limits":         "映像ストリームが %dx%d の上限を超えています",
		"Recreating decoder: input %dx%d, target %dx%d": "デコーダーを再作成: 入力 %dx%d, 出力 %dx%d",

		// CLI
		"Decoding %s at %dx%d":          "%s を %dx%d でデコード中",
		"Decoded %d frames":             "%d フレームをデコードしました",
		"Skipping frame %d: %s":         "フレーム %d をスキップ: %s",
		"Interrupted, shutting down...": "中断されました。シャットダウンします...",
		"framepipe version %s":          "framepipe バージョン %s",
	})
}
