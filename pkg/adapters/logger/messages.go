package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Repairing %s":                                "%s を修復中",
		"Output saved to %s":                          "出力を %s に保存しました",
		"Interrupted, shutting down...":               "中断されました。シャットダウン中...",
		"Input is clean, copying without re-encoding": "入力に欠落がないため、再エンコードせずにコピーします",

		// Decode stage
		"Probing %s":                             "%s を解析中",
		"Stream: %s %dx%d, %d samples, %.2f fps": "ストリーム: %s %dx%d, %d サンプル, %.2f fps",
		"Decoding %d samples":                    "%d サンプルをデコード中",
		"Decoded %d frames, %d missing":          "%d フレームをデコード, %d 欠落",

		"Decoding may need %s but only %s is available": "デコードに %s 必要ですが、利用可能なのは %s です",
		"Could not read available memory: %s":           "利用可能メモリを取得できません: %s",

		// Repair stage
		"Frames: %d, gaps: %d, strategy: %s": "フレーム数: %d, 欠落: %d, 方式: %s",
		"No missing frames in %d frames":     "%d フレームに欠落はありません",

		"%d of %d frames missing (%d interior, %d boundary), strategy %s":    "%d / %d フレーム欠落 (内部 %d, 端 %d), 方式 %s",
		"Repair produced %d frames (%d interpolated, %d copied, %d dropped)": "修復結果 %d フレーム (補間 %d, 複製 %d, 削除 %d)",

		// Encode stage
		"Encoding %d frames at %.2f fps": "%d フレームを %.2f fps でエンコード中",
		"Video encoded: %d bytes":        "動画エンコード完了: %d バイト",

		// Batch
		"Found %d videos in %s":                  "%d 本の動画が見つかりました (%s)",
		"[%d/%d] %s":                             "[%d/%d] %s",
		"Failed to repair %s: %s":                "%s の修復に失敗しました: %s",
		"Batch finished: %d repaired, %d failed": "一括処理完了: 成功 %d, 失敗 %d",

		// Warnings
		"Failed to save debug output: %s": "デバッグ出力の保存に失敗しました: %s",

		// Rendering
		"Could not load font %s: %s": "フォント %s を読み込めません: %s",

		// Errors
		"Failed to decode video: %s":  "動画のデコードに失敗しました: %s",
		"Failed to repair frames: %s": "フレームの修復に失敗しました: %s",
		"Failed to encode video: %s":  "動画のエンコードに失敗しました: %s",
		"Failed to write output: %s":  "出力の書き込みに失敗しました: %s",
	})
}
