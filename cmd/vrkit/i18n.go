// Package main provides localization for the vrkit CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":            "出力先",
		"Configuration":     "設定ファイル",
		"Repair":            "修復",
		"Batch":             "一括処理",
		"Video and Quality": "動画と品質",
		"Debug":             "デバッグ",
		"Logging":           "ログ",

		// Root command
		"Repair videos with missing frames": "欠落フレームのある動画を修復",

		"vrkit decodes a video, fills or drops the frames that failed to decode, and re-encodes the result as H.264 MP4.": "vrkitは動画をデコードし、デコードできなかったフレームを補間または削除して、H.264 MP4として再エンコードします。",

		// Commands
		"Repair a single video":              "1本の動画を修復",
		"Repair every video in a directory":  "ディレクトリ内の全ての動画を修復",
		"Show stream information of a video": "動画のストリーム情報を表示",

		// Output flags
		"Output MP4 file path (required)":                    "出力MP4ファイルパス（必須）",
		"Output directory (required)":                        "出力ディレクトリ（必須）",
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",
		"Directory for per-file summaries (Markdown format)": "ファイルごとのサマリーの出力先（Markdown形式）",

		// Batch flags
		"Number of videos processed at once":   "同時に処理する動画の数",
		"Suffix appended to output file names": "出力ファイル名に付ける接尾辞",

		// Configuration flags
		"YAML configuration file": "YAML設定ファイル",

		// Repair flags
		"Gap ratio above which missing frames are dropped (0-1, default: 0.1)": "欠落率がこれを超えるとフレームを削除（0-1、デフォルト: 0.1）",
		"Weight of the earlier frame when blending (0-1, default: 0.5)":        "補間時の前フレームの重み（0-1、デフォルト: 0.5）",
		"Repair strategy (auto, drop, interpolate)":                            "修復方式（auto, drop, interpolate）",
		"Re-encode even when no frame is missing":                              "欠落がなくても再エンコードする",

		// Encoding flags
		"Video quality (0-63, lower is better)":         "動画品質（0-63、低いほど高品質）",
		"Target bitrate in kbps (0 = CRF only)":         "目標ビットレート（kbps、0 = CRFのみ）",
		"Output frame rate (default: input frame rate)": "出力フレームレート（デフォルト: 入力と同じ）",
		"Path to ffmpeg executable":                     "ffmpeg実行ファイルのパス",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Error messages
		"Input video argument is required":     "入力動画の引数が必要です",
		"Input directory argument is required": "入力ディレクトリの引数が必要です",

		// Probe output
		"Codec: %s":                          "コーデック: %s",
		"Size: %dx%d":                        "サイズ: %dx%d",
		"Samples: %s":                        "サンプル数: %s",
		"Duration: %.2f s":                   "再生時間: %.2f 秒",
		"Frame rate: %.2f fps":               "フレームレート: %.2f fps",
		"Decoded size: %s":                   "デコード後のサイズ: %s",
		"ffmpeg not found; repair will fail": "ffmpegが見つかりません。修復は失敗します",

		// Summary output
		"Summary saved to %s":         "サマリーを %s に保存しました",
		"Failed to write summary: %s": "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Repair Summary":             "修復サマリー",
		"Input":                      "入力",
		"Item":                       "項目",
		"Value":                      "値",
		"File":                       "ファイル",
		"Codec":                      "コーデック",
		"Size":                       "サイズ",
		"Samples":                    "サンプル数",
		"Duration":                   "再生時間",
		"Frame Rate":                 "フレームレート",
		"Frames":                     "フレーム数",
		"Missing (interior)":         "欠落（内部）",
		"Missing (boundary)":         "欠落（先頭・末尾）",
		"Strategy":                   "方式",
		"Threshold":                  "しきい値",
		"Blend Weight":               "補間の重み",
		"Interpolated":               "補間",
		"Copied":                     "複製",
		"Dropped":                    "削除",
		"Mode":                       "出力方法",
		"Quality":                    "品質",
		"Bitrate":                    "ビットレート",
		"File Size":                  "ファイルサイズ",
		"Generated at":               "生成日時",
		"copied without re-encoding": "再エンコードせずにコピー",
		"re-encoded":                 "再エンコード",
		"default":                    "デフォルト",
		"forced":                     "指定",
		"none":                       "なし",
		"drop":                       "削除",
		"interpolate":                "補間",
	})
}
