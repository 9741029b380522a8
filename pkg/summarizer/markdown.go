package summarizer

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(translate func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = translate
	}
}

// WithVersion sets the tool version printed in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Repair Summary"))

	// Input
	fmt.Fprintf(&b, "## %s\n\n", t("Input"))
	row := tableWriter(&b, t)
	row("File", s.Input.Path)
	row("Codec", s.Input.Codec)
	row("Size", fmt.Sprintf("%dx%d", s.Input.Width, s.Input.Height))
	row("Samples", humanize.Comma(int64(s.Input.SampleCount)))
	row("Duration", formatDuration(s.Input.DurationMs))
	row("Frame Rate", fmt.Sprintf("%.2f fps", s.Input.FPS))
	b.WriteString("\n")

	// Repair
	fmt.Fprintf(&b, "## %s\n\n", t("Repair"))
	row = tableWriter(&b, t)
	row("Frames", humanize.Comma(int64(s.Repair.TotalFrames)))
	row("Missing (interior)", humanize.Comma(int64(s.Repair.GapCount)))
	row("Missing (boundary)", humanize.Comma(int64(s.Repair.BoundaryGaps)))
	strategy := t(s.Repair.Strategy)
	if s.Repair.Forced {
		strategy += " (" + t("forced") + ")"
	}
	row("Strategy", strategy)
	row("Threshold", fmt.Sprintf("%.1f%%", s.Repair.Threshold*100))
	row("Blend Weight", fmt.Sprintf("%.2f", s.Repair.BlendWeight))
	row("Interpolated", humanize.Comma(int64(s.Repair.Interpolated)))
	row("Copied", humanize.Comma(int64(s.Repair.Copied)))
	row("Dropped", humanize.Comma(int64(s.Repair.Dropped)))
	b.WriteString("\n")

	// Output
	fmt.Fprintf(&b, "## %s\n\n", t("Output"))
	row = tableWriter(&b, t)
	row("File", s.Output.Path)
	if s.Output.Copied {
		row("Mode", t("copied without re-encoding"))
	} else {
		row("Mode", t("re-encoded"))
		row("Quality", formatQuality(s.Settings.Quality, t))
		if s.Settings.Bitrate > 0 {
			row("Bitrate", fmt.Sprintf("%d kbps", s.Settings.Bitrate))
		}
	}
	row("Frames", humanize.Comma(int64(s.Output.FrameCount)))
	row("Duration", formatDuration(s.Output.DurationMs))
	row("File Size", formatBytes(s.Output.FileSize))
	b.WriteString("\n")

	// Footer
	footer := fmt.Sprintf("%s %s", t("Generated at"), s.GeneratedAt.Format("2006-01-02 15:04:05"))
	if f.version != "" {
		footer += fmt.Sprintf(" (vrkit %s)", f.version)
	}
	b.WriteString("---\n\n")
	b.WriteString(footer)
	b.WriteString("\n")

	return b.String()
}

// tableWriter writes a two-column table header and returns a row writer.
func tableWriter(b *strings.Builder, t func(string) string) func(label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", t("Item"), t("Value"))
	b.WriteString("| --- | --- |\n")
	return func(label, value string) {
		fmt.Fprintf(b, "| %s | %s |\n", t(label), value)
	}
}

func formatQuality(crf int, t func(string) string) string {
	if crf <= 0 {
		return t("default")
	}
	return fmt.Sprintf("CRF %d", crf)
}

func formatDuration(ms int) string {
	return fmt.Sprintf("%.2f s", float64(ms)/1000)
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
