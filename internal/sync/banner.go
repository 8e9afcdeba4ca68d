package sync

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var bannerTmpl = template.Must(template.New("banner").Parse(`
{{ .Header }}
{{ range .Lines }}  {{ . }}
{{ end }}`))

type bannerData struct {
	Header string
	Lines  []string
}

// RenderBanner writes a summary of a scheduler status to the given writer.
// Uses lipgloss for TTY-aware colored output (auto-strips ANSI when not a TTY).
func RenderBanner(st Status, w io.Writer) {
	renderer := lipgloss.NewRenderer(w)
	green := renderer.NewStyle().Foreground(lipgloss.Color("2"))
	red := renderer.NewStyle().Foreground(lipgloss.Color("1"))
	faint := renderer.NewStyle().Faint(true)

	if !st.Running && st.TickCount == 0 {
		_, _ = io.WriteString(w, faint.Render("○ periodic sync stopped")+"\n")
		return
	}

	header := green.Render("● periodic sync running")
	if !st.Running {
		header = faint.Render("○ periodic sync stopped")
	}
	if st.RunID != "" {
		header += faint.Render(" (run " + shortID(st.RunID) + ")")
	}

	lines := []string{
		fmt.Sprintf("target: %s every %s", st.Config.DestinationPath(), st.Config.Interval),
		fmt.Sprintf("runs:   %d ok, %s", st.SuccessfulRuns, failedText(st.FailedRuns, red)),
	}
	if st.LastResult != nil {
		last := st.LastResult.String()
		if !st.LastResult.OK() {
			last = red.Render(last)
		}
		lines = append(lines, fmt.Sprintf("last:   %s at %s", last, st.LastRunAt.Format(time.DateTime)))
	}
	if !st.NextRunAt.IsZero() {
		lines = append(lines, fmt.Sprintf("next:   %s", st.NextRunAt.Format(time.DateTime)))
	}

	var buf strings.Builder
	_ = bannerTmpl.Execute(&buf, bannerData{Header: header, Lines: lines})
	_, _ = io.WriteString(w, buf.String())
}

func failedText(n int, style lipgloss.Style) string {
	text := fmt.Sprintf("%d failed", n)
	if n == 0 {
		return text
	}
	return style.Render(text)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
