package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/signgen/internal/backend"
	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/metrics"
	"github.com/abelbrown/signgen/internal/notify"
	"github.com/abelbrown/signgen/internal/session"
	"github.com/abelbrown/signgen/internal/ui/styles"
	"github.com/abelbrown/signgen/internal/word"
)

// cardWidth is the outer width of one video card.
const cardWidth = 34

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	switch a.mode {
	case modeWords:
		return a.picker.View()
	case modeConfig:
		return a.configView.View()
	}

	sections := []string{
		a.renderHeader(),
		a.renderGeneration(),
		a.renderVideos(),
	}
	if a.cfg.ShowPerformance {
		sections = append(sections, a.renderMetrics())
	}
	if notes := a.renderNotifications(); notes != "" {
		sections = append(sections, notes)
	}
	if a.showLog {
		sections = append(sections, a.renderNotificationLog())
	}
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Pin the status bar to the bottom line.
	pad := a.height - lipgloss.Height(body) - 1
	if pad > 0 {
		body += strings.Repeat("\n", pad)
	}
	return body + "\n" + a.renderStatusBar()
}

func (a App) renderHeader() string {
	title := Header.Render("SignGen")
	w := a.session.Word()
	if w == "" {
		return title + styles.Help.Render("  no word selected · press w to choose one")
	}
	return title + WordBadge.Render(w) + styles.Help.Render(word.Link(w))
}

func (a App) renderGeneration() string {
	g := a.session.Generation()
	var line string
	switch g.Status {
	case session.GenPending:
		line = a.spinner.View() + " generating videos..."
	case session.GenSucceeded:
		line = NoticeSuccess.Render("✓ videos generated")
	case session.GenFailed:
		line = NoticeError.Render("✗ " + backend.Message(g.Err))
	default:
		line = styles.Help.Render("press g to generate")
		if a.session.Generating() {
			line = a.spinner.View() + styles.Help.Render(" waiting for a previous request to finish")
		}
	}
	return "\n" + line + "\n"
}

func (a App) renderVideos() string {
	var cards []string
	for _, k := range config.VideoKinds {
		if !a.cfg.Shows(k) {
			continue
		}
		cards = append(cards, a.renderVideoCard(k))
	}
	if len(cards) == 0 {
		return styles.Help.Render("All video outputs are hidden. Press c to change settings.")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (a App) renderVideoCard(k config.Kind) string {
	art := a.session.Artifact(k)
	title := CardTitle.Render(k.Label() + " Model")

	var body string
	style := Card
	switch art.Status {
	case session.Pending:
		body = a.spinner.View() + " loading video..."
	case session.Succeeded:
		body = NoticeSuccess.Render("ready") + styles.Help.Render(fmt.Sprintf(" %s", humanSize(art.Size)))
		if a.media != nil {
			if h, ok := a.media.Get(k); ok {
				body += "\n" + styles.Help.Render(filepath.Base(h.Path))
			}
		}
	case session.Failed:
		style = FailedCard
		body = NoticeError.Render("failed to load") + "\n" + styles.Help.Render(backend.Message(art.Err)+" · r to retry")
	default:
		body = styles.Help.Render("generate to see output")
	}

	return style.Width(cardWidth - 2).Render(title + "\n" + body)
}

func (a App) renderMetrics() string {
	art := a.session.Artifact(config.KindMetrics)
	title := CardTitle.Render("Model Performance")

	switch art.Status {
	case session.Pending:
		return Card.Render(title + "\n" + a.spinner.View() + " loading metrics...")
	case session.Failed:
		return FailedCard.Render(title + "\n" + NoticeError.Render("failed to load") + "\n" +
			styles.Help.Render(backend.Message(art.Err)+" · r to retry"))
	case session.Succeeded:
	default:
		return Card.Render(title + "\n" + styles.Help.Render("generate to see metrics"))
	}

	s := art.Scores
	status := metrics.Classify(s)
	row := func(label string, v float64) string {
		return fmt.Sprintf("%-12s %s %s", label, a.progress.ViewAs(clamp01(v)), metrics.Format(v))
	}

	var b strings.Builder
	b.WriteString(title + "  " + badge(status).Render(status.String()) + "\n")
	b.WriteString(styles.Help.Render(status.Message()) + "\n\n")
	b.WriteString(styles.Title.Render("Structure Similarity (SSIM)") + "\n")
	b.WriteString(row("CVAE Model", s.CVAESSIM) + "\n")
	b.WriteString(row("Fused Model", s.FusedSSIM) + "\n\n")
	b.WriteString(styles.Title.Render("Diversity") + "\n")
	b.WriteString(row("CGAN Model", s.CGANDiversity) + "\n")
	b.WriteString(row("Fused Model", s.FusedDiversity) + "\n\n")
	b.WriteString(styles.Help.Render("SSIM: higher means closer structure to ground truth") + "\n")
	b.WriteString(styles.Help.Render("Diversity: higher means more varied, natural movement"))
	return Card.Render(b.String())
}

func (a App) renderNotifications() string {
	notes := a.notes.Visible()
	if len(notes) == 0 {
		return ""
	}
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		switch n.Level {
		case notify.Loading:
			lines = append(lines, a.spinner.View()+" "+NoticeLoading.Render(n.Text))
		case notify.Success:
			lines = append(lines, NoticeSuccess.Render("✓ "+n.Text))
		case notify.Error:
			lines = append(lines, NoticeError.Render("✗ "+n.Text))
		default:
			lines = append(lines, NoticeInfo.Render("• "+n.Text))
		}
	}
	return "\n" + strings.Join(lines, "\n")
}

func (a App) renderNotificationLog() string {
	entries := a.notes.History(logEntries)
	var b strings.Builder
	b.WriteString(CardTitle.Render("Notification log"))
	if len(entries) == 0 {
		b.WriteString("\n" + styles.Help.Render("nothing yet"))
	}
	for _, n := range entries {
		line := fmt.Sprintf("%s %-7s %s", n.At.Format("15:04:05"), n.Level, n.Text)
		if n.Level == notify.Error {
			line = NoticeError.Render(line)
		}
		b.WriteString("\n" + line)
	}
	return "\n" + Card.Render(b.String())
}

func (a App) renderStatusBar() string {
	hints := []struct{ key, text string }{
		{"w", "word"},
		{"g", "generate"},
		{"r", "retry"},
		{"c", "settings"},
		{"y", "copy link"},
		{"n", "log"},
		{"b", "back"},
		{"q", "quit"},
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = StatusBarKey.Render(h.key) + StatusBarText.Render(" "+h.text)
	}
	bar := strings.Join(parts, StatusBarText.Render(" · "))
	return StatusBar.Width(a.width).Render(bar + StatusBarText.Render("  "+a.cfg.BaseURL()))
}

func badge(s metrics.Status) lipgloss.Style {
	switch s {
	case metrics.Excellent:
		return BadgeExcellent
	case metrics.Good:
		return BadgeGood
	case metrics.Acceptable:
		return BadgeAcceptable
	}
	return BadgePoor
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
