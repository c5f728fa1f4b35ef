package notifier

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"StockPulse/internal/model"
)

// telegram rejects messages above 4096 characters
const maxMessageLen = 4000

var categories = []struct {
	prefix string
	icon   string
}{
	{"buy-consider", "🟢"},
	{"buy-wait", "🟡"},
	{"watch", "⚪"},
	{"sell-consider", "🔴"},
}

func icon(a model.Action) string {
	for _, c := range categories {
		if strings.HasPrefix(string(a), c.prefix) {
			return c.icon
		}
	}
	return "•"
}

// FormatRunSummary formats a ranked run into a Telegram message with the top n records.
func FormatRunSummary(res *model.RunResult, topN int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>StockPulse</b> | %s\n", res.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Analyzed: %d | Skipped: %d\n", len(res.Records), len(res.Failures)))

	counts := make(map[string]int)
	for _, r := range res.Records {
		for _, c := range categories {
			if strings.HasPrefix(string(r.Action), c.prefix) {
				counts[c.prefix]++
			}
		}
	}
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, fmt.Sprintf("%s %s %d", c.icon, c.prefix, counts[c.prefix]))
	}
	b.WriteString(strings.Join(parts, " | "))
	b.WriteString("\n\n")

	b.WriteString(FormatTop(res, topN))
	return truncate(b.String())
}

// FormatTop lists the first n ranked records.
func FormatTop(res *model.RunResult, n int) string {
	if len(res.Records) == 0 {
		return "No records in the last run."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏆 <b>Top %d</b>\n", min(n, len(res.Records))))
	for i, r := range res.Records {
		if i >= n {
			break
		}
		b.WriteString(fmt.Sprintf("%d. %s <b>%s</b> (%s) %.2f %+.2f%%\n",
			i+1, icon(r.Action), html.EscapeString(r.Name), r.Code, r.CurrentPrice, r.PriceChange))
		b.WriteString(fmt.Sprintf("   %s\n", html.EscapeString(string(r.Action))))
		if r.Supports[0] != nil {
			b.WriteString(fmt.Sprintf("   support %s\n", html.EscapeString(*r.Supports[0])))
		}
	}
	return truncate(b.String())
}

// FormatFailures lists skipped symbols and why.
func FormatFailures(res *model.RunResult) string {
	if len(res.Failures) == 0 {
		return "✅ No skipped symbols in the last run."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚠️ <b>Skipped %d</b>\n", len(res.Failures)))
	for _, f := range res.Failures {
		b.WriteString(html.EscapeString(f.Error()))
		b.WriteString("\n")
	}
	return truncate(b.String())
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	cut := strings.LastIndex(s[:maxMessageLen], "\n")
	if cut < 0 {
		cut = maxMessageLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
	}
	return s[:cut] + "\n…"
}
