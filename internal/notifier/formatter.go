package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
)

func actionBadge(a model.Action) string {
	switch a {
	case model.ActionBuy:
		return "🟢 BUY"
	case model.ActionSell:
		return "🔴 SELL"
	default:
		return "⚪ HOLD"
	}
}

// FormatSignalReport formats one signal into a Telegram message.
func FormatSignalReport(sig *model.Signal) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(sig.Symbol), sig.Timestamp.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("%s  (confidence %.1f%%, AI score %.1f/10)\n", actionBadge(sig.Action), sig.Confidence, sig.AIScore))
	b.WriteString(fmt.Sprintf("Price: %.2f | Target: %.2f | Stop: %.2f\n\n", sig.Price, sig.TargetPrice, sig.StopLoss))

	// Factor breakdown
	bd := sig.Breakdown
	b.WriteString("📈 <b>Factors:</b>\n")
	b.WriteString(fmt.Sprintf("  technical:   %+.3f\n", bd.Technical))
	b.WriteString(fmt.Sprintf("  sentiment:   %+.3f\n", bd.Sentiment))
	b.WriteString(fmt.Sprintf("  fundamental: %+.3f\n", bd.Fundamental))
	b.WriteString(fmt.Sprintf("  volume:      %+.3f\n", bd.Volume))
	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("  combined:    %+.3f\n\n", bd.Combined))

	ind := sig.Indicators
	b.WriteString(fmt.Sprintf("RSI %.1f (%s) | MACD hist %+.3f\n", ind.RSI.Value, ind.RSI.Interpretation, ind.MACD.Histogram))
	if len(sig.Support) > 0 || len(sig.Resistance) > 0 {
		b.WriteString(fmt.Sprintf("Support: %s | Resistance: %s\n", levelList(sig.Support), levelList(sig.Resistance)))
	}

	b.WriteString(fmt.Sprintf("\n💬 %s\n", html.EscapeString(sig.Reasoning)))

	if len(sig.Warnings) > 0 {
		b.WriteString("\n⚠️ " + html.EscapeString(strings.Join(sig.Warnings, "\n⚠️ ")) + "\n")
	}
	return b.String()
}

func levelList(levels []model.Level) string {
	if len(levels) == 0 {
		return "-"
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprintf("%.2f", l.Price)
	}
	return strings.Join(parts, ", ")
}

// FormatBatchReport summarizes a watchlist run: one line per symbol, failures last.
func FormatBatchReport(results []strategy.Result, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>SignalSentinel</b> | %s\n\n", at.Format("2006-01-02 15:04")))

	var failed []strategy.Result
	for _, r := range results {
		if r.Err != nil || r.Signal == nil {
			failed = append(failed, r)
			continue
		}
		s := r.Signal
		b.WriteString(fmt.Sprintf("<b>%s</b> %s %.1f%% | %.2f → %.2f (stop %.2f) | AI %.1f\n",
			html.EscapeString(s.Symbol), actionBadge(s.Action), s.Confidence, s.Price, s.TargetPrice, s.StopLoss, s.AIScore))
	}

	if len(failed) > 0 {
		b.WriteString("\n❌ <b>Failed:</b>\n")
		for _, r := range failed {
			reason := "no signal"
			if r.Err != nil {
				reason = r.Err.Error()
			}
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(r.Symbol), html.EscapeString(reason)))
		}
	}
	return b.String()
}

// FormatHistory lists recorded signals for one symbol, newest first.
func FormatHistory(symbol string, records []recorder.SignalRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("No recorded signals for %s", html.EscapeString(symbol))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s history</b>\n\n", html.EscapeString(symbol)))
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%s  %s %.1f%% @ %.2f (AI %.1f)\n",
			r.AsOf.Format("2006-01-02"), actionBadge(r.Action), r.Confidence, r.Price, r.AIScore))
	}
	return b.String()
}

// FormatWatchlist lists the configured symbols.
func FormatWatchlist(symbols []string) string {
	if len(symbols) == 0 {
		return "Watchlist is empty"
	}
	return "👀 <b>Watchlist</b>\n\n" + html.EscapeString(strings.Join(symbols, ", "))
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /analyze SYMBOL - fresh analysis\n" +
		"• /signal SYMBOL - latest signal (cached)\n" +
		"• /history SYMBOL - recorded signals\n" +
		"• /watchlist - configured symbols\n" +
		"• /run - analyze the whole watchlist now"
}
