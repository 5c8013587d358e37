package telegram

import (
	"fmt"
	"math"
	"strings"

	"github.com/set-night/codegen/internal/config"
	"github.com/set-night/codegen/internal/page"
)

const progressWidth = 10

// ProgressBar renders percent as a ten cell bar.
func ProgressBar(percent float64) string {
	filled := int(math.Round(percent / 100 * progressWidth))
	filled = max(0, min(progressWidth, filled))
	return strings.Repeat("▓", filled) + strings.Repeat("░", progressWidth-filled)
}

// FormatProfile renders the usage panel.
func FormatProfile(v page.ProfileView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 *%s*\n", EscapeMarkdown(v.Name))
	fmt.Fprintf(&b, "Тариф: %s\n", v.Plan)

	switch {
	case !v.SignedIn:
		b.WriteString("\nВойдите, чтобы видеть остаток бесплатных запросов: /signin <имя> <email>")
	case v.IsPremium:
		b.WriteString("\n⭐ Безлимитные генерации")
	default:
		fmt.Fprintf(&b, "\n%s %.0f%%\n", ProgressBar(v.Progress), v.Progress)
		fmt.Fprintf(&b, "Использовано: %d из %d\n", v.Used, v.Limit)
		fmt.Fprintf(&b, "Осталось: %d", v.Remaining)
	}
	return b.String()
}

// QuotaLine is the short note sent after a generation. Pro and guest users
// have nothing to report.
func QuotaLine(v page.ProfileView) (string, bool) {
	if !v.SignedIn || v.IsPremium {
		return "", false
	}
	return fmt.Sprintf("📊 Осталось бесплатных запросов: %d из %d", v.Remaining, v.Limit), true
}

// FormatProOffer lists the Pro features with the price.
func FormatProOffer(price string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⭐ *Pro Plan*: %s/мес\n\n", price)
	for _, f := range config.ProFeatures {
		fmt.Fprintf(&b, "• %s\n", f)
	}
	return strings.TrimRight(b.String(), "\n")
}
