package correct

import (
	"strings"

	"go-legal-ocr/pkg/config"
)

var (
	toArabicIndic = strings.NewReplacer(
		"0", "٠", "1", "١", "2", "٢", "3", "٣",
		"4", "٤", "5", "٥", "6", "٦", "7", "٧",
		"8", "٨", "9", "٩",
	)

	toWestern = strings.NewReplacer(
		"٠", "0", "١", "1", "٢", "2", "٣", "3",
		"٤", "4", "٥", "5", "٦", "6", "٧", "7",
		"٨", "8", "٩", "9",
	)
)

// NormalizeDigits rewrites digits into the requested script. Mixed
// digit runs are common in scans of legal filings where case numbers
// were typed and dates stamped; normalizing one way keeps downstream
// search consistent.
func NormalizeDigits(text string, mode config.DigitMode) string {
	switch mode {
	case config.DigitsArabicIndic:
		return toArabicIndic.Replace(text)
	case config.DigitsWestern:
		return toWestern.Replace(text)
	default:
		return text
	}
}
