package correct

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// arabicNormalizer folds alef variants to the bare alef, strips the
// tatweel stretching character and removes zero-width controls that
// OCR engines occasionally emit inside words.
var arabicNormalizer = strings.NewReplacer(
	"آ", "ا", // alef with madda above
	"أ", "ا", // alef with hamza above
	"إ", "ا", // alef with hamza below
	"ٱ", "ا", // alef wasla
	"ـ", "", // tatweel
	"\u200B", "", // zero width space
	"\u200C", "", // zero width non-joiner
	"\u200D", "", // zero width joiner
	"\u200E", "", // left-to-right mark
	"\u200F", "", // right-to-left mark
	"\uFEFF", "", // byte order mark
)

// NormalizeArabic canonicalizes Arabic text for matching and storage.
// The fold runs both before and after NFC because composition can
// reassemble a hamza-carrying alef from a bare alef plus combining
// hamza, which would otherwise escape the first pass.
func NormalizeArabic(text string) string {
	folded := arabicNormalizer.Replace(text)
	return arabicNormalizer.Replace(norm.NFC.String(folded))
}
