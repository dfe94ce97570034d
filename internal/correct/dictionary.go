package correct

import (
	_ "embed"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/arbovm/levenshtein"

	"go-legal-ocr/internal/logger"
)

//go:embed dictionaries/legal_arabic.txt
var embeddedLegalTerms string

// Dictionary is a lazily loaded set of known legal terms used to snap
// near-miss OCR words back to real vocabulary. A zero path loads the
// embedded legal term list; a missing file degrades to an empty
// dictionary so correction becomes a no-op instead of an error.
type Dictionary struct {
	path string

	mu     sync.Mutex
	loaded bool
	set    map[string]struct{}
	terms  []string
}

// NewDictionary creates a dictionary backed by the given file. Pass an
// empty path to use the built-in legal vocabulary.
func NewDictionary(path string) *Dictionary {
	return &Dictionary{path: path}
}

func (d *Dictionary) ensureLoaded() {
	if d.loaded {
		return
	}
	d.loaded = true
	d.set = make(map[string]struct{})

	content := embeddedLegalTerms
	if d.path != "" {
		data, err := os.ReadFile(d.path)
		if err != nil {
			logger.WithError(err).WithField("path", d.path).
				Warn("Dictionary file unavailable, corrections disabled")
			return
		}
		content = string(data)
	}

	for _, line := range strings.Split(content, "\n") {
		term := strings.TrimSpace(line)
		if term == "" || strings.HasPrefix(term, "#") {
			continue
		}
		term = NormalizeArabic(term)
		if _, ok := d.set[term]; !ok {
			d.set[term] = struct{}{}
			d.terms = append(d.terms, term)
		}
	}
	sort.Strings(d.terms)
}

// Correct returns the closest dictionary term within maxDist edits of
// the word, or the word unchanged when nothing qualifies. Exact hits
// short-circuit. Ties on distance resolve to the lexicographically
// smallest term so repeated runs are deterministic.
func (d *Dictionary) Correct(word string, maxDist int) string {
	if word == "" || maxDist <= 0 {
		return word
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLoaded()

	if len(d.set) == 0 {
		return word
	}

	normalized := NormalizeArabic(word)
	if _, ok := d.set[normalized]; ok {
		return word
	}

	best := word
	bestDist := maxDist + 1
	for _, term := range d.terms {
		dist := levenshtein.Distance(normalized, term)
		if dist < bestDist {
			bestDist = dist
			best = term
		}
	}
	return best
}

// Len reports the number of loaded terms, forcing a load.
func (d *Dictionary) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLoaded()
	return len(d.terms)
}

// Reset drops the loaded term set so the next use re-reads the source.
func (d *Dictionary) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = false
	d.set = nil
	d.terms = nil
}
