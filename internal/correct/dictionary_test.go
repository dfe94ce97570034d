package correct

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestDictionary(t *testing.T, terms string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terms.txt")
	if err := os.WriteFile(path, []byte(terms), 0o644); err != nil {
		t.Fatalf("Failed to write dictionary: %v", err)
	}
	return path
}

func TestDictionary_EmbeddedTermsLoad(t *testing.T) {
	dict := NewDictionary("")
	if dict.Len() == 0 {
		t.Fatal("Expected embedded dictionary to contain terms")
	}
}

func TestDictionary_ExactMatchUnchanged(t *testing.T) {
	dict := NewDictionary("")

	// An in-dictionary word must come back untouched even when other
	// terms are within edit distance.
	word := "محكمة"
	if got := dict.Correct(word, 2); got != word {
		t.Errorf("Expected in-dictionary word unchanged, got %q", got)
	}
}

func TestDictionary_CorrectsWithinDistance(t *testing.T) {
	path := writeTestDictionary(t, "محكمة\nقانون\n")
	dict := NewDictionary(path)

	// One substitution away from محكمة.
	if got := dict.Correct("محكمت", 2); got != "محكمة" {
		t.Errorf("Expected correction to محكمة, got %q", got)
	}
}

func TestDictionary_BeyondDistanceUnchanged(t *testing.T) {
	path := writeTestDictionary(t, "محكمة\n")
	dict := NewDictionary(path)

	word := "سيارة"
	if got := dict.Correct(word, 2); got != word {
		t.Errorf("Expected far word unchanged, got %q", got)
	}
}

func TestDictionary_TieBreaksLexicographically(t *testing.T) {
	// Both terms are one edit from the input; the smaller one wins.
	path := writeTestDictionary(t, "باب\nتاب\n")
	dict := NewDictionary(path)

	if got := dict.Correct("ثاب", 1); got != "باب" {
		t.Errorf("Expected tie to resolve to باب, got %q", got)
	}
}

func TestDictionary_MissingFileDisablesCorrection(t *testing.T) {
	dict := NewDictionary("/nonexistent/terms.txt")

	if dict.Len() != 0 {
		t.Errorf("Expected empty dictionary, got %d terms", dict.Len())
	}
	word := "محكمت"
	if got := dict.Correct(word, 2); got != word {
		t.Errorf("Expected word unchanged with missing dictionary, got %q", got)
	}
}

func TestDictionary_NormalizesTermsOnLoad(t *testing.T) {
	// Terms stored with hamza-carrying alef must match normalized input.
	path := writeTestDictionary(t, "أحكام\n")
	dict := NewDictionary(path)

	word := "احكام"
	if got := dict.Correct(word, 2); got != word {
		t.Errorf("Expected normalized in-dictionary word unchanged, got %q", got)
	}
}

func TestDictionary_Reset(t *testing.T) {
	path := writeTestDictionary(t, "محكمة\n")
	dict := NewDictionary(path)

	if dict.Len() != 1 {
		t.Fatalf("Expected 1 term, got %d", dict.Len())
	}

	if err := os.WriteFile(path, []byte("محكمة\nقانون\n"), 0o644); err != nil {
		t.Fatalf("Failed to rewrite dictionary: %v", err)
	}

	dict.Reset()
	if dict.Len() != 2 {
		t.Errorf("Expected 2 terms after reset, got %d", dict.Len())
	}
}

func TestDictionary_ZeroDistanceDisablesCorrection(t *testing.T) {
	dict := NewDictionary("")
	word := "محكمت"
	if got := dict.Correct(word, 0); got != word {
		t.Errorf("Expected word unchanged with zero distance, got %q", got)
	}
}
