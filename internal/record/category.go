package record

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Keyword stems per category. Order in ClassifyCategory matters: every
// inorganic label contains "organic" and negated recyclable labels contain
// "recicl", so inorganic is checked first.
var (
	inorganicStems = []string{
		"inorganic", "no organic", "no-organic", "basura", "rechazo",
		"no recicl", "no-recicl", "no recycl", "non-recycl", "non recycl", "not recycl",
	}
	recyclableStems = []string{"recicl", "recycl", "plastic", "papel", "paper", "carton", "cardboard", "vidrio", "glass", "metal", "lata", "can"}
	organicStems    = []string{"organic", "compost", "comida", "food", "residuo verde"}
)

// ClassifyCategory maps a free-form classification label to one of the four
// categories. It is total: unknown and empty labels map to CategoryOther.
func ClassifyCategory(label string) Category {
	folded := foldLabel(label)
	if folded == "" {
		return CategoryOther
	}

	switch {
	case containsAny(folded, inorganicStems):
		return CategoryInorganic
	case containsAny(folded, recyclableStems):
		return CategoryRecyclable
	case containsAny(folded, organicStems):
		return CategoryOrganic
	default:
		return CategoryOther
	}
}

func containsAny(s string, stems []string) bool {
	for _, stem := range stems {
		if stem == "can" {
			// Short stem: whole word only, "canasta" is not a can.
			if containsWord(s, stem) {
				return true
			}
			continue
		}
		if strings.Contains(s, stem) {
			return true
		}
	}
	return false
}

func containsWord(s, word string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) {
		if f == word || f == word+"s" {
			return true
		}
	}
	return false
}

// foldLabel trims, lowercases and strips diacritics from a label.
func foldLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(label)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(label))
	}
	return folded
}
