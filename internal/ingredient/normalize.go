package ingredient

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// prepModifiers are stripped from names because they do not change what is
// bought. "minced" is deliberately absent: minced garlic is sold as such.
var prepModifiers = map[string]bool{
	"diced":    true,
	"chopped":  true,
	"shredded": true,
	"sliced":   true,
	"cubed":    true,
}

const edgePunct = " \t,;:.-–()[]*"

// parenRe also takes an unclosed parenthetical running to the end of the line.
var parenRe = regexp.MustCompile(`\([^)]*(?:\)|$)`)

// NormalizeName lower-cases, NFC-normalizes and collapses whitespace so that
// names from different recipes compare equal.
func NormalizeName(s string) string {
	s = norm.NFC.String(s)
	s = lower.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, edgePunct)
}

// stripModifiers removes preparation words as whole tokens, ignoring case and
// surrounding punctuation. It returns the cleaned text and the removed words.
func stripModifiers(text string) (string, []string) {
	tokens := strings.Fields(text)
	kept := tokens[:0:0]
	var removed []string
	for _, tok := range tokens {
		core := lower.String(strings.Trim(tok, edgePunct))
		if prepModifiers[core] {
			removed = append(removed, core)
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " "), removed
}

// IsPrepModifier reports whether word would be stripped by the parser.
func IsPrepModifier(word string) bool {
	return prepModifiers[lower.String(strings.TrimSpace(word))]
}

// splitNotes separates the ingredient name from the notes written around it.
// Parentheticals are dropped and the name ends at the first comma that
// follows it, so "salt, to taste" and "salt, divided" name "salt". Commas
// before the name only separate preparation words ("chopped, sliced onions").
// Preparation words, trailing segments and parentheticals are returned as
// modifiers in that order. When cutting leaves no name the whole text is
// normalised instead and no modifiers are reported.
func splitNotes(text string) (string, []string) {
	var notes []string
	body := parenRe.ReplaceAllStringFunc(text, func(m string) string {
		if n := NormalizeName(m); n != "" {
			notes = append(notes, n)
		}
		return " "
	})

	var modifiers []string
	segments := splitCommas(body)
	for i, seg := range segments {
		stripped, removed := stripModifiers(seg)
		modifiers = append(modifiers, removed...)
		name := NormalizeName(stripped)
		if name == "" {
			continue
		}
		for _, tail := range segments[i+1:] {
			if t := NormalizeName(tail); t != "" {
				modifiers = append(modifiers, t)
			}
		}
		return name, append(modifiers, notes...)
	}
	return NormalizeName(text), nil
}

// splitCommas splits on commas except those between two digits, which are
// thousands separators.
func splitCommas(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		if i > 0 && i+1 < len(s) && isDigit(s[i-1]) && isDigit(s[i+1]) {
			continue
		}
		out = append(out, s[start:i])
		start = i + 1
	}
	return append(out, s[start:])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
