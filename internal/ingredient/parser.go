package ingredient

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parsed is the structured form of one free-text ingredient line.
// Quantity is nil when no leading amount was recognised; Unit is empty when
// no known unit followed the amount.
type Parsed struct {
	Raw            string
	Quantity       *float64
	Unit           string
	Name           string
	Modifiers      []string
	SourceRecipeID int64
}

// HasQuantity reports whether a numeric amount was recognised.
func (p Parsed) HasQuantity() bool {
	return p.Quantity != nil
}

var vulgarFractions = map[rune]float64{
	'½': 1.0 / 2, '⅓': 1.0 / 3, '⅔': 2.0 / 3, '¼': 1.0 / 4, '¾': 3.0 / 4,
	'⅕': 1.0 / 5, '⅖': 2.0 / 5, '⅗': 3.0 / 5, '⅘': 4.0 / 5, '⅙': 1.0 / 6,
	'⅚': 5.0 / 6, '⅛': 1.0 / 8, '⅜': 3.0 / 8, '⅝': 5.0 / 8, '⅞': 7.0 / 8,
}

const vulgarClass = `[½⅓⅔¼¾⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]`

var (
	mixedRe       = regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)`)
	mixedVulgarRe = regexp.MustCompile(`^(\d+)\s*(` + vulgarClass + `)`)
	fractionRe    = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)`)
	vulgarRe      = regexp.MustCompile(`^(` + vulgarClass + `)`)
	decimalRe     = regexp.MustCompile(`^(\d+(?:\.\d+)?|\.\d+)`)
	leadingOfRe   = regexp.MustCompile(`(?i)^of\s+`)
)

type quantityResult struct {
	value    float64
	consumed int
	ok       bool
}

var noQuantity = quantityResult{}

// Parse turns a free-text ingredient line into quantity, unit and a
// normalised name. It never fails: anything it cannot interpret ends up in
// the name, and an empty line yields an empty name.
func Parse(line string, recipeID int64) Parsed {
	p := Parsed{Raw: line, SourceRecipeID: recipeID}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return p
	}

	rest := trimmed
	q := matchQuantity(rest)
	if q.ok {
		after := rest[q.consumed:]
		if !startsCleanly(after) {
			q = noQuantity
		} else {
			rest = strings.TrimLeftFunc(strings.TrimPrefix(after, ","), unicode.IsSpace)
		}
	}

	if q.ok {
		if unit, n := matchUnit(rest); n > 0 {
			p.Unit = unit
			rest = strings.TrimLeftFunc(rest[n:], unicode.IsSpace)
		}
		rest = leadingOfRe.ReplaceAllString(rest, "")
	}

	name, modifiers := splitNotes(rest)
	p.Modifiers = modifiers

	if name == "" {
		// A bare amount such as "2" or "2 cups" has nothing to buy; keep the
		// line as the name rather than inventing one.
		p.Unit = ""
		p.Name = NormalizeName(trimmed)
		return p
	}

	if q.ok {
		v := q.value
		p.Quantity = &v
	}
	p.Name = name
	return p
}

// ParseAll parses every line of a recipe, dropping lines that yield no name.
func ParseAll(lines []string, recipeID int64) []Parsed {
	out := make([]Parsed, 0, len(lines))
	for _, l := range lines {
		if p := Parse(l, recipeID); p.Name != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchQuantity(s string) quantityResult {
	if m := mixedRe.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		num, _ := strconv.ParseFloat(m[2], 64)
		den, _ := strconv.ParseFloat(m[3], 64)
		if den == 0 {
			return noQuantity
		}
		return quantityResult{value: whole + num/den, consumed: len(m[0]), ok: true}
	}
	if m := mixedVulgarRe.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		r, _ := utf8.DecodeRuneInString(m[2])
		return quantityResult{value: whole + vulgarFractions[r], consumed: len(m[0]), ok: true}
	}
	if m := fractionRe.FindStringSubmatch(s); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den == 0 {
			return noQuantity
		}
		return quantityResult{value: num / den, consumed: len(m[0]), ok: true}
	}
	if m := vulgarRe.FindStringSubmatch(s); m != nil {
		r, _ := utf8.DecodeRuneInString(m[1])
		return quantityResult{value: vulgarFractions[r], consumed: len(m[0]), ok: true}
	}
	if m := decimalRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return noQuantity
		}
		return quantityResult{value: v, consumed: len(m[0]), ok: true}
	}
	return noQuantity
}

// startsCleanly rejects amounts glued to other symbols, e.g. "2-3" or "2x4",
// which are ranges or dimensions rather than quantities. A comma directly
// after the amount is allowed when a space or the end of the line follows it
// ("2, chopped onion"); "1,000" is not an amount.
func startsCleanly(after string) bool {
	if after == "" {
		return true
	}
	r, size := utf8.DecodeRuneInString(after)
	if r == ',' {
		next, _ := utf8.DecodeRuneInString(after[size:])
		return len(after) == size || unicode.IsSpace(next)
	}
	return unicode.IsSpace(r) || unicode.IsLetter(r)
}

// matchUnit returns the unit (lower-cased, as written) at the start of s and
// the number of bytes it occupies, including a trailing abbreviation dot.
func matchUnit(s string) (string, int) {
	for _, tok := range unitTokens {
		n := len(tok)
		if len(s) < n || !strings.EqualFold(s[:n], tok) {
			continue
		}
		if n < len(s) {
			r, _ := utf8.DecodeRuneInString(s[n:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
			if r == '.' {
				n++
			}
		}
		return tok, n
	}
	return "", 0
}
