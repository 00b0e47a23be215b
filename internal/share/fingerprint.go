package share

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/Kerhoff/recipebox/internal/models"
)

var lower = cases.Lower(language.Und)

// Fingerprint identifies a recipe by its content, independent of IDs,
// timestamps, case and Unicode normalization form. Two recipes with the same
// title, ingredients and instructions have the same fingerprint.
func Fingerprint(r *models.Recipe) string {
	var sb strings.Builder
	writeField(&sb, r.Title)
	sb.WriteByte(0x1e)
	for _, l := range r.Ingredients {
		writeField(&sb, l)
	}
	sb.WriteByte(0x1e)
	for _, l := range r.Instructions {
		writeField(&sb, l)
	}
	sum := blake2b.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

func writeField(sb *strings.Builder, s string) {
	s = norm.NFC.String(lower.String(strings.Join(strings.Fields(s), " ")))
	if s == "" {
		return
	}
	sb.WriteString(s)
	sb.WriteByte(0x1f)
}
