package slug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make - URL-safe ASCII slug. Accents are folded ("Pokhará" -> "pokhara");
// scripts without an ASCII form are dropped, so the result may be empty.
func Make(name string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// MakeOr - Make with a fallback for names that produce an empty slug
func MakeOr(name, fallback string) string {
	if s := Make(name); s != "" {
		return s
	}
	return Make(fallback)
}

// Resolve - base when free, otherwise base-N with the smallest free N >= 1
func Resolve(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}

	if _, ok := used[base]; !ok {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}

// Suffix - numeric suffix of s relative to base: 0 for base itself, -1 when unrelated
func Suffix(base, s string) int {
	if s == base {
		return 0
	}
	rest, ok := strings.CutPrefix(s, base+"-")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return -1
	}
	return n
}
