package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CanonicalExercise is the deduplicated identity shared by every user-typed
// variant of one exercise. Name is the display spelling stored by the first writer.
type CanonicalExercise struct {
	Name string
	Key  string
}

// NewCanonicalExercise derives the key for a display name.
func NewCanonicalExercise(name string) CanonicalExercise {
	return CanonicalExercise{Name: name, Key: NormalizationKey(name)}
}

// NormalizationKey is the lookup key for an exercise name: lowercased, accents folded,
// every character outside [a-z0-9] dropped, then a single plural "s" removed.
//
// A trailing "ss" is left alone so that the key is a fixed point:
// NormalizationKey(NormalizationKey(x)) == NormalizationKey(x).
func NormalizationKey(name string) string {
	lowered := strings.ToLower(name)
	// transform.Chain holds state; build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, lowered)
	if err != nil {
		folded = lowered
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	key := b.String()
	if strings.HasSuffix(key, "s") && !strings.HasSuffix(key, "ss") {
		key = key[:len(key)-1]
	}
	return key
}

// SameExercise reports whether two display names resolve to the same canonical identity.
func SameExercise(a, b string) bool {
	return NormalizationKey(a) == NormalizationKey(b)
}
