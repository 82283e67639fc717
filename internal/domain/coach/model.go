package coach

import (
	"strings"
	"unicode"
)

// Coach holds state for a staff member who can be assigned to workshops.
// The upstream API is inconsistent about names: older records carry
// Nom/Prenom parts, newer ones a single FullName.
type Coach struct {
	ID         int    `json:"id"`
	Nom        string `json:"nom,omitempty"`
	Prenom     string `json:"prenom,omitempty"`
	FullName   string `json:"fullName,omitempty"`
	Email      string `json:"email,omitempty"`
	Specialite string `json:"specialite,omitempty"`
}

// Draft carries the editable fields of the admin coach form.
type Draft struct {
	FullName   string `json:"fullName" validate:"required,min=2"`
	Email      string `json:"email" validate:"omitempty,email"`
	Specialite string `json:"specialite" validate:"required"`
	Password   string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// DisplayName returns the best available human name for the coach.
// POST: never empty; falls back to "Coach"
func (c Coach) DisplayName() string {
	if full := strings.TrimSpace(c.FullName); full != "" {
		return full
	}
	parts := make([]string, 0, 2)
	if p := strings.TrimSpace(c.Prenom); p != "" {
		parts = append(parts, p)
	}
	if n := strings.TrimSpace(c.Nom); n != "" {
		parts = append(parts, n)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return "Coach"
}

// MatchesSpecialty reports whether the coach's specialty tag matches any of
// the given tags after case/diacritic-insensitive normalization.
func (c Coach) MatchesSpecialty(tags []string) bool {
	own := NormalizeTag(c.Specialite)
	if own == "" {
		return false
	}
	for _, tag := range tags {
		if own == NormalizeTag(tag) {
			return true
		}
	}
	return false
}

// NormalizeTag lowercases a specialty tag, strips the accents the upstream
// data mixes freely (é/è/ê/ë and friends), and folds separators to '_'.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(strings.ToLower(tag))
	var b strings.Builder
	b.Grow(len(tag))
	for _, r := range tag {
		switch {
		case r == ' ' || r == '-':
			b.WriteRune('_')
		case r > unicode.MaxASCII:
			if folded, ok := accentFold[r]; ok {
				b.WriteRune(folded)
			}
			// Unmapped non-ASCII runes are dropped rather than kept, so
			// "bien-être" and "bien_etre" normalize identically.
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var accentFold = map[rune]rune{
	'à': 'a', 'â': 'a', 'ä': 'a', 'á': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'î': 'i', 'ï': 'i', 'í': 'i',
	'ô': 'o', 'ö': 'o', 'ó': 'o',
	'ù': 'u', 'û': 'u', 'ü': 'u', 'ú': 'u',
	'ç': 'c',
}
