package businessflow

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
)

// fallbackSlug is used when a title normalizes to nothing (all punctuation,
// for example). Without it, two such titles would produce indistinguishable
// empty slugs and the collision scan could never tell them apart.
const fallbackSlug = "post"

// slugExistsFunc reports whether a slug is already taken, excluding the row
// with excludeID (0 means no exclusion, i.e. a create).
type slugExistsFunc func(ctx context.Context, candidate string, excludeID uint, foldCase bool) (bool, error)

// NormalizeSlug turns a title into a lowercase, hyphen-separated ASCII token.
func NormalizeSlug(title string) string {
	s := slug.Make(title)
	if s == "" {
		return fallbackSlug
	}
	return s
}

// GenerateUniqueSlug normalizes title and disambiguates it against existing
// blog slugs by appending -2, -3, ... until no collision remains. The check
// excludes the entity's own row on updates so an unchanged title keeps its
// slug. Uniqueness holds at the instant of check only; two concurrent writers
// with the same title can both pass the scan, and the database unique index
// is the final arbiter.
func GenerateUniqueSlug(ctx context.Context, title string, excludeID uint, foldCase bool, exists slugExistsFunc) (string, error) {
	base := NormalizeSlug(title)

	candidate := base
	for n := 2; ; n++ {
		taken, err := exists(ctx, candidate, excludeID, foldCase)
		if err != nil {
			return "", fmt.Errorf("failed to check slug uniqueness: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
