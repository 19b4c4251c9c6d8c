package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
)

// ParseTagTitles splits a comma-separated tag string into distinct titles.
// Whitespace around each name is trimmed, empty tokens are discarded, and
// duplicates collapse to one entry; insertion order is preserved.
func ParseTagTitles(raw string) []string {
	seen := make(map[string]struct{})
	var titles []string
	for _, token := range strings.Split(raw, ",") {
		title := strings.TrimSpace(token)
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}
	return titles
}

// TagResolver resolves raw tag input into persisted Tag rows and reclaims
// tags that no blog references anymore.
type TagResolver struct {
	tagRepo  repository.TagRepository
	foldCase bool
}

func NewTagResolver(tagRepo repository.TagRepository, foldCase bool) *TagResolver {
	return &TagResolver{tagRepo: tagRepo, foldCase: foldCase}
}

// Resolve turns a comma-separated string into Tag rows, creating any tag
// that does not exist yet. Lookup is by exact title match unless case
// folding is enabled.
func (r *TagResolver) Resolve(ctx context.Context, raw string) ([]models.Tag, error) {
	titles := ParseTagTitles(raw)

	tags := make([]models.Tag, 0, len(titles))
	for _, title := range titles {
		existing, err := r.tagRepo.ByTitle(ctx, title, r.foldCase)
		if err != nil {
			return nil, fmt.Errorf("failed to look up tag %q: %w", title, err)
		}
		if existing != nil {
			tags = append(tags, *existing)
			continue
		}

		tag := &models.Tag{
			Title: title,
			Slug:  NormalizeSlug(title),
		}
		if err := r.tagRepo.Save(ctx, tag); err != nil {
			return nil, fmt.Errorf("failed to create tag %q: %w", title, err)
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// ReclaimOrphans deletes every tag from previous that no blog references
// anymore. It must run only after the new association set has been
// committed; scanning earlier would observe the stale association rows and
// either spare a real orphan or delete a tag another request just attached.
func (r *TagResolver) ReclaimOrphans(ctx context.Context, previous []models.Tag) error {
	for _, tag := range previous {
		refs, err := r.tagRepo.BlogRefCount(ctx, tag.ID)
		if err != nil {
			return fmt.Errorf("failed to count references of tag %q: %w", tag.Title, err)
		}
		if refs == 0 {
			if err := r.tagRepo.Delete(ctx, tag.ID); err != nil {
				return fmt.Errorf("failed to delete orphan tag %q: %w", tag.Title, err)
			}
		}
	}
	return nil
}
