// Package feed produces the ordered, filtered, paginated view of posts and
// applies engagement mutations (like, edit, delete, local comments).
package feed

import (
	"sort"
	"strings"

	"github.com/dpetrovs/proconnect/internal/client/models"
)

// Sort orders the filtered set by creation time.
type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
)

// MediaFilter restricts posts by attachment classification.
type MediaFilter string

const (
	MediaAll    MediaFilter = "All"
	MediaImages MediaFilter = "Images"
	MediaVideos MediaFilter = "Videos"
)

// Filter is the full set of pipeline inputs. The zero value selects
// everything, newest first.
type Filter struct {
	Search     string
	Category   string
	Visibility string
	Tag        string
	Media      MediaFilter
	Sort       Sort
}

// Apply runs the filter/sort pipeline over posts and returns a new slice.
// It is a pure function: for fixed inputs the output membership and order
// are deterministic. Ties on created_at keep input order (stable sort).
func Apply(posts []models.Post, f Filter) []models.Post {
	out := make([]models.Post, 0, len(posts))

	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, p := range posts {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Content), search) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Visibility != "" && p.Visibility != f.Visibility {
			continue
		}
		if f.Tag != "" && !p.HasTag(f.Tag) {
			continue
		}
		switch f.Media {
		case MediaImages:
			if p.Media() != models.MediaImage {
				continue
			}
		case MediaVideos:
			if p.Media() != models.MediaVideo {
				continue
			}
		}
		out = append(out, p)
	}

	if f.Sort == SortOldest {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	return out
}

// Page truncates the filtered set to page*pageSize items. hasMore reports
// whether anything was cut off. For all page >= 1,
// len(visible) == min(page*pageSize, len(filtered)).
func Page(filtered []models.Post, page, pageSize int) (visible []models.Post, hasMore bool) {
	if page < 1 {
		page = 1
	}
	limit := page * pageSize
	if limit >= len(filtered) {
		return filtered, false
	}
	return filtered[:limit], true
}
