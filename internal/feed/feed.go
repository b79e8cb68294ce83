// Package feed derives the moments wall from raw session state. Compose is
// pure and is recomputed on every read.
package feed

import (
	"sort"

	"github.com/anonto42/moments/backend/internal/models"
)

// Compose returns the posts viewer sees under filter, newest first. Posts by
// blocked authors are always excluded. The returned posts are copies.
func Compose(posts []models.Post, viewer *models.User, filter models.WallFilter, contacts []models.Contact) []models.Post {
	contactIDs := make(map[string]struct{}, len(contacts))
	for _, c := range contacts {
		contactIDs[c.UserID] = struct{}{}
	}
	isContact := func(id string) bool {
		_, ok := contactIDs[id]
		return ok
	}

	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		if viewer.HasBlocked(p.UserID) {
			continue
		}
		if !visible(p, viewer, filter, isContact) {
			continue
		}
		out = append(out, p.Clone())
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func visible(p *models.Post, viewer *models.User, filter models.WallFilter, isContact func(string) bool) bool {
	own := p.UserID == viewer.ID
	switch filter {
	case models.WallMine:
		return own
	case models.WallFriends:
		return own || isContact(p.UserID)
	default:
		if p.IsNews() {
			return p.Region == viewer.NewsRegion
		}
		return p.Visibility == models.VisibilityPublic || isContact(p.UserID) || own
	}
}
