package models

// Reaction is a like, dislike or repost. Each is permitted once per viewer per post.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
	ReactionRepost  Reaction = "repost"
)

// Apply records r on p. It returns false, leaving p untouched, when the
// viewer already applied r.
func (p *Post) Apply(r Reaction) bool {
	switch r {
	case ReactionLike:
		if p.HasLiked {
			return false
		}
		p.Likes++
		p.HasLiked = true
	case ReactionDislike:
		if p.HasDisliked {
			return false
		}
		p.Dislikes++
		p.HasDisliked = true
	case ReactionRepost:
		if p.HasReposted {
			return false
		}
		p.Reposts++
		p.HasReposted = true
	default:
		return false
	}
	return true
}

// CreateReactionRequest defines the request body for reacting to a post
type CreateReactionRequest struct {
	Type Reaction `json:"type" validate:"required,oneof=like dislike repost"`
}
