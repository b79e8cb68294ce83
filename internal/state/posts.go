package state

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/anonto42/moments/backend/internal/feed"
	"github.com/anonto42/moments/backend/internal/ledger"
	"github.com/anonto42/moments/backend/internal/models"
)

const mediaPostPlaceholder = "Media Post"

// Feed derives the wall for filter, or for the session's current filter
// when filter is empty.
func (s *Store) Feed(filter models.WallFilter) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	if filter == "" {
		filter = s.wallFilter
	}
	return feed.Compose(s.posts, &s.user, filter, s.contacts)
}

// WallFilter returns the session's current wall filter.
func (s *Store) WallFilter() models.WallFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallFilter
}

func (s *Store) SetWallFilter(filter models.WallFilter) error {
	if !filter.Valid() {
		return fmt.Errorf("unknown wall filter %q", filter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallFilter = filter
	return nil
}

// Post returns a copy of the post with the given id.
func (s *Store) Post(id string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.postIndexLocked(id)
	if i < 0 {
		return models.Post{}, ErrNotFound
	}
	return s.posts[i].Clone(), nil
}

func (s *Store) postIndexLocked(id string) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) checkPostLocked(cost int) error {
	if err := s.guardLocked("post"); err != nil {
		return err
	}
	if s.user.PostsToday >= s.user.MaxPostsPerDay {
		return s.rejectLocked("post", ErrDailyLimit, "Daily post limit reached.")
	}
	if err := ledger.CheckAfford(s.user.Points, cost); err != nil {
		return s.rejectLocked("post", err, fmt.Sprintf("Insufficient Reputation. Need %d pts.", cost))
	}
	return nil
}

// CreatePost charges for, moderates and publishes a post. Unsafe content is
// discarded and penalised.
func (s *Store) CreatePost(ctx context.Context, req models.CreatePostRequest) (models.Post, error) {
	media := req.MediaType
	if media == "" {
		media = models.MediaText
	}
	cost := ledger.PostCost(req.Content, media)

	s.mu.Lock()
	err := s.checkPostLocked(cost)
	s.mu.Unlock()
	if err != nil {
		return models.Post{}, err
	}

	location := s.detectLocation(ctx)
	text := req.Content
	if text == "" {
		text = mediaPostPlaceholder
	}
	verdict := s.gate.Analyze(ctx, text)
	s.metrics.ModerationVerdict("post", verdict.IsSafe, verdict.Fallback)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.Post{}, ErrClosed
	}
	if !verdict.IsSafe {
		s.adjustLocked(ledger.ReasonUnsafePost, -ledger.UnsafePostPenalty, "")
		return models.Post{}, s.rejectLocked("post", ErrUnsafeContent, "Content blocked: Policy violation.")
	}
	// The balance may have moved while the gate was running.
	if err := s.checkPostLocked(cost); err != nil {
		return models.Post{}, err
	}

	allowDownload := true
	if req.AllowDownload != nil {
		allowDownload = *req.AllowDownload
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	post := models.Post{
		ID:            uuid.NewString(),
		UserID:        s.user.ID,
		User:          s.user.ToCompact(),
		Content:       req.Content,
		MediaURL:      req.MediaURL,
		MediaType:     media,
		TopicID:       req.TopicID,
		Category:      models.TrendingLifestyle,
		DeviceName:    s.user.DeviceName,
		Location:      location,
		Region:        s.user.NewsRegion,
		NetworkType:   s.user.NetworkType,
		CreatedAt:     s.now(),
		Comments:      []models.Comment{},
		QualityScore:  verdict.QualityScore,
		Sentiment:     verdict.Sentiment,
		AllowDownload: allowDownload,
		Watermark:     req.Watermark,
		Visibility:    visibility,
	}
	s.posts = append([]models.Post{post}, s.posts...)
	s.adjustLocked(ledger.ReasonPost, -cost, post.ID)
	s.adjustLocked(ledger.ReasonPostReward, ledger.PostReward, post.ID)
	s.user.PostsToday++
	return post.Clone(), nil
}

// AddComment moderates and appends a comment. It needs a minimum balance
// but costs nothing; unsafe comments are penalised and dropped.
func (s *Store) AddComment(ctx context.Context, postID, content string) (models.Comment, error) {
	s.mu.Lock()
	err := s.checkCommentLocked(postID)
	s.mu.Unlock()
	if err != nil {
		return models.Comment{}, err
	}

	verdict := s.gate.Analyze(ctx, content)
	s.metrics.ModerationVerdict("comment", verdict.IsSafe, verdict.Fallback)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.Comment{}, ErrClosed
	}
	if !verdict.IsSafe {
		s.adjustLocked(ledger.ReasonUnsafeComment, -ledger.UnsafeCommentPenalty, postID)
		return models.Comment{}, s.rejectLocked("comment", ErrUnsafeContent, "Comment blocked: Policy violation.")
	}
	if err := s.checkCommentLocked(postID); err != nil {
		return models.Comment{}, err
	}

	c := models.Comment{
		ID:           uuid.NewString(),
		PostID:       postID,
		UserID:       s.user.ID,
		User:         s.user.ToCompact(),
		Content:      content,
		CreatedAt:    s.now(),
		QualityScore: verdict.QualityScore,
	}
	i := s.postIndexLocked(postID)
	s.posts[i].Comments = append(s.posts[i].Comments, c)
	s.user.CommentsToday++
	return c, nil
}

func (s *Store) checkCommentLocked(postID string) error {
	if err := s.guardLocked("comment"); err != nil {
		return err
	}
	if s.postIndexLocked(postID) < 0 {
		return s.rejectLocked("comment", ErrNotFound, "Post not found.")
	}
	if s.user.CommentsToday >= s.user.MaxCommentsPerDay {
		return s.rejectLocked("comment", ErrDailyLimit, "Daily comment limit reached.")
	}
	if err := ledger.CheckAfford(s.user.Points, ledger.CommentMinBalance); err != nil {
		return s.rejectLocked("comment", err, fmt.Sprintf("Need at least %d pts to comment.", ledger.CommentMinBalance))
	}
	return nil
}

// React applies a like, dislike or repost for one point. Every accepted
// attempt is charged and counted; the post's counter and flag change only
// the first time.
func (s *Store) React(postID string, r models.Reaction) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("reaction"); err != nil {
		return models.Post{}, err
	}
	switch r {
	case models.ReactionLike, models.ReactionDislike, models.ReactionRepost:
	default:
		return models.Post{}, fmt.Errorf("unknown reaction %q", r)
	}
	i := s.postIndexLocked(postID)
	if i < 0 {
		return models.Post{}, s.rejectLocked("reaction", ErrNotFound, "Post not found.")
	}
	if err := ledger.CheckAfford(s.user.Points, ledger.ReactionCost); err != nil {
		return models.Post{}, s.rejectLocked("reaction", err, "Insufficient points to interact (-1 pt).")
	}
	if s.user.ActionsToday >= s.user.MaxActionsPerDay {
		return models.Post{}, s.rejectLocked("reaction", ErrDailyLimit, "Daily interaction limit reached.")
	}
	s.posts[i].Apply(r)
	s.adjustLocked(ledger.ReasonReaction, -ledger.ReactionCost, postID)
	s.user.ActionsToday++
	return s.posts[i].Clone(), nil
}

// DeletePost removes one of the viewer's own posts.
func (s *Store) DeletePost(postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("delete_post"); err != nil {
		return err
	}
	i := s.postIndexLocked(postID)
	if i < 0 {
		return s.rejectLocked("delete_post", ErrNotFound, "Post not found.")
	}
	if s.posts[i].UserID != s.user.ID {
		return s.rejectLocked("delete_post", ErrForbidden, "You can only delete your own posts.")
	}
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	s.notifyLocked(models.SeveritySuccess, "Post deleted.")
	return nil
}

// ReportPost removes a post for every viewer of the session.
func (s *Store) ReportPost(postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("report_post"); err != nil {
		return err
	}
	i := s.postIndexLocked(postID)
	if i < 0 {
		return s.rejectLocked("report_post", ErrNotFound, "Post not found.")
	}
	s.notifyLocked(models.SeveritySuccess, "Post reported for review.")
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return nil
}
