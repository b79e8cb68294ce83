package models

import "time"

// MediaType tags both post media and message payloads.
type MediaType string

const (
	MediaText      MediaType = "text"
	MediaImage     MediaType = "image"
	MediaVideo     MediaType = "video"
	MediaAudio     MediaType = "audio"
	MediaSticker   MediaType = "sticker"
	MediaTransfer  MediaType = "transfer"
	MediaDice      MediaType = "dice"
	MediaRPS       MediaType = "rps"
	MediaShareCard MediaType = "share_card"
)

// Visibility controls who may see a user-authored post.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
)

// Sentiment is the tone reported by the moderation gate.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentToxic    Sentiment = "TOXIC"
)

// Valid reports whether s is one of the known sentiments.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentToxic:
		return true
	}
	return false
}

// CategoryNews marks system-generated regional news.
const CategoryNews = "news"

// Post is an entry on the moments wall. Comments are owned by the post.
type Post struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	User            UserCompact `json:"user"`
	Content         string      `json:"content"`
	MediaURL        string      `json:"media_url,omitempty"`
	MediaType       MediaType   `json:"media_type"`
	TopicID         string      `json:"topic_id,omitempty"`
	Category        string      `json:"category,omitempty"`
	DeviceName      string      `json:"device_name,omitempty"`
	Location        string      `json:"location,omitempty"`
	Region          string      `json:"region,omitempty"`
	NetworkType     string      `json:"network_type,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	Likes           int         `json:"likes"`
	Dislikes        int         `json:"dislikes"`
	Reposts         int         `json:"reposts"`
	Comments        []Comment   `json:"comments"`
	QualityScore    int         `json:"quality_score"`
	Sentiment       Sentiment   `json:"sentiment,omitempty"`
	HasLiked        bool        `json:"has_liked"`
	HasDisliked     bool        `json:"has_disliked"`
	HasReposted     bool        `json:"has_reposted"`
	AllowDownload   bool        `json:"allow_download"`
	Watermark       bool        `json:"watermark"`
	Visibility      Visibility  `json:"visibility"`
	SystemGenerated bool        `json:"system_generated,omitempty"`
}

// IsNews reports whether p is seeded regional news.
func (p *Post) IsNews() bool {
	return p.SystemGenerated && p.Category == CategoryNews
}

// Clone copies p including its comment list.
func (p Post) Clone() Post {
	out := p
	out.Comments = append([]Comment(nil), p.Comments...)
	return out
}

// CreatePostRequest defines the request body for composing a post
type CreatePostRequest struct {
	Content       string     `json:"content" validate:"required_without=MediaURL,max=5000"`
	MediaType     MediaType  `json:"media_type,omitempty" validate:"omitempty,oneof=text image video audio"`
	MediaURL      string     `json:"media_url,omitempty" validate:"omitempty,max=2048"`
	TopicID       string     `json:"topic_id,omitempty"`
	AllowDownload *bool      `json:"allow_download,omitempty"`
	Watermark     bool       `json:"watermark"`
	Visibility    Visibility `json:"visibility,omitempty" validate:"omitempty,oneof=public friends"`
}

// ForwardRequest names the recipient of a forwarded post or message.
type ForwardRequest struct {
	To string `json:"to" validate:"required"`
}
