package models

// Trending categories. TrendingAll is a filter value only.
const (
	TrendingAll           = "all"
	TrendingTech          = "tech"
	TrendingLifestyle     = "lifestyle"
	TrendingEntertainment = "entertainment"
	TrendingFinance       = "finance"
)

// TrendingTopic is generated once per session and read-only thereafter.
type TrendingTopic struct {
	ID          string `json:"id" bson:"topic_id"`
	Rank        int    `json:"rank" bson:"rank"`
	Tag         string `json:"tag" bson:"tag"`
	Heat        int64  `json:"heat" bson:"heat"`
	Description string `json:"description" bson:"description"`
	Category    string `json:"category" bson:"category"`
}
