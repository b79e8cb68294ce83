// Package seed builds the fixed demo data every session starts from.
package seed

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/anonto42/moments/backend/internal/models"
)

const (
	ViewerID      = "u1"
	StartingPoint = 125
	unlimited     = 999999
)

// Regions is the set of news regions, in display order.
var Regions = []string{"US", "UK", "CN", "JP", "EU", "Global"}

var locations = []string{
	"New York, US", "Los Angeles, US",
	"London, UK", "Manchester, UK",
	"Tokyo, JP", "Osaka, JP",
	"Beijing, CN", "Shanghai, CN",
	"Paris, FR", "Berlin, DE", "Sydney, AU",
}

var networkTypes = []string{"5G", "WiFi", "4G", "VPN"}

// DetectLocation picks the simulated IP location for a session.
func DetectLocation(now time.Time) string {
	return locations[now.Minute()%len(locations)]
}

// DetectRegion maps a location to its news region.
func DetectRegion(location string) string {
	switch {
	case strings.Contains(location, "US"):
		return "US"
	case strings.Contains(location, "UK"):
		return "UK"
	case strings.Contains(location, "CN"):
		return "CN"
	case strings.Contains(location, "JP"):
		return "JP"
	case strings.Contains(location, "FR"), strings.Contains(location, "DE"):
		return "EU"
	}
	return "Global"
}

var (
	reIPhone  = regexp.MustCompile(`iPhone`)
	reIPad    = regexp.MustCompile(`iPad`)
	reAndroid = regexp.MustCompile(`Android`)
	reSamsung = regexp.MustCompile(`Samsung`)
	rePixel   = regexp.MustCompile(`Pixel`)
	reMac     = regexp.MustCompile(`Mac`)
	reWin     = regexp.MustCompile(`Win`)
)

// DeviceName derives a display device name from a User-Agent header.
func DeviceName(userAgent string) string {
	switch {
	case reIPhone.MatchString(userAgent):
		return "iPhone 15 Pro"
	case reIPad.MatchString(userAgent):
		return "iPad Pro"
	case reAndroid.MatchString(userAgent):
		if reSamsung.MatchString(userAgent) {
			return "Samsung Galaxy S24"
		}
		if rePixel.MatchString(userAgent) {
			return "Google Pixel 8"
		}
		return "Android Device"
	case reMac.MatchString(userAgent):
		return "MacBook Pro"
	case reWin.MatchString(userAgent):
		return "Windows PC"
	}
	return "ZenDevice"
}

// NetworkType draws a simulated connection type.
func NetworkType(rnd *rand.Rand) string {
	return networkTypes[rnd.Intn(len(networkTypes))]
}

// Viewer returns the demo viewer for a session.
func Viewer(location, device, network string) models.User {
	return models.User{
		ID:                ViewerID,
		Name:              "Alex Chen",
		Handle:            "@alexc",
		Avatar:            "https://picsum.photos/200/200",
		Bio:               "Digital nomad. Exploring the world.",
		Points:            StartingPoint,
		MaxPostsPerDay:    unlimited,
		MaxActionsPerDay:  unlimited,
		MaxCommentsPerDay: unlimited,
		DeviceName:        device,
		Location:          location,
		NewsRegion:        DetectRegion(location),
		NetworkType:       network,
		BlockedUserIDs:    []string{},
		Interests: map[string]int{
			models.TrendingTech:          10,
			models.TrendingLifestyle:     10,
			models.TrendingEntertainment: 10,
			models.TrendingFinance:       10,
		},
	}
}

// Posts returns the user-authored starter posts.
func Posts(now time.Time) []models.Post {
	return []models.Post{
		{
			ID: "p1", UserID: "u2",
			User:    models.UserCompact{ID: "u2", Name: "Sarah Jenkins", Handle: "@sarah_j", Avatar: "https://picsum.photos/201/201", IsVerified: true},
			Content: "Minimalism is not about having less. It’s about making room for more of what matters.",
			MediaType: models.MediaImage, MediaURL: "https://picsum.photos/600/400", Category: models.TrendingLifestyle,
			CreatedAt: now.Add(-time.Hour), Likes: 12, Reposts: 2, Comments: []models.Comment{}, QualityScore: 85,
			DeviceName: "iPhone 14 Pro", Location: "London, UK", NetworkType: "WiFi", AllowDownload: true, Visibility: models.VisibilityPublic,
		},
		{
			ID: "p2", UserID: "u3",
			User:      models.UserCompact{ID: "u3", Name: "Davide Russo", Handle: "@drusso", Avatar: "https://picsum.photos/202/202"},
			Content:   "Just finished a 5k run in Central Park.",
			MediaType: models.MediaText, Category: models.TrendingLifestyle,
			CreatedAt: now.Add(-2 * time.Hour), Likes: 5, Comments: []models.Comment{}, QualityScore: 60,
			DeviceName: "Pixel 7", Location: "New York, US", NetworkType: "5G", AllowDownload: true, Watermark: true, Visibility: models.VisibilityFriends,
		},
		{
			ID: "p_vpn", UserID: "u_vpn",
			User:      models.UserCompact{ID: "u_vpn", Name: "Cyber Nomad", Handle: "@vpn_user", Avatar: "https://picsum.photos/seed/vpn/200/200"},
			Content:   "Accessing the global feed securely.",
			MediaType: models.MediaText, Category: models.TrendingTech,
			CreatedAt: now.Add(-15 * time.Minute), Likes: 42, Reposts: 5, Comments: []models.Comment{}, QualityScore: 80,
			DeviceName: "Linux Terminal", Location: "Unknown Region", NetworkType: "VPN", AllowDownload: true, Visibility: models.VisibilityPublic,
		},
	}
}

type newsSource struct {
	name   string
	handle string
	color  string
}

var newsSources = map[string]newsSource{
	"US":     {"US Daily Wire", "@us_wire", "003366"},
	"UK":     {"London Dispatch", "@uk_news", "b91c1c"},
	"CN":     {"China Focus", "@cn_focus", "d97706"},
	"JP":     {"Japan Today", "@jp_today", "db2777"},
	"EU":     {"Euro Brief", "@eu_brief", "2563eb"},
	"Global": {"World Beat", "@world_beat", "4b5563"},
}

var headlines = map[string][]string{
	"US": {
		"Tech giants announce new AI regulations in Silicon Valley.",
		"Market hits all-time high as renewable energy stocks surge.",
		"New national park conservation efforts approved by Congress.",
		"Major breakthrough in quantum computing announced at MIT.",
	},
	"UK": {
		"London tech week showcases fintech innovations.",
		"Premier League matches draw record viewership this weekend.",
		"Royal Family attends charity gala for ocean preservation.",
		"New high-speed rail link proposed for northern England.",
	},
	"CN": {
		"5G infrastructure expands to rural areas, boosting connectivity.",
		"New electric vehicle models unveiled in Shanghai Auto Show.",
		"Traditional tea culture gaining popularity among Gen Z.",
		"Space station completes new module docking successfully.",
	},
	"JP": {
		"Tokyo Game Show attracts millions of online viewers.",
		"Robotics advancements in elderly care sector shown in Osaka.",
		"Cherry blossom season starts early this year, boosting tourism.",
		"New anime release breaks box office records worldwide.",
	},
	"EU": {
		"European Union agrees on new digital privacy framework.",
		"Paris Fashion Week highlights sustainable clothing trends.",
		"Berlin startup hub attracts major international investment.",
		"Mediterranean cleanup initiative launches with volunteer support.",
	},
	"Global": {
		"Global climate summit reaches new agreement on emissions.",
		"Space tourism takes a leap forward with successful launch.",
		"Digital art sales surge in online marketplaces.",
		"WHO announces decline in tropical diseases globally.",
	},
}

// RegionalNews returns the system-generated news posts for every region.
func RegionalNews(now time.Time, rnd *rand.Rand) []models.Post {
	var out []models.Post
	for _, region := range Regions {
		src := newsSources[region]
		author := models.UserCompact{
			ID:         "bot_" + strings.ToLower(region),
			Name:       src.name,
			Handle:     src.handle,
			Avatar:     fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s&backgroundColor=%s", region, src.color),
			IsVerified: true,
		}
		location := region
		if region == "Global" {
			location = "Worldwide"
		}
		for i, headline := range headlines[region] {
			jitter := time.Duration(rnd.Int63n(int64(1000 * time.Second)))
			out = append(out, models.Post{
				ID:              fmt.Sprintf("news_%s_%d", region, i),
				UserID:          author.ID,
				User:            author,
				Content:         headline,
				MediaType:       models.MediaText,
				Category:        models.CategoryNews,
				DeviceName:      "NewsFeed API",
				Location:        location,
				Region:          region,
				NetworkType:     "Server",
				CreatedAt:       now.Add(-time.Duration(i)*time.Hour - jitter),
				Likes:           rnd.Intn(500) + 50,
				Dislikes:        rnd.Intn(10),
				Reposts:         rnd.Intn(100),
				Comments:        []models.Comment{},
				QualityScore:    100,
				AllowDownload:   true,
				Visibility:      models.VisibilityPublic,
				SystemGenerated: true,
			})
		}
	}
	return out
}

// Contacts returns the starter contact list.
func Contacts() []models.Contact {
	return []models.Contact{
		{UserID: "u2", OriginalName: "Sarah Jenkins", Handle: "@sarah_j", Avatar: "https://picsum.photos/201/201", IsVerified: true, Note: "Design Lead"},
		{UserID: "u3", OriginalName: "Davide Russo", Handle: "@drusso", Avatar: "https://picsum.photos/202/202"},
		{UserID: "g1", OriginalName: "Cat & Dog Lovers", Handle: "@group_1", IsGroup: true},
	}
}

// FriendRequests returns the pending requests addressed to the viewer.
func FriendRequests(now time.Time) []models.FriendRequest {
	return []models.FriendRequest{
		{
			ID:         "fr1",
			FromUserID: "u4",
			FromUser:   models.UserCompact{ID: "u4", Name: "Kenji Sato", Handle: "@movies_plus", Avatar: "https://picsum.photos/204/204"},
			ToUserID:   ViewerID,
			CreatedAt:  now.Add(-100 * time.Second),
			Status:     models.FriendRequestPending,
		},
	}
}

// Messages returns the starter chat history.
func Messages(now time.Time) []models.Message {
	return []models.Message{
		{ID: "m1", SenderID: "u2", ReceiverID: ViewerID, Content: "Hey Alex, loved your post!", Type: models.MediaText, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "m2", SenderID: ViewerID, ReceiverID: "u2", Content: "Thanks Sarah!", Type: models.MediaText, CreatedAt: now.Add(-24*time.Hour + 100*time.Second)},
	}
}

var trendingCategories = []string{
	models.TrendingTech,
	models.TrendingLifestyle,
	models.TrendingEntertainment,
	models.TrendingFinance,
}

// TrendingTopics generates the session's twenty trending topics.
func TrendingTopics(rnd *rand.Rand) []models.TrendingTopic {
	topics := make([]models.TrendingTopic, 0, 20)
	for i := 1; i <= 20; i++ {
		cat := trendingCategories[rnd.Intn(len(trendingCategories))]
		topics = append(topics, models.TrendingTopic{
			ID:          fmt.Sprintf("t%d", i),
			Rank:        i,
			Tag:         fmt.Sprintf("#Topic%d%s", i, cat),
			Heat:        1000000 - int64(i)*20000,
			Description: cat + " discussion",
			Category:    cat,
		})
	}
	return topics
}
