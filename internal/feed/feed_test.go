package feed

import (
	"testing"
	"time"

	"github.com/anonto42/moments/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func post(id, author string, vis models.Visibility, age time.Duration) models.Post {
	return models.Post{ID: id, UserID: author, Visibility: vis, CreatedAt: base.Add(-age), MediaType: models.MediaText}
}

func news(id, region string, age time.Duration) models.Post {
	p := post(id, "bot_"+region, models.VisibilityPublic, age)
	p.Category = models.CategoryNews
	p.SystemGenerated = true
	p.Region = region
	return p
}

func ids(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func fixture() ([]models.Post, *models.User, []models.Contact) {
	viewer := &models.User{ID: "u1", NewsRegion: "JP"}
	posts := []models.Post{
		post("mine", "u1", models.VisibilityFriends, 5*time.Minute),
		post("friend-public", "u2", models.VisibilityPublic, 10*time.Minute),
		post("friend-private", "u3", models.VisibilityFriends, 20*time.Minute),
		post("stranger-public", "u9", models.VisibilityPublic, time.Minute),
		post("stranger-private", "u8", models.VisibilityFriends, 2*time.Minute),
		news("news-jp", "JP", 30*time.Minute),
		news("news-us", "US", 3*time.Minute),
	}
	contacts := []models.Contact{{UserID: "u2"}, {UserID: "u3"}}
	return posts, viewer, contacts
}

func TestComposeNewsFilter(t *testing.T) {
	posts, viewer, contacts := fixture()

	got := Compose(posts, viewer, models.WallNews, contacts)
	assert.Equal(t, []string{"stranger-public", "mine", "friend-public", "friend-private", "news-jp"}, ids(got))
}

func TestComposeFriendsFilter(t *testing.T) {
	posts, viewer, contacts := fixture()

	got := Compose(posts, viewer, models.WallFriends, contacts)
	assert.Equal(t, []string{"mine", "friend-public", "friend-private"}, ids(got))
}

func TestComposeMineFilter(t *testing.T) {
	posts, viewer, contacts := fixture()

	got := Compose(posts, viewer, models.WallMine, contacts)
	assert.Equal(t, []string{"mine"}, ids(got))
}

func TestComposeExcludesBlockedAuthorsUnderEveryFilter(t *testing.T) {
	posts, viewer, contacts := fixture()
	viewer.BlockedUserIDs = []string{"u2", "u9", "bot_JP"}

	for _, f := range []models.WallFilter{models.WallNews, models.WallFriends, models.WallMine} {
		t.Run(string(f), func(t *testing.T) {
			for _, p := range Compose(posts, viewer, f, contacts) {
				assert.NotContains(t, viewer.BlockedUserIDs, p.UserID)
			}
		})
	}
}

func TestComposeRegionSwitchChangesOnlyNews(t *testing.T) {
	posts, viewer, contacts := fixture()

	jp := Compose(posts, viewer, models.WallNews, contacts)
	viewer.NewsRegion = "US"
	us := Compose(posts, viewer, models.WallNews, contacts)

	assert.Contains(t, ids(jp), "news-jp")
	assert.NotContains(t, ids(jp), "news-us")
	assert.Contains(t, ids(us), "news-us")
	assert.NotContains(t, ids(us), "news-jp")
	assert.Len(t, us, len(jp))
}

func TestComposeIsPure(t *testing.T) {
	posts, viewer, contacts := fixture()
	posts[0].Comments = []models.Comment{{ID: "c1"}}

	got := Compose(posts, viewer, models.WallMine, contacts)
	require.Len(t, got, 1)
	got[0].Likes = 100
	got[0].Comments[0].Content = "changed"

	assert.Equal(t, 0, posts[0].Likes)
	assert.Equal(t, "", posts[0].Comments[0].Content)
	assert.Equal(t, "mine", posts[0].ID, "input order untouched")
}

func TestComposeTiesKeepInsertionOrder(t *testing.T) {
	viewer := &models.User{ID: "u1"}
	posts := []models.Post{
		post("a", "u1", models.VisibilityPublic, 0),
		post("b", "u1", models.VisibilityPublic, 0),
		post("c", "u1", models.VisibilityPublic, 0),
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(Compose(posts, viewer, models.WallMine, nil)))
}
