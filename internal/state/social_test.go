package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/moments/backend/internal/models"
)

func TestFollowIdempotent(t *testing.T) {
	s, _ := newTestStore(t, Options{})
	req := models.FollowRequest{UserID: "u9", Name: "Mia Wong", Handle: "@mia"}

	c, err := s.Follow(req)
	require.NoError(t, err)
	assert.Equal(t, "Mia Wong", c.DisplayName())
	_, err = s.Follow(req)
	require.NoError(t, err)

	n := 0
	for _, c := range s.Contacts() {
		if c.UserID == "u9" {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.Len(t, s.Notifications(), 1)
}

func TestFollowBlockedUser(t *testing.T) {
	s, _ := newTestStore(t, Options{})
	require.NoError(t, s.Block("u9"))
	_, err := s.Follow(models.FollowRequest{UserID: "u9", Name: "Mia"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestContactNote(t *testing.T) {
	s, _ := newTestStore(t, Options{})
	c, err := s.UpdateContactNote("u3", "Running buddy")
	require.NoError(t, err)
	assert.Equal(t, "Running buddy", c.DisplayName())
	assert.Equal(t, "Davide Russo", c.OriginalName)

	c, err = s.UpdateContactNote("u3", "")
	require.NoError(t, err)
	assert.Equal(t, "Davide Russo", c.DisplayName())

	_, err = s.UpdateContactNote("u404", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptFriendRequest(t *testing.T) {
	s, _ := newTestStore(t, Options{})

	c, err := s.AcceptFriendRequest("fr1")
	require.NoError(t, err)
	assert.Equal(t, "u4", c.UserID)
	assert.Equal(t, "Kenji Sato", c.OriginalName)
	assert.Empty(t, s.FriendRequests())

	_, err = s.AcceptFriendRequest("fr1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.RejectFriendRequest("fr1"), ErrNotFound)

	friends := s.Feed(models.WallFriends)
	assert.NotEmpty(t, friends)
}

func TestRejectFriendRequest(t *testing.T) {
	s, _ := newTestStore(t, Options{})
	require.NoError(t, s.RejectFriendRequest("fr1"))
	assert.Empty(t, s.FriendRequests())
	for _, c := range s.Contacts() {
		assert.NotEqual(t, "u4", c.UserID)
	}
}

func TestBlockDropsPendingRequests(t *testing.T) {
	s, _ := newTestStore(t, Options{})
	require.NoError(t, s.Block("u4"))
	assert.Empty(t, s.FriendRequests())
}

func TestSendFriendRequest(t *testing.T) {
	s, _ := newTestStore(t, Options{})

	_, err := s.SendFriendRequest("u2")
	assert.ErrorIs(t, err, ErrAlreadyContact)
	notes := s.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, models.SeverityInfo, notes[0].Severity)
	assert.Equal(t, "Already friends.", notes[0].Message)

	req, err := s.SendFriendRequest("u8")
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestPending, req.Status)
	assert.Equal(t, "u1", req.FromUserID)

	again, err := s.SendFriendRequest("u8")
	require.NoError(t, err)
	assert.Equal(t, req.ID, again.ID)
	assert.Len(t, s.SentFriendRequests(), 1)
}
