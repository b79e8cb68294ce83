package state

import (
	"github.com/google/uuid"

	"github.com/anonto42/moments/backend/internal/models"
)

// Contacts returns the viewer's contacts.
func (s *Store) Contacts() []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Contact(nil), s.contacts...)
}

// Follow adds a contact. Following an existing contact changes nothing.
func (s *Store) Follow(req models.FollowRequest) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("follow"); err != nil {
		return models.Contact{}, err
	}
	if i, ok := s.contactLocked(req.UserID); ok {
		return s.contacts[i], nil
	}
	if req.UserID == s.user.ID {
		return models.Contact{}, s.rejectLocked("follow", ErrForbidden, "You cannot follow yourself.")
	}
	if s.user.HasBlocked(req.UserID) {
		return models.Contact{}, s.rejectLocked("follow", ErrForbidden, "Cannot follow a blocked user.")
	}
	c := models.Contact{
		UserID:       req.UserID,
		OriginalName: req.Name,
		Handle:       req.Handle,
		Avatar:       req.Avatar,
		IsVerified:   req.IsVerified,
	}
	s.contacts = append(s.contacts, c)
	s.notifyLocked(models.SeveritySuccess, "Following "+req.Name)
	return c, nil
}

// UpdateContactNote sets the display-name override of a contact. An empty
// note restores the original name.
func (s *Store) UpdateContactNote(userID, note string) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("contact_note"); err != nil {
		return models.Contact{}, err
	}
	i, ok := s.contactLocked(userID)
	if !ok {
		return models.Contact{}, s.rejectLocked("contact_note", ErrNotFound, "Contact not found.")
	}
	s.contacts[i].Note = note
	return s.contacts[i], nil
}

func (s *Store) InviteFriend(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("invite"); err != nil {
		return err
	}
	s.notifyLocked(models.SeveritySuccess, "Invite sent! +5 Reputation when they join.")
	return nil
}

// Block adds userID to the blocked set and drops every relation with it in
// one step: the contact, the open chat and pending requests.
func (s *Store) Block(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("block"); err != nil {
		return err
	}
	if userID == "" || userID == s.user.ID {
		return s.rejectLocked("block", ErrForbidden, "You cannot block yourself.")
	}
	s.user.Block(userID)
	if i, ok := s.contactLocked(userID); ok {
		s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
	}
	if s.activeChat == userID {
		s.activeChat = ""
	}
	for i := range s.requests {
		if s.requests[i].FromUserID == userID && s.requests[i].Status == models.FriendRequestPending {
			s.requests[i].Status = models.FriendRequestRejected
		}
	}
	s.notifyLocked(models.SeveritySuccess, "User blocked.")
	return nil
}

// FriendRequests returns the pending requests addressed to the viewer.
func (s *Store) FriendRequests() []models.FriendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pending(s.requests)
}

// SentFriendRequests returns the viewer's pending outgoing requests.
func (s *Store) SentFriendRequests() []models.FriendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pending(s.outgoing)
}

func pending(reqs []models.FriendRequest) []models.FriendRequest {
	out := []models.FriendRequest{}
	for _, r := range reqs {
		if r.Status == models.FriendRequestPending {
			out = append(out, r)
		}
	}
	return out
}

// SendFriendRequest records an outgoing request. Re-sending a pending
// request returns the existing one.
func (s *Store) SendFriendRequest(userID string) (models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("friend_request"); err != nil {
		return models.FriendRequest{}, err
	}
	if _, ok := s.contactLocked(userID); ok {
		return models.FriendRequest{}, s.infoLocked("friend_request", ErrAlreadyContact, "Already friends.")
	}
	if userID == s.user.ID || s.user.HasBlocked(userID) {
		return models.FriendRequest{}, s.rejectLocked("friend_request", ErrForbidden, "Cannot send a request to this user.")
	}
	for _, r := range s.outgoing {
		if r.ToUserID == userID && r.Status == models.FriendRequestPending {
			return r, nil
		}
	}
	req := models.FriendRequest{
		ID:         uuid.NewString(),
		FromUserID: s.user.ID,
		FromUser:   s.user.ToCompact(),
		ToUserID:   userID,
		CreatedAt:  s.now(),
		Status:     models.FriendRequestPending,
	}
	s.outgoing = append(s.outgoing, req)
	s.notifyLocked(models.SeveritySuccess, "Friend Request Sent!")
	return req, nil
}

// AcceptFriendRequest accepts a pending incoming request and adds the
// sender as a contact.
func (s *Store) AcceptFriendRequest(requestID string) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("accept_request"); err != nil {
		return models.Contact{}, err
	}
	i := s.pendingRequestLocked(requestID)
	if i < 0 {
		return models.Contact{}, s.rejectLocked("accept_request", ErrNotFound, "Friend request not found.")
	}
	req := &s.requests[i]
	req.Status = models.FriendRequestAccepted
	c := models.Contact{
		UserID:       req.FromUserID,
		OriginalName: req.FromUser.Name,
		Handle:       req.FromUser.Handle,
		Avatar:       req.FromUser.Avatar,
		IsVerified:   req.FromUser.IsVerified,
	}
	if j, ok := s.contactLocked(c.UserID); ok {
		c = s.contacts[j]
	} else {
		s.contacts = append(s.contacts, c)
	}
	s.notifyLocked(models.SeveritySuccess, "Friend Request Accepted")
	return c, nil
}

// RejectFriendRequest rejects a pending incoming request.
func (s *Store) RejectFriendRequest(requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("reject_request"); err != nil {
		return err
	}
	i := s.pendingRequestLocked(requestID)
	if i < 0 {
		return s.rejectLocked("reject_request", ErrNotFound, "Friend request not found.")
	}
	s.requests[i].Status = models.FriendRequestRejected
	s.notifyLocked(models.SeverityInfo, "Friend Request Rejected")
	return nil
}

func (s *Store) pendingRequestLocked(id string) int {
	for i := range s.requests {
		if s.requests[i].ID == id && s.requests[i].Status == models.FriendRequestPending {
			return i
		}
	}
	return -1
}
