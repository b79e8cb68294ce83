package state

import (
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/models"
)

const (
	sparkStep        = 5
	sparkMax         = 100
	shareCardPreview = 50
	audioPlaceholder = "Audio Message (3s)"
)

var rpsHands = []struct {
	choice models.RPSChoice
	glyph  string
}{
	{models.RPSRock, "✊"},
	{models.RPSScissors, "✌️"},
	{models.RPSPaper, "✋"},
}

// targetLocked resolves the recipient of a chat action: peer if set,
// otherwise the active chat. Blocked recipients are refused.
func (s *Store) targetLocked(action, peer string) (string, error) {
	if peer == "" {
		peer = s.activeChat
	}
	if peer == "" {
		return "", s.rejectLocked(action, ErrNoActiveChat, "Open a chat first.")
	}
	if s.user.HasBlocked(peer) {
		return "", s.rejectLocked(action, ErrForbidden, "Cannot chat with blocked user.")
	}
	return peer, nil
}

func (s *Store) contactLocked(id string) (int, bool) {
	for i := range s.contacts {
		if s.contacts[i].UserID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) isGroupLocked(id string) bool {
	i, ok := s.contactLocked(id)
	return ok && s.contacts[i].IsGroup
}

func (s *Store) appendMessageLocked(m models.Message) {
	key := m.Key()
	s.conversations[key] = append(s.conversations[key], m)
	s.messageIndex[m.ID] = key
}

// sendLocked appends a message from the viewer. The caller has validated
// target and meta.
func (s *Store) sendLocked(target, content string, t models.MediaType, meta models.MessageMeta) models.Message {
	m := models.Message{
		ID:         uuid.NewString(),
		SenderID:   s.user.ID,
		ReceiverID: target,
		Content:    content,
		Type:       t,
		CreatedAt:  s.now(),
		IsGroup:    s.isGroupLocked(target),
		Meta:       meta,
	}
	s.appendMessageLocked(m)
	if target == s.activeChat {
		s.sparkLevel += sparkStep
		if s.sparkLevel > sparkMax {
			s.sparkLevel = sparkMax
		}
	}
	return m
}

// OpenChat makes peer the active chat and returns the conversation.
func (s *Store) OpenChat(peer string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("open_chat"); err != nil {
		return nil, err
	}
	if peer == "" {
		return nil, s.rejectLocked("open_chat", ErrNotFound, "Pick someone to chat with.")
	}
	if s.user.HasBlocked(peer) {
		return nil, s.rejectLocked("open_chat", ErrForbidden, "Cannot chat with blocked user.")
	}
	s.activeChat = peer
	return s.conversationLocked(peer), nil
}

func (s *Store) CloseChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeChat = ""
}

// ActiveChat returns the peer of the open chat, if any.
func (s *Store) ActiveChat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeChat
}

func (s *Store) SparkLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sparkLevel
}

// SendMessage sends a plain text, image or sticker message.
func (s *Store) SendMessage(peer, content string, t models.MediaType) (models.Message, error) {
	if t == "" {
		t = models.MediaText
	}
	return s.send("send_message", peer, content, t, nil)
}

// RollDice sends a die roll.
func (s *Store) RollDice(peer string) (models.Message, error) {
	s.mu.Lock()
	v := s.rnd.Intn(6) + 1
	s.mu.Unlock()
	return s.send("dice", peer, strconv.Itoa(v), models.MediaDice, models.DiceMeta{Value: v})
}

// PlayRPS throws a random rock-paper-scissors hand.
func (s *Store) PlayRPS(peer string) (models.Message, error) {
	s.mu.Lock()
	hand := rpsHands[s.rnd.Intn(len(rpsHands))]
	s.mu.Unlock()
	return s.send("rps", peer, hand.glyph, models.MediaRPS, models.RPSMeta{Choice: hand.choice})
}

func (s *Store) send(action, peer, content string, t models.MediaType, meta models.MessageMeta) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(action); err != nil {
		return models.Message{}, err
	}
	if err := models.ValidateMeta(t, meta); err != nil {
		return models.Message{}, s.rejectLocked(action, err, "Unsupported message.")
	}
	target, err := s.targetLocked(action, peer)
	if err != nil {
		return models.Message{}, err
	}
	return s.sendLocked(target, content, t, meta), nil
}

// SendAudio records a voice message. It is delivered after the simulated
// processing delay.
func (s *Store) SendAudio(peer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("audio"); err != nil {
		return err
	}
	target, err := s.targetLocked("audio", peer)
	if err != nil {
		return err
	}
	s.sched.After(s.audioDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.user.HasBlocked(target) {
			return
		}
		s.sendLocked(target, audioPlaceholder, models.MediaAudio, nil)
	})
	return nil
}

// ForwardPost shares a post into a conversation as a share card.
func (s *Store) ForwardPost(postID, to string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("forward"); err != nil {
		return models.Message{}, err
	}
	i := s.postIndexLocked(postID)
	if i < 0 {
		return models.Message{}, s.rejectLocked("forward", ErrNotFound, "Post not found.")
	}
	target, err := s.targetLocked("forward", to)
	if err != nil {
		return models.Message{}, err
	}
	p := s.posts[i]
	card := models.ShareCardMeta{
		PostID:  p.ID,
		Title:   p.User.Name + "'s Post",
		Image:   p.MediaURL,
		Summary: p.Content,
	}
	msg := s.sendLocked(target, preview(p.Content, shareCardPreview)+"...", models.MediaShareCard, card)
	s.notifyLocked(models.SeveritySuccess, "Forwarded successfully")
	return msg, nil
}

// ForwardMessage copies an existing message into another conversation.
func (s *Store) ForwardMessage(messageID, to string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("forward"); err != nil {
		return models.Message{}, err
	}
	orig, ok := s.messageLocked(messageID)
	if !ok {
		return models.Message{}, s.rejectLocked("forward", ErrNotFound, "Message not found.")
	}
	target, err := s.targetLocked("forward", to)
	if err != nil {
		return models.Message{}, err
	}
	msg := s.sendLocked(target, orig.Content, orig.Type, orig.Meta)
	s.notifyLocked(models.SeveritySuccess, "Forwarded successfully")
	return msg, nil
}

func (s *Store) messageLocked(id string) (models.Message, bool) {
	key, ok := s.messageIndex[id]
	if !ok {
		return models.Message{}, false
	}
	for _, m := range s.conversations[key] {
		if m.ID == id {
			return m, true
		}
	}
	return models.Message{}, false
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// HideMessage removes a message from this session's conversation views.
// The message itself is kept and can still be forwarded.
func (s *Store) HideMessage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messageIndex[id]; !ok {
		return ErrNotFound
	}
	s.hidden[id] = true
	return nil
}

// Conversation returns the visible messages exchanged with peer, oldest first.
func (s *Store) Conversation(peer string) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationLocked(peer)
}

func (s *Store) conversationLocked(peer string) []models.Message {
	key := models.ConversationKeyFor(s.user.ID, peer, s.isGroupLocked(peer))
	out := make([]models.Message, 0, len(s.conversations[key]))
	for _, m := range s.conversations[key] {
		if !s.hidden[m.ID] {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Conversations lists every conversation with its latest visible message,
// most recent first. Blocked peers are left out.
func (s *Store) Conversations() []models.ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ConversationSummary
	for _, msgs := range s.conversations {
		var last *models.Message
		for i := range msgs {
			if s.hidden[msgs[i].ID] {
				continue
			}
			if last == nil || !msgs[i].CreatedAt.Before(last.CreatedAt) {
				last = &msgs[i]
			}
		}
		if last == nil {
			continue
		}
		peer := last.Peer(s.user.ID)
		if s.user.HasBlocked(peer) {
			continue
		}
		name := peer
		if i, ok := s.contactLocked(peer); ok {
			name = s.contacts[i].DisplayName()
		}
		out = append(out, models.ConversationSummary{
			PeerID:      peer,
			DisplayName: name,
			IsGroup:     last.IsGroup,
			LastMessage: *last,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LastMessage.CreatedAt, out[j].LastMessage.CreatedAt
		if a.Equal(b) {
			return out[i].PeerID < out[j].PeerID
		}
		return a.After(b)
	})
	return out
}

// SetChatBackground sets the chat wallpaper for the session.
func (s *Store) SetChatBackground(bg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = bg
	s.logger.Debug("chat background changed", zap.String("background", bg))
}

func (s *Store) ChatBackground() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}
