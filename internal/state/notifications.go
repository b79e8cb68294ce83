package state

import (
	"github.com/google/uuid"

	"github.com/anonto42/moments/backend/internal/models"
)

func (s *Store) notifyLocked(severity models.Severity, message string) models.Notification {
	n := models.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: s.now(),
	}
	s.notices = append(s.notices, n)
	if !s.closed {
		s.noticeTimers[n.ID] = s.sched.After(s.noticeTTL, func() { s.expireNotice(n.ID) })
	}
	return n
}

func (s *Store) expireNotice(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.noticeTimers, id)
	s.removeNoticeLocked(id)
}

func (s *Store) removeNoticeLocked(id string) bool {
	for i, n := range s.notices {
		if n.ID == id {
			s.notices = append(s.notices[:i], s.notices[i+1:]...)
			return true
		}
	}
	return false
}

// Notifications returns the toasts that have not expired yet, oldest first.
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.notices...)
}

// DismissNotification removes a toast before it expires.
func (s *Store) DismissNotification(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.noticeTimers[id]; ok {
		h.Cancel()
		delete(s.noticeTimers, id)
	}
	return s.removeNoticeLocked(id)
}
