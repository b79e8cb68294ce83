package state

import (
	"context"

	"github.com/anonto42/moments/backend/internal/moderation"
)

// Transcribe turns recorded audio into text through the gate.
func (s *Store) Transcribe(ctx context.Context, audio []byte, mimeType string) moderation.Generated {
	return s.gate.Transcribe(ctx, audio, mimeType)
}

// DescribeImage captions an image through the gate.
func (s *Store) DescribeImage(ctx context.Context, image []byte, mimeType string) moderation.Generated {
	return s.gate.DescribeImage(ctx, image, mimeType)
}

// SearchPlaces answers a place query near the viewer's detected location.
func (s *Store) SearchPlaces(ctx context.Context, query string) moderation.Generated {
	s.mu.Lock()
	near := s.user.Location
	s.mu.Unlock()
	return s.gate.SearchPlaces(ctx, query, near)
}
