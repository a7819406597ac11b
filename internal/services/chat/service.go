package chat

import (
	"context"
	"log/slog"

	"github.com/mkarpov/giftcircle/internal/dependencies/clock"
	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/storage"
)

// Service manages per-table chat transcripts. It stamps and persists
// messages; fan-out to connected participants is the caller's job, so that
// the caller controls ordering relative to roster updates.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewService creates a new chat Service
func NewService(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "chat")),
	}
}

// AppendUser records a message from a seated participant.
func (s *Service) AppendUser(ctx context.Context, tableID model.TableID, sender string, role model.Role, text string) (model.ChatMessage, error) {
	msg := model.ChatMessage{
		Sender:    sender,
		Role:      role,
		Text:      text,
		Timestamp: s.clock.Now(),
	}
	return msg, s.storage.AppendChatMessage(ctx, tableID, msg)
}

// AppendSystem records a system notice in the table's transcript.
func (s *Service) AppendSystem(ctx context.Context, tableID model.TableID, text string) (model.ChatMessage, error) {
	msg := model.ChatMessage{
		Sender:    model.SystemSender,
		Text:      text,
		IsSystem:  true,
		Timestamp: s.clock.Now(),
	}
	return msg, s.storage.AppendChatMessage(ctx, tableID, msg)
}

// AppendAdmin records an operator message. With a persona name the message
// reads as the table's host grandfather speaking; without one it carries the
// plain Administrator identity and no seat role.
func (s *Service) AppendAdmin(ctx context.Context, tableID model.TableID, personaName string, text string) (model.ChatMessage, error) {
	msg := model.ChatMessage{
		Sender:    model.AdminSender,
		Text:      text,
		IsAdmin:   true,
		Timestamp: s.clock.Now(),
	}
	if personaName != "" {
		msg.Sender = personaName
		msg.Role = model.RoleGrandfather
	}
	return msg, s.storage.AppendChatMessage(ctx, tableID, msg)
}

// History returns the table's transcript in order.
func (s *Service) History(ctx context.Context, tableID model.TableID) ([]model.ChatMessage, error) {
	return s.storage.GetChatHistory(ctx, tableID)
}

// Discard drops a table's transcript. Used when a table is destroyed; the
// transcript does not follow participants to successor tables.
func (s *Service) Discard(ctx context.Context, tableID model.TableID) error {
	s.logger.Info("chat history discarded", slog.String("table_id", string(tableID)))
	return s.storage.DeleteChatHistory(ctx, tableID)
}
