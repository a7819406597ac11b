package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/dependencies/random"
	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/services/session"
)

const (
	tokenLength   = 32
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Session is an authenticated operator's session. Viewing tracks which
// table the operator has attached to, if any.
type Session struct {
	Token   string
	Viewing model.TableID
}

// Service authenticates operators and fronts the orchestrator's
// administrative operations. Game state never lives here; this layer owns
// only credentials and operator sessions.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session

	orch        *session.Orchestrator
	broadcaster *broadcast.Broadcaster
	random      random.Random
	logger      *slog.Logger

	login        string
	passwordHash []byte
}

// NewService creates a new admin Service. The password is stored only as a
// bcrypt hash.
func NewService(login, password string, orch *session.Orchestrator, broadcaster *broadcast.Broadcaster, rnd random.Random, logger *slog.Logger) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Service{
		sessions:     make(map[string]*Session),
		orch:         orch,
		broadcaster:  broadcaster,
		random:       rnd,
		logger:       logger.With(slog.String("component", "admin")),
		login:        login,
		passwordHash: hash,
	}, nil
}

// Login checks operator credentials and issues a session token.
func (s *Service) Login(login, password string) (string, error) {
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(s.login)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !loginOK || passwordErr != nil {
		s.logger.Warn("rejected operator login attempt")
		return "", model.ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &Session{Token: s.random.String(tokenLength, tokenAlphabet)}
	s.sessions[sess.Token] = sess

	s.logger.Info("operator logged in")
	return sess.Token, nil
}

// GetSession resolves an operator token, or model.ErrInvalidSession.
func (s *Service) GetSession(token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrInvalidSession
	}
	return sess, nil
}

// Logout forgets an operator session.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// CreateFirstTable bootstraps the first table.
func (s *Service) CreateFirstTable(ctx context.Context) (*model.Table, error) {
	return s.orch.CreateFirstTable(ctx)
}

// JoinTable attaches the operator to a table's view, returning the roster
// and transcript, and mirrors them onto the operator's event stream.
func (s *Service) JoinTable(ctx context.Context, token string, tableID model.TableID) (broadcast.TableView, []model.ChatMessage, error) {
	sess, err := s.GetSession(token)
	if err != nil {
		return broadcast.TableView{}, nil, err
	}

	view, history, err := s.orch.TableWithHistory(ctx, tableID)
	if err != nil {
		return broadcast.TableView{}, nil, err
	}

	s.mu.Lock()
	sess.Viewing = tableID
	s.mu.Unlock()

	s.broadcaster.AdminTableJoined(token, broadcast.AdminTableJoinedNotice{
		Table:       view,
		ChatHistory: history,
	})
	return view, history, nil
}

// RemoveParticipant kicks a participant off a table.
func (s *Service) RemoveParticipant(ctx context.Context, tableID model.TableID, pid model.ParticipantID) error {
	return s.orch.RemoveParticipant(ctx, tableID, pid, "You were removed from the table by an administrator")
}

// GenerateReferral issues a multi-use admission code for a table, credited
// to one of its seated sons.
func (s *Service) GenerateReferral(ctx context.Context, tableID model.TableID, sponsorID model.ParticipantID) (*model.ReferralCode, error) {
	return s.orch.IssueAdminReferral(ctx, tableID, sponsorID)
}

// Chat speaks into a table's chat, optionally under its host persona.
func (s *Service) Chat(ctx context.Context, tableID model.TableID, text string, asPersona bool) error {
	return s.orch.AdminChat(ctx, tableID, text, asPersona)
}

// ConfirmGift confirms a spirit's gift on behalf of a synthesized
// grandfather.
func (s *Service) ConfirmGift(ctx context.Context, tableID model.TableID, spiritID model.ParticipantID) error {
	return s.orch.AdminConfirmGift(ctx, tableID, spiritID)
}

// ReplaySnapshot pushes the current overview, statistics, and the full
// operator log onto one operator's event stream. Called when an operator's
// stream (re)connects so a fresh dashboard is immediately complete.
func (s *Service) ReplaySnapshot(ctx context.Context, token string) error {
	summaries, err := s.orch.Overview(ctx)
	if err != nil {
		return err
	}
	stats, err := s.orch.Stats(ctx)
	if err != nil {
		return err
	}
	logs, err := s.orch.AdminLogs(ctx)
	if err != nil {
		return err
	}

	s.broadcaster.AdminTablesUpdateTo(token, summaries)
	s.broadcaster.AdminStatsUpdateTo(token, stats)
	for _, entry := range logs {
		s.broadcaster.AdminLogTo(token, entry)
	}
	return nil
}
