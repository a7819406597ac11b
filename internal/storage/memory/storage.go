package memory

import (
	"context"
	"sync"

	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	tables      map[model.TableID]*model.Table
	referrals   map[string]*model.ReferralCode
	chat        map[model.TableID][]model.ChatMessage
	admitted    map[model.ParticipantID]struct{}
	splitTables int
	adminLogs   []model.AdminLogEntry
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		tables:    make(map[model.TableID]*model.Table),
		referrals: make(map[string]*model.ReferralCode),
		chat:      make(map[model.TableID][]model.ChatMessage),
		admitted:  make(map[model.ParticipantID]struct{}),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Table operations

func (s *Storage) SaveTable(ctx context.Context, table *model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table.ID] = table
	return nil
}

func (s *Storage) GetTable(ctx context.Context, id model.TableID) (*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table, ok := s.tables[id]
	if !ok {
		return nil, model.ErrTableNotFound
	}
	return table, nil
}

func (s *Storage) ListTables(ctx context.Context) (map[model.TableID]*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.TableID]*model.Table, len(s.tables))
	for id, t := range s.tables {
		out[id] = t
	}
	return out, nil
}

func (s *Storage) DeleteTable(ctx context.Context, id model.TableID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
	return nil
}

// Referral code operations

func (s *Storage) SaveReferral(ctx context.Context, ref *model.ReferralCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referrals[ref.Code] = ref
	return nil
}

func (s *Storage) GetReferral(ctx context.Context, code string) (*model.ReferralCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.referrals[code]
	if !ok {
		return nil, model.ErrInvalidReferral
	}
	return ref, nil
}

func (s *Storage) ListReferrals(ctx context.Context) ([]*model.ReferralCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.ReferralCode, 0, len(s.referrals))
	for _, ref := range s.referrals {
		out = append(out, ref)
	}
	return out, nil
}

func (s *Storage) DeleteReferral(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.referrals, code)
	return nil
}

// Chat history operations

func (s *Storage) AppendChatMessage(ctx context.Context, id model.TableID, msg model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat[id] = append(s.chat[id], msg)
	return nil
}

func (s *Storage) GetChatHistory(ctx context.Context, id model.TableID) ([]model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.chat[id]
	out := make([]model.ChatMessage, len(history))
	copy(out, history)
	return out, nil
}

func (s *Storage) DeleteChatHistory(ctx context.Context, id model.TableID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chat, id)
	return nil
}

// Statistics operations

func (s *Storage) RecordAdmitted(ctx context.Context, id model.ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admitted[id] = struct{}{}
	return nil
}

func (s *Storage) AdmittedCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.admitted), nil
}

func (s *Storage) IncrementSplitTables(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.splitTables++
	return nil
}

func (s *Storage) SplitTableCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.splitTables, nil
}

// Admin log operations

func (s *Storage) AppendAdminLog(ctx context.Context, entry model.AdminLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminLogs = append(s.adminLogs, entry)
	return nil
}

func (s *Storage) AdminLogs(ctx context.Context) ([]model.AdminLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AdminLogEntry, len(s.adminLogs))
	copy(out, s.adminLogs)
	return out, nil
}
