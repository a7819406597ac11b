package storage

import (
	"context"

	"github.com/mkarpov/giftcircle/internal/model"
)

// Storage defines the interface for session state persistence. All state is
// scoped to the process lifetime by policy; implementations may still persist
// (the redis backend does) but nothing in the core depends on it.
type Storage interface {
	// Table operations
	SaveTable(ctx context.Context, table *model.Table) error
	GetTable(ctx context.Context, id model.TableID) (*model.Table, error)
	ListTables(ctx context.Context) (map[model.TableID]*model.Table, error)
	DeleteTable(ctx context.Context, id model.TableID) error

	// Referral code operations
	SaveReferral(ctx context.Context, ref *model.ReferralCode) error
	GetReferral(ctx context.Context, code string) (*model.ReferralCode, error)
	ListReferrals(ctx context.Context) ([]*model.ReferralCode, error)
	DeleteReferral(ctx context.Context, code string) error

	// Chat history operations
	AppendChatMessage(ctx context.Context, id model.TableID, msg model.ChatMessage) error
	GetChatHistory(ctx context.Context, id model.TableID) ([]model.ChatMessage, error)
	DeleteChatHistory(ctx context.Context, id model.TableID) error

	// Statistics operations. RecordAdmitted and IncrementSplitTables back the
	// two monotonic counters; both only ever grow.
	RecordAdmitted(ctx context.Context, id model.ParticipantID) error
	AdmittedCount(ctx context.Context) (int, error)
	IncrementSplitTables(ctx context.Context) error
	SplitTableCount(ctx context.Context) (int, error)

	// Admin log operations
	AppendAdminLog(ctx context.Context, entry model.AdminLogEntry) error
	AdminLogs(ctx context.Context) ([]model.AdminLogEntry, error)
}
