package table

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkarpov/giftcircle/internal/dependencies/clock"
	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/storage"
)

// Registry owns table lifecycle and seating. Callers that need multi-step
// table mutations (the split, reconnects) load a table, mutate it, and hand
// it back to Save; the registry keeps single-step operations atomic against
// storage.
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewRegistry creates a new table Registry
func NewRegistry(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "table")),
	}
}

// Create registers a new empty table in the waiting state.
func (r *Registry) Create(ctx context.Context, id model.TableID) (*model.Table, error) {
	now := r.clock.Now()
	table := &model.Table{
		ID:        id,
		Status:    model.TableStatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.storage.SaveTable(ctx, table); err != nil {
		return nil, err
	}

	r.logger.Info("table created", slog.String("table_id", string(id)))
	return table, nil
}

// Get returns the table, or model.ErrTableNotFound.
func (r *Registry) Get(ctx context.Context, id model.TableID) (*model.Table, error) {
	return r.storage.GetTable(ctx, id)
}

// All returns every live table keyed by ID.
func (r *Registry) All(ctx context.Context) (map[model.TableID]*model.Table, error) {
	return r.storage.ListTables(ctx)
}

// Save persists a mutated table and refreshes its UpdatedAt stamp.
func (r *Registry) Save(ctx context.Context, table *model.Table) error {
	table.UpdatedAt = r.clock.Now()
	return r.storage.SaveTable(ctx, table)
}

// Destroy removes a table entirely.
func (r *Registry) Destroy(ctx context.Context, id model.TableID) error {
	if err := r.storage.DeleteTable(ctx, id); err != nil {
		return err
	}
	r.logger.Info("table destroyed", slog.String("table_id", string(id)))
	return nil
}

// Seat adds a participant to the table under the roster invariants and
// returns the updated table. Filling the last seat flips the table active.
// Non-admin participants are recorded in the unique-admissions statistic.
func (r *Registry) Seat(ctx context.Context, id model.TableID, p model.Participant) (*model.Table, error) {
	table, err := r.storage.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}

	if table.IsFull() {
		return nil, model.ErrTableFull
	}
	if !table.CanSeat(p.Role) {
		return nil, fmt.Errorf("%w: no %s seat open on table %s", model.ErrSeatInvalid, p.Role, id)
	}

	p.SeatedAt = r.clock.Now()
	table.Participants = append(table.Participants, p)
	if table.IsFull() {
		table.Status = model.TableStatusActive
	}

	if err := r.Save(ctx, table); err != nil {
		return nil, err
	}

	if !p.IsAdmin {
		if err := r.storage.RecordAdmitted(ctx, p.ID); err != nil {
			return nil, err
		}
	}

	r.logger.Info("participant seated",
		slog.String("table_id", string(id)),
		slog.String("participant_id", string(p.ID)),
		slog.String("role", string(p.Role)),
	)
	return table, nil
}

// Unseat removes a participant from the table and returns the updated table
// along with the removed participant. Removal may leave the roster in a
// state plain admission could not create (a father without a grandfather);
// later seating still goes through CanSeat as usual.
func (r *Registry) Unseat(ctx context.Context, id model.TableID, participantID model.ParticipantID) (*model.Table, *model.Participant, error) {
	table, err := r.storage.GetTable(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	idx := -1
	for i := range table.Participants {
		if table.Participants[i].ID == participantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil, model.ErrParticipantNotFound
	}

	removed := table.Participants[idx]
	table.Participants = append(table.Participants[:idx], table.Participants[idx+1:]...)
	if table.Status == model.TableStatusActive && !table.IsFull() {
		table.Status = model.TableStatusWaiting
	}

	if err := r.Save(ctx, table); err != nil {
		return nil, nil, err
	}

	r.logger.Info("participant unseated",
		slog.String("table_id", string(id)),
		slog.String("participant_id", string(participantID)),
		slog.String("role", string(removed.Role)),
	)
	return table, &removed, nil
}

// FindParticipant locates the table seating the given participant.
func (r *Registry) FindParticipant(ctx context.Context, participantID model.ParticipantID) (*model.Table, *model.Participant, error) {
	tables, err := r.storage.ListTables(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, table := range tables {
		if p := table.GetParticipant(participantID); p != nil {
			return table, p, nil
		}
	}
	return nil, nil, model.ErrParticipantNotFound
}

// Count returns the number of live tables.
func (r *Registry) Count(ctx context.Context) (int, error) {
	tables, err := r.storage.ListTables(ctx)
	if err != nil {
		return 0, err
	}
	return len(tables), nil
}
