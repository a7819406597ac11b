package session

import (
	"context"
	"log/slog"

	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/model"
)

// The operations below are invoked on behalf of an authenticated operator.
// They run under the same mutex as participant events, so an admin kick
// cannot race a split.

// CreateFirstTable bootstraps the game: one table, hosted by a synthesized
// grandfather persona. Refused once any table exists.
func (o *Orchestrator) CreateFirstTable(ctx context.Context) (*model.Table, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	count, err := o.tables.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, model.ErrTablesExist
	}

	t, err := o.tables.Create(ctx, firstTableID)
	if err != nil {
		return nil, err
	}

	host := model.Participant{
		ID:          model.ParticipantID("p-" + o.random.String(participantIDLength, tokenAlphabet)),
		DisplayName: o.random.Pick(grandfatherNamePool),
		Role:        model.RoleGrandfather,
		IsAdmin:     true,
	}
	t, err = o.tables.Seat(ctx, t.ID, host)
	if err != nil {
		return nil, err
	}

	if msg, err := o.chat.AppendSystem(ctx, t.ID, host.DisplayName+" opened the table"); err == nil {
		o.broadcaster.ChatMessage(t.ID, msg)
	}
	o.appendAdminLog(ctx, "info", "first table created, hosted by "+host.DisplayName)
	o.pushAdminState(ctx)
	return t, nil
}

// RemoveParticipant forcibly vacates a seat. The removed participant is
// told why, their session dies, and the seat opens up again. Removal may
// leave a roster no admission sequence could produce; the game carries on.
func (o *Orchestrator) RemoveParticipant(ctx context.Context, tableID model.TableID, pid model.ParticipantID, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	t, removed, err := o.tables.Unseat(ctx, tableID, pid)
	if err != nil {
		return err
	}

	if sess, ok := o.byParticipant[pid]; ok {
		o.broadcaster.Kicked(sess.Token, reason)
		o.dropSession(sess)
	}

	o.logger.Info("participant removed by operator",
		slog.String("participant_id", string(pid)),
		slog.String("table_id", string(tableID)),
	)

	if msg, err := o.chat.AppendSystem(ctx, t.ID, removed.DisplayName+" was removed from the table"); err == nil {
		o.broadcaster.ChatMessage(t.ID, msg)
	}
	o.broadcaster.TableUpdate(t)
	o.appendAdminLog(ctx, "warn", removed.DisplayName+" removed from "+string(tableID))
	o.pushAdminState(ctx)
	return nil
}

// IssueAdminReferral creates a three-use code attributed to a seated son of
// the operator's choosing. The code bypasses the son's self-service cap but
// still dies with him if he leaves, like any sponsored code. The sponsor is
// told about his windfall if he is connected.
func (o *Orchestrator) IssueAdminReferral(ctx context.Context, tableID model.TableID, sponsorID model.ParticipantID) (*model.ReferralCode, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	t, err := o.tables.Get(ctx, tableID)
	if err != nil {
		return nil, err
	}
	sponsor := t.GetParticipant(sponsorID)
	if sponsor == nil {
		return nil, model.ErrParticipantNotFound
	}
	if sponsor.Role != model.RoleSon {
		return nil, model.ErrNotASon
	}

	ref, err := o.referrals.Issue(ctx, sponsor.ID, sponsor.DisplayName, t.ID, true)
	if err != nil {
		return nil, err
	}

	if sess, ok := o.byParticipant[sponsor.ID]; ok {
		o.broadcaster.ReferralGenerated(sess.Token, broadcast.ReferralNotice{
			Code:          ref.Code,
			RemainingUses: ref.RemainingUses,
			TableID:       ref.TableID,
		})
	}

	o.appendAdminLog(ctx, "info", "admin referral "+ref.Code+" issued for "+string(tableID)+", sponsored by "+sponsor.DisplayName)
	return ref, nil
}

// AdminChat speaks into a table's chat. With asPersona set the message is
// voiced by the table's synthesized host grandfather when one is seated;
// otherwise, and on tables hosted by a real player, it appears under the
// plain Administrator identity.
func (o *Orchestrator) AdminChat(ctx context.Context, tableID model.TableID, text string, asPersona bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	t, err := o.tables.Get(ctx, tableID)
	if err != nil {
		return err
	}

	persona := ""
	if asPersona {
		if gf := t.Grandfather(); gf != nil && gf.IsAdmin {
			persona = gf.DisplayName
		}
	}

	msg, err := o.chat.AppendAdmin(ctx, t.ID, persona, text)
	if err != nil {
		return err
	}
	o.broadcaster.ChatMessage(t.ID, msg)
	return nil
}

// AdminConfirmGift confirms a spirit's gift on a table whose grandfather is
// a synthesized persona with no client of its own.
func (o *Orchestrator) AdminConfirmGift(ctx context.Context, tableID model.TableID, spiritID model.ParticipantID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	t, err := o.tables.Get(ctx, tableID)
	if err != nil {
		return err
	}
	return o.confirmGiftLocked(ctx, t, spiritID)
}

// TableWithHistory returns a table's roster view alongside its transcript.
func (o *Orchestrator) TableWithHistory(ctx context.Context, tableID model.TableID) (broadcast.TableView, []model.ChatMessage, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	t, err := o.tables.Get(ctx, tableID)
	if err != nil {
		return broadcast.TableView{}, nil, err
	}
	history, err := o.chat.History(ctx, tableID)
	if err != nil {
		return broadcast.TableView{}, nil, err
	}
	return broadcast.NewTableView(t), history, nil
}

// Overview returns the admin table summaries, oldest table first.
func (o *Orchestrator) Overview(ctx context.Context) ([]broadcast.AdminTableSummary, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.overviewLocked(ctx)
}

// Stats returns the current game statistics.
func (o *Orchestrator) Stats(ctx context.Context) (model.GameStats, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.statsLocked(ctx)
}

// AdminLogs returns the full operator log, oldest first.
func (o *Orchestrator) AdminLogs(ctx context.Context) ([]model.AdminLogEntry, error) {
	return o.storage.AdminLogs(ctx)
}

func (o *Orchestrator) overviewLocked(ctx context.Context) ([]broadcast.AdminTableSummary, error) {
	tables, err := o.tables.All(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]broadcast.AdminTableSummary, 0, len(tables))
	for _, t := range sortTables(tables) {
		summaries = append(summaries, broadcast.NewAdminTableSummary(t))
	}
	return summaries, nil
}

func (o *Orchestrator) statsLocked(ctx context.Context) (model.GameStats, error) {
	tables, err := o.tables.All(ctx)
	if err != nil {
		return model.GameStats{}, err
	}

	seated := 0
	for _, t := range tables {
		for _, p := range t.Participants {
			if !p.IsAdmin {
				seated++
			}
		}
	}

	total, err := o.storage.AdmittedCount(ctx)
	if err != nil {
		return model.GameStats{}, err
	}
	split, err := o.storage.SplitTableCount(ctx)
	if err != nil {
		return model.GameStats{}, err
	}

	return model.GameStats{
		ActiveTables:       len(tables),
		SplitTables:        split,
		TotalParticipants:  total,
		SeatedParticipants: seated,
	}, nil
}

// pushAdminState fans the current overview and statistics out to the admin
// room. Failures are logged and swallowed: operator dashboards lag rather
// than failing the participant's operation.
func (o *Orchestrator) pushAdminState(ctx context.Context) {
	summaries, err := o.overviewLocked(ctx)
	if err != nil {
		o.logger.Error("failed to build admin overview", slog.String("error", err.Error()))
		return
	}
	o.broadcaster.AdminTablesUpdate(summaries)

	stats, err := o.statsLocked(ctx)
	if err != nil {
		o.logger.Error("failed to build admin stats", slog.String("error", err.Error()))
		return
	}
	o.broadcaster.AdminStatsUpdate(stats)
}

// appendAdminLog records and fans out one operator log entry.
func (o *Orchestrator) appendAdminLog(ctx context.Context, level, message string) {
	entry := model.AdminLogEntry{
		Message:   message,
		Level:     level,
		Timestamp: o.clock.Now(),
	}
	if err := o.storage.AppendAdminLog(ctx, entry); err != nil {
		o.logger.Error("failed to persist admin log entry", slog.String("error", err.Error()))
	}
	o.broadcaster.AdminLog(entry)
}
