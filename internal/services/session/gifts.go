package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/model"
)

// SendGift marks the calling spirit's gift as sent. A send from the wrong
// seat or a repeated send is absorbed as a no-op rather than an error: the
// client may be retrying, stale, or confused, and none of those deserve a
// failure response.
func (o *Orchestrator) SendGift(ctx context.Context, token string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.sessions[token]
	if !ok {
		return model.ErrInvalidSession
	}

	t, err := o.tables.Get(ctx, sess.TableID)
	if err != nil {
		return err
	}

	p := t.GetParticipant(sess.ParticipantID)
	if p == nil {
		return model.ErrParticipantNotFound
	}
	if !p.IsSpirit() {
		o.logger.Debug("gift send ignored for non-spirit",
			slog.String("participant_id", string(p.ID)),
			slog.String("role", string(p.Role)),
		)
		return nil
	}
	if p.GiftSent {
		return nil
	}

	p.GiftSent = true
	if err := o.tables.Save(ctx, t); err != nil {
		return err
	}

	o.logger.Info("gift sent",
		slog.String("participant_id", string(p.ID)),
		slog.String("table_id", string(t.ID)),
	)

	if msg, err := o.chat.AppendSystem(ctx, t.ID, p.DisplayName+" sent their gift"); err == nil {
		o.broadcaster.ChatMessage(t.ID, msg)
	}
	if t.AllSpiritsSent() {
		if msg, err := o.chat.AppendSystem(ctx, t.ID, "All gifts are in! Waiting for the grandfather to confirm them."); err == nil {
			o.broadcaster.ChatMessage(t.ID, msg)
		}
	}
	o.broadcaster.TableUpdate(t)
	o.pushAdminState(ctx)
	return nil
}

// ConfirmGift records the grandfather's confirmation of one spirit's gift.
// A confirmation from any other seat is absorbed as a no-op. Confirming the
// fourth gift completes the cycle and splits the table before this call
// returns.
func (o *Orchestrator) ConfirmGift(ctx context.Context, token string, spiritID model.ParticipantID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.sessions[token]
	if !ok {
		return model.ErrInvalidSession
	}

	t, err := o.tables.Get(ctx, sess.TableID)
	if err != nil {
		return err
	}

	actor := t.GetParticipant(sess.ParticipantID)
	if actor == nil {
		return model.ErrParticipantNotFound
	}
	if actor.Role != model.RoleGrandfather {
		o.logger.Debug("gift confirmation ignored for non-grandfather",
			slog.String("participant_id", string(actor.ID)),
			slog.String("role", string(actor.Role)),
		)
		return nil
	}

	return o.confirmGiftLocked(ctx, t, spiritID)
}

// confirmGiftLocked applies a confirmation to a loaded table. The caller
// holds the orchestrator mutex and has authenticated the actor.
func (o *Orchestrator) confirmGiftLocked(ctx context.Context, t *model.Table, spiritID model.ParticipantID) error {
	sp := t.GetParticipant(spiritID)
	if sp == nil {
		return model.ErrParticipantNotFound
	}
	if !sp.IsSpirit() || !sp.GiftSent {
		o.logger.Debug("gift confirmation ignored",
			slog.String("participant_id", string(spiritID)),
			slog.String("role", string(sp.Role)),
			slog.Bool("gift_sent", sp.GiftSent),
		)
		return nil
	}
	if sp.GiftConfirmed {
		return nil
	}

	sp.GiftConfirmed = true
	if err := o.tables.Save(ctx, t); err != nil {
		return err
	}

	o.logger.Info("gift confirmed",
		slog.String("participant_id", string(spiritID)),
		slog.String("table_id", string(t.ID)),
	)

	if msg, err := o.chat.AppendSystem(ctx, t.ID, sp.DisplayName+"'s gift was confirmed"); err == nil {
		o.broadcaster.ChatMessage(t.ID, msg)
	}
	if sess, ok := o.byParticipant[spiritID]; ok {
		o.broadcaster.GiftConfirmed(sess.Token, broadcast.GiftConfirmedNotice{
			SpiritID:   spiritID,
			SpiritName: sp.DisplayName,
		})
	}
	o.broadcaster.TableUpdate(t)

	if t.AllSpiritsConfirmed() {
		if msg, err := o.chat.AppendSystem(ctx, t.ID, "All gifts confirmed. The table is splitting!"); err == nil {
			o.broadcaster.ChatMessage(t.ID, msg)
		}
		if err := o.splitTable(ctx, t); err != nil {
			return err
		}
	}

	o.pushAdminState(ctx)
	return nil
}

// splitTable tears the parent down into two successor tables:
//
//	child 1: father -> grandfather, first son -> father,
//	         first two spirits -> sons
//	child 2: a synthesized admin grandfather, second son -> father,
//	         last two spirits -> sons
//
// The parent's grandfather completes the cycle and leaves the game. Spirits
// promoted to sons have their gift state reset and gain the right to issue
// referrals. Chat does not follow anyone: the parent transcript is dropped
// and each child starts a fresh one.
func (o *Orchestrator) splitTable(ctx context.Context, parent *model.Table) error {
	if parent.Status == model.TableStatusSplit {
		return model.ErrAlreadySplit
	}

	gf := parent.Grandfather()
	father := parent.Father()
	sons := parent.Sons()
	spirits := parent.Spirits()

	if gf == nil || father == nil || len(sons) != model.MaxSons || len(spirits) != model.MaxSpirits {
		o.appendAdminLog(ctx, "warn", "split refused for "+string(parent.ID)+": roster does not cover both successor tables")
		return model.ErrSplitInvariant
	}

	// Codes sponsored at the parent must not admit anyone into tables that
	// no longer exist.
	sponsors := make(map[model.ParticipantID]struct{}, len(parent.Participants))
	for _, p := range parent.Participants {
		sponsors[p.ID] = struct{}{}
	}
	if err := o.referrals.PurgeBySponsors(ctx, sponsors); err != nil {
		return err
	}

	now := o.clock.Now()
	childA := &model.Table{
		ID:        parent.ID + "-1",
		Status:    model.TableStatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
		Participants: []model.Participant{
			promote(*father, model.RoleGrandfather, now),
			promote(sons[0], model.RoleFather, now),
			promoteSpirit(spirits[0], now),
			promoteSpirit(spirits[1], now),
		},
	}
	childB := &model.Table{
		ID:        parent.ID + "-2",
		Status:    model.TableStatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
		Participants: []model.Participant{
			{
				ID:          model.ParticipantID("p-" + o.random.String(participantIDLength, tokenAlphabet)),
				DisplayName: o.random.Pick(grandfatherNamePool),
				Role:        model.RoleGrandfather,
				IsAdmin:     true,
				SeatedAt:    now,
			},
			promote(sons[1], model.RoleFather, now),
			promoteSpirit(spirits[2], now),
			promoteSpirit(spirits[3], now),
		},
	}

	parent.Status = model.TableStatusSplit
	if err := o.tables.Save(ctx, childA); err != nil {
		return err
	}
	if err := o.tables.Save(ctx, childB); err != nil {
		return err
	}

	if err := o.chat.Discard(ctx, parent.ID); err != nil {
		return err
	}
	for _, child := range []*model.Table{childA, childB} {
		if msg, err := o.chat.AppendSystem(ctx, child.ID, "This table formed when "+string(parent.ID)+" completed its cycle"); err == nil {
			o.broadcaster.ChatMessage(child.ID, msg)
		}
	}

	if err := o.tables.Destroy(ctx, parent.ID); err != nil {
		return err
	}
	if err := o.storage.IncrementSplitTables(ctx); err != nil {
		return err
	}

	// The retiring grandfather gets a farewell before their session dies.
	if sess, ok := o.byParticipant[gf.ID]; ok {
		o.broadcaster.TableSplit(sess.Token, broadcast.TableSplitNotice{
			Table:   broadcast.NewTableView(parent),
			Role:    model.RoleGrandfather,
			Message: "The table has split. Your cycle is complete!",
		})
		o.dropSession(sess)
	}

	o.rebindAfterSplit(childA)
	o.rebindAfterSplit(childB)

	o.logger.Info("table split",
		slog.String("parent", string(parent.ID)),
		slog.String("child_a", string(childA.ID)),
		slog.String("child_b", string(childB.ID)),
	)
	o.appendAdminLog(ctx, "info", "table "+string(parent.ID)+" split into "+string(childA.ID)+" and "+string(childB.ID))
	return nil
}

// rebindAfterSplit moves each surviving participant's session and stream to
// the child table and tells them where they landed.
func (o *Orchestrator) rebindAfterSplit(child *model.Table) {
	view := broadcast.NewTableView(child)
	for _, p := range child.Participants {
		if p.IsAdmin {
			continue
		}
		sess, ok := o.byParticipant[p.ID]
		if !ok {
			continue
		}
		sess.TableID = child.ID
		o.broadcaster.MoveSession(sess.Token, child.ID)
		o.broadcaster.TableSplit(sess.Token, broadcast.TableSplitNotice{
			Table:                view,
			Role:                 p.Role,
			CanGenerateReferrals: p.CanGenerateReferrals,
			Message:              "The table has split. You are now a " + string(p.Role) + " at " + string(child.ID) + ".",
		})
	}
	o.broadcaster.TableUpdate(child)
}

// promote reseats a participant under a new role at split time.
func promote(p model.Participant, role model.Role, now time.Time) model.Participant {
	p.Role = role
	p.GiftSent = false
	p.GiftConfirmed = false
	p.SponsorID = ""
	p.SeatedAt = now
	return p
}

// promoteSpirit turns a spirit into a son with a clean gift slate and the
// right to sponsor newcomers.
func promoteSpirit(p model.Participant, now time.Time) model.Participant {
	p = promote(p, model.RoleSon, now)
	p.CanGenerateReferrals = true
	return p
}
