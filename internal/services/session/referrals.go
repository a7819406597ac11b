package session

import (
	"context"

	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/model"
)

// GenerateReferral issues a single-use code sponsored by the calling son.
// A son is good for two codes over their tenure in the role; consumed codes
// still count until a split purges them.
func (o *Orchestrator) GenerateReferral(ctx context.Context, token string) (*model.ReferralCode, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.sessions[token]
	if !ok {
		return nil, model.ErrInvalidSession
	}

	t, err := o.tables.Get(ctx, sess.TableID)
	if err != nil {
		return nil, err
	}

	p := t.GetParticipant(sess.ParticipantID)
	if p == nil {
		return nil, model.ErrParticipantNotFound
	}
	if p.Role != model.RoleSon {
		return nil, model.ErrNotASon
	}

	issued, err := o.referrals.CountBySponsor(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if issued >= model.MaxReferralsPerSon {
		return nil, model.ErrReferralLimit
	}

	ref, err := o.referrals.Issue(ctx, p.ID, p.DisplayName, t.ID, false)
	if err != nil {
		return nil, err
	}

	o.broadcaster.ReferralGenerated(sess.Token, broadcast.ReferralNotice{
		Code:          ref.Code,
		RemainingUses: ref.RemainingUses,
		TableID:       ref.TableID,
	})
	o.appendAdminLog(ctx, "info", p.DisplayName+" issued referral "+ref.Code+" at "+string(t.ID))
	return ref, nil
}
