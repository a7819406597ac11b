package referral

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mkarpov/giftcircle/internal/dependencies/clock"
	"github.com/mkarpov/giftcircle/internal/dependencies/random"
	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/storage"
)

const (
	// codePrefix marks every referral token
	codePrefix = "ref-"
	// codeLength is the random part of a referral token
	codeLength = 13
	// codeAlphabet matches base36 tokens
	codeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Registry issues, validates, and consumes admission codes. It never
// broadcasts; callers sequence any fan-out themselves.
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewRegistry creates a new referral Registry
func NewRegistry(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "referral")),
	}
}

// Issue generates a globally unique code sponsored by the given participant.
// Admin-issued codes carry three uses, self-issued codes one. Sponsor-side
// preconditions (role, issuance cap) are the caller's responsibility.
func (r *Registry) Issue(ctx context.Context, sponsorID model.ParticipantID, sponsorName string, tableID model.TableID, adminIssued bool) (*model.ReferralCode, error) {
	var code string
	for {
		code = codePrefix + r.random.String(codeLength, codeAlphabet)
		_, err := r.storage.GetReferral(ctx, code)
		if errors.Is(err, model.ErrInvalidReferral) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	uses := model.SelfIssuedReferralUses
	if adminIssued {
		uses = model.AdminIssuedReferralUses
	}

	ref := &model.ReferralCode{
		Code:          code,
		SponsorID:     sponsorID,
		SponsorName:   sponsorName,
		TableID:       tableID,
		RemainingUses: uses,
		AdminIssued:   adminIssued,
		IssuedAt:      r.clock.Now(),
	}

	if err := r.storage.SaveReferral(ctx, ref); err != nil {
		return nil, err
	}

	r.logger.Info("referral issued",
		slog.String("code", code),
		slog.String("sponsor_id", string(sponsorID)),
		slog.Bool("admin_issued", adminIssued),
	)

	return ref, nil
}

// Lookup returns the code's info, or model.ErrInvalidReferral.
func (r *Registry) Lookup(ctx context.Context, code string) (*model.ReferralCode, error) {
	return r.storage.GetReferral(ctx, code)
}

// Consume decrements the code's remaining uses. A code at zero fails with
// model.ErrReferralExhausted and stays at zero. Whether the sponsor is still
// seated is not checked here.
func (r *Registry) Consume(ctx context.Context, code string) error {
	ref, err := r.storage.GetReferral(ctx, code)
	if err != nil {
		return err
	}

	if ref.RemainingUses <= 0 {
		return model.ErrReferralExhausted
	}

	ref.RemainingUses--
	return r.storage.SaveReferral(ctx, ref)
}

// FindOriginTable resolves a code to the table it admits into.
func (r *Registry) FindOriginTable(ctx context.Context, code string) (model.TableID, error) {
	ref, err := r.storage.GetReferral(ctx, code)
	if err != nil {
		return "", err
	}
	return ref.TableID, nil
}

// CountBySponsor returns how many codes the sponsor has ever issued that are
// still registered. Consumed codes count until purged.
func (r *Registry) CountBySponsor(ctx context.Context, sponsorID model.ParticipantID) (int, error) {
	refs, err := r.storage.ListReferrals(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, ref := range refs {
		if ref.SponsorID == sponsorID {
			n++
		}
	}
	return n, nil
}

// PurgeBySponsors deletes every code sponsored by any of the given
// participants. Called at split time so stale codes cannot reference
// participants who no longer exist at the origin table.
func (r *Registry) PurgeBySponsors(ctx context.Context, sponsorIDs map[model.ParticipantID]struct{}) error {
	refs, err := r.storage.ListReferrals(ctx)
	if err != nil {
		return err
	}

	purged := 0
	for _, ref := range refs {
		if _, ok := sponsorIDs[ref.SponsorID]; !ok {
			continue
		}
		if err := r.storage.DeleteReferral(ctx, ref.Code); err != nil {
			return err
		}
		purged++
	}

	if purged > 0 {
		r.logger.Info("referrals purged", slog.Int("count", purged))
	}
	return nil
}
