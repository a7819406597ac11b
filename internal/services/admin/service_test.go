package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/dependencies/mocks"
	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/services/chat"
	"github.com/mkarpov/giftcircle/internal/services/referral"
	"github.com/mkarpov/giftcircle/internal/services/session"
	"github.com/mkarpov/giftcircle/internal/services/table"
	"github.com/mkarpov/giftcircle/internal/storage/memory"
	"github.com/mkarpov/giftcircle/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	orch    *session.Orchestrator
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	clk := mocks.NewMockClock(time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	hub := broadcast.NewHub(logger)
	broadcaster := broadcast.NewBroadcaster(hub, logger)
	tables := table.NewRegistry(s.storage, clk, logger)
	referrals := referral.NewRegistry(s.storage, clk, rnd, logger)
	chatSvc := chat.NewService(s.storage, clk, logger)
	s.orch = session.NewOrchestrator(tables, referrals, chatSvc, s.storage, broadcaster, clk, rnd, logger)

	service, err := NewService("operator", "winter-secret", s.orch, broadcaster, rnd, logger)
	s.Require().NoError(err)
	s.service = service
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestLoginWithValidCredentials() {
	token, err := s.service.Login("operator", "winter-secret")
	s.Require().NoError(err)
	s.NotEmpty(token)

	sess, err := s.service.GetSession(token)
	s.Require().NoError(err)
	s.Empty(sess.Viewing)
}

func (s *ServiceSuite) TestLoginRejectsBadPassword() {
	_, err := s.service.Login("operator", "wrong")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginRejectsUnknownOperator() {
	_, err := s.service.Login("intruder", "winter-secret")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLogoutInvalidatesSession() {
	token, err := s.service.Login("operator", "winter-secret")
	s.Require().NoError(err)

	s.service.Logout(token)

	_, err = s.service.GetSession(token)
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *ServiceSuite) TestJoinTableTracksViewing() {
	token, err := s.service.Login("operator", "winter-secret")
	s.Require().NoError(err)

	created, err := s.service.CreateFirstTable(s.ctx)
	s.Require().NoError(err)

	view, history, err := s.service.JoinTable(s.ctx, token, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, view.ID)
	s.NotEmpty(history)

	sess, err := s.service.GetSession(token)
	s.Require().NoError(err)
	s.Equal(created.ID, sess.Viewing)
}

func (s *ServiceSuite) TestJoinTableUnknownTable() {
	token, err := s.service.Login("operator", "winter-secret")
	s.Require().NoError(err)

	_, _, err = s.service.JoinTable(s.ctx, token, "nonexistent")
	s.ErrorIs(err, model.ErrTableNotFound)
}

func (s *ServiceSuite) TestGenerateReferralCreditsChosenSon() {
	created, err := s.service.CreateFirstTable(s.ctx)
	s.Require().NoError(err)

	_, err = s.orch.Login(s.ctx, "Fiona", "")
	s.Require().NoError(err)
	son, err := s.orch.Login(s.ctx, "Sam", "")
	s.Require().NoError(err)
	s.Require().Equal(model.RoleSon, son.Role)

	ref, err := s.service.GenerateReferral(s.ctx, created.ID, son.ParticipantID)
	s.Require().NoError(err)
	s.Equal(model.AdminIssuedReferralUses, ref.RemainingUses)
	s.True(ref.AdminIssued)
	s.Equal(son.ParticipantID, ref.SponsorID)
}

func (s *ServiceSuite) TestRemoveParticipant() {
	created, err := s.service.CreateFirstTable(s.ctx)
	s.Require().NoError(err)

	res, err := s.orch.Login(s.ctx, "Fiona", "")
	s.Require().NoError(err)

	err = s.service.RemoveParticipant(s.ctx, created.ID, res.ParticipantID)
	s.Require().NoError(err)

	view, _, err := s.orch.TableWithHistory(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Len(view.Participants, 1)
}

func (s *ServiceSuite) TestChatSpeaksThroughOrchestrator() {
	created, err := s.service.CreateFirstTable(s.ctx)
	s.Require().NoError(err)

	err = s.service.Chat(s.ctx, created.ID, "greetings", true)
	s.Require().NoError(err)

	_, history, err := s.orch.TableWithHistory(s.ctx, created.ID)
	s.Require().NoError(err)
	last := history[len(history)-1]
	s.True(last.IsAdmin)
	s.Equal("greetings", last.Text)
}

func (s *ServiceSuite) TestReplaySnapshotSucceedsWithoutClients() {
	token, err := s.service.Login("operator", "winter-secret")
	s.Require().NoError(err)

	_, err = s.service.CreateFirstTable(s.ctx)
	s.Require().NoError(err)

	// No connected stream: the replay is silently dropped, not an error.
	err = s.service.ReplaySnapshot(s.ctx, token)
	s.Require().NoError(err)
}
