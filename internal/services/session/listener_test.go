package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/CuteLittleSky/LimboAuth/internal/config"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/mocks"
	"github.com/CuteLittleSky/LimboAuth/internal/model"
	"github.com/CuteLittleSky/LimboAuth/internal/services/prelogin"
	"github.com/CuteLittleSky/LimboAuth/internal/services/reconcile"
	"github.com/CuteLittleSky/LimboAuth/internal/storage/memory"
	"github.com/CuteLittleSky/LimboAuth/internal/testutil"
)

type idleConnection struct{}

func (idleConnection) Active() bool { return false }

type ListenerSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	sched    *mocks.MockScheduler
	oracle   *mocks.MockOracle
	storage  *memory.Storage
	settings config.Settings
	listener *Listener
	ctx      context.Context
}

func TestListenerSuite(t *testing.T) {
	suite.Run(t, new(ListenerSuite))
}

func (s *ListenerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.sched = mocks.NewMockScheduler()
	s.storage = memory.New(s.clock, memory.DefaultConfig())
	s.settings = config.DefaultSettings()

	s.oracle = mocks.NewMockOracle()

	logger := testutil.NopLogger()
	s.listener = NewListener(
		prelogin.New(s.storage, s.storage, s.sched, s.settings, logger),
		reconcile.New(s.storage, s.settings, logger),
		NewRegistry(),
		s.oracle,
		s.sched,
		s.settings,
		logger,
	)
	s.ctx = context.Background()
}

func (s *ListenerSuite) TestPreLoginPassesThroughDecision() {
	decision, err := s.listener.OnPreLogin(s.ctx, prelogin.Request{
		Username:   ".Steve",
		Origin:     "1.2.3.4",
		Connection: idleConnection{},
	})
	s.Require().NoError(err)
	s.Equal(prelogin.OutcomeDeny, decision.Outcome)
}

func (s *ListenerSuite) TestProfileRequestReconciles() {
	profile := model.Profile{Name: "Steve", OnlineMode: false}

	out, err := s.listener.OnProfileRequest(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal("OF_Steve", out.Name)
	s.Equal(model.OfflineUUID("OF_Steve"), out.UUID)
}

func (s *ListenerSuite) TestProfileRequestClassifiesBridgedIdentifier() {
	id := uuid.MustParse("00000000-0000-0000-0009-01f64f6ae2a3")
	s.oracle.Add(id)

	// Bridged names arrive unverified; classification must prevent the
	// offline-mode rewrite
	profile := model.Profile{Name: ".Steve", UUID: id, OnlineMode: false}

	out, err := s.listener.OnProfileRequest(s.ctx, profile)
	s.Require().NoError(err)
	s.True(out.Bedrock)
	s.Equal(".Steve", out.Name)
	s.Equal(id, out.UUID)
}

func (s *ListenerSuite) TestPostLoginSchedulesPendingCallback() {
	id := uuid.New()
	called := 0
	s.listener.Registry().RegisterPendingCallback(id, func() { called++ })

	s.listener.OnPostLogin(id)
	s.Require().Len(s.sched.Tasks, 1)
	s.Equal(s.settings.PostLoginDelay, s.sched.Tasks[0].Delay)
	s.Zero(called)

	s.sched.FireAll()
	s.Equal(1, called)
}

func (s *ListenerSuite) TestDuplicatePostLoginIsNoop() {
	id := uuid.New()
	called := 0
	s.listener.Registry().RegisterPendingCallback(id, func() { called++ })

	s.listener.OnPostLogin(id)
	s.listener.OnPostLogin(id)

	s.sched.FireAll()
	s.Equal(1, called)
}

func (s *ListenerSuite) TestPostLoginWithoutCallbackSchedulesNothing() {
	s.listener.OnPostLogin(uuid.New())
	s.Empty(s.sched.Tasks)
}

func (s *ListenerSuite) TestDisconnectClearsForcedMemo() {
	s.listener.Registry().MarkForced("Steve")
	s.Require().True(s.listener.Registry().WasForced("Steve"))

	s.listener.OnDisconnect("Steve")
	s.False(s.listener.Registry().WasForced("Steve"))
}
