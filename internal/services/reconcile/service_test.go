package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/CuteLittleSky/LimboAuth/internal/config"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/mocks"
	"github.com/CuteLittleSky/LimboAuth/internal/model"
	"github.com/CuteLittleSky/LimboAuth/internal/storage/memory"
	"github.com/CuteLittleSky/LimboAuth/internal/testutil"
)

// countingStore wraps the memory storage and counts writes
type countingStore struct {
	*memory.Storage
	updates int
}

func (c *countingStore) Update(ctx context.Context, record *model.CredentialRecord) error {
	c.updates++
	return c.Storage.Update(ctx, record)
}

// failingUpdateStore rejects every update
type failingUpdateStore struct {
	*memory.Storage
}

func (f *failingUpdateStore) Update(ctx context.Context, record *model.CredentialRecord) error {
	return errors.New("storage down")
}

type ServiceSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	store    *countingStore
	settings config.Settings
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.store = &countingStore{Storage: memory.New(s.clock, memory.DefaultConfig())}
	s.settings = config.DefaultSettings()
	s.rebuild()
	s.ctx = context.Background()
}

func (s *ServiceSuite) rebuild() {
	s.service = New(s.store, s.settings, testutil.NopLogger())
}

func (s *ServiceSuite) insert(nickname, identifier string, kind model.IdentityKind) *model.CredentialRecord {
	record := model.NewCredentialRecord(nickname, identifier, "1.2.3.4", kind, s.clock.Now())
	s.Require().NoError(s.store.Insert(s.ctx, record))
	return record
}

func (s *ServiceSuite) stored(name string) *model.CredentialRecord {
	record, err := s.store.FindByLowercaseName(s.ctx, name)
	s.Require().NoError(err)
	return record
}

// Name rewriting

func (s *ServiceSuite) TestUnverifiedNameGetsMarkerPrefixAndDerivedUUID() {
	profile := model.Profile{Name: "Steve", UUID: uuid.New(), OnlineMode: false}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal("OF_Steve", out.Name)
	s.Equal(model.OfflineUUID("OF_Steve"), out.UUID)
}

func (s *ServiceSuite) TestAlreadyPrefixedUnverifiedNameUntouched() {
	original := model.OfflineUUID("OF_Steve")
	profile := model.Profile{Name: "OF_Steve", UUID: original, OnlineMode: false}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal("OF_Steve", out.Name)
	s.Equal(original, out.UUID)
}

func (s *ServiceSuite) TestVerifiedNameGetsOnlinePrefix() {
	s.settings.OnlineModePrefix = "P_"
	s.rebuild()

	id := uuid.New()
	profile := model.Profile{Name: "Steve", UUID: id, OnlineMode: true}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal("P_Steve", out.Name)
	s.Equal(id, out.UUID)
}

func (s *ServiceSuite) TestBridgedNameNeverRewritten() {
	id := uuid.New()
	profile := model.Profile{Name: ".Steve", UUID: id, Bedrock: true}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(".Steve", out.Name)
	s.Equal(id, out.UUID)
}

// Saved-identifier path

func (s *ServiceSuite) TestUnknownPlayerPassesThrough() {
	id := uuid.New()
	profile := model.Profile{Name: "Steve", UUID: id, OnlineMode: true}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(id, out.UUID)
	s.Zero(s.store.updates)
}

func (s *ServiceSuite) TestStoredIdentifierWins() {
	storedID := uuid.New()
	s.insert("Steve", storedID.String(), model.IdentityVerifiedJava)

	incoming := uuid.New()
	profile := model.Profile{Name: "Steve", UUID: incoming, OnlineMode: true}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(storedID, out.UUID)
	s.Zero(s.store.updates)
}

func (s *ServiceSuite) TestEmptyStoredIdentifierIsAdopted() {
	s.insert("Steve", "", model.IdentityVerifiedJava)

	id := uuid.New()
	profile := model.Profile{Name: "Steve", UUID: id, OnlineMode: true}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(id, out.UUID)
	s.Equal(1, s.store.updates)

	record := s.stored("steve")
	s.Equal(id.String(), record.Identifier)
	s.Equal(model.IdentityVerifiedJava, record.IdentityKind)
}

func (s *ServiceSuite) TestEmptyStoredIdentifierAdoptionUnverified() {
	s.insert("OF_Steve", "", model.IdentityUnverifiedJava)

	profile := model.Profile{Name: "Steve", OnlineMode: false}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(model.OfflineUUID("OF_Steve"), out.UUID)

	record := s.stored("of_steve")
	s.Equal(model.OfflineUUID("OF_Steve").String(), record.Identifier)
	s.Equal(model.IdentityUnverifiedJava, record.IdentityKind)
}

func (s *ServiceSuite) TestReconcileIsIdempotent() {
	s.insert("Steve", "", model.IdentityVerifiedJava)

	id := uuid.New()
	profile := model.Profile{Name: "Steve", UUID: id, OnlineMode: true}

	_, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(1, s.store.updates)

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(id, out.UUID)
	s.Equal(1, s.store.updates)
}

// Bridged path

func (s *ServiceSuite) TestBridgedRotatedUUIDRewrittenToStored() {
	storedID := uuid.New()
	s.insert(".Steve", storedID.String(), model.IdentityBridged)

	rotated := uuid.New()
	profile := model.Profile{Name: ".Steve", UUID: rotated, Bedrock: true}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(storedID, out.UUID)
	s.Zero(s.store.updates)
}

func (s *ServiceSuite) TestBridgedNicknameDriftUpdatesOnce() {
	storedID := uuid.New()
	s.insert(".OldName", storedID.String(), model.IdentityBridged)

	profile := model.Profile{Name: ".NewName", UUID: storedID, Bedrock: true}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(storedID, out.UUID)
	s.Equal(1, s.store.updates)

	updated := s.stored(".newname")
	s.Equal(".NewName", updated.Nickname)
	s.Equal(model.IdentityBridged, updated.IdentityKind)

	_, err = s.store.FindByLowercaseName(s.ctx, ".oldname")
	s.ErrorIs(err, model.ErrRecordNotFound)
}

func (s *ServiceSuite) TestBridgedUnknownPlayerPassesThrough() {
	id := uuid.New()
	profile := model.Profile{Name: ".Steve", UUID: id, Bedrock: true}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(id, out.UUID)
	s.Zero(s.store.updates)
}

// No-save-uuid path

func (s *ServiceSuite) TestNoSaveUUIDVerifiedClearsStoredHash() {
	s.settings.SaveUUID = false
	s.rebuild()

	record := s.insert("Steve", "", model.IdentityUnverifiedJava)
	record.Hash = "some-hash"

	id := uuid.New()
	profile := model.Profile{Name: "Steve", UUID: id, OnlineMode: true}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(id, out.UUID)
	s.False(s.stored("steve").HasPassword())
}

func (s *ServiceSuite) TestNoSaveUUIDUnverifiedKeepsHash() {
	s.settings.SaveUUID = false
	s.rebuild()

	record := s.insert("OF_Steve", "", model.IdentityUnverifiedJava)
	record.Hash = "some-hash"

	profile := model.Profile{Name: "Steve", OnlineMode: false}

	out, err := s.service.Reconcile(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal("OF_Steve", out.Name)
	s.True(s.stored("of_steve").HasPassword())
}

// Failure paths

func (s *ServiceSuite) TestUpdateFailureAbortsReconciliation() {
	s.insert("Steve", "", model.IdentityVerifiedJava)
	s.service = New(&failingUpdateStore{Storage: s.store.Storage}, s.settings, testutil.NopLogger())

	profile := model.Profile{Name: "Steve", UUID: uuid.New(), OnlineMode: true}

	_, err := s.service.Reconcile(s.ctx, profile)
	s.ErrorIs(err, model.ErrReconcileUpdate)
}

func (s *ServiceSuite) TestMalformedStoredIdentifier() {
	s.insert("Steve", "not-a-uuid", model.IdentityVerifiedJava)

	profile := model.Profile{Name: "Steve", UUID: uuid.New(), OnlineMode: true}

	_, err := s.service.Reconcile(s.ctx, profile)
	s.Error(err)
}
