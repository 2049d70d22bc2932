package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type RecordSuite struct {
	suite.Suite
	now time.Time
}

func TestRecordSuite(t *testing.T) {
	suite.Run(t, new(RecordSuite))
}

func (s *RecordSuite) SetupTest() {
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RecordSuite) TestNewRecordSetsTimestamps() {
	r := NewCredentialRecord("Steve", "uuid-1", "1.2.3.4", IdentityVerifiedJava, s.now)

	s.Equal("Steve", r.Nickname)
	s.Equal("steve", r.LowercaseNickname)
	s.Equal("uuid-1", r.Identifier)
	s.Equal("1.2.3.4", r.IP)
	s.Equal("1.2.3.4", r.LoginIP)
	s.Equal(s.now.UnixMilli(), r.RegisteredAt)
	s.Equal(s.now.UnixMilli(), r.LastLoginAt)
	s.Equal(s.now.UnixMilli(), r.TokenIssuedAt)
}

func (s *RecordSuite) TestSetNicknameKeepsLowercaseInSync() {
	r := &CredentialRecord{}
	r.SetNickname("NotchFan99")

	s.Equal("NotchFan99", r.Nickname)
	s.Equal("notchfan99", r.LowercaseNickname)
}

func (s *RecordSuite) TestDisplayNameFallsBackToLowercase() {
	r := &CredentialRecord{LowercaseNickname: "steve"}
	s.Equal("steve", r.DisplayName())

	r.SetNickname("Steve")
	s.Equal("Steve", r.DisplayName())
}

func (s *RecordSuite) TestSetPasswordHashesAndStampsIssuance() {
	r := &CredentialRecord{}

	err := r.SetPassword("hunter2", bcrypt.MinCost, s.now)
	s.Require().NoError(err)

	s.NotEmpty(r.Hash)
	s.NotEqual("hunter2", r.Hash)
	s.Equal(s.now.UnixMilli(), r.TokenIssuedAt)
	s.True(r.CheckPassword("hunter2"))
	s.False(r.CheckPassword("wrong"))
}

func (s *RecordSuite) TestSetPasswordAdvancesIssuance() {
	r := &CredentialRecord{}
	s.Require().NoError(r.SetPassword("first", bcrypt.MinCost, s.now))
	first := r.TokenIssuedAt

	later := s.now.Add(time.Hour)
	s.Require().NoError(r.SetPassword("second", bcrypt.MinCost, later))

	s.GreaterOrEqual(r.TokenIssuedAt, first)
	s.Equal(later.UnixMilli(), r.TokenIssuedAt)
}

func (s *RecordSuite) TestSetHashAcceptsEmptyString() {
	r := &CredentialRecord{}
	s.Require().NoError(r.SetPassword("hunter2", bcrypt.MinCost, s.now))

	r.SetHash("", s.now.Add(time.Minute))

	s.False(r.HasPassword())
	s.False(r.CheckPassword("hunter2"))
	s.Equal(s.now.Add(time.Minute).UnixMilli(), r.TokenIssuedAt)
}

func (s *RecordSuite) TestTimestampAccessorsNormalizeUnset() {
	r := &CredentialRecord{}

	s.Equal(UnsetMillis, r.RegisteredAtMillis())
	s.Equal(UnsetMillis, r.LastLoginAtMillis())
	s.Equal(UnsetMillis, r.TokenIssuedAtMillis())

	r.RegisteredAt = s.now.UnixMilli()
	s.Equal(s.now.UnixMilli(), r.RegisteredAtMillis())
}

func (s *RecordSuite) TestTotpEnabled() {
	r := &CredentialRecord{}
	s.False(r.TotpEnabled())

	r.TotpToken = "JBSWY3DPEHPK3PXP"
	s.True(r.TotpEnabled())
}
