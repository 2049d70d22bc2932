package prelogin

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/CuteLittleSky/LimboAuth/internal/config"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/scheduler"
	"github.com/CuteLittleSky/LimboAuth/internal/model"
	"github.com/CuteLittleSky/LimboAuth/internal/storage"
)

// Outcome is the mode decision for an incoming connection attempt
type Outcome string

const (
	// OutcomeDeny rejects the connection before any handshake
	OutcomeDeny Outcome = "deny"
	// OutcomeForceVerified requires the proxy's cryptographic handshake
	OutcomeForceVerified Outcome = "force_verified"
	// OutcomeForceUnverified accepts the asserted name without verification
	OutcomeForceUnverified Outcome = "force_unverified"
)

// Connection is the probe the engine uses to ask, at delayed-check time,
// whether the connection it decided on is still alive. A connection that
// completed verification in the interim must not be marked as a failure.
type Connection interface {
	Active() bool
}

// Request describes one connection attempt before any record exists
type Request struct {
	Username    string
	Origin      string // network origin (remote host)
	VirtualHost string // host the client used to reach the proxy
	Connection  Connection
}

// Decision is the engine's verdict. Username carries the effective name
// the connection continues with; on the downgrade path it has the
// offline-mode marker prefix prepended so the unverified identity
// namespace cannot collide with the verified one.
type Decision struct {
	Outcome  Outcome
	Username string
	Reason   string // set when Outcome is OutcomeDeny
}

// Service decides verified-vs-unverified mode for incoming connections
type Service struct {
	store    storage.RecordStore
	failures storage.FailureCache
	sched    scheduler.Scheduler
	settings config.Settings
	logger   *slog.Logger
}

// New creates a new pre-login decision service
func New(store storage.RecordStore, failures storage.FailureCache, sched scheduler.Scheduler, settings config.Settings, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		failures: failures,
		sched:    sched,
		settings: settings,
		logger:   logger,
	}
}

// Decide applies the mode-selection rules in order, first match wins.
// Storage failures on the record lookup abort the attempt; failure-cache
// errors are degraded to "no signal" since entries are only advisory.
func (s *Service) Decide(ctx context.Context, req Request) (Decision, error) {
	if s.settings.BedrockPrefix != "" &&
		strings.HasPrefix(strings.ToLower(req.Username), strings.ToLower(s.settings.BedrockPrefix)) {
		return Decision{
			Outcome:  OutcomeDeny,
			Username: req.Username,
			Reason:   model.ErrReservedNicknamePrefix.Error(),
		}, nil
	}

	if s.settings.OfflineModeHost != "" && strings.Contains(req.VirtualHost, s.settings.OfflineModeHost) {
		return Decision{Outcome: OutcomeForceUnverified, Username: req.Username}, nil
	}

	if s.settings.OnlyOfflineMode {
		return Decision{Outcome: OutcomeForceUnverified, Username: req.Username}, nil
	}

	// A name that already failed verification was re-injected with the
	// marker prefix; it must not hit the failure-cache check again.
	if s.settings.OfflineModePrefix != "" && strings.HasPrefix(req.Username, s.settings.OfflineModePrefix) {
		return Decision{Outcome: OutcomeForceUnverified, Username: req.Username}, nil
	}

	if s.settings.FailureCacheEnabled {
		if decision, decided, err := s.decideFromFailureCache(ctx, req); err != nil {
			return Decision{}, err
		} else if decided {
			return decision, nil
		}
	}

	// Default to verified mode. Remember the attempt if the connection is
	// still pending once the handshake should have completed; only that
	// memo lets a second identical attempt downgrade.
	if s.settings.FailureCacheEnabled {
		s.scheduleFailureCheck(req)
	}
	return Decision{Outcome: OutcomeForceVerified, Username: req.Username}, nil
}

// decideFromFailureCache handles the one-observed-failure downgrade path.
// The second return value reports whether the cache produced a decision.
func (s *Service) decideFromFailureCache(ctx context.Context, req Request) (Decision, bool, error) {
	lastName, ok, err := s.failures.GetFailure(ctx, req.Origin)
	if err != nil {
		// Entries are best-effort; a cache fault reads as "no prior attempt"
		s.logger.Warn("failure cache read failed",
			slog.String("origin", req.Origin),
			slog.String("error", err.Error()))
		return Decision{}, false, nil
	}
	if !ok || lastName != req.Username {
		return Decision{}, false, nil
	}

	record, err := s.store.FindByLowercaseName(ctx, strings.ToLower(req.Username))
	if err != nil && !errors.Is(err, model.ErrRecordNotFound) {
		return Decision{}, false, err
	}
	if record != nil && record.IdentityKind == model.IdentityVerifiedJava {
		// A known premium name never downgrades, even after an observed
		// failure; otherwise a spoofer could force it offline by failing
		// verification on purpose.
		return Decision{Outcome: OutcomeForceVerified, Username: req.Username}, true, nil
	}

	if err := s.failures.InvalidateFailure(ctx, req.Origin); err != nil {
		s.logger.Warn("failure cache invalidate failed",
			slog.String("origin", req.Origin),
			slog.String("error", err.Error()))
	}
	return Decision{
		Outcome:  OutcomeForceUnverified,
		Username: s.settings.OfflineModePrefix + req.Username,
	}, true, nil
}

// scheduleFailureCheck arms the delayed "verification never completed"
// memo for this attempt. The task is never cancelled; it re-checks the
// connection at fire time instead.
func (s *Service) scheduleFailureCheck(req Request) {
	conn := req.Connection
	if conn == nil {
		return
	}
	s.sched.After(s.settings.PreCheckDelay, func() {
		if conn.Active() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.failures.PutFailure(ctx, req.Origin, req.Username); err != nil {
			s.logger.Warn("failure cache write failed",
				slog.String("origin", req.Origin),
				slog.String("error", err.Error()))
		}
	})
}
