package session

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/CuteLittleSky/LimboAuth/internal/config"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/bedrock"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/scheduler"
	"github.com/CuteLittleSky/LimboAuth/internal/model"
	"github.com/CuteLittleSky/LimboAuth/internal/services/prelogin"
	"github.com/CuteLittleSky/LimboAuth/internal/services/reconcile"
)

// Listener translates the proxy's connection lifecycle notifications into
// calls on the decision and reconciliation engines. It owns no policy of
// its own; ordering (pre-login before profile finalization before
// post-login) is guaranteed by the transport.
type Listener struct {
	prelogin  *prelogin.Service
	reconcile *reconcile.Service
	registry  *Registry
	bedrock   bedrock.Oracle
	sched     scheduler.Scheduler
	settings  config.Settings
	logger    *slog.Logger
}

// NewListener creates a new lifecycle listener
func NewListener(pre *prelogin.Service, rec *reconcile.Service, registry *Registry, oracle bedrock.Oracle, sched scheduler.Scheduler, settings config.Settings, logger *slog.Logger) *Listener {
	return &Listener{
		prelogin:  pre,
		reconcile: rec,
		registry:  registry,
		bedrock:   oracle,
		sched:     sched,
		settings:  settings,
		logger:    logger,
	}
}

// Registry exposes the per-session state registry for the enclosing plugin
func (l *Listener) Registry() *Registry {
	return l.registry
}

// OnPreLogin decides the connection's mode before any record exists
func (l *Listener) OnPreLogin(ctx context.Context, req prelogin.Request) (prelogin.Decision, error) {
	decision, err := l.prelogin.Decide(ctx, req)
	if err != nil {
		return prelogin.Decision{}, err
	}
	if decision.Outcome != prelogin.OutcomeForceVerified || decision.Username != req.Username {
		l.logger.Info("pre-login decision",
			slog.String("username", req.Username),
			slog.String("origin", req.Origin),
			slog.String("outcome", string(decision.Outcome)))
	}
	return decision, nil
}

// OnProfileRequest reconciles the finalized profile against the stored
// record. Profiles the transport did not already mark as bridged are
// classified by the identifier namespace, since the translation layer
// finalizes them through the same path as Java clients. A reconciliation
// error is fatal for the connection; the session must not proceed with
// ambiguous identity state.
func (l *Listener) OnProfileRequest(ctx context.Context, profile model.Profile) (model.Profile, error) {
	if !profile.Bedrock && l.bedrock.IsBridgedIdentifier(profile.UUID) {
		profile.Bedrock = true
	}
	return l.reconcile.Reconcile(ctx, profile)
}

// OnPostLogin fires the session's pending one-shot callback after the
// configured delay, giving the client time to finish switching servers.
// Retrieval removes the callback, so a duplicate signal is a no-op.
func (l *Listener) OnPostLogin(sessionID uuid.UUID) {
	fn, ok := l.registry.TakePendingCallback(sessionID)
	if !ok {
		return
	}
	l.sched.After(l.settings.PostLoginDelay, fn)
}

// OnDisconnect clears the session's forced-mode memo
func (l *Listener) OnDisconnect(username string) {
	l.registry.ClearForced(username)
}
