package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/CuteLittleSky/LimboAuth/internal/config"
	"github.com/CuteLittleSky/LimboAuth/internal/model"
	"github.com/CuteLittleSky/LimboAuth/internal/storage"
)

// Service merges a finalized client profile with the stored credential
// record, resolving nickname drift, missing identifiers, and identity-kind
// changes. Each call applies at most one store update; an update that
// cannot be persisted aborts the connection rather than letting the
// session proceed with ambiguous identity.
type Service struct {
	store    storage.RecordStore
	settings config.Settings
	logger   *slog.Logger
}

// New creates a new reconciliation service
func New(store storage.RecordStore, settings config.Settings, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		settings: settings,
		logger:   logger,
	}
}

// Reconcile rewrites the profile's name per the configured display
// prefixes, then reconciles its UUID against the stored record. The
// returned profile is the identity the session is bound to.
func (s *Service) Reconcile(ctx context.Context, profile model.Profile) (model.Profile, error) {
	originalName := profile.Name
	profile = s.rewriteName(profile)

	if profile.Bedrock {
		return s.reconcileBridged(ctx, profile)
	}
	if s.settings.SaveUUID {
		return s.reconcileSaved(ctx, profile)
	}
	if profile.OnlineMode {
		// Without UUID linkage a verified login cannot be proven to be the
		// owner of a stored unverified credential, so the credential is
		// invalidated instead.
		if err := s.store.UpdateHashByLowercaseName(ctx, strings.ToLower(originalName), ""); err != nil {
			return model.Profile{}, fmt.Errorf("clear stored hash for %q: %w", originalName, err)
		}
	}
	return profile, nil
}

// rewriteName applies the configured display prefixes. An unverified-mode
// rewrite also rederives the UUID from the prefixed name, so the same
// prefixed name always maps to the same identifier. Bridged names keep the
// prefix the translation layer already gave them.
func (s *Service) rewriteName(profile model.Profile) model.Profile {
	if profile.Bedrock {
		return profile
	}
	if !profile.OnlineMode && s.settings.OfflineModePrefix != "" {
		if !strings.HasPrefix(profile.Name, s.settings.OfflineModePrefix) {
			name := s.settings.OfflineModePrefix + profile.Name
			profile = profile.WithName(name).WithUUID(model.OfflineUUID(name))
		}
		return profile
	}
	if profile.OnlineMode && s.settings.OnlineModePrefix != "" {
		profile = profile.WithName(s.settings.OnlineModePrefix + profile.Name)
	}
	return profile
}

// reconcileBridged merges a bridged profile with its stored record. When
// nothing is dirty the stored identifier is authoritative over the
// possibly-rotated bridged UUID.
func (s *Service) reconcileBridged(ctx context.Context, profile model.Profile) (model.Profile, error) {
	record, err := s.lookup(ctx, profile)
	if err != nil {
		return model.Profile{}, err
	}
	if record == nil {
		return profile, nil
	}
	return s.merge(ctx, profile, record, model.IdentityBridged)
}

// reconcileSaved handles the non-bridged path with UUID saving enabled.
// A stored identifier wins outright; the incoming UUID is not considered.
func (s *Service) reconcileSaved(ctx context.Context, profile model.Profile) (model.Profile, error) {
	record, err := s.lookup(ctx, profile)
	if err != nil {
		return model.Profile{}, err
	}
	if record == nil {
		return profile, nil
	}
	if record.Identifier != "" {
		return s.withStoredIdentifier(profile, record)
	}

	kind := model.IdentityUnverifiedJava
	if profile.OnlineMode {
		kind = model.IdentityVerifiedJava
	}
	return s.merge(ctx, profile, record, kind)
}

// merge evaluates dirtiness and applies at most one update. When nothing
// changed and an identifier was already stored, the outgoing UUID is
// rewritten to the stored identifier instead.
func (s *Service) merge(ctx context.Context, profile model.Profile, record *model.CredentialRecord, kind model.IdentityKind) (model.Profile, error) {
	dirty := false

	// Unverified Java names are a direct function of network identity, so
	// drift there is not meaningful; verified and bridged names are.
	nicknameCounts := profile.Bedrock || profile.OnlineMode
	if nicknameCounts && record.DisplayName() != profile.Name {
		record.SetNickname(profile.Name)
		dirty = true
	}

	if record.Identifier == "" {
		dirty = true
	}

	if !dirty {
		return s.withStoredIdentifier(profile, record)
	}

	record.Identifier = profile.UUID.String()
	record.IdentityKind = kind
	if err := s.store.Update(ctx, record); err != nil {
		return model.Profile{}, fmt.Errorf("%w for %q: %w", model.ErrReconcileUpdate, profile.Name, err)
	}
	s.logger.Info("reconciled identity",
		slog.String("name", profile.Name),
		slog.String("identifier", record.Identifier),
		slog.String("kind", string(record.IdentityKind)))
	return profile, nil
}

// withStoredIdentifier rewrites the outgoing UUID to the stored identifier
func (s *Service) withStoredIdentifier(profile model.Profile, record *model.CredentialRecord) (model.Profile, error) {
	stored, err := uuid.Parse(record.Identifier)
	if err != nil {
		return model.Profile{}, fmt.Errorf("stored identifier for %q is not a UUID: %w", record.LowercaseNickname, err)
	}
	return profile.WithUUID(stored), nil
}

// lookup finds the record for the profile, keyed by UUID first since the
// UUID is the durable cross-session identifier. Records registered before
// UUID linkage have an empty stored identifier and are only reachable by
// name, so a name lookup backstops the miss.
func (s *Service) lookup(ctx context.Context, profile model.Profile) (*model.CredentialRecord, error) {
	record, err := s.store.FindByIdentifier(ctx, profile.UUID.String())
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, model.ErrRecordNotFound) {
		return nil, fmt.Errorf("find record by identifier: %w", err)
	}

	// Display-prefix rewriting keeps the verified, unverified, and bridged
	// name namespaces disjoint, so a name hit here is this player's record
	// even when its stored identifier differs from the incoming UUID.
	record, err = s.store.FindByLowercaseName(ctx, strings.ToLower(profile.Name))
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, model.ErrRecordNotFound) {
		return nil, fmt.Errorf("find record by name: %w", err)
	}
	return nil, nil
}
