package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/repository"
)

const (
	MaxHashingIterations = 1_000_000
	MaxSaltingIterations = 10_000

	// MaxSaltedBytes bounds the salted input: prepend and append salting grow
	// it by the passphrase length on every round.
	MaxSaltedBytes = 1 << 20
)

var (
	ErrPassphraseRequired  = errors.New("passphrase is required")
	ErrServiceRequired     = errors.New("service is required")
	ErrTooManyIterations   = fmt.Errorf("iterations must be at most %d for hashing and %d for salting", MaxHashingIterations, MaxSaltingIterations)
	ErrSaltedInputTooLarge = fmt.Errorf("passphrase length times salting iterations must be at most %d bytes", MaxSaltedBytes)
	ErrProfileRequiresAuth = errors.New("profiles require authentication")
	ErrProfileNotFound     = errors.New("profile not found")
)

// ProfileStore is the persistence used for named derivation settings.
type ProfileStore interface {
	Upsert(ctx context.Context, p *model.Profile) error
	Get(ctx context.Context, userID int64, name string) (*model.Profile, error)
	List(ctx context.Context, userID int64) ([]model.Profile, error)
	Delete(ctx context.Context, userID int64, name string) error
}

// DeriveService derives deterministic passwords from a passphrase and service name.
type DeriveService struct {
	profiles ProfileStore
}

// NewDeriveService creates a new DeriveService. profiles may be nil when no
// database is configured; profile lookups then fail with ErrProfileRequiresAuth.
func NewDeriveService(profiles ProfileStore) *DeriveService {
	return &DeriveService{profiles: profiles}
}

// Derive resolves the settings for req and encodes the password. userID is
// zero for anonymous callers.
func (s *DeriveService) Derive(ctx context.Context, userID int64, req model.DeriveRequest) (model.DeriveResponse, error) {
	if req.Passphrase == "" {
		return model.DeriveResponse{}, ErrPassphraseRequired
	}
	if req.Service == "" {
		return model.DeriveResponse{}, ErrServiceRequired
	}

	settings, err := s.resolveSettings(ctx, userID, req)
	if err != nil {
		return model.DeriveResponse{}, err
	}
	if saltedSize(req, settings) > MaxSaltedBytes {
		return model.DeriveResponse{}, ErrSaltedInputTooLarge
	}

	password, err := crypto.Encode([]byte(req.Passphrase), []byte(req.Service), settings)
	if err != nil {
		return model.DeriveResponse{}, err
	}

	return model.DeriveResponse{
		Password: password,
		Settings: json.RawMessage(settings.String()),
	}, nil
}

// resolveSettings picks inline settings first, then the named profile, then defaults.
func (s *DeriveService) resolveSettings(ctx context.Context, userID int64, req model.DeriveRequest) (crypto.Settings, error) {
	var raw string
	switch {
	case len(req.Settings) > 0 && string(req.Settings) != "null":
		raw = string(req.Settings)
	case req.Profile != "":
		if userID == 0 || s.profiles == nil {
			return crypto.Settings{}, ErrProfileRequiresAuth
		}
		p, err := s.profiles.Get(ctx, userID, req.Profile)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return crypto.Settings{}, ErrProfileNotFound
			}
			return crypto.Settings{}, err
		}
		raw = p.Settings
	default:
		return crypto.DefaultSettings(), nil
	}

	return parseBoundedSettings(raw)
}

// parseBoundedSettings parses settings and enforces the iteration caps.
func parseBoundedSettings(raw string) (crypto.Settings, error) {
	settings, err := crypto.ParseSettings(raw)
	if err != nil {
		return crypto.Settings{}, err
	}
	if settings.HashingIterations > MaxHashingIterations || settings.SaltingIterations > MaxSaltingIterations {
		return crypto.Settings{}, ErrTooManyIterations
	}
	return settings, nil
}

// saltedSize is an upper bound on the input hashed by Encode.
func saltedSize(req model.DeriveRequest, settings crypto.Settings) int {
	return len(req.Passphrase)*max(settings.SaltingIterations, 1) + len(req.Service)
}
