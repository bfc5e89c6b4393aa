package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"

	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/repository"
)

var (
	ErrProfileNameInvalid = errors.New("profile name must be 1-64 letters, digits, '.', '_' or '-'")
	ErrSettingsRequired   = errors.New("settings are required")
)

var profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// ProfileService manages the named derivation settings of a user.
type ProfileService struct {
	repo ProfileStore
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo ProfileStore) *ProfileService {
	return &ProfileService{repo: repo}
}

// Save validates raw settings and stores them under name, replacing any
// existing profile of that name.
func (s *ProfileService) Save(ctx context.Context, userID int64, name string, raw json.RawMessage) (model.ProfileResponse, error) {
	if !profileNamePattern.MatchString(name) {
		return model.ProfileResponse{}, ErrProfileNameInvalid
	}
	if len(raw) == 0 || string(raw) == "null" {
		return model.ProfileResponse{}, ErrSettingsRequired
	}

	settings, err := parseBoundedSettings(string(raw))
	if err != nil {
		return model.ProfileResponse{}, err
	}

	// Stored in canonical form so defaults are explicit.
	p := &model.Profile{UserID: userID, Name: name, Settings: settings.String()}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return model.ProfileResponse{}, err
	}

	stored, err := s.repo.Get(ctx, userID, name)
	if err != nil {
		return model.ProfileResponse{}, err
	}
	return profileToResponse(*stored), nil
}

// Get returns a single profile.
func (s *ProfileService) Get(ctx context.Context, userID int64, name string) (model.ProfileResponse, error) {
	p, err := s.repo.Get(ctx, userID, name)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return model.ProfileResponse{}, ErrProfileNotFound
		}
		return model.ProfileResponse{}, err
	}
	return profileToResponse(*p), nil
}

// List returns every profile of the user.
func (s *ProfileService) List(ctx context.Context, userID int64) ([]model.ProfileResponse, error) {
	profiles, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.ProfileResponse, len(profiles))
	for i, p := range profiles {
		result[i] = profileToResponse(p)
	}
	return result, nil
}

// Delete removes a profile.
func (s *ProfileService) Delete(ctx context.Context, userID int64, name string) error {
	err := s.repo.Delete(ctx, userID, name)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return ErrProfileNotFound
	}
	return err
}

func profileToResponse(p model.Profile) model.ProfileResponse {
	return model.ProfileResponse{
		Name:      p.Name,
		Settings:  json.RawMessage(p.Settings),
		UpdatedAt: p.UpdatedAt,
	}
}
