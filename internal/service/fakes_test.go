package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/repository"
)

type profileKey struct {
	userID int64
	name   string
}

// memoryProfiles is an in-memory ProfileStore.
type memoryProfiles struct {
	profiles map[profileKey]model.Profile
	err      error
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{profiles: make(map[profileKey]model.Profile)}
}

func (m *memoryProfiles) Upsert(_ context.Context, p *model.Profile) error {
	if m.err != nil {
		return m.err
	}
	p.UpdatedAt = time.Now().UTC()
	m.profiles[profileKey{p.UserID, p.Name}] = *p
	return nil
}

func (m *memoryProfiles) Get(_ context.Context, userID int64, name string) (*model.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[profileKey{userID, name}]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return &p, nil
}

func (m *memoryProfiles) List(_ context.Context, userID int64) ([]model.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Profile
	for k, p := range m.profiles {
		if k.userID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryProfiles) Delete(_ context.Context, userID int64, name string) error {
	if m.err != nil {
		return m.err
	}
	k := profileKey{userID, name}
	if _, ok := m.profiles[k]; !ok {
		return repository.ErrProfileNotFound
	}
	delete(m.profiles, k)
	return nil
}

// memoryUsers is an in-memory UserStore.
type memoryUsers struct {
	byID   map[int64]*model.User
	nextID int64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[int64]*model.User)}
}

func (m *memoryUsers) Create(_ context.Context, user *model.User) error {
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

// plainHasher stores passwords with a prefix so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (plainHasher) Verify(password, encoded string) (bool, error) {
	rest, ok := strings.CutPrefix(encoded, "plain:")
	if !ok {
		return false, errors.New("bad hash")
	}
	return rest == password, nil
}

type stubTokens struct{}

func (stubTokens) Issue(userID int64) (string, error) {
	return "token-" + strconv.FormatInt(userID, 10), nil
}
