package service_test

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/staffclock/attendance-service/internal/domain"
	"github.com/staffclock/attendance-service/internal/gateway"
	"github.com/staffclock/attendance-service/internal/repository"
)

var (
	_ repository.IdentityRepository = (*fakeIdentityRepo)(nil)
	_ repository.ProfileRepository  = (*fakeProfileRepo)(nil)
	_ gateway.NotificationGateway   = (*fakeGateway)(nil)
)

type fakeIdentityRepo struct {
	mu         sync.Mutex
	byEmail    map[string]*domain.Identity
	createErr  error
	createCall int
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{byEmail: map[string]*domain.Identity{}}
}

func (f *fakeIdentityRepo) CreateAccount(_ context.Context, params repository.AccountParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCall++
	if f.createErr != nil {
		return "", f.createErr
	}
	key := strings.ToLower(params.Email)
	if _, exists := f.byEmail[key]; exists {
		return "", repository.ErrEmailExists
	}
	identity := &domain.Identity{
		ID:           uuid.NewString(),
		Email:        params.Email,
		PasswordHash: params.Password,
		DisplayName:  params.DisplayName,
		Disabled:     params.Disabled,
	}
	f.byEmail[key] = identity
	return identity.ID, nil
}

func (f *fakeIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, identity := range f.byEmail {
		if identity.ID == id {
			return identity, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if identity, ok := f.byEmail[strings.ToLower(email)]; ok {
		return identity, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeIdentityRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byEmail)
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	byID     map[string]domain.Profile
	getErr   error
	setErr   error
	listErr  error
	setCalls int
}

func newFakeProfileRepo(profiles ...domain.Profile) *fakeProfileRepo {
	f := &fakeProfileRepo{byID: map[string]domain.Profile{}}
	for _, p := range profiles {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfileRepo) SetByID(_ context.Context, id string, profile *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	profile.ID = id
	f.byID[id] = *profile
	return nil
}

func (f *fakeProfileRepo) List(_ context.Context, filter repository.ProfileFilter) ([]domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Profile
	for _, p := range f.byID {
		if filter.IsCheckedIn != nil && p.IsCheckedIn != *filter.IsCheckedIn {
			continue
		}
		if filter.Role != nil && p.Role != *filter.Role {
			continue
		}
		if filter.AccountEnabled != nil && p.AccountEnabled != *filter.AccountEnabled {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type sendCall struct {
	tokens       []string
	notification domain.Notification
}

type fakeGateway struct {
	mu    sync.Mutex
	calls []sendCall
	err   error
}

func (g *fakeGateway) SendToMany(_ context.Context, tokens []string, notification domain.Notification) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, sendCall{tokens: append([]string(nil), tokens...), notification: notification})
	return g.err
}

func strPtr(s string) *string { return &s }
