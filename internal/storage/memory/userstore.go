package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// UserStore holds profiles and credentials guarded by one mutex.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	creds map[string]models.Credential
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]models.User),
		creds: make(map[string]models.Credential),
	}
}

func (s *UserStore) Get(_ context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, models.NewNotFound("user", userID)
	}
	return cloneUser(user), nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, models.NewNotFound("user", email)
}

func (s *UserStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (s *UserStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return models.NewNotFound("user", userID)
	}
	delete(s.users, userID)
	delete(s.creds, userID)
	return nil
}

func (s *UserStore) List(_ context.Context, roleFilter models.Role) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		if roleFilter != "" && user.Role != roleFilter {
			continue
		}
		result = append(result, cloneUser(user))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *UserStore) GetCredential(_ context.Context, userID string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.creds[userID]
	if !ok {
		return nil, models.NewNotFound("credential", userID)
	}
	c := cred
	return &c, nil
}

func (s *UserStore) SaveCredential(_ context.Context, cred *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds[cred.UserID] = *cred
	return nil
}

// cloneUser copies the record so callers cannot mutate stored state.
func cloneUser(u models.User) *models.User {
	c := u
	if u.Hobbies != nil {
		c.Hobbies = append([]models.Hobby(nil), u.Hobbies...)
	}
	return &c
}

var _ interfaces.UserStore = (*UserStore)(nil)
