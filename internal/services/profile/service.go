// Package profile manages storefront profile records.
package profile

import (
	"context"
	"strings"
	"time"

	"github.com/bobmcallan/satchel/internal/auth"
	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// Service implements interfaces.ProfileService.
type Service struct {
	storage interfaces.StorageManager
	gate    *auth.Gate
	logger  *common.Logger
}

// NewService creates a new profile service.
func NewService(storage interfaces.StorageManager, gate *auth.Gate, logger *common.Logger) *Service {
	return &Service{storage: storage, gate: gate, logger: logger}
}

func (s *Service) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	return user, nil
}

func (s *Service) EnsureExists(ctx context.Context, userID, email string) (*models.User, error) {
	user, err := s.storage.Users().Get(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !models.IsFault(err, models.FaultNotFound) {
		return nil, models.EnsureFault(err)
	}

	// First authenticated sighting: provision the default customer
	// profile. Username falls back to the mailbox part of the email.
	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}
	now := time.Now()
	user = &models.User{
		ID:        userID,
		Username:  username,
		Email:     email,
		Role:      models.RoleCustomer,
		Level:     models.LevelUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.Users().Save(ctx, user); err != nil {
		return nil, models.EnsureFault(err)
	}

	s.logger.Info().Str("user_id", userID).Msg("Provisioned default profile")
	return user, nil
}

func (s *Service) Save(ctx context.Context, caller *common.Caller, profile *models.User) (*models.User, error) {
	action := auth.ActionWriteOwnProfile
	if caller != nil && caller.UserID != profile.ID {
		action = auth.ActionWriteAnyProfile
	}
	if d := s.gate.Check(caller, action, profile.ID); !d.Allowed {
		return nil, d.Fault()
	}

	existing, err := s.storage.Users().Get(ctx, profile.ID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}

	// Role and level assignment goes through SetRole; a plain save never
	// changes them unless the caller holds that permission anyway.
	if profile.Role != existing.Role || profile.Level != existing.Level {
		if d := s.gate.Check(caller, auth.ActionAssignRole, profile.ID); !d.Allowed {
			return nil, d.Fault()
		}
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = time.Now()
	if err := s.storage.Users().Save(ctx, profile); err != nil {
		return nil, models.EnsureFault(err)
	}
	return profile, nil
}

func (s *Service) SetRole(ctx context.Context, caller *common.Caller, userID string, role models.Role, level models.Level) (*models.User, error) {
	if d := s.gate.Check(caller, auth.ActionAssignRole, userID); !d.Allowed {
		return nil, d.Fault()
	}

	normRole, ok := models.NormalizeRole(string(role))
	if !ok {
		return nil, models.NewValidation("unknown role '%s'", role)
	}
	normLevel, ok := models.NormalizeLevel(string(level))
	if !ok {
		return nil, models.NewValidation("unknown level '%s'", level)
	}

	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}

	user.Role = normRole
	user.Level = normLevel
	user.UpdatedAt = time.Now()
	if err := s.storage.Users().Save(ctx, user); err != nil {
		return nil, models.EnsureFault(err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("role", string(normRole)).
		Str("level", string(normLevel)).
		Msg("Role assigned")
	return user, nil
}

func (s *Service) List(ctx context.Context, caller *common.Caller, roleFilter models.Role) ([]*models.User, error) {
	if d := s.gate.Check(caller, auth.ActionViewAllUsers, ""); !d.Allowed {
		return nil, d.Fault()
	}

	if roleFilter != "" {
		norm, ok := models.NormalizeRole(string(roleFilter))
		if !ok {
			return nil, models.NewValidation("unknown role '%s'", roleFilter)
		}
		roleFilter = norm
	}

	users, err := s.storage.Users().List(ctx, roleFilter)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	return users, nil
}

func (s *Service) Delete(ctx context.Context, caller *common.Caller, userID string) error {
	if d := s.gate.Check(caller, auth.ActionDeleteUser, userID); !d.Allowed {
		return d.Fault()
	}

	if err := s.storage.Users().Delete(ctx, userID); err != nil {
		return models.EnsureFault(err)
	}

	s.logger.Info().Str("user_id", userID).Msg("User deleted")
	return nil
}

// Compile-time check
var _ interfaces.ProfileService = (*Service)(nil)
