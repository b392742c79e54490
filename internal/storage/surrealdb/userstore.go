package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// userSelectFields lists the fields to select from user, aliasing user_id to id for struct mapping.
const userSelectFields = `user_id as id, username, email, role, level, address,
	avatar_url, hobbies, created_at, updated_at`

// UserStore implements interfaces.UserStore using SurrealDB.
type UserStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *surrealdb.DB, logger *common.Logger) *UserStore {
	return &UserStore{db: db, logger: logger}
}

func (s *UserStore) Get(ctx context.Context, userID string) (*models.User, error) {
	sql := "SELECT " + userSelectFields + " FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("user", userID),
	}

	results, err := surrealdb.Query[[]models.User](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.NewNotFound("user", userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, models.NewNotFound("user", userID)
	}
	return &(*results)[0].Result[0], nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql := "SELECT " + userSelectFields + " FROM user WHERE string::lowercase(email) = string::lowercase($email) LIMIT 1"
	vars := map[string]any{
		"email": email,
	}

	results, err := surrealdb.Query[[]models.User](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, models.NewNotFound("user", email)
	}
	return &(*results)[0].Result[0], nil
}

func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	sql := `UPSERT $rid SET
		user_id = $user_id, username = $username, email = $email,
		role = $role, level = $level, address = $address,
		avatar_url = $avatar_url, hobbies = $hobbies,
		created_at = $created_at, updated_at = $updated_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("user", user.ID),
		"user_id":    user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"role":       user.Role,
		"level":      user.Level,
		"address":    user.Address,
		"avatar_url": user.AvatarURL,
		"hobbies":    user.Hobbies,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}

	if _, err := surrealdb.Delete[models.User](ctx, s.db, surrealmodels.NewRecordID("user", userID)); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	// The credential record shares the user's key; remove it alongside.
	if _, err := surrealdb.Delete[models.Credential](ctx, s.db, surrealmodels.NewRecordID("credential", userID)); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

func (s *UserStore) List(ctx context.Context, roleFilter models.Role) ([]*models.User, error) {
	sql := "SELECT " + userSelectFields + " FROM user"
	vars := map[string]any{}
	if roleFilter != "" {
		sql += " WHERE role = $role"
		vars["role"] = roleFilter
	}
	sql += " ORDER BY user_id ASC"

	results, err := surrealdb.Query[[]models.User](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*models.User, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			users = append(users, &(*results)[0].Result[i])
		}
	}
	return users, nil
}

func (s *UserStore) GetCredential(ctx context.Context, userID string) (*models.Credential, error) {
	sql := "SELECT user_id, password_hash, updated_at FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("credential", userID),
	}

	results, err := surrealdb.Query[[]models.Credential](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.NewNotFound("credential", userID)
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, models.NewNotFound("credential", userID)
	}
	return &(*results)[0].Result[0], nil
}

func (s *UserStore) SaveCredential(ctx context.Context, cred *models.Credential) error {
	if cred.UpdatedAt.IsZero() {
		cred.UpdatedAt = time.Now()
	}

	sql := "UPSERT $rid SET user_id = $user_id, password_hash = $password_hash, updated_at = $updated_at"
	vars := map[string]any{
		"rid":           surrealmodels.NewRecordID("credential", cred.UserID),
		"user_id":       cred.UserID,
		"password_hash": cred.PasswordHash,
		"updated_at":    cred.UpdatedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.UserStore = (*UserStore)(nil)
