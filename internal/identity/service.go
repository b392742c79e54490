// Package identity exchanges credentials for signed session tokens and
// resolves tokens back to callers.
package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

const tokenIssuer = "satchel"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// claims is the JWT payload carried by session tokens.
type claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Role          string `json:"role"`
	Level         string `json:"level"`
	jwt.RegisteredClaims
}

// Service implements interfaces.IdentityService with HS256 tokens and
// bcrypt password hashes.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
	secret  []byte
	expiry  time.Duration
}

// NewService creates a new identity service.
func NewService(storage interfaces.StorageManager, logger *common.Logger, config *common.Config) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		secret:  []byte(config.Auth.JWTSecret),
		expiry:  config.Auth.GetTokenExpiry(),
	}
}

func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (string, *models.User, error) {
	usernameOrEmail = strings.TrimSpace(usernameOrEmail)
	if usernameOrEmail == "" || password == "" {
		return "", nil, models.NewValidation("username and password are required")
	}

	user, err := s.resolveUser(ctx, usernameOrEmail)
	if err != nil {
		if models.IsFault(err, models.FaultNotFound) {
			// Do not reveal whether the account exists.
			return "", nil, models.NewDenied("invalid credentials")
		}
		return "", nil, models.EnsureFault(err)
	}

	cred, err := s.storage.Users().GetCredential(ctx, user.ID)
	if err != nil {
		if models.IsFault(err, models.FaultNotFound) {
			return "", nil, models.NewDenied("invalid credentials")
		}
		return "", nil, models.EnsureFault(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", nil, models.NewDenied("invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, models.EnsureFault(err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("User logged in")
	return token, user, nil
}

func (s *Service) SetPassword(ctx context.Context, caller *common.Caller, userID, password string) error {
	if caller == nil || caller.UserID == "" {
		return models.NewDenied("not authenticated")
	}
	if caller.UserID != userID && caller.Role != models.RoleAdmin {
		return models.NewDenied("may only change own password")
	}
	if len(password) < MinPasswordLength {
		return models.NewValidation("password must be at least %d characters", MinPasswordLength)
	}

	if _, err := s.storage.Users().Get(ctx, userID); err != nil {
		return models.EnsureFault(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.EnsureFault(fmt.Errorf("failed to hash password: %w", err))
	}

	cred := &models.Credential{
		UserID:       userID,
		PasswordHash: string(hash),
		UpdatedAt:    time.Now(),
	}
	if err := s.storage.Users().SaveCredential(ctx, cred); err != nil {
		return models.EnsureFault(err)
	}

	s.logger.Info().Str("user_id", userID).Msg("Password updated")
	return nil
}

func (s *Service) Verify(_ context.Context, token string) (*common.Caller, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, models.NewDenied("invalid or expired token")
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return nil, models.NewDenied("invalid or expired token")
	}

	role, _ := models.NormalizeRole(c.Role)
	level, _ := models.NormalizeLevel(c.Level)
	return &common.Caller{
		UserID:        c.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Role:          role,
		Level:         level,
	}, nil
}

// resolveUser finds the account by email first, then by exact username.
func (s *Service) resolveUser(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	if strings.Contains(usernameOrEmail, "@") {
		return s.storage.Users().GetByEmail(ctx, usernameOrEmail)
	}

	users, err := s.storage.Users().List(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if user.Username == usernameOrEmail {
			return user, nil
		}
	}
	return nil, models.NewNotFound("user", usernameOrEmail)
}

func (s *Service) issueToken(user *models.User) (string, error) {
	now := time.Now()
	c := &claims{
		Email:         user.Email,
		EmailVerified: true,
		Role:          string(user.Role),
		Level:         string(user.Level),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Compile-time check
var _ interfaces.IdentityService = (*Service)(nil)
