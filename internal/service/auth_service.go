// Package service holds the business logic between the HTTP handlers and the
// repositories. Reads go through the cache; writes invalidate it after commit.
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost    = 12
	resetTokenTTL = 10 * time.Minute
)

type AuthService struct {
	userRepo     repository.UserRepository
	tokens       *auth.TokenService
	mailer       Mailer
	cache        *cache.Aside
	resetURLBase string
	now          func() time.Time
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

type UpdatePasswordInput struct {
	UserID          string
	PasswordCurrent string
	Password        string
	PasswordConfirm string
}

// PasswordReset is returned by ForgetPassword. Token is the raw reset token;
// only its hash is stored.
type PasswordReset struct {
	Token   string
	Expires time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *auth.TokenService,
	mailer Mailer,
	c *cache.Aside,
	resetURLBase string,
) *AuthService {
	if mailer == nil {
		mailer = NewLogMailer("")
	}
	return &AuthService{
		userRepo:     userRepo,
		tokens:       tokens,
		mailer:       mailer,
		cache:        c,
		resetURLBase: strings.TrimRight(resetURLBase, "/"),
		now:          time.Now,
	}
}

// Register creates the account and logs it in. Public signups are always
// plain users; admins are promoted through SetRole.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, auth.TokenPair, error) {
	ctx, span := observability.StartServiceSpan(ctx, "auth", "register")
	defer span.End()

	if in.Username == "" || in.Email == "" || in.Password == "" || in.PasswordConfirm == "" {
		return nil, auth.TokenPair{}, models.NewBadRequestError("Form is incomplete.")
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if existing != nil {
		observability.AuthEvents.WithLabelValues("register", "conflict").Inc()
		return nil, auth.TokenPair{}, models.NewConflictError("Conflict. User already exists.")
	}

	if err := validation.ValidateRegistration(validation.Registration{
		Username:        in.Username,
		Email:           in.Email,
		Password:        in.Password,
		PasswordConfirm: in.PasswordConfirm,
	}); err != nil {
		return nil, auth.TokenPair{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, auth.TokenPair{}, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		observability.RecordError(span, err)
		return nil, auth.TokenPair{}, err
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	s.cache.InvalidateKeys(ctx, cache.UsersKey)
	observability.AuthEvents.WithLabelValues("register", "success").Inc()
	middleware.Logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	return user, pair, nil
}

// Login checks credentials. Unknown users and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, auth.TokenPair, error) {
	ctx, span := observability.StartServiceSpan(ctx, "auth", "login")
	defer span.End()

	if username == "" || password == "" {
		return nil, auth.TokenPair{}, models.NewBadRequestError("Username and Password is required.")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		observability.AuthEvents.WithLabelValues("login", "invalid").Inc()
		return nil, auth.TokenPair{}, models.NewInvalidCredentialsError()
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	observability.AuthEvents.WithLabelValues("login", "success").Inc()
	return user, pair, nil
}

// Refresh exchanges a stored refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", models.NewUnauthorizedError("Unauthorized")
	}

	owner, err := s.userRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if owner == nil {
		observability.AuthEvents.WithLabelValues("refresh", "unknown").Inc()
		return "", models.NewNotFoundError("User", nil)
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		observability.AuthEvents.WithLabelValues("refresh", "invalid").Inc()
		return "", err
	}

	user, err := s.userRepo.GetByUsername(ctx, claims.Username)
	if err != nil {
		return "", err
	}
	if user == nil || user.ID != owner.ID {
		return "", models.NewUnauthorizedError("User with this token does not exists!!")
	}

	access, err := s.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	observability.AuthEvents.WithLabelValues("refresh", "success").Inc()
	return access, nil
}

// Logout forgets the stored refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	user, err := s.userRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil || user == nil {
		return err
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{"refresh_token": ""}); err != nil {
		return err
	}
	observability.AuthEvents.WithLabelValues("logout", "success").Inc()
	return nil
}

// Authenticate resolves the user behind an access token.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByUsername(ctx, claims.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("User with this token does not exists!!")
	}
	if claims.IssuedAt != nil && changedAfter(user.PasswordChangedAt, claims.IssuedAt.Time) {
		return nil, models.NewUnauthorizedError("User recently changed password! Please log in again.")
	}
	return user, nil
}

// ForgetPassword stores a hashed single-use reset token and mails the raw one.
func (s *AuthService) ForgetPassword(ctx context.Context, email string) (*PasswordReset, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, models.NewBadRequestError("Email is required!")
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewEmptyError("There is no user with this email address")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, models.NewInternalError(err)
	}
	token := hex.EncodeToString(raw)
	expires := s.now().Add(resetTokenTTL)

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{
		"password_reset_token":   hashResetToken(token),
		"password_reset_expires": expires,
	}); err != nil {
		return nil, err
	}

	resetURL := fmt.Sprintf("%s/%s", s.resetURLBase, token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, resetURL); err != nil {
		if clearErr := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{
			"password_reset_token":   "",
			"password_reset_expires": nil,
		}); clearErr != nil {
			middleware.Logger.ErrorContext(ctx, "failed to clear reset token",
				slog.String("user_id", user.ID), slog.String("error", clearErr.Error()))
		}
		return nil, models.NewServiceError("There was an error sending the email, try again later!", err)
	}

	observability.AuthEvents.WithLabelValues("forget_password", "success").Inc()
	return &PasswordReset{Token: token, Expires: expires}, nil
}

// ResetPassword sets a new password if token is a live reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if token == "" {
		return models.NewBadRequestError("Token is invalid or has expired!")
	}
	user, err := s.userRepo.GetByResetToken(ctx, hashResetToken(token), s.now())
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewBadRequestError("Token is invalid or has expired!")
	}
	if err := validation.ValidatePassword(password, confirm); err != nil {
		return err
	}
	if err := s.setPassword(ctx, user.ID, password, map[string]any{
		"password_reset_token":   "",
		"password_reset_expires": nil,
	}); err != nil {
		return err
	}
	observability.AuthEvents.WithLabelValues("reset_password", "success").Inc()
	return nil
}

// UpdatePassword changes the password of a logged-in user and returns a
// fresh token pair, since older access tokens stop working.
func (s *AuthService) UpdatePassword(ctx context.Context, in UpdatePasswordInput) (auth.TokenPair, error) {
	if in.PasswordCurrent == "" || in.Password == "" || in.PasswordConfirm == "" {
		return auth.TokenPair{}, models.NewBadRequestError("Form is incomplete.")
	}
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.PasswordCurrent)) != nil {
		return auth.TokenPair{}, models.NewUnauthorizedError("Password is incorrect")
	}
	if err := validation.ValidatePassword(in.Password, in.PasswordConfirm); err != nil {
		return auth.TokenPair{}, err
	}
	if err := s.setPassword(ctx, user.ID, in.Password, nil); err != nil {
		return auth.TokenPair{}, err
	}
	return s.issueAndStore(ctx, user)
}

func (s *AuthService) setPassword(ctx context.Context, userID, password string, extra map[string]any) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	fields := map[string]any{
		"password": string(hash),
		// Tokens are issued with whole-second timestamps.
		"password_changed_at": s.now().Add(-time.Second),
	}
	for k, v := range extra {
		fields[k] = v
	}
	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		return err
	}
	s.cache.InvalidateKeys(ctx, cache.UserKey(userID), cache.UsersKey)
	return nil
}

func (s *AuthService) issueAndStore(ctx context.Context, user *models.User) (auth.TokenPair, error) {
	pair, err := s.tokens.IssuePair(user.Username)
	if err != nil {
		return auth.TokenPair{}, models.NewInternalError(err)
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{"refresh_token": pair.RefreshToken}); err != nil {
		return auth.TokenPair{}, err
	}
	user.RefreshToken = pair.RefreshToken
	return pair, nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func changedAfter(changedAt *time.Time, issuedAt time.Time) bool {
	return changedAt != nil && changedAt.After(issuedAt)
}
