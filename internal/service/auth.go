package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mberezin/shop_backend/internal/hash"
	"github.com/mberezin/shop_backend/internal/logging"
	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/repo"
	"github.com/mberezin/shop_backend/internal/tokens"
)

const (
	verificationTTL = time.Hour
	resetTTL        = time.Hour
)

// Mailer is the transactional mail surface the auth flows need. The
// SMTP implementation lives in internal/mail.
type Mailer interface {
	SendVerification(to, username, code string) error
	SendWelcome(to, username string) error
	SendPasswordReset(to, username, resetURL string) error
	SendPasswordResetSuccess(to, username string) error
}

type AuthService struct {
	Repo       *repo.GormRepo
	Mail       Mailer
	JWTSecret  []byte
	AdminEmail string
	AppURL     string
}

type LoginResult struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	AccessExp    time.Time `json:"access_exp"`
	UserID       uint      `json:"user_id"`
	IsAdmin      bool      `json:"is_admin"`
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateRegistration(username, email, password); err != nil {
		l.Warn("register_failed", "status", 400, "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	code, err := tokens.NewVerificationCode()
	if err != nil {
		return nil, err
	}

	role := models.RoleUser
	if s.AdminEmail != "" && email == strings.ToLower(s.AdminEmail) {
		role = models.RoleAdmin
	}

	user := models.User{
		Username:              username,
		Email:                 email,
		PasswordHash:          pwHash,
		Role:                  role,
		VerificationCode:      code,
		VerificationExpiresAt: time.Now().Add(verificationTTL).Unix(),
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if repo.IsDuplicate(err) {
			l.Warn("register_failed", "status", 400, "reason", "username or email taken")
			return nil, fmt.Errorf("username or email already taken: %w", ErrConflict)
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Mail.SendVerification(user.Email, user.Username, code); err != nil {
		// Registration is all-or-nothing: a user who never got a code
		// could not verify, so drop the row and report the failure.
		if delErr := s.Repo.DeleteUser(ctx, user.ID); delErr != nil {
			l.Error("register_cleanup_failed", "user_id", user.ID, "error", delErr)
		}
		l.Error("register_failed", "status", 500, "reason", "verification mail", "error", err)
		return nil, fmt.Errorf("send verification mail: %w", err)
	}

	l.Info("user_registered", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, code string) error {
	l := logging.FromContext(ctx).With("svc", "auth.verify_email")

	if code == "" {
		return fmt.Errorf("code required: %w", ErrValidation)
	}

	user, err := s.Repo.UserByVerificationCode(ctx, code)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("verify_failed", "status", 400, "reason", "unknown code")
			return fmt.Errorf("unknown verification code: %w", ErrInvalidToken)
		}
		return err
	}
	if time.Now().Unix() > user.VerificationExpiresAt {
		l.Warn("verify_failed", "status", 400, "reason", "code expired")
		return fmt.Errorf("verification code expired: %w", ErrInvalidToken)
	}

	err = s.Repo.UpdateUserFields(ctx, user.ID, map[string]any{
		"is_verified":             true,
		"verification_code":       "",
		"verification_expires_at": 0,
	})
	if err != nil {
		return err
	}

	if err := s.Mail.SendWelcome(user.Email, user.Username); err != nil {
		l.Error("welcome_mail_failed", "user_id", user.ID, "error", err)
	}

	l.Info("email_verified", "user_id", user.ID)
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("login_failed", "status", 400, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 400, "reason", "bad password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		l.Warn("login_failed", "status", 400, "reason", "unverified", "user_id", user.ID)
		return nil, ErrUnverified
	}

	if err := s.Repo.UpdateUserFields(ctx, user.ID, map[string]any{"last_login": time.Now().Unix()}); err != nil {
		return nil, err
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("user_logged_in", "user_id", user.ID)
	return result, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token required: %w", ErrValidation)
	}

	row, err := s.Repo.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("refresh_failed", "status", 400, "reason", "unknown token")
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if time.Now().Unix() > row.ExpiresAt {
		l.Warn("refresh_failed", "status", 400, "reason", "expired", "user_id", row.UserID)
		return nil, ErrInvalidToken
	}

	user, err := s.Repo.UserByID(ctx, row.UserID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("user gone: %w", ErrNotFound)
		}
		return nil, err
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("tokens_rotated", "user_id", user.ID)
	return result, nil
}

// LogOut drops the refresh token row. Unknown tokens are a no-op so
// the operation stays idempotent.
func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email required: %w", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("forgot_password_failed", "status", 404, "reason", "unknown email")
			return fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return err
	}

	token, err := tokens.NewResetToken()
	if err != nil {
		return err
	}
	err = s.Repo.UpdateUserFields(ctx, user.ID, map[string]any{
		"reset_password_token":      token,
		"reset_password_expires_at": time.Now().Add(resetTTL).Unix(),
	})
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/users/reset-password/%s", strings.TrimRight(s.AppURL, "/"), token)
	if err := s.Mail.SendPasswordReset(user.Email, user.Username, resetURL); err != nil {
		l.Error("forgot_password_failed", "status", 500, "reason", "reset mail", "error", err)
		return fmt.Errorf("send reset mail: %w", err)
	}

	l.Info("reset_token_issued", "user_id", user.ID)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, email, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	email = strings.ToLower(strings.TrimSpace(email))
	if token == "" || email == "" {
		return fmt.Errorf("token and email required: %w", ErrValidation)
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}

	user, err := s.Repo.UserByResetToken(ctx, token)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("reset_failed", "status", 400, "reason", "unknown token")
			return fmt.Errorf("unknown reset token: %w", ErrInvalidToken)
		}
		return err
	}
	if user.Email != email {
		l.Warn("reset_failed", "status", 400, "reason", "email mismatch", "user_id", user.ID)
		return fmt.Errorf("token does not match email: %w", ErrInvalidToken)
	}
	if time.Now().Unix() > user.ResetPasswordExpiresAt {
		l.Warn("reset_failed", "status", 400, "reason", "expired", "user_id", user.ID)
		return fmt.Errorf("reset token expired: %w", ErrInvalidToken)
	}
	if hash.CheckPassword(user.PasswordHash, newPassword) {
		l.Warn("reset_failed", "status", 400, "reason", "same password", "user_id", user.ID)
		return ErrSamePassword
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	err = s.Repo.UpdateUserFields(ctx, user.ID, map[string]any{
		"password_hash":             pwHash,
		"reset_password_token":      "",
		"reset_password_expires_at": 0,
	})
	if err != nil {
		return err
	}

	if err := s.Mail.SendPasswordResetSuccess(user.Email, user.Username); err != nil {
		l.Error("reset_success_mail_failed", "user_id", user.ID, "error", err)
	}

	l.Info("password_reset", "user_id", user.ID)
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

type ProfileUpdate struct {
	Username *string
	Address  *string
	Mobile   *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) (*models.User, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, err
	}

	if upd.Username != nil {
		if len(*upd.Username) < 3 || len(*upd.Username) > 50 {
			return nil, fmt.Errorf("username must be 3-50 characters: %w", ErrValidation)
		}
		user.Username = *upd.Username
	}
	if upd.Address != nil {
		user.Address = *upd.Address
	}
	if upd.Mobile != nil {
		user.Mobile = *upd.Mobile
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fmt.Errorf("username already taken: %w", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	accessExp := time.Now().Add(tokens.AccessTTL)
	accessToken, err := tokens.SignAccessToken(user.ID, user.Username, user.Role, s.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refreshToken, err := tokens.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, refreshToken, user.ID, time.Now().Add(tokens.RefreshTTL)); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		UserID:       user.ID,
		IsAdmin:      user.Role == models.RoleAdmin,
	}, nil
}

func validateRegistration(username, email, password string) error {
	if len(username) < 3 || len(username) > 50 {
		return fmt.Errorf("username must be 3-50 characters: %w", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email: %w", ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}
	return nil
}
