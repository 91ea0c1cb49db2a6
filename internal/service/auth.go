// Package service holds the business rules, between the HTTP handlers and
// the repositories. Services never touch HTTP; handlers never touch SQL.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bdec/jobboard/internal/apperror"
	"github.com/bdec/jobboard/internal/auth"
	"github.com/bdec/jobboard/internal/mail"
	"github.com/bdec/jobboard/internal/model"
	"github.com/bdec/jobboard/internal/repository"
)

// GoogleVerifier is the slice of auth.GoogleVerifier the service needs;
// an interface so tests can stub the network call.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*auth.GoogleIdentity, error)
}

// AuthService unifies local-credential and Google-federated identity into
// one session token.
type AuthService struct {
	users         repository.UserRepository
	tokens        *auth.TokenService
	passwords     *auth.PasswordService
	google        GoogleVerifier
	mailer        mail.Sender
	allowImplicit bool
	logger        *slog.Logger
}

// NewAuthService wires the auth dependencies. google may be nil, which
// disables ID-token login. allowImplicit enables the legacy Google mode
// that trusts a caller-supplied email/name pair with no token at all —
// leave it off unless a trusted proxy really does the verification.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	google GoogleVerifier,
	mailer mail.Sender,
	allowImplicit bool,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		tokens:        tokens,
		passwords:     passwords,
		google:        google,
		mailer:        mailer,
		allowImplicit: allowImplicit,
		logger:        logger,
	}
}

// AuthResult bundles the user record and the issued session token.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a local-credential account.
// Returns apperror.ErrConflict when the email is already registered.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: registering %s: %w", email, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)
	s.sendWelcome(user)

	return s.issue(user)
}

// Login verifies a local credential pair. Unknown email and wrong password
// are indistinguishable to the caller: both are ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.Password, password); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))
	return s.issue(user)
}

// GoogleLogin is the federated entry point: either a Google ID token to
// verify, or — when the implicit bypass is enabled — a pre-resolved
// email/name pair taken on faith.
type GoogleLogin struct {
	IDToken  string
	Implicit bool
	Email    string
	Name     string
}

// LoginGoogle resolves a Google identity and logs it in, silently
// provisioning a local account on first sight.
func (s *AuthService) LoginGoogle(ctx context.Context, in GoogleLogin) (*AuthResult, error) {
	var identity *auth.GoogleIdentity

	switch {
	case in.Implicit:
		if !s.allowImplicit {
			return nil, apperror.ValidationFailed("isImplicit", "implicit Google login is disabled")
		}
		if in.Email == "" {
			return nil, apperror.ValidationFailed("email", "email is required for implicit login")
		}
		identity = &auth.GoogleIdentity{Email: in.Email, Name: in.Name}

	case in.IDToken != "":
		if s.google == nil {
			return nil, apperror.ValidationFailed("idToken", "Google login is not configured")
		}
		var err error
		identity, err = s.google.Verify(ctx, in.IDToken)
		if err != nil {
			s.logger.Warn("Google token verification failed", slog.String("error", err.Error()))
			return nil, apperror.InvalidToken("invalid Google token")
		}

	default:
		return nil, apperror.ValidationFailed("idToken", "idToken is required")
	}

	return s.LoginFederated(ctx, identity)
}

// LoginFederated finds or provisions the local account for a verified
// external identity and issues a session token.
//
// First-time federated users get a random unusable password: the hash of a
// UUID nobody ever sees. They can only ever log in federated, but the row
// shape stays identical to local accounts.
func (s *AuthService) LoginFederated(ctx context.Context, identity *auth.GoogleIdentity) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, identity.Email)
	if err == nil {
		s.logger.Info("federated login", slog.Int64("userID", user.ID))
		return s.issue(user)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: looking up %s: %w", identity.Email, err)
	}

	unusable, err := s.passwords.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing placeholder password: %w", err)
	}

	user = &model.User{
		Name:     identity.Name,
		Email:    identity.Email,
		Password: unusable,
		Role:     model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: provisioning federated user %s: %w", identity.Email, err)
	}

	s.logger.Info("federated user provisioned",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)
	s.sendWelcome(user)

	return s.issue(user)
}

// issue mints the session token for a user.
func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// sendWelcome dispatches the welcome mail without blocking the caller.
// Failure is logged and swallowed: mail never gates registration.
func (s *AuthService) sendWelcome(user *model.User) {
	email, name := user.Email, user.Name
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendWelcome(ctx, email, name); err != nil {
			s.logger.Warn("welcome mail failed",
				slog.String("to", email),
				slog.String("error", err.Error()),
			)
		}
	}()
}
