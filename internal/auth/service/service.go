package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/capitalsapp/capitals/internal/auth/token"
	commoncrypto "github.com/capitalsapp/capitals/internal/common/crypto"
	commonerrors "github.com/capitalsapp/capitals/internal/common/errors"
	"github.com/capitalsapp/capitals/internal/common/logger"
	"github.com/capitalsapp/capitals/internal/observability/metrics"
	userdomain "github.com/capitalsapp/capitals/internal/user/domain"
	userrepo "github.com/capitalsapp/capitals/internal/user/repository"
)

type Credentials struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Session is a minted token plus the expiry the cookie should carry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	repo       userrepo.Repository
	hasher     commoncrypto.PasswordHasher
	codec      token.Codec
	validate   *validator.Validate
	sessionTTL time.Duration
	now        func() time.Time
	log        *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	codec token.Codec,
	sessionTTL time.Duration,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:       repo,
		hasher:     hasher,
		codec:      codec,
		validate:   validator.New(),
		sessionTTL: sessionTTL,
		now:        time.Now,
		log:        log,
	}
}

func (s *AuthService) Register(ctx context.Context, creds Credentials) (userdomain.User, error) {
	s.log.WithFields(logger.Fields{
		"username": creds.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := s.validateCredentials(creds); err != nil {
		return userdomain.User{}, err
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"username": creds.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return userdomain.User{}, commonerrors.ErrInternal.WithCause(err)
	}

	user, err := s.repo.Create(ctx, creds.Username, hash)
	if err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(logger.Fields{
				"username": creds.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: username already exists")
			return userdomain.User{}, ErrUsernameTaken
		}
		s.log.WithFields(logger.Fields{
			"username": creds.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return userdomain.User{}, commonerrors.ErrInternal.WithCause(err)
	}

	s.log.WithFields(logger.Fields{
		"username": user.Username,
		"user_id":  user.ID,
		"action":   "register_success",
	}).Info("register success")

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, creds Credentials) (Session, error) {
	s.log.WithFields(logger.Fields{
		"username": creds.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	// Only presence is checked here. Anything else wrong with the
	// credentials must come back as the same 401 as a bad password.
	if creds.Username == "" || creds.Password == "" {
		return Session{}, validationError("username and password are required")
	}

	user, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(logger.Fields{
				"username": creds.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			return Session{}, ErrInvalidCredentials
		}
		s.log.WithFields(logger.Fields{
			"username": creds.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return Session{}, commonerrors.ErrInternal.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, creds.Password); err != nil {
		s.log.WithFields(logger.Fields{
			"username": creds.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		return Session{}, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.sessionTTL)
	signed, err := s.codec.Issue(token.Claims{UserID: user.ID, Username: user.Username}, s.sessionTTL)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"username": creds.Username,
			"user_id":  user.ID,
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return Session{}, commonerrors.ErrInternal.WithCause(err)
	}

	metrics.SessionsIssued.Inc()
	s.log.WithFields(logger.Fields{
		"username": user.Username,
		"user_id":  user.ID,
		"action":   "login_success",
	}).Info("login success")

	return Session{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) validateCredentials(creds Credentials) error {
	err := s.validate.Struct(creds)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return validationError("invalid credentials payload")
	}

	msgs := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		msgs = append(msgs, describeFieldError(fe))
	}

	s.log.WithFields(logger.Fields{
		"username": creds.Username,
		"action":   "credentials_validation_failed",
	}).Warnf("validation failed: %s", strings.Join(msgs, "; "))

	return validationError(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
