package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sbilibin2017/gw-user-store/internal/logger"
	"github.com/sbilibin2017/gw-user-store/internal/models"
)

// DefaultMinPasswordLength matches the rule the web front end enforces.
const DefaultMinPasswordLength = 6

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=services

// UserLoader reads the whole user collection.
type UserLoader interface {
	LoadAll(ctx context.Context) ([]models.UserRecord, error)
}

// UserSaver overwrites the whole user collection.
type UserSaver interface {
	SaveAll(ctx context.Context, users []models.UserRecord) error
}

// AuthService handles registration and login on top of a user collection store.
type AuthService struct {
	reader UserLoader
	writer UserSaver

	hasher      PasswordHasher
	minPassword int
	events      KafkaWriter
	now         func() time.Time

	// mu serializes load-check-save so concurrent registrations cannot lose updates.
	mu sync.Mutex
}

// Option configures an AuthService.
type Option func(*AuthService)

// WithPasswordHasher replaces the default plaintext hasher.
func WithPasswordHasher(h PasswordHasher) Option {
	return func(svc *AuthService) { svc.hasher = h }
}

// WithMinPasswordLength sets the minimum password length in characters; 0 disables the check.
func WithMinPasswordLength(n int) Option {
	return func(svc *AuthService) { svc.minPassword = n }
}

// WithEventWriter enables publishing of registration events.
func WithEventWriter(w KafkaWriter) Option {
	return func(svc *AuthService) { svc.events = w }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(svc *AuthService) { svc.now = now }
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserLoader, writer UserSaver, opts ...Option) *AuthService {
	svc := &AuthService{
		reader:      reader,
		writer:      writer,
		hasher:      PlaintextHasher{},
		minPassword: DefaultMinPasswordLength,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register adds a new user. Username and email are trimmed; the password is kept as given.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := svc.validate(username, email, password); err != nil {
		logger.Log.Infow("registration rejected", "username", username, "error", err)
		return err
	}

	stored, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "username", username, "err", err)
		return err
	}

	user, err := svc.appendUser(ctx, username, email, stored)
	if err != nil {
		return err
	}

	logger.Log.Infow("user registered", "user_id", user.ID, "username", user.Username)
	svc.publishUserRegistered(ctx, user)
	return nil
}

func (svc *AuthService) validate(username, email, password string) error {
	switch {
	case username == "":
		return &ValidationError{Field: "username", Reason: "is required"}
	case email == "":
		return &ValidationError{Field: "email", Reason: "is required"}
	case strings.TrimSpace(password) == "":
		return &ValidationError{Field: "password", Reason: "is required"}
	case utf8.RuneCountInString(password) < svc.minPassword:
		return &ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters", svc.minPassword),
		}
	}
	return nil
}

// appendUser runs the load-check-save cycle under the service lock.
func (svc *AuthService) appendUser(ctx context.Context, username, email, password string) (models.UserRecord, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	users, err := svc.reader.LoadAll(ctx)
	if err != nil {
		logger.Log.Errorw("failed to load users", "err", err)
		return models.UserRecord{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	for _, u := range users {
		if u.Username == username || u.Email == email {
			logger.Log.Infow("user already exists", "username", username, "email", email)
			return models.UserRecord{}, ErrUserAlreadyExists
		}
	}

	now := svc.now().UTC().Truncate(time.Millisecond)
	user := models.UserRecord{
		ID:        nextUserID(users, now),
		Username:  username,
		Email:     email,
		Password:  password,
		CreatedAt: now,
	}

	if err := svc.writer.SaveAll(ctx, append(users, user)); err != nil {
		logger.Log.Errorw("failed to save users", "err", err)
		return models.UserRecord{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return user, nil
}

// Authenticate returns the view of the first user whose username and password both match.
// The username is trimmed the same way Register trims it.
func (svc *AuthService) Authenticate(ctx context.Context, username, password string) (*models.UserView, error) {
	username = strings.TrimSpace(username)

	users, err := svc.reader.LoadAll(ctx)
	if err != nil {
		logger.Log.Errorw("failed to load users", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	for _, u := range users {
		if u.Username == username && svc.hasher.Matches(u.Password, password) {
			return u.View(), nil
		}
	}

	logger.Log.Infow("invalid credentials", "username", username)
	return nil, ErrInvalidCredentials
}

// nextUserID derives an id from the creation time in milliseconds,
// stepping forward past ids already present in the collection.
func nextUserID(users []models.UserRecord, now time.Time) string {
	taken := make(map[string]struct{}, len(users))
	for _, u := range users {
		taken[u.ID] = struct{}{}
	}

	for n := now.UnixMilli(); ; n++ {
		id := strconv.FormatInt(n, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
	}
}
