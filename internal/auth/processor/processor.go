package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"baysawaar-server/internal/config"
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/store"
	"baysawaar-server/internal/validation"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore defines the database operations required by AuthProcessor
type UserStore interface {
	CreateUser(ctx context.Context, params store.CreateUserParams) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (store.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role string) (store.User, error)
}

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidJWTToken    = errors.New("invalid jwt token")
	ErrParseJWTToken      = errors.New("failed to parse jwt token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrFailedSignIn       = errors.New("failed to sign in")
)

const defaultTokenTTL = 24 * time.Hour

type AuthProcessor struct {
	store     UserStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    *observability.Logger
	now       func() time.Time
}

func New(store UserStore, authConfig config.AuthConfig, logger *observability.Logger) AuthProcessor {
	ttl := authConfig.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return AuthProcessor{
		store:     store,
		jwtSecret: authConfig.JWTSecret,
		tokenTTL:  ttl,
		logger:    logger,
		now:       time.Now,
	}
}

type SignupParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

type LoginResult struct {
	Token string     `json:"token"`
	User  store.User `json:"user"`
}

// Signup creates a user-role account after running the registration rules.
func (p *AuthProcessor) Signup(ctx context.Context, params SignupParams) (store.User, error) {
	payload := validation.Payload{
		"firstName": params.FirstName,
		"lastName":  params.LastName,
		"email":     params.Email,
		"password":  params.Password,
		"phone":     params.Phone,
	}
	if err := validation.RegistrationRules().Validate(payload); err != nil {
		return store.User{}, err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: payload["email"]})

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload["password"]), bcrypt.DefaultCost)
	if err != nil {
		p.logger.Error(ctx, "failed to hash password", err)
		return store.User{}, err
	}

	user, err := p.store.CreateUser(ctx, store.CreateUserParams{
		FirstName:    payload["firstName"],
		LastName:     payload["lastName"],
		Email:        payload["email"],
		Phone:        payload["phone"],
		PasswordHash: string(hashedPassword),
		Role:         store.UserRoleUser,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return store.User{}, ErrEmailAlreadyExists
		}
		p.logger.Error(ctx, "failed to create user", err)
		return store.User{}, err
	}

	p.logger.Info(ctx, "user signed up", observability.Field{Key: "user_id", Value: user.ID.String()})
	return user, nil
}

func (p *AuthProcessor) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: email})

	user, err := p.store.GetUserByEmail(ctx, validation.Lowercase(validation.Trim(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		p.logger.Error(ctx, "failed to get user by email", err)
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		p.logger.Warn(ctx, "password mismatch on login")
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := p.generateJWTToken(ctx, user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user}, nil
}

func (p *AuthProcessor) GetUser(ctx context.Context, userID uuid.UUID) (store.User, error) {
	user, err := p.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to get user by id", err)
		return store.User{}, err
	}
	return user, nil
}

// EnsureAdmin makes sure an admin account exists for email, creating it
// with password when missing and promoting it when it has a lesser role.
func (p *AuthProcessor) EnsureAdmin(ctx context.Context, email, password string) (store.User, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: email})

	user, err := p.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Role == store.UserRoleAdmin {
			return user, nil
		}
		promoted, err := p.store.UpdateUserRole(ctx, user.ID, store.UserRoleAdmin)
		if err != nil {
			p.logger.Error(ctx, "failed to promote admin", err)
			return store.User{}, err
		}
		p.logger.Info(ctx, "promoted existing account to admin")
		return promoted, nil
	case !errors.Is(err, store.ErrNotFound):
		p.logger.Error(ctx, "failed to look up admin account", err)
		return store.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		p.logger.Error(ctx, "failed to hash password", err)
		return store.User{}, err
	}
	user, err = p.store.CreateUser(ctx, store.CreateUserParams{
		FirstName:    "Admin",
		LastName:     "BAY SA WAAR",
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         store.UserRoleAdmin,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create admin", err)
		return store.User{}, err
	}
	p.logger.Info(ctx, "created admin account")
	return user, nil
}
