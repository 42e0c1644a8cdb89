package user

import (
	"context"

	"takeaway-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	Profile(ctx context.Context, userID uint) (*User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{repo: repo, jwtSecret: jwtSecret}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
		zap.String("email", input.Email),
	)

	if input.Name == "" || input.Email == "" || input.Password == "" {
		log.Warn("register validation failed")
		return nil, ErrMissingFields
	}

	role := input.Role
	if role == "" {
		role = RoleCustomer
	}
	if !role.Valid() {
		return nil, ErrMissingFields
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		log.Error("password hashing failed", zap.Error(err))
		return nil, err
	}

	u := &User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		log.Warn("register failed", zap.Error(err))
		return nil, err
	}

	log.Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
		zap.String("email", email),
	)

	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Same error whether the email is unknown or the password is wrong.
		log.Warn("login failed: unknown email")
		return "", nil, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, u.PasswordHash) {
		log.Warn("login failed: bad password", zap.Uint("user_id", u.ID))
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(s.jwtSecret, u)
	if err != nil {
		log.Error("token generation failed", zap.Error(err))
		return "", nil, err
	}

	log.Info("login success", zap.Uint("user_id", u.ID))
	return token, u, nil
}

func (s *service) Profile(ctx context.Context, userID uint) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}
