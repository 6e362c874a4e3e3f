package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	userRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/user"
	"github.com/m04kA/SMC-CarReservation/internal/service/users/models"
	"github.com/m04kA/SMC-CarReservation/pkg/token"
)

// Service сервис регистрации, входа и проверки токенов
type Service struct {
	userRepo   UserRepository
	tokens     TokenManager
	denylist   Denylist
	validate   *validator.Validate
	bcryptCost int
	logger     Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(
	userRepo UserRepository,
	tokens TokenManager,
	denylist Denylist,
	logger Logger,
) *Service {
	return &Service{
		userRepo:   userRepo,
		tokens:     tokens,
		denylist:   denylist,
		validate:   validator.New(),
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// Register регистрирует пользователя и сразу выдает токен
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	s.logger.Info("Register: registering user email=%s", req.Email)

	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("Register: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("Register: failed to hash password: %v", err)
		return nil, fmt.Errorf("%w: failed to hash password: %v", ErrInternal, err)
	}

	created, err := s.userRepo.Create(ctx, &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			s.logger.Warn("Register: email=%s already taken", req.Email)
			return nil, ErrEmailTaken
		}
		s.logger.Error("Register: repository error: %v", err)
		return nil, fmt.Errorf("%w: Register - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Register: successfully registered user id=%d", created.ID)
	return s.issueToken(created)
}

// Login проверяет пароль и выдает токен
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("Login: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Login: unknown email=%s", req.Email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: repository error: %v", err)
		return nil, fmt.Errorf("%w: Login - repository error: %w", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Login: wrong password for user id=%d", user.ID)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("Login: user id=%d logged in", user.ID)
	return s.issueToken(user)
}

// Logout отзывает токен до окончания срока его действия
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return ErrUnauthorized
	}

	if err := s.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		s.logger.Error("Logout: failed to revoke token for user id=%d: %v", claims.UserID, err)
		return fmt.Errorf("%w: failed to revoke token: %w", ErrInternal, err)
	}

	s.logger.Info("Logout: user id=%d logged out", claims.UserID)
	return nil
}

// Authenticate проверяет токен и возвращает его данные
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*token.Claims, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.Error("Authenticate: denylist error: %v", err)
		return nil, fmt.Errorf("%w: denylist error: %w", ErrInternal, err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}

	return claims, nil
}

// GetByID получает пользователя по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("GetByID: user id=%d not found", id)
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetByID: repository error for user id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainUser(user), nil
}

func (s *Service) issueToken(user *domain.User) (*models.AuthResponse, error) {
	signed, claims, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		s.logger.Error("issueToken: failed to generate token for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: failed to generate token: %v", ErrInternal, err)
	}

	return &models.AuthResponse{
		Token:     signed,
		Email:     user.Email,
		UserID:    user.ID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
