package service

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userService struct {
	repo        repository.UserRepository
	cartRepo    repository.CartRepository
	rateLimiter repository.RateLimitRepository
	transactor  repository.Transactor
	jwtKey      []byte
	tokenTTL    time.Duration
}

func NewUserService(
	repo repository.UserRepository,
	cartRepo repository.CartRepository,
	rateLimiter repository.RateLimitRepository,
	transactor repository.Transactor,
	jwtKey []byte,
	tokenTTL time.Duration,
) UserService {
	return &userService{
		repo:        repo,
		cartRepo:    cartRepo,
		rateLimiter: rateLimiter,
		transactor:  transactor,
		jwtKey:      jwtKey,
		tokenTTL:    tokenTTL,
	}
}

// Register stores the user and, for buyers, their cart in one transaction.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {

	role := req.Role
	if role == "" {
		role = models.RoleBuyer
	}

	if role != models.RoleBuyer && role != models.RoleVendor {
		return nil, errors.InvalidFieldError("role", "must be buyer or vendor")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     role,
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return err
		}

		if role.Can(models.CapShop) {
			if _, err := s.cartRepo.GetOrCreateCart(ctx, user.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if stdErrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("Email already registered").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	// check rate limit
	allowed, remaining, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, req.Email)
	if err != nil {
		return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return &models.LoginResponse{
			Success:    false,
			Message:    "Too many login attempts. Please try again later.",
			RetryAfter: retryAfter,
		}, nil
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil && !stdErrors.Is(err, repository.ErrNotFound) {
		return nil, errors.DatabaseError("Failed to fetch user").WithError(err)
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return &models.LoginResponse{
			Success:        false,
			Message:        "Invalid email or password",
			RemainingTries: remaining,
		}, nil
	}

	now := time.Now()
	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.LoginResponse{
		Success:   true,
		Token:     tokenString,
		ExpiresIn: int(s.tokenTTL.Seconds()),
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("User not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch user").WithError(err)
	}

	return user, nil
}
