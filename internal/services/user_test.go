package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	repoMocks "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testJWTKey = []byte("test-secret")

type userFixture struct {
	users   *repoMocks.UserRepository
	carts   *repoMocks.CartRepository
	limiter *repoMocks.RateLimitRepository
	tx      *repoMocks.Transactor
	service service.UserService
}

func newUserFixture(t *testing.T) *userFixture {
	f := &userFixture{
		users:   repoMocks.NewUserRepository(t),
		carts:   repoMocks.NewCartRepository(t),
		limiter: repoMocks.NewRateLimitRepository(t),
		tx:      repoMocks.NewTransactor(t),
	}
	f.service = service.NewUserService(f.users, f.carts, f.limiter, f.tx, testJWTKey, 2*time.Hour)

	return f
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Buyer gets a cart", func(t *testing.T) {
		// Arrange
		f := newUserFixture(t)
		passThroughTx(f.tx)
		userID := uuid.New()
		req := &models.RegisterRequest{Email: "buyer@example.com", Password: "secret1", Name: "Buyer"}

		f.users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleBuyer && bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")) == nil
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = userID
		}).Return(nil).Once()
		f.carts.On("GetOrCreateCart", mock.Anything, userID).Return(&models.Cart{ID: uuid.New(), UserID: userID}, nil).Once()

		// Act
		user, err := f.service.Register(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, models.RoleBuyer, user.Role)
	})

	t.Run("Success - Vendor role kept", func(t *testing.T) {
		// Arrange
		f := newUserFixture(t)
		passThroughTx(f.tx)
		req := &models.RegisterRequest{Email: "vendor@example.com", Password: "secret1", Name: "Vendor", Role: models.RoleVendor}

		f.users.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()
		f.carts.On("GetOrCreateCart", mock.Anything, mock.Anything).Return(&models.Cart{}, nil).Once()

		// Act
		user, err := f.service.Register(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.RoleVendor, user.Role)
	})

	t.Run("Failure - Admin self registration", func(t *testing.T) {
		// Arrange
		f := newUserFixture(t)
		req := &models.RegisterRequest{Email: "root@example.com", Password: "secret1", Name: "Root", Role: models.RoleAdmin}

		// Act
		user, err := f.service.Register(ctx, req)

		// Assert
		assert.Nil(t, user)
		requireAppError(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Failure - Duplicate email", func(t *testing.T) {
		// Arrange
		f := newUserFixture(t)
		passThroughTx(f.tx)
		req := &models.RegisterRequest{Email: "taken@example.com", Password: "secret1", Name: "Dup"}
		f.users.On("CreateUser", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()

		// Act
		user, err := f.service.Register(ctx, req)

		// Assert
		assert.Nil(t, user)
		requireAppError(t, err, appErrors.ErrCodeDuplicateEntry)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "buyer@example.com", Password: string(hashed), Role: models.RoleBuyer}

	t.Run("Success - Token carries role", func(t *testing.T) {
		// Arrange
		f := newUserFixture(t)
		f.limiter.On("CheckLoginRateLimit", ctx, user.Email).Return(true, 4, 0, nil).Once()
		f.users.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()

		// Act
		resp, err := f.service.Login(ctx, &models.LoginRequest{Email: user.Email, Password: "secret1"})

		// Assert
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, 7200, resp.ExpiresIn)

		claims := &models.Claims{}
		_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (any, error) { return testJWTKey, nil })
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, models.RoleBuyer, claims.Role)
	})

	t.Run("Failure - Wrong password", func(t *testing.T) {
		// Arrange
		f := newUserFixture(t)
		f.limiter.On("CheckLoginRateLimit", ctx, user.Email).Return(true, 2, 0, nil).Once()
		f.users.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()

		// Act
		resp, err := f.service.Login(ctx, &models.LoginRequest{Email: user.Email, Password: "nope"})

		// Assert
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 2, resp.RemainingTries)
		assert.Empty(t, resp.Token)
	})

	t.Run("Failure - Unknown email", func(t *testing.T) {
		// Arrange
		f := newUserFixture(t)
		f.limiter.On("CheckLoginRateLimit", ctx, "ghost@example.com").Return(true, 4, 0, nil).Once()
		f.users.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()

		// Act
		resp, err := f.service.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "secret1"})

		// Assert
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "Invalid email or password", resp.Message)
	})

	t.Run("Failure - Rate limited", func(t *testing.T) {
		// Arrange
		f := newUserFixture(t)
		f.limiter.On("CheckLoginRateLimit", ctx, user.Email).Return(false, 0, 12, nil).Once()

		// Act
		resp, err := f.service.Login(ctx, &models.LoginRequest{Email: user.Email, Password: "secret1"})

		// Assert
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 12, resp.RetryAfter)
		f.users.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Rate limiter unavailable", func(t *testing.T) {
		// Arrange
		f := newUserFixture(t)
		f.limiter.On("CheckLoginRateLimit", ctx, user.Email).Return(false, 0, 0, errors.New("redis down")).Once()

		// Act
		resp, err := f.service.Login(ctx, &models.LoginRequest{Email: user.Email, Password: "secret1"})

		// Assert
		assert.Nil(t, resp)
		requireAppError(t, err, appErrors.ErrCodeThirdPartyError)
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure - Not found", func(t *testing.T) {
		// Arrange
		f := newUserFixture(t)
		id := uuid.New()
		f.users.On("GetUserByID", ctx, id).Return(nil, repository.ErrNotFound).Once()

		// Act
		user, err := f.service.GetUserByID(ctx, id)

		// Assert
		assert.Nil(t, user)
		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}
