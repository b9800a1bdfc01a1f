package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/merrysway/storefront/internal/domain/identity"
	"github.com/merrysway/storefront/internal/domain/shared"
	"github.com/merrysway/storefront/internal/infrastructure/auth"
	"github.com/merrysway/storefront/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestAuthService(repo *MockUserRepository) (*AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-bytes!!",
		AccessTokenExpiration: time.Hour,
		Issuer:                "storefront-test",
	})
	svc := NewAuthService(repo, jwtService, AuthServiceConfig{BcryptCost: bcrypt.MinCost}, zap.NewNop())
	return svc, jwtService
}

func existingUser(t *testing.T, password string) *identity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := identity.NewUser("ana@example.com", "ana", string(hash))
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	req := RegisterRequest{Username: "ana", Email: "Ana@Example.com", Password: "s3cret-pass"}

	t.Run("creates user with hashed password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("ExistsByEmail", ctx, req.Email).Return(false, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Email == "ana@example.com" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) == nil
		})).Return(nil)

		resp, err := svc.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", resp.Email)
		assert.Equal(t, "ana", resp.Username)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("ExistsByEmail", ctx, req.Email).Return(true, nil)

		_, err := svc.Register(ctx, req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	})

	t.Run("lost insert race", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("ExistsByEmail", ctx, req.Email).Return(false, nil)
		repo.On("Save", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := svc.Register(ctx, req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, jwtService := newTestAuthService(repo)
		repo.On("FindByEmail", ctx, "ana@example.com").Return(existingUser(t, "s3cret-pass"), nil)

		resp, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, "bearer", resp.TokenType)

		claims, err := jwtService.Validate(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("FindByEmail", ctx, "ana@example.com").Return(existingUser(t, "s3cret-pass"), nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "nope-nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("FindByEmail", ctx, "bob@example.com").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginRequest{Email: "bob@example.com", Password: "whatever1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("repository failure is not masked", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("FindByEmail", ctx, "ana@example.com").Return(nil, errors.New("db down"))

		_, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "whatever1"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _ := newTestAuthService(repo)
	user := existingUser(t, "s3cret-pass")
	repo.On("FindByEmail", ctx, user.Email).Return(user, nil)

	resp, err := svc.Me(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.ID)
}
