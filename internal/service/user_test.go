package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sophialaurans/stockly-go/internal/auth"
	"github.com/sophialaurans/stockly-go/internal/domain"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
)

// --- Mocks ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestUserService(repo *mockUserRepository) *UserService {
	tokens := auth.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewUserService(repo, tokens, newTestLogger())
}

func storedUser(password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:           "usr-1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	var created *domain.User
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
		Return(nil)

	user, err := svc.Register(ctx, RegisterInput{
		Name:     "Alice",
		Email:    "  Alice@Example.COM ",
		Password: "s3cret-pass",
	})

	require.NoError(t, err)
	assert.Equal(t, created, user)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestUserService(new(mockUserRepository))

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "short",
	})

	assert.Nil(t, user)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "alice@example.com"))

	user, err := svc.Register(ctx, RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})

	assert.Nil(t, user)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "alice@example.com").Return(storedUser("s3cret-pass"), nil)

	user, pair, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.Equal(t, "usr-1", user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "alice@example.com").Return(storedUser("s3cret-pass"), nil)

	user, pair, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})

	assert.Nil(t, user)
	assert.Nil(t, pair)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperrors.NotFound("user", "nobody@example.com"))

	_, _, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// --- Refresh ---

func TestRefresh_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	stored := storedUser("s3cret-pass")
	repo.On("GetByEmail", ctx, "alice@example.com").Return(stored, nil)
	repo.On("GetByID", ctx, "usr-1").Return(stored, nil)

	_, pair, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, RefreshInput{RefreshToken: pair.RefreshToken})

	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)
	assert.NotEmpty(t, renewed.RefreshToken)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc := newTestUserService(new(mockUserRepository))

	pair, err := svc.Refresh(context.Background(), RefreshInput{RefreshToken: "garbage"})

	assert.Nil(t, pair)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// --- Profile ---

func TestProfile_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "usr-1").Return(storedUser("s3cret-pass"), nil)

	user, err := svc.Profile(ctx, "usr-1")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestProfile_NotFound(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "ghost").Return(nil, apperrors.NotFound("user", "ghost"))

	user, err := svc.Profile(ctx, "ghost")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
