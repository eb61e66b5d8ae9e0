package auth

import (
	"context"
	"testing"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 7
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func TestRegister_Learner(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	svc := NewService(users, tokens)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "lena@example.com" && u.Role == domain.RoleLearner && u.PasswordHash != "secret123"
	})).Return(nil)
	tokens.On("GenerateToken", int64(7), "learner").Return("tok", nil)

	user, token, err := svc.Register(context.Background(), RegisterRequest{
		Email: " Lena@Example.com ", Password: "secret123", Name: "Lena", Role: "learner",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, int64(7), user.ID)
}

func TestRegister_AdminRoleRefused(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	svc := NewService(users, tokens)

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Email: "a@example.com", Password: "secret123", Name: "A", Role: "admin",
	})

	assert.ErrorIs(t, err, ErrInvalidRole)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	svc := NewService(users, tokens)

	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Email: "lena@example.com", Password: "secret123", Name: "Lena", Role: "tutor",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	svc := NewService(users, tokens)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	users.On("GetByEmail", mock.Anything, "lena@example.com").Return(&domain.User{
		ID: 7, Email: "lena@example.com", PasswordHash: string(hash), Role: domain.RoleLearner,
	}, nil)
	tokens.On("GenerateToken", int64(7), "learner").Return("tok", nil)

	_, token, err := svc.Login(context.Background(), LoginRequest{Email: "lena@example.com", Password: "secret123"})

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	svc := NewService(users, tokens)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	users.On("GetByEmail", mock.Anything, "lena@example.com").Return(&domain.User{
		ID: 7, PasswordHash: string(hash),
	}, nil)

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "lena@example.com", Password: "nope"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	svc := NewService(users, tokens)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
