package unit

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（Auth向け：衝突回避）
// =====================

type AuthUserRepoMock struct{ mock.Mock }

func (m *AuthUserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *AuthUserRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	created, _ := args.Get(0).(model.User)
	return created, args.Error(1)
}

type HasherMock struct{ mock.Mock }

func (m *HasherMock) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

type VerifierMock struct{ mock.Mock }

func (m *VerifierMock) Verify(plain string, hashed string) bool {
	args := m.Called(plain, hashed)
	return args.Bool(0)
}

type IssuerMock struct{ mock.Mock }

func (m *IssuerMock) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	args := m.Called(userID, role, now)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// =====================
// Register
// =====================

func TestRegisterUser_NameRequired(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(AuthUserRepoMock), new(HasherMock), FixedClock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name: " ", Email: "a@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidInput)
}

func TestRegisterUser_InvalidEmail(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(AuthUserRepoMock), new(HasherMock), FixedClock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name: "Taro", Email: "not-an-email", Password: "password123",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)
}

func TestRegisterUser_PasswordTooShort(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(AuthUserRepoMock), new(HasherMock), FixedClock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name: "Taro", Email: "a@example.com", Password: "short",
	})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	uc := auth.NewRegisterUserUsecase(userRepo, new(HasherMock), FixedClock{})

	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(model.User{ID: 1}, nil)

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name: "Taro", Email: "a@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestRegisterUser_Success(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	hasher := new(HasherMock)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	uc := auth.NewRegisterUserUsecase(userRepo, hasher, FixedClock{T: now})

	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(model.User{}, repo.ErrNotFound)
	hasher.On("Hash", "password123").Return("hashed", nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "a@example.com" &&
			u.PasswordHash == "hashed" &&
			u.Role == model.RoleUser &&
			u.CreatedAt.Equal(now)
	})).Return(model.User{ID: 5, Name: "Taro", Email: "a@example.com", PasswordHash: "hashed", Role: model.RoleUser}, nil)

	out, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name: "Taro", Email: "a@example.com", Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.User.ID)

	// レスポンスにハッシュは含めない
	assert.Empty(t, out.User.PasswordHash)
}

// =====================
// Login
// =====================

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	uc := auth.NewLoginUsecase(userRepo, new(VerifierMock), new(IssuerMock), FixedClock{})

	userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, repo.ErrNotFound)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	verifier := new(VerifierMock)
	uc := auth.NewLoginUsecase(userRepo, verifier, new(IssuerMock), FixedClock{})

	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(model.User{ID: 5, PasswordHash: "hashed"}, nil)
	verifier.On("Verify", "wrong", "hashed").Return(false)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	verifier := new(VerifierMock)
	issuer := new(IssuerMock)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	uc := auth.NewLoginUsecase(userRepo, verifier, issuer, FixedClock{T: now})

	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(model.User{
		ID: 5, Email: "a@example.com", PasswordHash: "hashed", Role: model.RoleAdmin,
	}, nil)
	verifier.On("Verify", "password123", "hashed").Return(true)
	issuer.On("Issue", int64(5), model.RoleAdmin, now).Return("signed.jwt", now.Add(7*24*time.Hour), nil)

	out, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "password123"})
	assert.NoError(t, err)
	assert.Equal(t, "signed.jwt", out.Token.AccessToken)
	assert.Equal(t, int64(7*24*60*60), out.Token.ExpiresIn)
	assert.Empty(t, out.User.PasswordHash)
}
