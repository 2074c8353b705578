package service_test

import (
	"context"
	"testing"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/apierror"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/config"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	svc       service.AuthService
	users     *stubUserRepo
	userTypes *stubUserTypeRepo
	tokens    *stubRefreshTokenRepo
	cfg       *config.Config
	approver  *model.UserType
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:     newStubUserRepo(),
		userTypes: newStubUserTypeRepo(),
		tokens:    newStubRefreshTokenRepo(),
		cfg: &config.Config{
			JWTSecret:          "test-secret",
			JWTExpirationHours: 1,
			RefreshTokenDays:   7,
		},
	}
	f.svc = service.NewAuthService(f.users, f.userTypes, f.tokens, f.cfg)
	f.approver = &model.UserType{ID: uuid.New(), Name: "Engenheiro", ApproveMeasurement: true}
	f.userTypes.types[f.approver.ID] = f.approver
	return f
}

func (f *authFixture) seedUser(t *testing.T, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		ID:           uuid.New(),
		FirstName:    "Maria",
		LastName:     "Souza",
		Email:        email,
		PasswordHash: string(hash),
		UserTypeID:   f.approver.ID,
		UserType:     f.approver,
	}
	f.users.users[user.ID] = user
	return user
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "maria@conferir.com", "secret123")

	resp, err := f.svc.Login(context.Background(), dto.LoginRequest{
		Email:    "maria@conferir.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "maria@conferir.com", resp.User.Email)
	assert.Equal(t, "Engenheiro", resp.User.UserType)

	// The access token carries the approval claim used by the middleware.
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, true, claims["approve_measurement"])
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "maria@conferir.com", "secret123")

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{
		Email:    "maria@conferir.com",
		Password: "wrong",
	})
	require.Error(t, err)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@conferir.com",
		Password: "whatever",
	})
	require.Error(t, err)
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "maria@conferir.com", "secret123")

	login, err := f.svc.Login(context.Background(), dto.LoginRequest{
		Email:    "maria@conferir.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := f.svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The presented token was revoked; replaying it must fail.
	_, err = f.svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)

	// The rotated token is live.
	_, err = f.svc.Refresh(context.Background(), refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "maria@conferir.com", "secret123")

	login, err := f.svc.Login(context.Background(), dto.LoginRequest{
		Email:    "maria@conferir.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), login.RefreshToken))

	_, err = f.svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestCreateUser_Success(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.CreateUser(context.Background(), dto.CreateUserRequest{
		FirstName:  "Joao",
		LastName:   "Lima",
		Email:      "joao@conferir.com",
		Password:   "secret123",
		UserTypeID: f.approver.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "joao@conferir.com", resp.Email)
	assert.Equal(t, "Engenheiro", resp.UserType)

	// The password is stored hashed, never in plain text.
	stored, err := f.users.FindByEmail(context.Background(), "joao@conferir.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "maria@conferir.com", "secret123")

	_, err := f.svc.CreateUser(context.Background(), dto.CreateUserRequest{
		FirstName:  "Maria",
		LastName:   "Souza",
		Email:      "maria@conferir.com",
		Password:   "secret123",
		UserTypeID: f.approver.ID.String(),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsConflict(err))
}

func TestCreateUser_UnknownUserType(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.CreateUser(context.Background(), dto.CreateUserRequest{
		FirstName:  "Joao",
		LastName:   "Lima",
		Email:      "joao@conferir.com",
		Password:   "secret123",
		UserTypeID: uuid.NewString(),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsNotFound(err))
}

func TestListUserTypes(t *testing.T) {
	f := newAuthFixture(t)
	f.userTypes.types[uuid.New()] = &model.UserType{ID: uuid.New(), Name: "Apontador", ApproveMeasurement: false}

	types, err := f.svc.ListUserTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, 2)
}
