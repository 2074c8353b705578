package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/apierror"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/config"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUserTypes(ctx context.Context) ([]dto.UserTypeResponse, error)
}

type authService struct {
	users         repository.UserRepository
	userTypes     repository.UserTypeRepository
	refreshTokens repository.RefreshTokenRepository
	cfg           *config.Config
}

func NewAuthService(
	users repository.UserRepository,
	userTypes repository.UserTypeRepository,
	refreshTokens repository.RefreshTokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		users:         users,
		userTypes:     userTypes,
		refreshTokens: refreshTokens,
		cfg:           cfg,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh token: the presented token is revoked and a new
// pair is issued. Reuse of a revoked token fails the live-token lookup.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	hash := hashToken(refreshToken)
	stored, err := s.refreshTokens.FindLiveByHash(ctx, hash)
	if err != nil {
		return nil, errors.New("refresh token invalid or expired")
	}
	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if err := s.refreshTokens.Revoke(ctx, hash); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokens.Revoke(ctx, hashToken(refreshToken))
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	userTypeID, err := uuid.Parse(req.UserTypeID)
	if err != nil {
		return nil, apierror.NewValidationError("Invalid user type id")
	}
	userType, err := s.userTypes.FindByID(ctx, userTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("User type with id %s not found", userTypeID)
		}
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierror.NewConflict("Email %s is already registered", req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		UserTypeID:   userType.ID,
		UserType:     userType,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (s *authService) ListUserTypes(ctx context.Context) ([]dto.UserTypeResponse, error) {
	types, err := s.userTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.UserTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, dto.UserTypeResponse{
			ID:                 t.ID.String(),
			Name:               t.Name,
			ApproveMeasurement: t.ApproveMeasurement,
		})
	}
	return responses, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := newOpaqueToken()
	if err != nil {
		return nil, err
	}
	stored := &model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.RefreshTokenDays) * 24 * time.Hour),
	}
	if err := s.refreshTokens.Create(ctx, stored); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *userToResponse(user),
	}, nil
}

func (s *authService) generateAccessToken(user *model.User) (string, error) {
	approve := false
	userType := ""
	if user.UserType != nil {
		approve = user.UserType.ApproveMeasurement
		userType = user.UserType.Name
	}
	claims := jwt.MapClaims{
		"user_id":             user.ID.String(),
		"email":               user.Email,
		"user_type":           userType,
		"approve_measurement": approve,
		"exp":                 time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":                 time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// newOpaqueToken returns 32 random bytes hex-encoded. Only the SHA-256 of
// this value is persisted.
func newOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func userToResponse(u *model.User) *dto.UserResponse {
	userType := ""
	if u.UserType != nil {
		userType = u.UserType.Name
	}
	return &dto.UserResponse{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		UserType:  userType,
	}
}
