package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"nuvana-site/internal/dto"
	"nuvana-site/pkg/auth"
	"nuvana-site/pkg/config"

	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates the single site administrator configured in the
// environment.
type AuthService struct {
	admin      config.AdminConfig
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(admin config.AdminConfig, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	if admin.PasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH is empty, admin login is disabled")
	}
	return &AuthService{
		admin:      admin,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if s.admin.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.admin.Username)) == 1
	passOK := auth.CheckPasswordHash(req.Password, s.admin.PasswordHash)
	if !userOK || !passOK {
		s.logger.Warn("Admin login rejected", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}
	return s.issue(s.admin.Username)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if claims.Username != s.admin.Username {
		return nil, ErrInvalidCredentials
	}
	return s.issue(claims.Username)
}

func (s *AuthService) issue(username string) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(username)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(username)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.GetTokenDuration().Seconds()),
		Username:     username,
	}, nil
}
