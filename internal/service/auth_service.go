package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"codelm-be/internal/dto"
	"codelm-be/internal/entity"
	"codelm-be/internal/pkg/logger"
	"codelm-be/internal/pkg/mailer"
	"codelm-be/internal/repository/specification"
	"codelm-be/internal/repository/unitofwork"
)

const (
	accessTokenExpiry  = 30 * time.Minute
	refreshTokenExpiry = 30 * 24 * time.Hour
	resetTokenExpiry   = time.Hour
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.MeResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	logger logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.Name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{Id: user.Id}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	return s.issueTokens(user.Id)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret()), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid refresh token")
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return nil, errors.New("invalid refresh token")
	}

	userIdStr, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	// Confirm the account still exists before minting fresh tokens
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("invalid refresh token")
	}

	return s.issueTokens(userId)
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.MeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	return &dto.MeResponse{
		Id:        user.Id,
		Name:      user.FullName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}
	if user == nil {
		// Don't reveal whether the email exists
		return nil
	}

	resetToken := entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(resetTokenExpiry),
		CreatedAt: time.Now(),
	}

	if err := uow.UserRepository().CreatePasswordResetToken(ctx, &resetToken); err != nil {
		return err
	}

	if err := s.emailService.SendResetToken(user.Email, resetToken.Token); err != nil {
		s.logger.Error("auth.service", "failed to send reset email", map[string]interface{}{
			"user_id": user.Id.String(),
			"error":   err.Error(),
		})
		return errors.New("failed to send reset email")
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	resetToken, err := uow.UserRepository().FindPasswordResetToken(ctx, req.Token)
	if err != nil {
		return err
	}
	if resetToken == nil || resetToken.UsedAt != nil || time.Now().After(resetToken.ExpiresAt) {
		return errors.New("invalid or expired reset token")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: resetToken.UserId})
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.UserRepository().MarkPasswordResetTokenUsed(ctx, resetToken.Id); err != nil {
		uow.Rollback()
		return err
	}

	return uow.Commit()
}

func (s *authService) issueTokens(userId uuid.UUID) (*dto.LoginResponse, error) {
	accessToken, err := signToken(userId, "access", accessTokenExpiry)
	if err != nil {
		return nil, err
	}
	refreshToken, err := signToken(userId, "refresh", refreshTokenExpiry)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func signToken(userId uuid.UUID, tokenType string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"type":    tokenType,
		"exp":     time.Now().Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret()))
}

func jwtSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return secret
}
