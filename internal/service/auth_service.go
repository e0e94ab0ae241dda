package service

import (
	"context"
	"os"
	"time"

	"fintrust-support-be/internal/dto"
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/apperror"
	"fintrust-support-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ITokenVerifier resolves a raw token to the actor it authenticates. The
// connection gateway depends on this and nothing else from auth.
type ITokenVerifier interface {
	VerifyToken(token string) (*entity.Actor, error)
}

type IAuthService interface {
	ITokenVerifier
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory) IAuthService {
	return &authService{
		uowFactory: uowFactory,
	}
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return []byte(secret)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, apperror.Forbidden("account is blocked")
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(jwtSecret())
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		UserId:      user.Id,
		Role:        string(user.Role),
		FullName:    user.FullName,
	}, nil
}

// VerifyToken parses and validates an HS256 token. Any failure collapses to
// a single unauthorized error; callers must not leak why a token was bad.
func (s *authService) VerifyToken(tokenStr string) (*entity.Actor, error) {
	if tokenStr == "" {
		return nil, apperror.Unauthorized("missing token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.Unauthorized("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.Unauthorized("invalid claims")
	}

	rawId, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(rawId)
	if err != nil {
		return nil, apperror.Unauthorized("invalid claims")
	}

	rawRole, _ := claims["role"].(string)
	role := entity.UserRole(rawRole)
	switch role {
	case entity.UserRoleCustomer, entity.UserRoleAgent, entity.UserRoleAdmin:
	default:
		return nil, apperror.Unauthorized("invalid claims")
	}

	return &entity.Actor{Id: userId, Role: role}, nil
}
