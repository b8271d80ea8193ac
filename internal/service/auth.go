package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/config"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
)

// Session identifies the employee operating a terminal.
type Session struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Session     Session   `json:"session"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (Token, error)
	// Authenticate verifies a token issued by Login and returns its session.
	Authenticate(ctx context.Context, token string) (Session, error)
}

type sessionClaims struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

type authService struct {
	cfg          config.Auth
	employeeRepo repository.EmployeeRepository
	now          func() time.Time
}

func NewAuthService(cfg config.Auth, employeeRepo repository.EmployeeRepository) AuthService {
	return &authService{
		cfg:          cfg,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (Token, error) {
	employee, err := s.employeeRepo.GetEmployeeByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrEmployeeNotFound) {
			return Token{}, apperr.ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("employee repository get employee by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		return Token{}, apperr.ErrInvalidCredentials
	}

	now := s.now()
	session := Session{
		EmployeeID: employee.ID,
		Username:   employee.Username,
		Name:       employee.FullName(),
		ExpiresAt:  now.Add(s.cfg.TokenTTL).Truncate(time.Second),
	}

	claims := sessionClaims{
		Username: session.Username,
		Name:     session.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   employee.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{
		AccessToken: signed,
		ExpiresAt:   session.ExpiresAt,
		Session:     session,
	}, nil
}

func (s *authService) Authenticate(_ context.Context, token string) (Session, error) {
	var claims sessionClaims
	if _, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.JWTSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	); err != nil {
		return Session{}, apperr.ErrSessionRequired.WrapParent(err)
	}

	employeeID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Session{}, apperr.ErrSessionRequired.WrapParent(err)
	}

	return Session{
		EmployeeID: employeeID,
		Username:   claims.Username,
		Name:       claims.Name,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

type sessionKey struct{}

func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session put there by the auth middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
