package services

import (
	"errors"
	"fmt"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// ErrUsernameTaken is returned when registering a username that already
// exists.
var ErrUsernameTaken = errors.New("username already taken")

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo        repositories.UserRepository
	jwtSecret       []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		jwtSecret:       []byte(jwtSecret),
		accessDuration:  2 * time.Hour,
		refreshDuration: 7 * 24 * time.Hour,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them to
// the database. Users default to the non-admin role.
func (s *AuthService) RegisterUser(user *models.User) error {
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return fmt.Errorf("%w: '%s'", ErrUsernameTaken, user.Username)
	}

	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Role != models.RoleAdmin && user.Role != models.RoleUser {
		return fmt.Errorf("invalid role: %s", user.Role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword) // Store the hashed password

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user and returns an access and a refresh token.
func (s *AuthService) LoginUser(username, password string) (accessToken, refreshToken string, err error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// It's good practice not to reveal if the username exists or not for security
		return "", "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("invalid credentials")
	}

	accessToken, err = s.issueAccessToken(user)
	if err != nil {
		return "", "", err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.Username,
		"typ": "refresh",
		"exp": time.Now().Add(s.refreshDuration).Unix(),
		"iat": time.Now().Unix(),
	})
	refreshToken, err = refresh.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// RefreshAccessToken validates a refresh token and issues a fresh access
// token for its subject.
func (s *AuthService) RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return "", fmt.Errorf("invalid refresh token: %w", err)
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return "", fmt.Errorf("invalid refresh token")
	}

	username, _ := claims["sub"].(string)
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", fmt.Errorf("invalid refresh token")
	}

	return s.issueAccessToken(user)
}

// ValidateToken parses and validates an access token, returning the claims
// if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if typ, _ := claims["typ"].(string); typ == "refresh" {
		return nil, fmt.Errorf("refresh token cannot be used for access")
	}
	return claims, nil
}

func (s *AuthService) issueAccessToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.accessDuration).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid claims")
}
