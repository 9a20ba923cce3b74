package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/knownet-app/knownet-backend/internal/common/utils"
	"github.com/knownet-app/knownet-backend/internal/geo"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrInvalidCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
)

// Service interface
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)

	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)

	Logout(ctx context.Context, token string) error
	LogoutAllDevices(ctx context.Context, userID int64) error

	GetUserByID(ctx context.Context, userID int64) (*User, error)
	UpdateLocation(ctx context.Context, userID int64, req *UpdateLocationRequest) (*User, error)
}

// Config holds service configuration
type Config struct {
	JWTSecret           string
	AccessTokenExpiry   time.Duration
	RefreshTokenExpiry  time.Duration
	BCryptCost          int
	LoginAttemptsMax    int
	LoginAttemptsWindow time.Duration
}

type service struct {
	repo   Repository
	redis  *redis.Client
	config *Config
}

// NewService creates a new auth service. The redis client is optional;
// without it the failed-login limiter is disabled.
func NewService(repo Repository, redis *redis.Client, config *Config) Service {
	return &service{
		repo:   repo,
		redis:  redis,
		config: config,
	}
}

// Register creates a new user account and signs it in.
func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if taken, err := s.repo.IsEmailTaken(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, ErrEmailAlreadyExists
	}

	// Coordinates are validated here, at the ingestion boundary;
	// everything downstream trusts stored values.
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = RoleStudent
	}

	location := strings.TrimSpace(req.Location)
	user := &User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Location:     &location,
		City:         req.City,
		State:        req.State,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.createAuthSession(ctx, user)
}

// Login verifies credentials and issues a token pair.
func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if s.isRateLimited(ctx, email) {
		return nil, ErrTooManyAttempts
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.recordFailedAttempt(ctx, email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedAttempt(ctx, email)
		return nil, ErrInvalidCredentials
	}

	s.clearFailedAttempts(ctx, email)

	return s.createAuthSession(ctx, user)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateJWT(refreshToken, s.config.JWTSecret)
	if err != nil || claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	session, err := s.repo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Rotate: the old session is replaced by a fresh pair.
	if err := s.repo.DeleteSessionByToken(ctx, session.Token); err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	return s.createAuthSession(ctx, user)
}

// ValidateToken parses and verifies an access token.
func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Logout invalidates the session behind a single access token.
func (s *service) Logout(ctx context.Context, token string) error {
	return s.repo.DeleteSessionByToken(ctx, token)
}

// LogoutAllDevices invalidates every session owned by the user.
func (s *service) LogoutAllDevices(ctx context.Context, userID int64) error {
	return s.repo.DeleteUserSessions(ctx, userID)
}

// GetUserByID fetches a user profile.
func (s *service) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// UpdateLocation replaces the user's location fields.
func (s *service) UpdateLocation(ctx context.Context, userID int64, req *UpdateLocationRequest) (*User, error) {
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	location := strings.TrimSpace(req.Location)
	user.Location = &location
	user.City = req.City
	user.State = req.State
	user.Latitude = req.Latitude
	user.Longitude = req.Longitude

	if err := s.repo.UpdateUserLocation(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	return user, nil
}

func validateCoordinates(lat, lng *float64) error {
	if lat == nil && lng == nil {
		return nil
	}
	// Half a coordinate is useless for ranking; require both or neither.
	if lat == nil || lng == nil {
		return ErrInvalidCoordinates
	}
	if !geo.ValidPoint(*lat, *lng) {
		return ErrInvalidCoordinates
	}
	return nil
}

func (s *service) createAuthSession(ctx context.Context, user *User) (*AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := &Session{
		UserID:       user.ID,
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.config.RefreshTokenExpiry),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.config.AccessTokenExpiry.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func (s *service) generateAccessToken(user *User) (string, error) {
	claims := &utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Type:      "access",
		ExpiresAt: time.Now().Add(s.config.AccessTokenExpiry).Unix(),
		IssuedAt:  time.Now().Unix(),
		NotBefore: time.Now().Unix(),
		Issuer:    "knownet-backend",
		Subject:   strconv.FormatInt(user.ID, 10),
	}

	return utils.GenerateJWT(claims, s.config.JWTSecret)
}

func (s *service) generateRefreshToken(user *User) (string, error) {
	claims := &utils.JWTClaims{
		UserID:    user.ID,
		Type:      "refresh",
		ExpiresAt: time.Now().Add(s.config.RefreshTokenExpiry).Unix(),
		IssuedAt:  time.Now().Unix(),
		NotBefore: time.Now().Unix(),
		Issuer:    "knownet-backend",
		Subject:   strconv.FormatInt(user.ID, 10),
	}

	return utils.GenerateJWT(claims, s.config.JWTSecret)
}

func (s *service) isRateLimited(ctx context.Context, identifier string) bool {
	if s.redis == nil || s.config.LoginAttemptsMax <= 0 {
		return false
	}
	val, err := s.redis.Get(ctx, failedKey(identifier)).Result()
	if err != nil {
		return false
	}
	attempts, err := strconv.Atoi(val)
	if err != nil {
		return false
	}
	return attempts >= s.config.LoginAttemptsMax
}

func (s *service) recordFailedAttempt(ctx context.Context, identifier string) {
	if s.redis == nil {
		return
	}
	key := failedKey(identifier)
	s.redis.Incr(ctx, key)
	s.redis.Expire(ctx, key, s.config.LoginAttemptsWindow)
}

func (s *service) clearFailedAttempts(ctx context.Context, identifier string) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, failedKey(identifier))
}

func failedKey(identifier string) string {
	return fmt.Sprintf("login:failed:%s", identifier)
}
