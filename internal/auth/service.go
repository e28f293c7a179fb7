package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/user"
)

// Repository is the credential-store query interface. Both lookups return
// (nil, nil) when no row matches; a non-nil error means the store itself
// could not be reached.
type Repository interface {
	FindUserByUsername(username string) (*userDatamodel.User, error)
	FindActiveUserByID(id int64) (*userDatamodel.User, error)
}

// AuditRecorder is a fire-and-forget sink; implementations swallow their
// own failures so recording can never fail the calling operation.
type AuditRecorder interface {
	Record(ctx context.Context, userID int64, username, action, details string)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID, username string) (string, error)
	GenerateRefreshToken(userID, username string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*Snapshot, AuthTokens, error)
	RefreshPermissions(ctx context.Context, userID int64) (*Snapshot, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	SnapshotForUser(userID int64) (*Snapshot, error)
	HashPassword(password string) (string, error)
}

type Service struct {
	repo           Repository
	audit          AuditRecorder
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
}

func NewService(repo Repository, audit AuditRecorder, tokenGen TokenGeneratorAPI, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		audit:          audit,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
	}
}

// dummyHash keeps a failed username lookup roughly as expensive as a real
// bcrypt comparison, so response timing does not leak account existence.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.MinCost)

// Login exchanges credentials for a session snapshot plus API tokens.
// Unknown user, inactive account and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Snapshot, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, AuthTokens{}, err
	}

	u, err := s.repo.FindUserByUsername(dto.Username)
	if err != nil {
		return nil, AuthTokens{}, ErrUpstreamUnavailable
	}

	if u == nil || !u.IsActive() {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(dto.Password))
		return nil, AuthTokens{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, AuthTokens{}, ErrInvalidCredentials
	}

	snap := NewSnapshot(u)

	userID := fmt.Sprintf("%d", u.ID)
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, u.Username)
	if err != nil {
		return nil, AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, u.Username)
	if err != nil {
		return nil, AuthTokens{}, err
	}

	// Recorder failure must not fail the login.
	if s.audit != nil {
		s.audit.Record(ctx, u.ID, u.Username, "LOGIN", "")
	}

	return snap, AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshPermissions re-reads the authoritative capability flags for a live
// session without re-authentication. It is read-only: writing the fresh
// snapshot into session state is the caller's job.
func (s *Service) RefreshPermissions(ctx context.Context, userID int64) (*Snapshot, error) {
	u, err := s.repo.FindActiveUserByID(userID)
	if err != nil {
		return nil, ErrUpstreamUnavailable
	}
	if u == nil {
		return nil, ErrSessionInvalidated
	}
	return NewSnapshot(u), nil
}

// SnapshotForUser loads the current snapshot for an active user, used by the
// auth middleware on every request.
func (s *Service) SnapshotForUser(userID int64) (*Snapshot, error) {
	u, err := s.repo.FindActiveUserByID(userID)
	if err != nil {
		return nil, ErrUpstreamUnavailable
	}
	if u == nil {
		return nil, ErrSessionInvalidated
	}
	return NewSnapshot(u), nil
}

// RefreshTokens validates a refresh token and issues a new token pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(claims.UserID, claims.Username)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID, username string) (string, error) {
	return j.signToken(userID, username, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID, username string) (string, error) {
	return j.signToken(userID, username, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) signToken(userID, username string, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// Long-lived tokens were signed with the refresh secret.
		if claims, ok := token.Claims.(*Claims); ok {
			if time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
