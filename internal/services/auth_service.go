package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/roster"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService turns roster credentials into sessions. The signed token only
// references the session; logging out closes the session and the token stops
// working.
type AuthService struct {
	roster   roster.Provider
	sessions *session.Store
	secret   []byte
}

func NewAuthService(provider roster.Provider, sessions *session.Store, jwtSecret string) *AuthService {
	return &AuthService{
		roster:   provider,
		sessions: sessions,
		secret:   []byte(jwtSecret),
	}
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	identity, ok := s.roster.Lookup(req.Username, req.Password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	sess := s.sessions.Open(*identity)
	token, err := s.generateToken(sess)
	if err != nil {
		s.sessions.Close(sess.ID)
		return nil, err
	}

	slog.Info("login", "username", identity.Username, "role", identity.Role)
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		User:      sess.Identity,
	}, nil
}

// Logout ends the session. Stored reports are untouched.
func (s *AuthService) Logout(sessionID uuid.UUID) {
	s.sessions.Close(sessionID)
}

// Identity returns the identity of a live session.
func (s *AuthService) Identity(sessionID uuid.UUID) (*models.Identity, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	identity := sess.Identity
	return &identity, nil
}

func (s *AuthService) generateToken(sess session.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sess.Identity.Username,
		"role": string(sess.Identity.Role),
		"name": sess.Identity.DisplayName,
		"sid":  sess.ID.String(),
		"iat":  sess.CreatedAt.Unix(),
		"exp":  sess.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// SessionID extracts the session reference from verified token claims.
func SessionID(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, ok := claims["sid"].(string)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return id, nil
}
