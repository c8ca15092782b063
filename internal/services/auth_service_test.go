package services

import (
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret-key-for-testing-only"

func newAuthService(t *testing.T) (*AuthService, *session.Store) {
	t.Helper()
	sessions := session.NewStore(time.Hour)
	return NewAuthService(testRoster(t), sessions, testSecret), sessions
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantRole models.Role
		wantErr  error
	}{
		{"submitter", "s1", "pass-s1", models.RoleSubmitter, nil},
		{"reviewer", "admin", "pass-admin", models.RoleReviewer, nil},
		{"fulfiller", "tech2", "pass-tech", models.RoleFulfiller, nil},
		{"wrong password", "s1", "pass-s2", "", ErrInvalidCredentials},
		{"unknown user", "nobody", "pass-s1", "", ErrInvalidCredentials},
		{"empty", "", "", "", ErrInvalidCredentials},
		{"username is case sensitive", "S1", "pass-s1", "", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, sessions := newAuthService(t)
			resp, err := svc.Login(&dto.LoginRequest{Username: tt.username, Password: tt.password})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if sessions.Len() != 0 {
					t.Errorf("failed login opened a session")
				}
				return
			}
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if resp.User.Role != tt.wantRole || resp.User.Username != tt.username {
				t.Errorf("user = %+v, want %s/%s", resp.User, tt.username, tt.wantRole)
			}
			if resp.Token == "" {
				t.Error("empty token")
			}
			if sessions.Len() != 1 {
				t.Errorf("sessions = %d, want 1", sessions.Len())
			}
		})
	}
}

func TestLoginTokenCarriesSession(t *testing.T) {
	svc, _ := newAuthService(t)
	resp, err := svc.Login(&dto.LoginRequest{Username: "tech1", Password: "pass-tech"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sub"] != "tech1" || claims["role"] != "fulfiller" || claims["name"] != "Technician One" {
		t.Errorf("claims = %v", claims)
	}

	sid, err := SessionID(claims)
	if err != nil {
		t.Fatalf("SessionID: %v", err)
	}
	identity, err := svc.Identity(sid)
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if *identity != resp.User {
		t.Errorf("identity = %+v, want %+v", identity, resp.User)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	svc, _ := newAuthService(t)
	resp, err := svc.Login(&dto.LoginRequest{Username: "admin", Password: "pass-admin"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	sid, _ := SessionID(claims)

	svc.Logout(sid)
	if _, err := svc.Identity(sid); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Identity after logout error = %v, want ErrUnauthenticated", err)
	}
}

func TestSessionID(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name   string
		claims jwt.MapClaims
		ok     bool
	}{
		{"valid", jwt.MapClaims{"sid": id.String()}, true},
		{"missing", jwt.MapClaims{}, false},
		{"not a string", jwt.MapClaims{"sid": 42}, false},
		{"not a uuid", jwt.MapClaims{"sid": "abc"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SessionID(tt.claims)
			if tt.ok {
				if err != nil || got != id {
					t.Errorf("SessionID = %v, %v", got, err)
				}
				return
			}
			if !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("error = %v, want ErrUnauthenticated", err)
			}
		})
	}
}
