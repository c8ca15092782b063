package session

import (
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/google/uuid"
)

func TestOpenGetClose(t *testing.T) {
	s := NewStore(time.Hour)
	id := models.Identity{Username: "user1", Role: models.RoleSubmitter, DisplayName: "User One"}

	sess := s.Open(id)
	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Identity != id {
		t.Errorf("identity = %+v, want %+v", got.Identity, id)
	}

	s.Close(sess.ID)
	if _, err := s.Get(sess.ID); !errors.Is(err, ErrNoSession) {
		t.Errorf("Get after Close error = %v, want ErrNoSession", err)
	}

	// closing twice is harmless
	s.Close(sess.ID)
}

func TestGetUnknownSession(t *testing.T) {
	s := NewStore(time.Hour)
	if _, err := s.Get(uuid.New()); !errors.Is(err, ErrNoSession) {
		t.Errorf("error = %v, want ErrNoSession", err)
	}
}

func TestExpiry(t *testing.T) {
	s := NewStore(time.Minute)
	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	expiring := s.Open(models.Identity{Username: "a", Role: models.RoleReviewer})
	now = now.Add(30 * time.Second)
	fresh := s.Open(models.Identity{Username: "b", Role: models.RoleFulfiller})

	now = now.Add(45 * time.Second)
	if _, err := s.Get(expiring.ID); !errors.Is(err, ErrNoSession) {
		t.Errorf("expired session error = %v, want ErrNoSession", err)
	}
	if _, err := s.Get(fresh.ID); err != nil {
		t.Errorf("fresh session error = %v", err)
	}

	now = now.Add(time.Minute)
	if removed := s.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}
