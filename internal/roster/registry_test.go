package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
)

func TestDefaultLookup(t *testing.T) {
	r := Default()

	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
		wantRole models.Role
	}{
		{"submitter", "user1", "user123", true, models.RoleSubmitter},
		{"reviewer", "admin", "admin123", true, models.RoleReviewer},
		{"fulfiller", "tech2", "tech123", true, models.RoleFulfiller},
		{"wrong password", "user1", "user1234", false, ""},
		{"unknown user", "nobody", "user123", false, ""},
		{"case sensitive username", "USER1", "user123", false, ""},
		{"password of another table", "admin", "user123", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := r.Lookup(tt.username, tt.password)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.username, ok, tt.wantOK)
			}
			if ok && id.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", id.Role, tt.wantRole)
			}
		})
	}
}

func TestFulfillers(t *testing.T) {
	r := Default()

	list := r.Fulfillers()
	if len(list) != 3 {
		t.Fatalf("expected 3 fulfillers, got %d", len(list))
	}
	if list[0].Username != "tech1" {
		t.Errorf("first fulfiller = %q, want tech1", list[0].Username)
	}

	if _, ok := r.Fulfiller("admin"); ok {
		t.Error("reviewer should not be found in the fulfiller table")
	}
	f, ok := r.Fulfiller("tech3")
	if !ok || f.DisplayName == "" {
		t.Errorf("Fulfiller(tech3) = %+v, %v", f, ok)
	}
}

func TestFromFileRejectsDuplicateUsernames(t *testing.T) {
	_, err := FromFile(&CredentialsFile{
		Submitters: []Credential{{Username: "sam", Password: "x"}},
		Fulfillers: []Credential{{Username: "sam", Password: "y"}},
	})
	if err == nil {
		t.Fatal("expected error for username present in two tables")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	body := `{
		"submitters": [{"username": "s1", "password": "pw-s1", "display_name": "Student One"}],
		"reviewers":  [{"username": "r1", "password": "pw-r1", "display_name": "Reviewer"}],
		"fulfillers": [{"username": "f1", "password": "pw-f1", "display_name": "Fixer"}]
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}

	r, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	id, ok := r.Lookup("s1", "pw-s1")
	if !ok || id.DisplayName != "Student One" || id.Role != models.RoleSubmitter {
		t.Errorf("Lookup(s1) = %+v, %v", id, ok)
	}
	counts := r.Count()
	if counts[models.RoleReviewer] != 1 || counts[models.RoleFulfiller] != 1 {
		t.Errorf("Count() = %v", counts)
	}
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}
