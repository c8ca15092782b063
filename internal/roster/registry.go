package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Provider resolves credentials to identities. Implementations may front a real
// identity provider; the report repository only depends on this interface.
type Provider interface {
	// Lookup returns the identity for an exact username/password match.
	Lookup(username, password string) (*models.Identity, bool)
	// Fulfiller returns the fulfiller with the given username.
	Fulfiller(username string) (*models.Fulfiller, bool)
	// Fulfillers lists the assignable fulfillers in roster order.
	Fulfillers() []models.Fulfiller
}

type Credential struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type CredentialsFile struct {
	Submitters []Credential `json:"submitters"`
	Reviewers  []Credential `json:"reviewers"`
	Fulfillers []Credential `json:"fulfillers"`
}

type entry struct {
	username    string
	hash        []byte
	displayName string
}

// Registry holds the three credential tables. Passwords are kept as bcrypt hashes.
type Registry struct {
	mu     sync.RWMutex
	tables map[models.Role][]entry
}

var _ Provider = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{tables: make(map[models.Role][]entry)}
}

// Default returns the built-in campus roster.
func Default() *Registry {
	r, err := FromFile(&CredentialsFile{
		Submitters: []Credential{
			{Username: "user1", Password: "user123", DisplayName: "M Dantha Arianvasya"},
			{Username: "user2", Password: "user123", DisplayName: "Budi Santoso"},
		},
		Reviewers: []Credential{
			{Username: "admin", Password: "admin123", DisplayName: "Campus Admin"},
		},
		Fulfillers: []Credential{
			{Username: "tech1", Password: "tech123", DisplayName: "Joko (Technician)"},
			{Username: "tech2", Password: "tech123", DisplayName: "Budi (Technician)"},
			{Username: "tech3", Password: "tech123", DisplayName: "Ahmad (Technician)"},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("roster: built-in credentials: %v", err))
	}
	return r
}

func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var file CredentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return FromFile(&file)
}

// FromFile builds a registry and rejects usernames that appear in more than one table.
func FromFile(file *CredentialsFile) (*Registry, error) {
	r := NewRegistry()
	seen := make(map[string]models.Role)
	tables := map[models.Role][]Credential{
		models.RoleSubmitter: file.Submitters,
		models.RoleReviewer:  file.Reviewers,
		models.RoleFulfiller: file.Fulfillers,
	}
	for _, role := range models.Roles {
		for _, cred := range tables[role] {
			if cred.Username == "" {
				return nil, fmt.Errorf("%s entry without username", role)
			}
			if prev, dup := seen[cred.Username]; dup {
				return nil, fmt.Errorf("username %q listed as both %s and %s", cred.Username, prev, role)
			}
			seen[cred.Username] = role
			if err := r.Register(role, cred); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (r *Registry) Register(role models.Role, cred Credential) error {
	if _, err := models.ParseRole(string(role)); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %q: %w", cred.Username, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[role] = append(r.tables[role], entry{
		username:    cred.Username,
		hash:        hash,
		displayName: cred.DisplayName,
	})
	return nil
}

// Lookup scans the submitter, reviewer and fulfiller tables in that order.
func (r *Registry) Lookup(username, password string) (*models.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, role := range models.Roles {
		for _, e := range r.tables[role] {
			if e.username != username {
				continue
			}
			if bcrypt.CompareHashAndPassword(e.hash, []byte(password)) != nil {
				continue
			}
			return &models.Identity{
				Username:    e.username,
				Role:        role,
				DisplayName: e.displayName,
			}, true
		}
	}
	return nil, false
}

func (r *Registry) Fulfiller(username string) (*models.Fulfiller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.tables[models.RoleFulfiller] {
		if e.username == username {
			return &models.Fulfiller{Username: e.username, DisplayName: e.displayName}, true
		}
	}
	return nil, false
}

func (r *Registry) Fulfillers() []models.Fulfiller {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]models.Fulfiller, 0, len(r.tables[models.RoleFulfiller]))
	for _, e := range r.tables[models.RoleFulfiller] {
		result = append(result, models.Fulfiller{Username: e.username, DisplayName: e.displayName})
	}
	return result
}

// Count returns the number of credentials per role.
func (r *Registry) Count() map[models.Role]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[models.Role]int, len(models.Roles))
	for _, role := range models.Roles {
		counts[role] = len(r.tables[role])
	}
	return counts
}
