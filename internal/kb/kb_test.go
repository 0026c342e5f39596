package kb

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	ierr "github.com/campushub/concierge-go/internal/errors"
)

func TestLoadEmbedded(t *testing.T) {
	base, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if base.Len() == 0 {
		t.Fatal("embedded dataset has no locations")
	}

	ids := make([]string, 0, base.Len())
	for _, loc := range base.Locations() {
		ids = append(ids, loc.ID)
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("locations are not sorted by ID: %v", ids)
	}
}

func TestGet(t *testing.T) {
	base, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	loc, ok := base.Get("central-library")
	if !ok {
		t.Fatal("expected central-library in embedded dataset")
	}
	if loc.Name != "Central Library" {
		t.Errorf("Name = %q, want Central Library", loc.Name)
	}
	if loc.Coordinates.Latitude == 0 || loc.Coordinates.Longitude == 0 {
		t.Error("expected non-zero coordinates")
	}

	if _, ok := base.Get("no-such-building"); ok {
		t.Error("Get should report missing IDs")
	}
}

func TestFindByAlias(t *testing.T) {
	base, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		alias string
		want  string
	}{
		{"library", "central-library"},
		{"Central Library", "central-library"},
		{"security", "security-office"},
		{"GATE", "main-gate"},
		{"registrar office", "admin-block"},
		{"id card office", "student-services"},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			loc, ok := base.FindByAlias(tt.alias)
			if !ok {
				t.Fatalf("FindByAlias(%q) found nothing", tt.alias)
			}
			if loc.ID != tt.want {
				t.Errorf("FindByAlias(%q) = %s, want %s", tt.alias, loc.ID, tt.want)
			}
		})
	}

	if _, ok := base.FindByAlias("moon base"); ok {
		t.Error("FindByAlias should report unknown aliases")
	}
}

func TestTokenIndex(t *testing.T) {
	base, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	loc, _ := base.Get("admin-block")
	for _, token := range []string{"registrar", "admissions", "transcripts", "admin"} {
		if !loc.HasToken(token) {
			t.Errorf("admin-block should index token %q", token)
		}
	}
	if loc.HasToken("library") {
		t.Error("admin-block should not index token library")
	}
}

func TestPromptJSON(t *testing.T) {
	base, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	doc := base.PromptJSON()
	if !strings.Contains(doc, `"central-library"`) {
		t.Error("prompt document should contain location IDs")
	}
	if strings.Contains(doc, "normName") || strings.Contains(doc, "tokens") {
		t.Error("prompt document should not leak derived fields")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campus.json")
	data := `{"locations":[{"id":"lab","name":"Research Lab","description":"Shared lab space.","coordinates":{"lat":1.5,"lng":2.5}}]}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	base, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if base.Len() != 1 {
		t.Errorf("Len = %d, want 1", base.Len())
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.json"))
	if !ierr.IsKnowledgeBaseLoad(err) {
		t.Errorf("expected knowledge base load error, got %v", err)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"empty dataset", `{"locations":[]}`},
		{"missing id", `{"locations":[{"name":"X","coordinates":{"lat":1,"lng":2}}]}`},
		{"missing name", `{"locations":[{"id":"x","coordinates":{"lat":1,"lng":2}}]}`},
		{"missing coordinates", `{"locations":[{"id":"x","name":"X"}]}`},
		{"duplicate id", `{"locations":[{"id":"x","name":"X","coordinates":{"lat":1,"lng":2}},{"id":"x","name":"Y","coordinates":{"lat":3,"lng":4}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse([]byte(tt.data)); !ierr.IsKnowledgeBaseLoad(err) {
				t.Errorf("expected knowledge base load error, got %v", err)
			}
		})
	}
}
