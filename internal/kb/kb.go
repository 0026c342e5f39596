// Package kb loads and indexes the campus knowledge base.
//
// The dataset is embedded at build time so the resolver works without any
// runtime file dependency, but an operator can point at an alternative
// JSON file to serve a different campus.
package kb

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	ierr "github.com/campushub/concierge-go/internal/errors"
	"github.com/campushub/concierge-go/internal/stringutil"
)

//go:embed campus_data.json
var embeddedData []byte

// Coordinates is a WGS84 point on the campus map.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Service is an office or facility hosted inside a location.
type Service struct {
	Name         string `json:"name"`
	Purpose      string `json:"purpose,omitempty"`
	LocationNote string `json:"location_note,omitempty"`
}

// Location is a single building or landmark in the knowledge base.
type Location struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Aliases     []string    `json:"aliases,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Services    []Service   `json:"services,omitempty"`

	// Derived at load time, not part of the wire format.
	normName   string
	tokens     map[string]struct{}
	altPhrases []string
}

// NormName returns the normalized full name of the location.
func (l *Location) NormName() string {
	return l.normName
}

// HasToken reports whether the location's searchable text contains the
// normalized token.
func (l *Location) HasToken(token string) bool {
	_, ok := l.tokens[token]
	return ok
}

// AltPhrases returns the normalized aliases and service names, in stable order.
func (l *Location) AltPhrases() []string {
	return l.altPhrases
}

// KnowledgeBase is an immutable, indexed view of the campus dataset.
type KnowledgeBase struct {
	locations []Location
	byID      map[string]*Location
	byAlias   map[string]*Location
	promptDoc string
}

// Load parses and indexes the embedded campus dataset.
func Load() (*KnowledgeBase, error) {
	return parse(embeddedData)
}

// LoadFromFile parses and indexes a campus dataset from disk.
func LoadFromFile(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ierr.ErrKnowledgeBaseLoad, path, err)
	}
	return parse(data)
}

type wireLocation struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Aliases     []string     `json:"aliases"`
	Coordinates *Coordinates `json:"coordinates"`
	Services    []Service    `json:"services"`
}

type wireDataset struct {
	Locations []wireLocation `json:"locations"`
}

func parse(data []byte) (*KnowledgeBase, error) {
	var dataset wireDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrKnowledgeBaseLoad, err)
	}
	if len(dataset.Locations) == 0 {
		return nil, fmt.Errorf("%w: dataset contains no locations", ierr.ErrKnowledgeBaseLoad)
	}

	base := &KnowledgeBase{
		locations: make([]Location, 0, len(dataset.Locations)),
		byID:      make(map[string]*Location, len(dataset.Locations)),
		byAlias:   make(map[string]*Location),
	}

	for i, wire := range dataset.Locations {
		if wire.ID == "" {
			return nil, fmt.Errorf("%w: location %d has an empty id", ierr.ErrKnowledgeBaseLoad, i)
		}
		if wire.Name == "" {
			return nil, fmt.Errorf("%w: location %q has an empty name", ierr.ErrKnowledgeBaseLoad, wire.ID)
		}
		if wire.Coordinates == nil {
			return nil, fmt.Errorf("%w: location %q has no coordinates", ierr.ErrKnowledgeBaseLoad, wire.ID)
		}
		if _, exists := base.byID[wire.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate location id %q", ierr.ErrKnowledgeBaseLoad, wire.ID)
		}

		loc := Location{
			ID:          wire.ID,
			Name:        wire.Name,
			Description: wire.Description,
			Aliases:     wire.Aliases,
			Coordinates: *wire.Coordinates,
			Services:    wire.Services,
		}
		index(&loc)

		base.locations = append(base.locations, loc)
		base.byID[wire.ID] = nil // placeholder until the slice is final
	}

	// Sorting fixes iteration order for deterministic matching.
	sort.Slice(base.locations, func(i, j int) bool {
		return base.locations[i].ID < base.locations[j].ID
	})

	for i := range base.locations {
		loc := &base.locations[i]
		base.byID[loc.ID] = loc
		if _, taken := base.byAlias[loc.normName]; !taken {
			base.byAlias[loc.normName] = loc
		}
		for _, phrase := range loc.altPhrases {
			if _, taken := base.byAlias[phrase]; !taken {
				base.byAlias[phrase] = loc
			}
		}
	}

	doc, err := json.Marshal(base.locations)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrKnowledgeBaseLoad, err)
	}
	base.promptDoc = string(doc)

	return base, nil
}

// index derives the normalized name, token set, and alias phrases for a
// location from its name, description, aliases, and services.
func index(loc *Location) {
	loc.normName = stringutil.Normalize(loc.Name)

	searchable := []string{loc.Name, loc.Description}
	searchable = append(searchable, loc.Aliases...)
	for _, svc := range loc.Services {
		searchable = append(searchable, svc.Name, svc.Purpose, svc.LocationNote)
	}

	loc.tokens = make(map[string]struct{})
	for _, text := range searchable {
		for _, token := range stringutil.Tokenize(text) {
			// Function words from descriptions must not become lexical
			// evidence for the location.
			if stringutil.IsStopword(token) {
				continue
			}
			loc.tokens[token] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	for _, alias := range loc.Aliases {
		if phrase := stringutil.Normalize(alias); phrase != "" {
			if _, dup := seen[phrase]; !dup {
				seen[phrase] = struct{}{}
				loc.altPhrases = append(loc.altPhrases, phrase)
			}
		}
	}
	for _, svc := range loc.Services {
		if phrase := stringutil.Normalize(svc.Name); phrase != "" {
			if _, dup := seen[phrase]; !dup {
				seen[phrase] = struct{}{}
				loc.altPhrases = append(loc.altPhrases, phrase)
			}
		}
	}
}

// Get returns the location with the given ID.
func (b *KnowledgeBase) Get(id string) (*Location, bool) {
	loc, ok := b.byID[id]
	return loc, ok
}

// Locations returns all locations sorted by ID.
func (b *KnowledgeBase) Locations() []Location {
	return b.locations
}

// Len returns the number of locations in the knowledge base.
func (b *KnowledgeBase) Len() int {
	return len(b.locations)
}

// FindByAlias looks a location up by its normalized name, alias, or
// service name.
func (b *KnowledgeBase) FindByAlias(alias string) (*Location, bool) {
	loc, ok := b.byAlias[stringutil.Normalize(alias)]
	return loc, ok
}

// PromptJSON returns the dataset as compact JSON for use in model prompts.
func (b *KnowledgeBase) PromptJSON() string {
	return b.promptDoc
}
