package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Exercise is a single movement a card can be mapped to.
type Exercise struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Description  string   `yaml:"description" json:"description"`
	Instructions []string `yaml:"instructions" json:"instructions"`
	Muscles      []string `yaml:"muscles" json:"muscles"`
}

// Deck is a deck category: the exercises its cards cycle through and the
// pool its wildcards draw from.
type Deck struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	Exercises []Exercise `json:"exercises"`
	Wildcards []Exercise `json:"wildcard_exercises"`
}

// Catalog is the immutable set of exercises and decks.
type Catalog struct {
	exercises map[string]Exercise
	decks     []Deck
	byID      map[string]int
}

type catalogFile struct {
	Exercises []Exercise `yaml:"exercises"`
	Decks     []struct {
		ID        string   `yaml:"id"`
		Name      string   `yaml:"name"`
		Icon      string   `yaml:"icon"`
		Exercises []string `yaml:"exercises"`
		Wildcards []string `yaml:"wildcards"`
	} `yaml:"decks"`
}

// Parse builds a Catalog from a YAML document. Every deck must reference
// known exercises and have at least one regular and one wildcard exercise.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		exercises: make(map[string]Exercise, len(f.Exercises)),
		byID:      make(map[string]int, len(f.Decks)),
	}
	for _, e := range f.Exercises {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("exercise %q: id and name are required", e.ID)
		}
		if _, dup := c.exercises[e.ID]; dup {
			return nil, fmt.Errorf("duplicate exercise %q", e.ID)
		}
		c.exercises[e.ID] = e
	}

	resolve := func(deckID string, ids []string) ([]Exercise, error) {
		out := make([]Exercise, 0, len(ids))
		for _, id := range ids {
			e, ok := c.exercises[id]
			if !ok {
				return nil, fmt.Errorf("deck %q references unknown exercise %q", deckID, id)
			}
			out = append(out, e)
		}
		return out, nil
	}

	for _, d := range f.Decks {
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate deck %q", d.ID)
		}
		exercises, err := resolve(d.ID, d.Exercises)
		if err != nil {
			return nil, err
		}
		wildcards, err := resolve(d.ID, d.Wildcards)
		if err != nil {
			return nil, err
		}
		if len(exercises) == 0 {
			return nil, fmt.Errorf("deck %q has no exercises", d.ID)
		}
		if len(wildcards) == 0 {
			return nil, fmt.Errorf("deck %q has no wildcard exercises", d.ID)
		}
		c.byID[d.ID] = len(c.decks)
		c.decks = append(c.decks, Deck{
			ID:        d.ID,
			Name:      d.Name,
			Icon:      d.Icon,
			Exercises: exercises,
			Wildcards: wildcards,
		})
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog. It panics if the embedded document
// is invalid, which is a build defect rather than a runtime condition.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(catalogYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Decks returns all decks in display order.
func (c *Catalog) Decks() []Deck {
	out := make([]Deck, len(c.decks))
	copy(out, c.decks)
	return out
}

// Lookup returns the deck with the given id.
func (c *Catalog) Lookup(id string) (Deck, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Deck{}, false
	}
	return c.decks[i], true
}

// MustLookup is Lookup for callers that have already validated id.
func (c *Catalog) MustLookup(id string) Deck {
	d, ok := c.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("catalog: unknown deck %q", id))
	}
	return d
}
