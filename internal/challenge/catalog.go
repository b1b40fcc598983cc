package challenge

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNotFound is returned when a challenge ID is not in the catalog.
var ErrNotFound = errors.New("challenge not found")

// Catalog is a validated, indexed set of challenges.
type Catalog struct {
	challenges []Challenge
	byID       map[string]*Challenge
	dependents map[string][]string
}

// NewCatalog validates challenges and builds a catalog from them.
func NewCatalog(challenges []Challenge) (*Catalog, error) {
	if err := validateChallenges(challenges); err != nil {
		return nil, err
	}

	c := &Catalog{
		challenges: slices.Clone(challenges),
		byID:       make(map[string]*Challenge, len(challenges)),
		dependents: make(map[string][]string),
	}
	for i := range c.challenges {
		c.byID[c.challenges[i].ID] = &c.challenges[i]
	}
	for _, ch := range c.challenges {
		for _, pre := range ch.Prerequisites {
			c.dependents[pre] = append(c.dependents[pre], ch.ID)
		}
	}
	return c, nil
}

// All returns every challenge in catalog order.
func (c *Catalog) All() []Challenge {
	return slices.Clone(c.challenges)
}

// Len returns the number of challenges.
func (c *Catalog) Len() int {
	return len(c.challenges)
}

// Get returns the challenge with the given ID.
func (c *Catalog) Get(id string) (*Challenge, error) {
	ch, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return ch, nil
}

// Lookup returns the challenge with the given ID, or nil.
func (c *Catalog) Lookup(id string) *Challenge {
	return c.byID[id]
}

// Next returns the IDs of challenges that list id as a prerequisite.
func (c *Catalog) Next(id string) []string {
	return slices.Clone(c.dependents[id])
}

// ByCategory returns the challenges in category cat.
func (c *Catalog) ByCategory(cat Category) []Challenge {
	var out []Challenge
	for _, ch := range c.challenges {
		if ch.Category == cat {
			out = append(out, ch)
		}
	}
	return out
}

// ObjectiveCount returns the total number of objectives across the catalog.
func (c *Catalog) ObjectiveCount() int {
	n := 0
	for _, ch := range c.challenges {
		n += len(ch.Objectives)
	}
	return n
}

// Default returns the built-in catalog. It panics if the embedded seed data
// is invalid, which tests guard against.
func Default() *Catalog {
	c, err := NewCatalog(seedChallenges())
	if err != nil {
		panic(fmt.Sprintf("built-in challenge catalog: %v", err))
	}
	return c
}
