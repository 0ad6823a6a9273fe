// Package navigation computes which app sections a subscription tier can
// reach. Gating is advisory: sections above the user's tier stay visible
// but redirect to the upsell page.
package navigation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tier is a coarse subscription level.
type Tier string

const (
	TierFree Tier = "free"
	Tier2    Tier = "tier2"
	Tier3    Tier = "tier3"
)

// UpsellPath is where locked sections redirect.
const UpsellPath = "/upgrade"

// Level maps a tier to its numeric rank (free=0, tier2=1, tier3=2).
// Unknown tiers rank as free.
func (t Tier) Level() int {
	switch t {
	case Tier2:
		return 1
	case Tier3:
		return 2
	default:
		return 0
	}
}

// ParseTier normalizes a stored tier value.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case Tier2:
		return Tier2
	case Tier3:
		return Tier3
	default:
		return TierFree
	}
}

// Section is one entry of the app shell menu.
type Section struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Path    string `yaml:"path" json:"path"`
	MinTier int    `yaml:"min_tier" json:"minTier"`
}

// Resolved is a section annotated with reachability for a given tier.
type Resolved struct {
	Section
	Reachable bool   `json:"reachable"`
	Redirect  string `json:"redirect,omitempty"`
}

// Resolve computes the menu for a tier. Sections above the tier's level
// are present but redirect to the upsell page.
func Resolve(sections []Section, tier Tier) []Resolved {
	out := make([]Resolved, 0, len(sections))
	for _, s := range sections {
		r := Resolved{Section: s, Reachable: tier.Level() >= s.MinTier}
		if !r.Reachable {
			r.Redirect = UpsellPath
		}
		out = append(out, r)
	}
	return out
}

// DefaultSections is the compiled-in menu.
func DefaultSections() []Section {
	return []Section{
		{ID: "dashboard", Title: "Dashboard", Path: "/dashboard", MinTier: 0},
		{ID: "checkin", Title: "Daily Check-In", Path: "/check-in", MinTier: 0},
		{ID: "reflection", Title: "Reflection Chat", Path: "/reflect", MinTier: 0},
		{ID: "library", Title: "Library", Path: "/library", MinTier: 0},
		{ID: "coach", Title: "Message a Coach", Path: "/coach", MinTier: 1},
		{ID: "circles", Title: "Circles", Path: "/circles", MinTier: 2},
	}
}

// LoadSections reads the menu from a YAML file. An empty path yields the
// compiled-in defaults.
func LoadSections(path string) ([]Section, error) {
	if path == "" {
		return DefaultSections(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sections: %w", err)
	}
	var doc struct {
		Sections []Section `yaml:"sections"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse sections: %w", err)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("sections file %s is empty", path)
	}
	return doc.Sections, nil
}
