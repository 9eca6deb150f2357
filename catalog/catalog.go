// Package catalog describes the games shown in the menu.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// GamesFile is the catalog location inside the embedded assets.
const GamesFile = "assets/games.yaml"

// ErrDuplicateGame is returned when two games share a name code.
var ErrDuplicateGame = errors.New("duplicate game")

// ContentReader defines the interface for reading content from the embedded file system.
type ContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// Category groups games by the skill they train.
type Category int

const (
	Selection Category = iota
	Literacy
	Memorization
	ActionReaction
	Logic
	Creativity
)

var categoryNames = map[Category]string{
	Selection:      "SELECTION",
	Literacy:       "LITERACY",
	Memorization:   "MEMORIZATION",
	ActionReaction: "ACTION_REACTION",
	Logic:          "LOGIC",
	Creativity:     "CREATIVITY",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory maps a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for c, n := range categoryNames {
		if n == want {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// UnmarshalYAML reads a category from its name.
func (c *Category) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// GameSummary is the static description of a game card.
type GameSummary struct {
	NameCode    string     `yaml:"nameCode"`
	Description string     `yaml:"description"`
	Thumbnail   string     `yaml:"thumbnail"`
	Categories  []Category `yaml:"categories"`
}

type gamesFile struct {
	Games []GameSummary `yaml:"games"`
}

// Load reads the game catalog.
func Load(reader ContentReader) ([]GameSummary, error) {
	data, err := reader.ReadFile(GamesFile)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and checks name codes are present and unique.
func Parse(data []byte) ([]GameSummary, error) {
	var f gamesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Games))
	for i, g := range f.Games {
		if strings.TrimSpace(g.NameCode) == "" {
			return nil, fmt.Errorf("game #%d has no nameCode", i)
		}
		if _, ok := seen[g.NameCode]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGame, g.NameCode)
		}
		seen[g.NameCode] = struct{}{}
	}
	return f.Games, nil
}

// SortFavoritesFirst returns a copy of games with favorites first. The
// relative order inside both groups is kept.
func SortFavoritesFirst(games []GameSummary, isFavorite func(string) bool) []GameSummary {
	out := make([]GameSummary, len(games))
	copy(out, games)
	sort.SliceStable(out, func(i, j int) bool {
		return isFavorite(out[i].NameCode) && !isFavorite(out[j].NameCode)
	})
	return out
}
