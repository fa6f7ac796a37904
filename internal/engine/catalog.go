package engine

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/presente/internal/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogEntry describes one achievement and the rule that unlocks it.
type CatalogEntry struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Collection  string `yaml:"collection"`
	When        string `yaml:"when"`
}

// Catalog is the ordered list of known achievements.
type Catalog struct {
	Achievements []CatalogEntry `yaml:"achievements"`
}

// DefaultCatalog returns the embedded achievement catalog.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// ParseCatalog decodes a YAML catalog and checks that every entry is
// complete and ids are unique.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Achievements))
	for i, entry := range c.Achievements {
		switch {
		case strings.TrimSpace(entry.ID) == "":
			return Catalog{}, fmt.Errorf("parse catalog: entry %d: id is required", i)
		case strings.TrimSpace(entry.Collection) == "":
			return Catalog{}, fmt.Errorf("parse catalog: %s: collection is required", entry.ID)
		case strings.TrimSpace(entry.When) == "":
			return Catalog{}, fmt.Errorf("parse catalog: %s: when is required", entry.ID)
		case seen[entry.ID]:
			return Catalog{}, &BuildError{Code: ErrCodeDuplicateAchievement, AchievementID: entry.ID, Message: "achievement declared twice"}
		}
		seen[entry.ID] = true
	}
	return c, nil
}

// Defaults returns every catalog achievement, locked, in catalog order.
func (c Catalog) Defaults() []model.Achievement {
	out := make([]model.Achievement, 0, len(c.Achievements))
	for _, entry := range c.Achievements {
		out = append(out, entry.achievement())
	}
	return out
}

func (e CatalogEntry) achievement() model.Achievement {
	return model.Achievement{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Icon:        e.Icon,
	}
}
