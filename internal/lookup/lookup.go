// Package lookup resolves data-file references to live host handles and
// translates the data files' enum spellings and display-text templates.
package lookup

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
)

// Config holds the dependencies of the catalog
type Config struct {
	Forms host.Forms
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Forms == nil {
		vb.RequiredField("Forms")
	}
	return vb.Build()
}

// Catalog resolves (id, plugin file) pairs against the host
type Catalog struct {
	forms host.Forms
}

// New creates an entity catalog
func New(cfg *Config) (*Catalog, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Catalog{forms: cfg.Forms}, nil
}

// Resolve looks up a reference of the given kind
func (c *Catalog) Resolve(ref entities.FormRef, kind entities.FormKind) (entities.FormID, error) {
	if ref.ID.IsNone() {
		return entities.NoForm, errors.InvalidArgumentf("null form id for %s", ref.File)
	}
	if strings.TrimSpace(ref.File) == "" {
		return entities.NoForm, errors.InvalidArgumentf("no plugin file for %s", ref.ID)
	}

	id, ok := c.forms.LookupForm(ref, kind)
	if !ok || id.IsNone() {
		return entities.NoForm, errors.NotFoundf("form %s not found", ref).
			WithMeta("form", ref.String())
	}
	return id, nil
}

// ResolveLocation resolves a location reference
func (c *Catalog) ResolveLocation(id entities.FormID, file string) (entities.FormID, error) {
	return c.Resolve(entities.FormRef{ID: id, File: file}, entities.FormLocation)
}

// ResolveQuest resolves a quest reference
func (c *Catalog) ResolveQuest(id entities.FormID, file string) (entities.FormID, error) {
	return c.Resolve(entities.FormRef{ID: id, File: file}, entities.FormQuest)
}

// ResolveGlobal resolves a global variable reference
func (c *Catalog) ResolveGlobal(id entities.FormID, file string) (entities.FormID, error) {
	return c.Resolve(entities.FormRef{ID: id, File: file}, entities.FormGlobal)
}

// ResolveItem resolves an inventory item reference
func (c *Catalog) ResolveItem(id entities.FormID, file string) (entities.FormID, error) {
	return c.Resolve(entities.FormRef{ID: id, File: file}, entities.FormItem)
}

var fold = cases.Fold()

var difficultyByName = func() map[string]entities.Difficulty {
	m := make(map[string]entities.Difficulty, len(entities.Difficulties))
	for _, d := range entities.Difficulties {
		m[fold.String(d.String())] = d
	}
	return m
}()

var categoryByName = func() map[string]entities.Category {
	m := make(map[string]entities.Category, len(entities.Categories))
	for _, c := range entities.Categories {
		m[fold.String(c.String())] = c
	}
	return m
}()

// ParseDifficulty matches one of the six tier names regardless of case.
// Anything else is DifficultyNone.
func ParseDifficulty(s string) entities.Difficulty {
	return difficultyByName[fold.String(s)]
}

// ParseCategory matches one of the eleven category names regardless of
// case. Anything else is CategoryNone.
func ParseCategory(s string) entities.Category {
	return categoryByName[fold.String(s)]
}
