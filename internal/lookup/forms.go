package lookup

import (
	"log/slog"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
)

// ResolvePluginForms translates the plugin-local ids of forms into runtime
// ids. The quests and the menu NPC are required; a region-has global that
// does not resolve is left out with a warning. Base-game ids are copied.
func (c *Catalog) ResolvePluginForms(forms entities.PluginForms) (entities.PluginForms, error) {
	out := forms
	out.RegionHas = make(map[entities.Category]entities.FormID, len(forms.RegionHas))

	var err error
	if out.AliasGenerator, err = c.ResolveQuest(forms.AliasGenerator, forms.PluginFile); err != nil {
		return out, errors.Wrap(err, "alias generator quest")
	}
	if out.Catalogue, err = c.ResolveQuest(forms.Catalogue, forms.PluginFile); err != nil {
		return out, errors.Wrap(err, "catalogue quest")
	}
	if out.MenuNPC, err = c.Resolve(entities.FormRef{ID: forms.MenuNPC, File: forms.PluginFile}, entities.FormActor); err != nil {
		return out, errors.Wrap(err, "menu npc")
	}

	for category, id := range forms.RegionHas {
		global, err := c.ResolveGlobal(id, forms.PluginFile)
		if err != nil {
			slog.Warn("Region flag global not found",
				"category", category.String(),
				"form", id.String(),
			)
			continue
		}
		out.RegionHas[category] = global
	}
	return out, nil
}
