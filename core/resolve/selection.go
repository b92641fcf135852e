package resolve

import (
	"context"

	"schema-sentinel/core/utils"
)

// Selection is the set of identifiers resolved in one run.
type Selection struct {
	Resources       []string `json:"resources"`
	Classes         []string `json:"classes"`
	ResourceFolders []string `json:"resource_folders"`
	ClassFolders    []string `json:"class_folders"`
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.Resources) == 0 && len(s.Classes) == 0
}

// SelectionFromConfig builds the configured selection. Import files are tracked
// as resources, after the explicit ones.
func SelectionFromConfig(cfg Config) Selection {
	return Selection{
		Resources:       utils.MergeLists(utils.SplitList(cfg.Resources), utils.SplitList(cfg.ImportFiles)),
		Classes:         utils.SplitList(cfg.Classes),
		ResourceFolders: utils.SplitList(cfg.ResourceFolders),
		ClassFolders:    utils.SplitList(cfg.ClassFolders),
	}
}

// ResolveSelection resolves resources then classes and returns both in that order.
func (r *Resolver) ResolveSelection(ctx context.Context, sel Selection, classExt string) ([]Resolution, error) {
	resources, err := r.ResolveResources(ctx, sel.Resources, sel.ResourceFolders)
	if err != nil {
		return nil, err
	}
	classes, err := r.ResolveClasses(ctx, sel.Classes, sel.ClassFolders, classExt)
	if err != nil {
		return nil, err
	}
	return append(resources, classes...), nil
}

// Misses returns the identifiers that could not be found.
func Misses(resolutions []Resolution) []string {
	var out []string
	for _, res := range resolutions {
		if !res.Found {
			out = append(out, res.Identifier)
		}
	}
	return out
}
