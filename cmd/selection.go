package cmd

import (
	"context"

	"schema-sentinel/core/resolve"
	"schema-sentinel/core/snapshot"

	"github.com/spf13/cobra"
)

// selectionFlags override the configured selection when any is set.
type selectionFlags struct {
	resources       []string
	classes         []string
	resourceFolders []string
	classFolders    []string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.resources, "resource", nil, "Tracked resource file or glob (repeatable, overrides TRACK_RESOURCES)")
	cmd.Flags().StringSliceVar(&f.classes, "class", nil, "Tracked class by qualified name (repeatable, overrides TRACK_CLASSES)")
	cmd.Flags().StringSliceVar(&f.resourceFolders, "resource-folder", nil, "Additional resource root")
	cmd.Flags().StringSliceVar(&f.classFolders, "class-folder", nil, "Additional class root")
}

// selection returns the flag selection, or the configured one when no identifier flag is set.
func (f *selectionFlags) selection(track resolve.Config) resolve.Selection {
	sel := resolve.SelectionFromConfig(track)
	if len(f.resources) > 0 || len(f.classes) > 0 {
		sel.Resources = f.resources
		sel.Classes = f.classes
	}
	if len(f.resourceFolders) > 0 {
		sel.ResourceFolders = f.resourceFolders
	}
	if len(f.classFolders) > 0 {
		sel.ClassFolders = f.classFolders
	}
	return sel
}

// collect resolves the selection into the actual entries.
func (r *runtime) collect(ctx context.Context, sel resolve.Selection) ([]snapshot.Entry, []string, error) {
	resolutions, err := r.resolver.ResolveSelection(ctx, sel, r.cfg.Track.ClassExtension)
	if err != nil {
		return nil, nil, err
	}
	return resolve.Entries(resolutions), resolve.Misses(resolutions), nil
}
