package resolve

// Config defines what is tracked and where it is looked up.
// Lists are comma separated.
type Config struct {
	// BaseDir is the directory search roots are relative to.
	BaseDir string `mapstructure:"base_dir" default:"."`
	// Resources lists tracked resource files, relative to the resource roots.
	Resources string `mapstructure:"resources" default:""`
	// ImportFiles lists import scripts, tracked as resources.
	ImportFiles string `mapstructure:"import_files" default:""`
	// Classes lists tracked classes by qualified name.
	Classes string `mapstructure:"classes" default:""`
	// ResourceFolders are searched after the default resource roots.
	ResourceFolders string `mapstructure:"resource_folders" default:""`
	// ClassFolders are searched after the default class roots.
	ClassFolders string `mapstructure:"class_folders" default:""`
	// ClassExtension is appended to mapped class paths.
	ClassExtension string `mapstructure:"class_extension" default:"java"`
	// Workers bounds concurrent stat calls.
	Workers int `mapstructure:"workers" default:"8"`
}
