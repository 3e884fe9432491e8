package relocate

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Relocate a legacy PHP site tree"
	MsgMigrateShort    = "Rewrite absolute include paths into relative ones"
	MsgRelinkShort     = "Repair broken absolute symlinks as relative links"
	MsgConfigShort     = "Print the effective configuration"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	MsgVersionTemplate = "{{.Name}} version {{.Version}}\n"

	// Flag descriptions
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig         = "Config file (default: .relocate.toml in the working directory)"
	MsgFlagDryRun         = "Preview changes without writing anything"
	MsgFlagOutput         = "Output format: text, json or yaml"
	MsgFlagNoColor        = "Disable colored output"
	MsgFlagRootMarker     = "Root marker every path is reduced to"
	MsgFlagAbsolutePrefix = "Prefix of the absolute include literals to rewrite"
	MsgFlagAnchor         = "Absolute path of the core include file"
	MsgFlagForce          = "Replace an existing backup directory"
	MsgFlagFailFast       = "Stop at the first failure"
	MsgFlagDiff           = "Show a diff of every change"
	MsgFlagScan           = "Find dangling absolute symlinks below this directory"
	MsgFlagDefaults       = "Print a commented template of the defaults instead"

	// Error messages
	MsgErrNoCommand     = "no command specified"
	MsgErrRelinkSource  = "give either a list file or --scan, not both"
	MsgErrRelinkMissing = "a list file or --scan <dir> is required"
	MsgErrHelpNotFound  = "help command not found"

	MsgNoLinks = "No symlinks to repair"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/migrate-long.txt
	msgMigrateLongRaw string
	MsgMigrateLong    = strings.TrimSpace(msgMigrateLongRaw)

	//go:embed msgs/migrate-example.txt
	msgMigrateExampleRaw string
	MsgMigrateExample    = strings.TrimRight(msgMigrateExampleRaw, "\n")

	//go:embed msgs/relink-long.txt
	msgRelinkLongRaw string
	MsgRelinkLong    = strings.TrimSpace(msgRelinkLongRaw)

	//go:embed msgs/relink-example.txt
	msgRelinkExampleRaw string
	MsgRelinkExample    = strings.TrimRight(msgRelinkExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
