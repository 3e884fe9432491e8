package relocate

import (
	"embed"
	"os"

	"github.com/arthur-debert/relocate/internal/version"
	"github.com/arthur-debert/relocate/pkg/classify"
	"github.com/arthur-debert/relocate/pkg/cobrax/topics"
	"github.com/arthur-debert/relocate/pkg/config"
	"github.com/arthur-debert/relocate/pkg/display"
	"github.com/arthur-debert/relocate/pkg/errors"
	"github.com/arthur-debert/relocate/pkg/logging"
	"github.com/arthur-debert/relocate/pkg/paths"
	"github.com/arthur-debert/relocate/pkg/rewrite"
	"github.com/arthur-debert/relocate/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

//go:embed topics/*.md
var topicsFS embed.FS

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbosity  int
	configFile string
	dryRun     bool
	output     string
	noColor    bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "relocate",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(opts.verbosity)
			style.SetColor(!opts.noColor && style.ColorEnabled(os.Stderr))
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			if _, err := display.ParseFormat(opts.output); err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "invalid --output")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", string(display.FormatText), MsgFlagOutput)
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.SetVersionTemplate(MsgVersionTemplate)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newMigrateCmd(opts))
	rootCmd.AddCommand(newRelinkCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if _, err := topics.Initialize(rootCmd, topicsFS, "topics", topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(),
	}); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

// loadConfig merges the configuration layers with the given flag overrides.
func (o *globalOptions) loadConfig(overrides map[string]interface{}) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot determine working directory")
	}
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: o.configFile,
		WorkDir:    wd,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("rootMarker", cfg.Paths.RootMarker).Str("anchor", cfg.Paths.Anchor).Msg("Configuration loaded")
	return cfg, nil
}

func (o *globalOptions) renderer(cmd *cobra.Command) (display.Renderer, error) {
	format, err := display.ParseFormat(o.output)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid --output")
	}
	return display.New(format, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// flagOverrides maps the flags that were set on the command line to
// configuration keys.
func flagOverrides(cmd *cobra.Command, keys map[string]string) map[string]interface{} {
	overrides := map[string]interface{}{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok {
			return
		}
		if f.Value.Type() == "bool" {
			v, _ := cmd.Flags().GetBool(f.Name)
			overrides[key] = v
			return
		}
		overrides[key] = f.Value.String()
	})
	return overrides
}

func newRelativizer(cfg *config.Config) (*paths.Relativizer, error) {
	return paths.New(cfg.Paths.RootMarker, cfg.Paths.DirExpression)
}

func newRewriter(cfg *config.Config) (*rewrite.Rewriter, error) {
	rel, err := newRelativizer(cfg)
	if err != nil {
		return nil, err
	}
	cls := classify.New(cfg.Classify.CoreMarker, cfg.Classify.Window)
	return rewrite.New(rel, cls, cfg.Paths.AbsolutePrefix, cfg.Paths.Anchor)
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			helpCmd, _, err := cmd.Root().Find([]string{"help"})
			if err != nil || helpCmd == nil || helpCmd.Run == nil {
				return errors.New(errors.ErrInternal, MsgErrHelpNotFound)
			}
			helpCmd.Run(helpCmd, []string{"topics"})
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
