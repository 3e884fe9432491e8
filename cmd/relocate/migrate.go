package relocate

import (
	"github.com/arthur-debert/relocate/pkg/filesystem"
	"github.com/arthur-debert/relocate/pkg/logging"
	"github.com/arthur-debert/relocate/pkg/migrate"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	var (
		force bool
		diff  bool
	)

	cmd := &cobra.Command{
		Use:     "migrate <root>",
		Short:   MsgMigrateShort,
		Long:    MsgMigrateLong,
		Example: MsgMigrateExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.migrate")

			cfg, err := opts.loadConfig(flagOverrides(cmd, map[string]string{
				"root-marker":     "paths.root_marker",
				"absolute-prefix": "paths.absolute_prefix",
				"anchor":          "paths.anchor",
				"fail-fast":       "migrate.fail_fast",
			}))
			if err != nil {
				return err
			}

			rw, err := newRewriter(cfg)
			if err != nil {
				return err
			}
			m, err := migrate.New(filesystem.NewOS(), rw,
				migrate.WithExtensions(cfg.Migrate.Extensions...),
				migrate.WithBackupSuffix(cfg.Migrate.BackupSuffix))
			if err != nil {
				return err
			}
			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			logger.Info().
				Str("root", args[0]).
				Bool("dryRun", opts.dryRun).
				Bool("force", force).
				Msg("Starting migration")

			result, err := m.Run(cmd.Context(), migrate.Options{
				Root:     args[0],
				DryRun:   opts.dryRun,
				FailFast: cfg.Migrate.FailFast,
				Diff:     diff,
				Force:    force,
				OnFile:   renderer.File,
			})
			if err != nil {
				return err
			}
			if err := renderer.MigrationResult(result); err != nil {
				return err
			}
			return result.Err()
		},
	}

	cmd.Flags().String("root-marker", "", MsgFlagRootMarker)
	cmd.Flags().String("absolute-prefix", "", MsgFlagAbsolutePrefix)
	cmd.Flags().String("anchor", "", MsgFlagAnchor)
	cmd.Flags().Bool("fail-fast", false, MsgFlagFailFast)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.Flags().BoolVar(&diff, "diff", false, MsgFlagDiff)

	return cmd
}
