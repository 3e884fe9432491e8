package relocate

import (
	"github.com/arthur-debert/relocate/pkg/errors"
	"github.com/arthur-debert/relocate/pkg/filesystem"
	"github.com/arthur-debert/relocate/pkg/logging"
	"github.com/arthur-debert/relocate/pkg/relink"
	"github.com/spf13/cobra"
)

func newRelinkCmd(opts *globalOptions) *cobra.Command {
	var scanDir string

	cmd := &cobra.Command{
		Use:     "relink [list-file]",
		Short:   MsgRelinkShort,
		Long:    MsgRelinkLong,
		Example: MsgRelinkExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.relink")

			switch {
			case len(args) == 1 && scanDir != "":
				return errors.New(errors.ErrInvalidInput, MsgErrRelinkSource)
			case len(args) == 0 && scanDir == "":
				return errors.New(errors.ErrInvalidInput, MsgErrRelinkMissing)
			}

			cfg, err := opts.loadConfig(flagOverrides(cmd, map[string]string{
				"root-marker": "paths.root_marker",
				"fail-fast":   "relink.fail_fast",
			}))
			if err != nil {
				return err
			}

			rel, err := newRelativizer(cfg)
			if err != nil {
				return err
			}
			fs := filesystem.NewOS()
			repairer, err := relink.New(fs, rel)
			if err != nil {
				return err
			}

			var links []string
			if scanDir != "" {
				links, err = repairer.Scan(scanDir)
			} else {
				links, err = relink.ReadListFile(fs, args[0])
			}
			if err != nil {
				return err
			}
			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			if len(links) == 0 {
				logger.Info().Msg("Nothing to relink")
				return renderer.Message(MsgNoLinks)
			}
			logger.Info().Int("links", len(links)).Bool("dryRun", opts.dryRun).Msg("Starting relink")

			result, err := repairer.Run(cmd.Context(), links, relink.Options{
				DryRun:   opts.dryRun,
				FailFast: cfg.Relink.FailFast,
				OnEntry:  renderer.Entry,
			})
			if err != nil {
				return err
			}
			if err := renderer.RelinkResult(result); err != nil {
				return err
			}
			return result.Err()
		},
	}

	cmd.Flags().String("root-marker", "", MsgFlagRootMarker)
	cmd.Flags().Bool("fail-fast", false, MsgFlagFailFast)
	cmd.Flags().StringVar(&scanDir, "scan", "", MsgFlagScan)

	return cmd
}
