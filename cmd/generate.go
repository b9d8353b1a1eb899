package cmd

import (
	"fmt"
	"os"

	nsoinv "github.com/OpenCHAMI/nsoinv/internal"
	"github.com/OpenCHAMI/nsoinv/internal/history/sqlite"
	"github.com/OpenCHAMI/nsoinv/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var skipSync bool

// The `generate` command is the main entry point: it syncs NSO with the
// devices, then writes one host_vars file per device and the inventory.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the Ansible inventory and host_vars from NSO",
	Long: "Triggers a sync-from on NSO, fetches the configuration of every managed\n" +
		"device and writes it to host_vars/<device>.yaml, then writes an inventory\n" +
		"listing every device that succeeded.\n\n" +
		"Examples:\n" +
		"  nsoinv generate\n" +
		"  nsoinv generate --config group_vars/all.yaml --inventory hosts.yaml\n" +
		"  nsoinv generate --skip-sync --history=runs.db",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, settings, err := newClient(cmd)
		exitOnError(err, "failed to load settings")

		params := nsoinv.NewGenerateParams()
		params.HostVarsDir = settings.Output.HostVars
		params.InventoryPath = settings.Output.Inventory
		params.SkipSync = skipSync
		params.Out = os.Stdout

		report, err := nsoinv.Generate(cmd.Context(), c, params)
		if settings.History != "" {
			runID := uuid.NewString()
			if herr := sqlite.InsertRecords(settings.History, report.Records(runID, now())...); herr != nil {
				log.Warn().Err(herr).Str("path", settings.History).Msg("failed to record run history")
			} else {
				log.Debug().Str("run", runID).Msg("recorded run history")
			}
		}
		exitOnError(err, "failed to generate inventory")

		if len(report.Failed) > 0 {
			errs := make([]error, 0, len(report.Failed))
			for _, failure := range report.Failed {
				errs = append(errs, fmt.Errorf("%s: %w", failure.Device, failure.Err))
			}
			log.Warn().Err(util.FormatErrorList(errs)).Msg("some devices were left out of the inventory")
		}

		log.Info().
			Int("generated", len(report.Generated)).
			Int("failed", len(report.Failed)).
			Str("state", report.State.String()).
			Msg("generate finished")
	},
}

func init() {
	generateCmd.Flags().String("host-vars", nsoinv.DefaultHostVarsDir, "Set the host_vars output directory")
	generateCmd.Flags().String("inventory", nsoinv.DefaultInventoryPath, "Set the inventory output path")
	generateCmd.Flags().String("history", "", "Record the outcome of the run in this sqlite database (--history alone uses the per-user default)")
	generateCmd.Flags().Lookup("history").NoOptDefVal = nsoinv.DefaultHistoryPath()
	generateCmd.Flags().BoolVar(&skipSync, "skip-sync", false, "Do not trigger a sync-from before fetching configurations")

	checkBindFlagError(viper.BindPFlag("output.host-vars", generateCmd.Flags().Lookup("host-vars")))
	checkBindFlagError(viper.BindPFlag("output.inventory", generateCmd.Flags().Lookup("inventory")))
	checkBindFlagError(viper.BindPFlag("history", generateCmd.Flags().Lookup("history")))

	rootCmd.AddCommand(generateCmd)
}
