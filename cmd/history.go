package cmd

import (
	"fmt"
	"os"
	"time"

	nsoinv "github.com/OpenCHAMI/nsoinv/internal"
	"github.com/OpenCHAMI/nsoinv/internal/format"
	"github.com/OpenCHAMI/nsoinv/internal/history/sqlite"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	historyPath   string
	historyRun    string
	historyDevice string
	historyFormat = format.FORMAT_LIST
)

// The `history` command shows what earlier `generate --history` runs
// recorded. The history is never used as input for a run.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or prune the recorded generate runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	Short: "List recorded device outcomes",
	Long: "Prints every recorded device outcome, oldest first.\n\n" +
		"Examples:\n" +
		"  nsoinv history list --history runs.db\n" +
		"  nsoinv history list --history runs.db --run $run_id --format json",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := sqlite.GetRecords(resolveHistoryPath(), historyRun)
		exitOnError(err, "failed to get history")

		if historyFormat != format.FORMAT_LIST {
			b, err := format.Marshal(records, historyFormat)
			exitOnError(err, "failed to marshal history")
			fmt.Print(string(b))
			if historyFormat == format.FORMAT_JSON {
				fmt.Println()
			}
			return
		}
		table := pterm.TableData{{"RUN", "DEVICE", "STATUS", "TIME", "DETAIL"}}
		for _, r := range records {
			detail := r.Path
			if r.Status == nsoinv.RecordFailed {
				detail = r.Error
			}
			table = append(table, []string{r.RunID, r.Device, r.Status, r.Timestamp.Format(time.RFC3339), detail})
		}
		err = pterm.DefaultTable.WithHasHeader().WithData(table).WithWriter(os.Stdout).Render()
		exitOnError(err, "failed to print history")
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove",
	Args:  cobra.NoArgs,
	Short: "Remove recorded outcomes by run and/or device",
	Long: "Examples:\n" +
		"  nsoinv history remove --history runs.db --run $run_id\n" +
		"  nsoinv history remove --history runs.db --device core-rtr01",
	Run: func(cmd *cobra.Command, args []string) {
		if historyRun == "" && historyDevice == "" {
			exitOnError(fmt.Errorf("--run or --device is required"), "nothing to remove")
		}
		err := sqlite.DeleteRecords(resolveHistoryPath(), nsoinv.HostRecord{RunID: historyRun, Device: historyDevice})
		exitOnError(err, "failed to remove history")
	},
}

// resolveHistoryPath() prefers --history, then the `history` setting, then
// the per-user default.
func resolveHistoryPath() string {
	if historyPath != "" {
		return historyPath
	}
	if path := viper.GetString("history"); path != "" {
		return path
	}
	return nsoinv.DefaultHistoryPath()
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyPath, "history", "", "Set the history database path")
	historyCmd.PersistentFlags().StringVar(&historyRun, "run", "", "Only consider this run ID")
	historyListCmd.Flags().VarP(&historyFormat, "format", "F", "Set the output format (list|json|yaml)")
	historyRemoveCmd.Flags().StringVar(&historyDevice, "device", "", "Only remove outcomes for this device")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyRemoveCmd)
	rootCmd.AddCommand(historyCmd)
}
