package cmd

import (
	"fmt"
	"os"

	"github.com/OpenCHAMI/nsoinv/internal/format"
	"github.com/OpenCHAMI/nsoinv/pkg/client"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var syncFormat = format.FORMAT_LIST

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run sync-from on NSO for all devices",
	Long: "Asks NSO to pull the configuration of every managed device and prints\n" +
		"the result reported for each one.\n\n" +
		"Examples:\n" +
		"  nsoinv sync\n" +
		"  nsoinv sync --format json",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, _, err := newClient(cmd)
		exitOnError(err, "failed to load settings")

		output, err := c.SyncFrom(cmd.Context())
		exitOnError(err, "failed to sync from devices")

		results := client.ParseSyncResults(output)
		if syncFormat != format.FORMAT_LIST {
			b, err := format.Marshal(results, syncFormat)
			exitOnError(err, "failed to marshal sync results")
			fmt.Print(string(b))
			if syncFormat == format.FORMAT_JSON {
				fmt.Println()
			}
			return
		}
		for _, r := range results {
			if r.Result {
				color.New(color.FgGreen).Fprintf(os.Stdout, "%s: in sync\n", r.Device)
			} else {
				color.New(color.FgRed).Fprintf(os.Stdout, "%s: failed %s\n", r.Device, r.Info)
			}
		}
	},
}

func init() {
	syncCmd.Flags().VarP(&syncFormat, "format", "F", "Set the output format (list|json|yaml)")
	rootCmd.AddCommand(syncCmd)
}
