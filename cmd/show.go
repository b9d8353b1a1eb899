package cmd

import (
	"fmt"

	"github.com/OpenCHAMI/nsoinv/internal/format"
	"github.com/spf13/cobra"
)

var showFormat = format.FORMAT_YAML

var showCmd = &cobra.Command{
	Use:   "show device",
	Short: "Print the configuration NSO holds for one device",
	Long: "Fetches the config-only view of a single device, the same document\n" +
		"that generate writes under the 'config' key of its host_vars file.\n\n" +
		"Examples:\n" +
		"  nsoinv show core-rtr01\n" +
		"  nsoinv show core-rtr01 --format json",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if showFormat == format.FORMAT_LIST {
			exitOnError(fmt.Errorf("list format is not supported here"), "invalid output format")
		}
		c, _, err := newClient(cmd)
		exitOnError(err, "failed to load settings")

		config, err := c.GetDeviceConfig(cmd.Context(), args[0])
		exitOnError(err, "failed to get device config")

		b, err := format.Marshal(config, showFormat)
		exitOnError(err, "failed to marshal device config")
		fmt.Print(string(b))
		if showFormat == format.FORMAT_JSON {
			fmt.Println()
		}
	},
}

func init() {
	showCmd.Flags().VarP(&showFormat, "format", "F", "Set the output format (json|yaml)")
	rootCmd.AddCommand(showCmd)
}
