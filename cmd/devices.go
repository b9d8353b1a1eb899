package cmd

import (
	"fmt"

	"github.com/OpenCHAMI/nsoinv/internal/format"
	"github.com/spf13/cobra"
)

var devicesFormat = format.FORMAT_LIST

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the devices managed by NSO",
	Long: "Prints the device names in the order NSO returns them.\n\n" +
		"Examples:\n" +
		"  nsoinv devices\n" +
		"  nsoinv devices --format yaml --dialect legacy",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, _, err := newClient(cmd)
		exitOnError(err, "failed to load settings")

		devices, err := c.GetDeviceList(cmd.Context())
		exitOnError(err, "failed to get device list")

		if devicesFormat == format.FORMAT_LIST {
			for _, device := range devices {
				fmt.Println(device)
			}
			return
		}
		b, err := format.Marshal(devices, devicesFormat)
		exitOnError(err, "failed to marshal device list")
		fmt.Print(string(b))
		if devicesFormat == format.FORMAT_JSON {
			fmt.Println()
		}
	},
}

func init() {
	devicesCmd.Flags().VarP(&devicesFormat, "format", "F", "Set the output format (list|json|yaml)")
	rootCmd.AddCommand(devicesCmd)
}
