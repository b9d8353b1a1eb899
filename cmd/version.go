package cmd

import (
	"fmt"
	"os"

	"github.com/OpenCHAMI/nsoinv/internal/format"
	"github.com/OpenCHAMI/nsoinv/internal/version"
	"github.com/spf13/cobra"
)

var versionFormat = format.FORMAT_LIST

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		if cmd.Flag("short").Value.String() == "true" {
			fmt.Println(info.Version)
			return
		}
		if versionFormat == format.FORMAT_LIST {
			info.Fprint(os.Stdout)
			return
		}
		b, err := format.Marshal(info, versionFormat)
		exitOnError(err, "failed to marshal version info")
		fmt.Print(string(b))
		if versionFormat == format.FORMAT_JSON {
			fmt.Println()
		}
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "only print the version")
	versionCmd.Flags().VarP(&versionFormat, "format", "F", "Set the output format (list|json|yaml)")
	rootCmd.AddCommand(versionCmd)
}
