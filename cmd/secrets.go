package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/OpenCHAMI/nsoinv/pkg/secrets"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	secretsStoreFile      string
	secretsStoreFormat    string // slightly different from format.DataFormat
	secretsStoreInputFile string
)

var secretsCmd = &cobra.Command{
	Use: "secrets",
	Example: `  // generate new key and set environment variable
  export MASTER_KEY=$(nsoinv secrets generatekey)

  // store credentials for one NSO host in the default secrets store
  nsoinv secrets store 198.18.134.28 developer:C1sco12345

  // store credentials used for any host without its own entry
  nsoinv secrets store default admin:admin

  // use the stored credentials
  nsoinv generate --secrets-file secrets.json

  // list secrets from a specific store
  nsoinv secrets list -f nso.json`,
	Short: "Manage credentials for NSO instances",
	Long: "Manage credentials for NSO instances so they do not need to be kept in\n" +
		"group_vars. This requires generating a key and setting the 'MASTER_KEY'\n" +
		"environment variable for the secrets store.",
}

var secretsGenerateKeyCmd = &cobra.Command{
	Use:   "generatekey",
	Args:  cobra.NoArgs,
	Short: "Generates a new 32-byte master key (in hex).",
	Run: func(cmd *cobra.Command, args []string) {
		key, err := secrets.GenerateMasterKey()
		exitOnError(err, "failed to generate master key")
		fmt.Printf("%s\n", key)
	},
}

var secretsStoreCmd = &cobra.Command{
	Use:   "store secretID <basic(default)|json|base64>",
	Args:  cobra.RangeArgs(1, 2),
	Short: "Stores the given credentials under secretID.",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			secretID    = args[0]
			secretValue string
		)
		if len(args) > 1 {
			// use args[1] here because args[0] is the secretID
			secretValue = args[1]
		}
		if secretsStoreInputFile != "" {
			if secretValue != "" {
				exitOnError(fmt.Errorf("cannot use -i/--input-file with positional argument"), "invalid input")
			}
			b, err := os.ReadFile(secretsStoreInputFile)
			exitOnError(err, "failed to read input file")
			secretValue = strings.TrimSpace(string(b))
		}
		if secretValue == "" {
			exitOnError(fmt.Errorf("no input data or file"), "invalid input")
		}

		creds, err := parseSecretInput(secretValue, secretsStoreFormat)
		exitOnError(err, "invalid credentials")

		value, err := creds.Marshal()
		exitOnError(err, "failed to encode credentials")

		store, err := secrets.OpenStore(secretsStoreFile)
		exitOnError(err, "failed to open secrets store")

		err = store.StoreSecretByID(secretID, value)
		exitOnError(err, "failed to store secret by ID")
		log.Info().Str("id", secretID).Str("path", secretsStoreFile).Msg("stored credentials")
	},
}

// parseSecretInput() accepts "username:password", a credentials JSON
// object or the base64 encoding of one.
func parseSecretInput(value string, inputFormat string) (secrets.Credentials, error) {
	switch inputFormat {
	case "basic":
		username, password, found := strings.Cut(value, ":")
		if !found {
			return secrets.Credentials{}, fmt.Errorf("expected [username:password] format")
		}
		if username == "" {
			return secrets.Credentials{}, fmt.Errorf("username must not be empty")
		}
		return secrets.Credentials{Username: username, Password: password}, nil
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return secrets.Credentials{}, fmt.Errorf("error decoding base64 data: %w", err)
		}
		return secrets.ParseCredentials(string(decoded))
	case "json":
		return secrets.ParseCredentials(value)
	default:
		return secrets.Credentials{}, fmt.Errorf("unknown input format %q", inputFormat)
	}
}

var secretsRetrieveCmd = &cobra.Command{
	Use:   "retrieve secretID",
	Args:  cobra.ExactArgs(1),
	Short: "Prints the secret stored under secretID.",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := secrets.OpenStore(secretsStoreFile)
		exitOnError(err, "failed to open secrets store")

		secretValue, err := store.GetSecretByID(args[0])
		exitOnError(err, "failed to retrieve secret")
		fmt.Printf("Secret for %s: %s\n", args[0], secretValue)
	},
}

var secretsListCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	Short: "Lists all the secret IDs and their values.",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := secrets.OpenStore(secretsStoreFile)
		exitOnError(err, "failed to open secrets store")

		all, err := store.ListSecrets()
		exitOnError(err, "failed to list secrets")

		keys := maps.Keys(all)
		slices.Sort(keys)
		for _, key := range keys {
			fmt.Printf("%s: %s\n", key, all[key])
		}
	},
}

var secretsRemoveCmd = &cobra.Command{
	Use:   "remove secretIDs...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Remove secrets by IDs from secret store.",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := secrets.OpenStore(secretsStoreFile)
		exitOnError(err, "failed to open secrets store")

		for _, secretID := range args {
			err = store.RemoveSecretByID(secretID)
			exitOnError(err, "failed to remove secret")
		}
	},
}

func init() {
	secretsCmd.PersistentFlags().StringVarP(&secretsStoreFile, "file", "f", "secrets.json", "Set the secrets file with NSO credentials.")
	secretsStoreCmd.Flags().StringVarP(&secretsStoreFormat, "format", "F", "basic", "Set the input format for the secret (basic|json|base64).")
	secretsStoreCmd.Flags().StringVarP(&secretsStoreInputFile, "input-file", "i", "", "Set the file to read as input.")

	secretsCmd.AddCommand(secretsGenerateKeyCmd)
	secretsCmd.AddCommand(secretsStoreCmd)
	secretsCmd.AddCommand(secretsRetrieveCmd)
	secretsCmd.AddCommand(secretsListCmd)
	secretsCmd.AddCommand(secretsRemoveCmd)

	rootCmd.AddCommand(secretsCmd)
}
