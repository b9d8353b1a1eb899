// The cmd package implements the interface for the nsoinv CLI. The files
// contained in this package only contain implementations for handling CLI
// arguments and passing them to functions within nsoinv's internal API.
//
// For example:
//
//	cmd/generate.go --> internal/generate.go ( nsoinv.Generate() )
//	cmd/history.go  --> internal/history/sqlite ( sqlite.GetRecords() )
//	cmd/devices.go  --> pkg/client ( client.GetDeviceList() )
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nsoinv "github.com/OpenCHAMI/nsoinv/internal"
	logger "github.com/OpenCHAMI/nsoinv/internal/log"
	"github.com/OpenCHAMI/nsoinv/pkg/client"
	"github.com/OpenCHAMI/nsoinv/pkg/secrets"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath  string
	logLevel    logger.LogLevel = logger.INFO
	secretsFile string
)

// The `root` command doesn't do anything on it's own except display
// a help message and then exits.
var rootCmd = &cobra.Command{
	Use:   "nsoinv",
	Short: "Ansible inventory generator for Cisco NSO",
	Long: "Generates an Ansible inventory and per-device host_vars from the device\n" +
		"configuration held by a Cisco NSO instance.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return InitializeConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			err := cmd.Help()
			if err != nil {
				log.Error().Err(err).Msg("failed to print help")
			}
			os.Exit(0)
		}
	},
}

// This Execute() function is called from main to run the CLI. An interrupt
// cancels the context handed to every command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	nsoinv.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", nsoinv.DefaultConfigPath, "Set the settings file path")
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", fmt.Sprintf("Set the log level (%v)", logger.Levels))
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
	rootCmd.PersistentFlags().String("host", "", "Set the NSO host (overrides nso.ip)")
	rootCmd.PersistentFlags().Int("port", 0, "Set the NSO port (overrides nso.port)")
	rootCmd.PersistentFlags().StringP("username", "u", "", "Set the NSO username")
	rootCmd.PersistentFlags().StringP("password", "p", "", "Set the NSO password")
	rootCmd.PersistentFlags().Bool("ssl", false, "Use HTTPS to reach NSO")
	rootCmd.PersistentFlags().String("dialect", "", fmt.Sprintf("Set the NSO API dialect (%v)", client.DialectNames()))
	rootCmd.PersistentFlags().String("ca-cert", "", "Set the CA certificate used to verify NSO")
	rootCmd.PersistentFlags().Bool("insecure", false, "Skip TLS certificate verification")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Set a per-request timeout (0 waits indefinitely)")
	rootCmd.PersistentFlags().StringVar(&secretsFile, "secrets-file", "", "Look up NSO credentials in this secrets store")

	// bind viper config flags with cobra
	checkBindFlagError(viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")))
	checkBindFlagError(viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")))
	checkBindFlagError(viper.BindPFlag("nso.ip", rootCmd.PersistentFlags().Lookup("host")))
	checkBindFlagError(viper.BindPFlag("nso.port", rootCmd.PersistentFlags().Lookup("port")))
	checkBindFlagError(viper.BindPFlag("nso.username", rootCmd.PersistentFlags().Lookup("username")))
	checkBindFlagError(viper.BindPFlag("nso.password", rootCmd.PersistentFlags().Lookup("password")))
	checkBindFlagError(viper.BindPFlag("nso.ssl", rootCmd.PersistentFlags().Lookup("ssl")))
	checkBindFlagError(viper.BindPFlag("nso.dialect", rootCmd.PersistentFlags().Lookup("dialect")))
	checkBindFlagError(viper.BindPFlag("nso.ca-cert", rootCmd.PersistentFlags().Lookup("ca-cert")))
	checkBindFlagError(viper.BindPFlag("nso.insecure", rootCmd.PersistentFlags().Lookup("insecure")))
	checkBindFlagError(viper.BindPFlag("nso.timeout", rootCmd.PersistentFlags().Lookup("timeout")))
}

func checkBindFlagError(err error) {
	if err != nil {
		log.Error().Err(err).Msg("failed to bind cobra/viper flag")
	}
}

// InitializeConfig() reads the settings file and sets up logging. The
// settings file is only required when --config was given explicitly.
func InitializeConfig(cmd *cobra.Command) error {
	v := viper.GetViper()
	if err := nsoinv.LoadConfig(v, configPath, cmd.Flags().Changed("config")); err != nil {
		return err
	}
	var level logger.LogLevel
	if err := level.Set(v.GetString("log-level")); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if err := logger.InitWithLogLevel(level, v.GetString("log-file")); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// credentialStore() returns the store NSO credentials are looked up in: the
// encrypted store given with --secrets-file, or the settings themselves.
func credentialStore(settings *nsoinv.Settings) (secrets.SecretStore, error) {
	if secretsFile == "" {
		return secrets.NewStaticStore(settings.NSO.Username, settings.NSO.Password), nil
	}
	store, err := secrets.OpenStore(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open secrets store: %w", err)
	}
	return store, nil
}

// loadSettings() resolves the NSO connection settings. Credentials from the
// secrets store replace those of the settings file, but explicit
// --username/--password flags still win.
func loadSettings(cmd *cobra.Command) (*nsoinv.Settings, error) {
	settings, err := nsoinv.LoadSettings(viper.GetViper())
	if err != nil {
		return nil, err
	}
	store, err := credentialStore(settings)
	if err != nil {
		return nil, err
	}
	creds, err := secrets.GetCredentials(store, settings.NSO.Host)
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("username") {
		settings.NSO.Username = creds.Username
	}
	if !cmd.Flags().Changed("password") {
		settings.NSO.Password = creds.Password
	}
	return settings, nil
}

func newClient(cmd *cobra.Command) (*client.Client, *nsoinv.Settings, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	c, err := settings.NSO.NewClient()
	if err != nil {
		return nil, nil, err
	}
	log.Debug().
		Str("url", c.BaseURL).
		Str("dialect", c.Dialect.Name()).
		Str("username", c.Username).
		Dur("timeout", settings.NSO.Timeout).
		Msg("connecting to NSO")
	return c, settings, nil
}

var exit = os.Exit

func exitOnError(err error, msg string) {
	if err != nil {
		log.Error().Err(err).Msg(msg)
		// os.Exit skips PersistentPostRun
		if cerr := logger.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", cerr)
		}
		exit(1)
	}
}

func now() time.Time {
	return time.Now().UTC()
}
