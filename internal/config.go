package nsoinv

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	urlx "github.com/OpenCHAMI/nsoinv/internal/url"
	"github.com/OpenCHAMI/nsoinv/internal/util"
	"github.com/OpenCHAMI/nsoinv/pkg/client"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DefaultConfigPath = "group_vars/all.yaml"
	EnvPrefix         = "NSOINV"
)

// DefaultHistoryPath() is where run history goes when --history is given
// without a path.
func DefaultHistoryPath() string {
	return fmt.Sprintf("/tmp/%s/nsoinv/history.db", util.GetCurrentUsername())
}

// ConnectionParams is the `nso` section of the settings file.
type ConnectionParams struct {
	Host       string        `mapstructure:"ip"`
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	Port       int           `mapstructure:"port"`
	SSL        bool          `mapstructure:"ssl"`
	Dialect    string        `mapstructure:"dialect"`
	CACertPath string        `mapstructure:"ca-cert"`
	Insecure   bool          `mapstructure:"insecure"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type OutputParams struct {
	HostVars  string `mapstructure:"host-vars"`
	Inventory string `mapstructure:"inventory"`
}

type Settings struct {
	NSO      ConnectionParams `mapstructure:"nso"`
	Output   OutputParams     `mapstructure:"output"`
	History  string           `mapstructure:"history"`
	LogLevel string           `mapstructure:"log-level"`
	LogFile  string           `mapstructure:"log-file"`
}

// SetDefaults() registers every known key so that environment variables
// are picked up by Unmarshal() as well.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("nso.ip", "localhost")
	v.SetDefault("nso.username", "admin")
	v.SetDefault("nso.password", "admin")
	v.SetDefault("nso.port", 8080)
	v.SetDefault("nso.ssl", false)
	v.SetDefault("nso.dialect", client.RESTCONF.Name())
	v.SetDefault("nso.ca-cert", "")
	v.SetDefault("nso.insecure", false)
	v.SetDefault("nso.timeout", time.Duration(0))
	v.SetDefault("output.host-vars", DefaultHostVarsDir)
	v.SetDefault("output.inventory", DefaultInventoryPath)
	v.SetDefault("history", "")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", "")
}

// LoadConfig() will load a YAML settings file at the specified path. There
// are some general considerations about how this is done with spf13/viper:
//
// 1. There are intentionally no search paths set, so the path has to be set explicitly
// 2. No data will be written to the settings file from the tool
// 3. Parameters passed as CLI flags and environment variables always have
// precedence over values set in the file.
//
// A missing file is only an error when required is set.
func LoadConfig(v *viper.Viper, path string, required bool) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			if required {
				return fmt.Errorf("config file not found: %w", err)
			}
			log.Debug().Str("path", path).Msg("no config file found; using defaults")
			return nil
		}
		return fmt.Errorf("failed to load config file: %w", err)
	}
	log.Debug().Str("path", v.ConfigFileUsed()).Msg("loaded config file")
	return nil
}

// LoadSettings() decodes the merged settings. A full URL given as the NSO
// address overrides the scheme and, when present, the port.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	host, port, ssl, err := urlx.SplitHost(settings.NSO.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid nso.ip: %w", err)
	}
	if strings.Contains(settings.NSO.Host, "://") {
		settings.NSO.SSL = ssl
	}
	settings.NSO.Host = host
	if port > 0 {
		settings.NSO.Port = port
	}
	if settings.NSO.Host == "" {
		return nil, fmt.Errorf("nso.ip must not be empty")
	}
	if settings.NSO.Port <= 0 || settings.NSO.Port > 65535 {
		return nil, fmt.Errorf("invalid nso.port %d", settings.NSO.Port)
	}
	if _, err := client.ParseDialect(settings.NSO.Dialect); err != nil {
		return nil, err
	}
	return &settings, nil
}

// NewClient() builds the NSO client described by the connection params.
func (p *ConnectionParams) NewClient() (*client.Client, error) {
	dialect, err := client.ParseDialect(p.Dialect)
	if err != nil {
		return nil, err
	}
	opts := []client.Option{
		client.WithDialect(dialect),
		client.WithTimeout(p.Timeout),
	}
	if p.Insecure {
		opts = append(opts, client.WithInsecureTLS())
	} else if p.CACertPath != "" {
		opts = append(opts, client.WithSecureTLS(p.CACertPath))
	}
	return client.New(p.Host, p.Username, p.Password, p.Port, p.SSL, opts...), nil
}
