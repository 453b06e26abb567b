package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/billsync/internal/flagx"
	"github.com/dmitrijs2005/billsync/internal/logging"
	"github.com/spf13/viper"
)

// Config holds runtime settings for the billsync CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - WriteTimeout: upper bound for a single remote call.
//   - DatabasePath: SQLite file holding the snapshot, session and outbox.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	WriteTimeout        time.Duration
	DatabasePath        string
	Invoice             InvoiceConfig
	Log                 logging.Config
}

// InvoiceConfig shapes allocated invoice numbers: PREFIX-YYYYMMDD-NNNN.
type InvoiceConfig struct {
	Prefix      string
	Width       int
	MaxAttempts int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.WriteTimeout = 10 * time.Second
	c.DatabasePath = "billsync.db"
	c.Invoice = InvoiceConfig{Prefix: "INV", Width: 4, MaxAttempts: 10}
	c.Log = logging.DefaultConfig()
}

func setDefaults(v *viper.Viper) {
	var d Config
	d.LoadDefaults()

	v.SetDefault("server_endpoint_addr", d.ServerEndpointAddr)
	v.SetDefault("online_check_interval", d.OnlineCheckInterval)
	v.SetDefault("write_timeout", d.WriteTimeout)
	v.SetDefault("database_path", d.DatabasePath)
	v.SetDefault("invoice.prefix", d.Invoice.Prefix)
	v.SetDefault("invoice.width", d.Invoice.Width)
	v.SetDefault("invoice.max_attempts", d.Invoice.MaxAttempts)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
}

// LoadConfig reads configuration for the current process from os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies, in increasing precedence: defaults, the file named by
// -c/-config (any format viper understands), BILLSYNC_* environment
// variables, and command-line flags.
func Load(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := flagx.ConfigFileFlag(args); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("BILLSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		ServerEndpointAddr:  v.GetString("server_endpoint_addr"),
		OnlineCheckInterval: v.GetDuration("online_check_interval"),
		WriteTimeout:        v.GetDuration("write_timeout"),
		DatabasePath:        v.GetString("database_path"),
		Invoice: InvoiceConfig{
			Prefix:      v.GetString("invoice.prefix"),
			Width:       v.GetInt("invoice.width"),
			MaxAttempts: v.GetInt("invoice.max_attempts"),
		},
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.ServerEndpointAddr == "" {
		errs = append(errs, errors.New("server endpoint address is required"))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, errors.New("online check interval must be positive"))
	}
	if c.WriteTimeout <= 0 {
		errs = append(errs, errors.New("write timeout must be positive"))
	}
	if c.Invoice.Width < 1 || c.Invoice.Width > 9 {
		errs = append(errs, errors.New("invoice width must be between 1 and 9"))
	}
	if c.Invoice.MaxAttempts < 1 {
		errs = append(errs, errors.New("invoice max attempts must be positive"))
	}
	return errors.Join(errs...)
}
