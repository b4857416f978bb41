package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Policy   PolicyConfig
	Seed     bool
}

type ServerConfig struct {
	Port      int
	Mode      string // debug, release, test
	RateLimit float64
	RateBurst int
}

type DatabaseConfig struct {
	Driver string // sqlite, mysql, postgres
	DSN    string
	Debug  bool
}

type LogConfig struct {
	Level  string
	Format string // text, json
}

type PolicyConfig struct {
	// ValidateReferences rejects unknown driver/order/topping ids on
	// AssignDriver and AddToppingToOrder.
	ValidateReferences bool
}

// InitConfig loads .env (if present), then config.yaml or cfgFile, then
// TUBER_* environment overrides. TUBER_DATABASE_DRIVER overrides
// database.driver.
func InitConfig(cfgFile string) error {
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded .env file")
	}

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("TUBER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.rate_limit", 50)
	viper.SetDefault("server.rate_burst", 100)

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "tuber.db")
	viper.SetDefault("database.debug", false)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("policy.validate_references", false)
	viper.SetDefault("seed", false)
}

// Load reads the current viper state into a Config.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:      viper.GetInt("server.port"),
			Mode:      viper.GetString("server.mode"),
			RateLimit: viper.GetFloat64("server.rate_limit"),
			RateBurst: viper.GetInt("server.rate_burst"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(viper.GetString("database.driver")),
			DSN:    viper.GetString("database.dsn"),
			Debug:  viper.GetBool("database.debug"),
		},
		Log: LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
		Policy: PolicyConfig{
			ValidateReferences: viper.GetBool("policy.validate_references"),
		},
		Seed: viper.GetBool("seed"),
	}

	if cfg.Server.Port <= 0 {
		return nil, fmt.Errorf("invalid server.port %d", cfg.Server.Port)
	}
	switch cfg.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database.driver %q", cfg.Database.Driver)
	}
	return cfg, nil
}
