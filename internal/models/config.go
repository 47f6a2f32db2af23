package models

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuditConfig struct {
	CSVEnabled bool   `mapstructure:"csv_enabled"`
	CSVPath    string `mapstructure:"csv_path"`
}

type OutputConfig struct {
	Format      string `mapstructure:"format"`
	Path        string `mapstructure:"path"`
	Folder      string `mapstructure:"folder"`
	Destination string `mapstructure:"destination"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type KafkaConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	BrokerList string `mapstructure:"broker_list"`
	Topic      string `mapstructure:"topic"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	URL        string `mapstructure:"url"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DayDefaults fill DayContext fields an adapter user leaves blank.
type DayDefaults struct {
	Temperature int     `mapstructure:"temperature"`
	Weather     Weather `mapstructure:"weather"`
}

type Config struct {
	MemoryFile   string             `mapstructure:"memory_file"`
	PromptsFile  string             `mapstructure:"prompts_file"`
	Log          LogConfig          `mapstructure:"log"`
	Audit        AuditConfig        `mapstructure:"audit"`
	Output       OutputConfig       `mapstructure:"output"`
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Server       ServerConfig       `mapstructure:"server"`
	Defaults     DayDefaults        `mapstructure:"defaults"`
}

const (
	OutputFormatNone    = ""
	OutputFormatJSON    = "json"
	OutputFormatParquet = "parquet"

	DestinationLocal = "local"
	DestinationCloud = "cloud"

	DriverNone     = ""
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SetDefaults registers every known key so env overrides and Unmarshal see them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("memory_file", DefaultMemoryFile)
	v.SetDefault("prompts_file", DefaultPromptsFile)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("audit.csv_enabled", true)
	v.SetDefault("audit.csv_path", DefaultAuditPath)
	v.SetDefault("output.format", OutputFormatNone)
	v.SetDefault("output.path", "out")
	v.SetDefault("output.folder", "predictions")
	v.SetDefault("output.destination", DestinationLocal)
	v.SetDefault("cloud_storage.provider", "s3")
	v.SetDefault("cloud_storage.region", "")
	v.SetDefault("cloud_storage.bucket_name", "")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.broker_list", "localhost:9092")
	v.SetDefault("kafka.topic", DefaultKafkaTopic)
	v.SetDefault("database.driver", DriverNone)
	v.SetDefault("database.url", "")
	v.SetDefault("database.sqlite_path", "vendorcast.db")
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "5s")
	v.SetDefault("defaults.temperature", DefaultTemperature)
	v.SetDefault("defaults.weather", string(WeatherSunny))
}

// LoadConfig initializes and reads the configuration using Viper. An explicit
// cfgFile must exist; the default vendorcast.yaml lookup may find nothing.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix("VENDORCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("vendorcast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			stringToEnumHook(),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// stringToEnumHook parses Weather and LocationType tags during decode.
func stringToEnumHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		s := data.(string)
		switch to {
		case reflect.TypeOf(Weather("")):
			return ParseWeather(s)
		case reflect.TypeOf(LocationType("")):
			return ParseLocationType(s)
		}
		return data, nil
	}
}

// Validate rejects values no component knows how to serve.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case OutputFormatNone, OutputFormatJSON, OutputFormatParquet:
	default:
		return fmt.Errorf("unsupported output format: %q", c.Output.Format)
	}
	switch c.Output.Destination {
	case DestinationLocal, DestinationCloud:
	default:
		return fmt.Errorf("unsupported output destination: %q", c.Output.Destination)
	}
	switch c.Database.Driver {
	case DriverNone, DriverSQLite:
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.CloudStorage.Provider != "s3" {
		return fmt.Errorf("unsupported cloud storage provider: %s", c.CloudStorage.Provider)
	}
	if c.MemoryFile == "" {
		return fmt.Errorf("memory_file must not be empty")
	}
	return nil
}
