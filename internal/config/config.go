// Package config resolves runtime settings for the CLI. Precedence is
// flags, then COURSEMATE_* environment variables, then an optional
// coursemate.yaml, then baked-in defaults. A .env file in the working
// directory is loaded into the environment first if present.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix namespaces environment variables, e.g. COURSEMATE_DATA_DIR.
	EnvPrefix = "COURSEMATE"
	// FileName is the config file base name, looked up as coursemate.yaml
	// in the working directory and the user config directory.
	FileName = "coursemate"
)

// Storage backends.
const (
	StorageFile = "file"
	StorageS3   = "s3"
)

// Settings is the resolved configuration.
type Settings struct {
	DataDir  string     `mapstructure:"data_dir"`
	DataFile string     `mapstructure:"data_file"`
	Storage  string     `mapstructure:"storage"`
	ReadOnly bool       `mapstructure:"read_only"`
	S3       S3Settings `mapstructure:"s3"`
}

// S3Settings configures the s3 storage backend.
type S3Settings struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

// flagBindings maps config keys to the CLI flag overriding them.
var flagBindings = map[string]string{
	"data_dir":  "data",
	"storage":   "storage",
	"read_only": "read-only",
}

// Load resolves settings. flags may be nil when no CLI flags apply.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// Defaults double as the key registry: every key needs one so the
	// environment lookup below can see it.
	v.SetDefault("data_dir", ".")
	v.SetDefault("data_file", "coursemate.json")
	v.SetDefault("storage", StorageFile)
	v.SetDefault("read_only", false)
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	// s3.use_path_style deliberately has no default; see below.

	// Load .env if it exists (ignore if it does not)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat .env: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "coursemate"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// A custom endpoint almost always means MinIO or similar, which needs
	// path-style addressing unless told otherwise. IsSet sees defaults too,
	// so the key stays out of the default registry above.
	if v.IsSet("s3.use_path_style") {
		s.S3.UsePathStyle = v.GetBool("s3.use_path_style")
	} else if s.S3.Endpoint != "" {
		s.S3.UsePathStyle = true
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks cross-field constraints.
func (s *Settings) Validate() error {
	switch s.Storage {
	case StorageFile, StorageS3:
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", s.Storage, StorageFile, StorageS3)
	}
	if s.Storage == StorageS3 && s.S3.Bucket == "" {
		return errors.New("storage s3 requires s3.bucket (COURSEMATE_S3_BUCKET)")
	}
	return nil
}
