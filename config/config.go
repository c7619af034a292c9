// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

const (
	BackendPOSIX = "posix"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
	BackendAzure = "azure"

	FormatBinary = "binary"
	FormatText   = "text"

	CompressionNone = "none"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

// Config is the configuration for dataset storage and logging.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig selects the blob backend datasets are persisted on and the default
// encoding of datasets whose names do not imply one.
type StorageConfig struct {
	Backend     string          `mapstructure:"backend" validate:"oneof=posix s3 gcs azure"`
	Dir         string          `mapstructure:"dir"`
	Format      string          `mapstructure:"format" validate:"oneof=binary text"`
	Compression string          `mapstructure:"compression" validate:"oneof=none zstd lz4"`
	S3          S3Config        `mapstructure:"s3"`
	GCS         GCSConfig       `mapstructure:"gcs"`
	Azure       AzureBlobConfig `mapstructure:"azure"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
}

type GCSConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type AzureBlobConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	AccountName      string `mapstructure:"account_name"`
	AccountKey       string `mapstructure:"account_key"`
	Endpoint         string `mapstructure:"endpoint"`
	Container        string `mapstructure:"container"`
	Prefix           string `mapstructure:"prefix"`
}

// LogConfig configures the global logger. Logs are written to a rotated file
// in addition to stdout if Path is set.
type LogConfig struct {
	Debug      bool   `mapstructure:"debug"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size" validate:"gte=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:     BackendPOSIX,
			Dir:         "data",
			Format:      FormatBinary,
			Compression: CompressionNone,
		},
		Log: LogConfig{
			MaxSize: 100,
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [storage]
	v.SetDefault("storage.backend", defaultConfig.Storage.Backend)
	v.SetDefault("storage.dir", defaultConfig.Storage.Dir)
	v.SetDefault("storage.format", defaultConfig.Storage.Format)
	v.SetDefault("storage.compression", defaultConfig.Storage.Compression)
	// [log]
	v.SetDefault("log.debug", defaultConfig.Log.Debug)
	v.SetDefault("log.max_size", defaultConfig.Log.MaxSize)
	v.SetDefault("log.max_age", defaultConfig.Log.MaxAge)
	v.SetDefault("log.max_backups", defaultConfig.Log.MaxBackups)
	v.SetDefault("log.compress", defaultConfig.Log.Compress)
}

type configBinding struct {
	key string
	env string
}

var bindings = []configBinding{
	{"storage.backend", "BAGGED_STORAGE_BACKEND"},
	{"storage.dir", "BAGGED_STORAGE_DIR"},
	{"storage.format", "BAGGED_STORAGE_FORMAT"},
	{"storage.compression", "BAGGED_STORAGE_COMPRESSION"},
	{"storage.s3.endpoint", "BAGGED_S3_ENDPOINT"},
	{"storage.s3.access_key_id", "BAGGED_S3_ACCESS_KEY_ID"},
	{"storage.s3.secret_access_key", "BAGGED_S3_SECRET_ACCESS_KEY"},
	{"storage.s3.use_ssl", "BAGGED_S3_USE_SSL"},
	{"storage.s3.bucket", "BAGGED_S3_BUCKET"},
	{"storage.s3.prefix", "BAGGED_S3_PREFIX"},
	{"storage.gcs.bucket", "BAGGED_GCS_BUCKET"},
	{"storage.gcs.prefix", "BAGGED_GCS_PREFIX"},
	{"storage.gcs.credentials_file", "BAGGED_GCS_CREDENTIALS_FILE"},
	{"storage.azure.connection_string", "BAGGED_AZURE_CONNECTION_STRING"},
	{"storage.azure.account_name", "BAGGED_AZURE_ACCOUNT_NAME"},
	{"storage.azure.account_key", "BAGGED_AZURE_ACCOUNT_KEY"},
	{"storage.azure.endpoint", "BAGGED_AZURE_ENDPOINT"},
	{"storage.azure.container", "BAGGED_AZURE_CONTAINER"},
	{"storage.azure.prefix", "BAGGED_AZURE_PREFIX"},
	{"log.debug", "BAGGED_LOG_DEBUG"},
	{"log.path", "BAGGED_LOG_PATH"},
	{"log.max_size", "BAGGED_LOG_MAX_SIZE"},
	{"log.max_age", "BAGGED_LOG_MAX_AGE"},
	{"log.max_backups", "BAGGED_LOG_MAX_BACKUPS"},
	{"log.compress", "BAGGED_LOG_COMPRESS"},
}

// LoadConfig loads configuration from a toml file. Missing values are filled with defaults
// and BAGGED_* environment variables take precedence over the file. An empty path skips
// the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	for _, binding := range bindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks value ranges and that the selected backend is configured.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid config")
	}
	switch config.Storage.Backend {
	case BackendPOSIX:
		if config.Storage.Dir == "" {
			return errors.NotValidf("empty storage.dir for posix backend")
		}
	case BackendS3:
		if config.Storage.S3.Endpoint == "" || config.Storage.S3.Bucket == "" {
			return errors.NotValidf("s3 backend without storage.s3.endpoint and storage.s3.bucket")
		}
	case BackendGCS:
		if config.Storage.GCS.Bucket == "" {
			return errors.NotValidf("gcs backend without storage.gcs.bucket")
		}
	case BackendAzure:
		if config.Storage.Azure.Container == "" {
			return errors.NotValidf("azure backend without storage.azure.container")
		}
	}
	return nil
}
