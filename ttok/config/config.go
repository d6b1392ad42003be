package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/table-tokenizer/ttok"
	"github.com/ZanzyTHEbar/table-tokenizer/ttok/encode"
	"github.com/ZanzyTHEbar/table-tokenizer/ttok/wordpiece"

	"github.com/spf13/viper"
)

// Config stores all configuration of the tokenizer.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Vocab   VocabConfig    `mapstructure:"vocab"`
	Encoder encode.Options `mapstructure:"encoder"`
	Predict PredictConfig  `mapstructure:"predict"`
}

// VocabConfig stores vocabulary and word splitting configurations.
type VocabConfig struct {
	Path                 string `mapstructure:"path"`
	Engine               string `mapstructure:"engine"`
	Lowercase            bool   `mapstructure:"lowercase"`
	StripAccents         bool   `mapstructure:"strip_accents"`
	TokenizeChineseChars bool   `mapstructure:"tokenize_chinese_chars"`
}

// Subword returns the word splitting configuration in the form the
// tokenizer constructors take.
func (v VocabConfig) Subword() wordpiece.Config {
	return wordpiece.Config{
		Lowercase:            v.Lowercase,
		StripAccents:         v.StripAccents,
		TokenizeChineseChars: v.TokenizeChineseChars,
	}
}

// PredictConfig stores scoring and decoding configurations.
type PredictConfig struct {
	Backend       string  `mapstructure:"backend"`
	ModelPath     string  `mapstructure:"model_path"`
	CellThreshold float64 `mapstructure:"cell_threshold"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables. Each
// call works on its own viper instance so repeated loads never see stale
// file bindings.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Set default values
	v.SetDefault("vocab.path", internal.DefaultVocabFile)
	v.SetDefault("vocab.engine", string(wordpiece.EngineLocal))
	v.SetDefault("vocab.lowercase", true)
	v.SetDefault("vocab.strip_accents", true)
	v.SetDefault("vocab.tokenize_chinese_chars", true)

	v.SetDefault("encoder.model_max_length", internal.DefaultModelMaxLength)
	v.SetDefault("encoder.cell_trim_length", -1)

	v.SetDefault("predict.backend", "onnx")
	v.SetDefault("predict.model_path", internal.DefaultModelFile)
	v.SetDefault("predict.cell_threshold", 0.5)

	v.SetEnvPrefix(internal.DefaultAppName)
	v.AutomaticEnv()                                   // Read in environment variables that match
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // encoder.model_max_length becomes TTOK_ENCODER_MODEL_MAX_LENGTH

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
		logger := internal.GetLogger()
		logger.Debug().Msg("no config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	AppConfig = cfg

	return &AppConfig, nil
}
