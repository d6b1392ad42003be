package config

import (
	"os"
	"path/filepath"
	"testing"

	internal "github.com/ZanzyTHEbar/table-tokenizer/ttok"
	"github.com/ZanzyTHEbar/table-tokenizer/ttok/wordpiece"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	tempDir, err := os.MkdirTemp("", "ttok-config-test-*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	// Run each test away from any developer config.yaml
	err = os.Chdir(tempDir)
	require.NoError(suite.T(), err)
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), internal.DefaultVocabFile, cfg.Vocab.Path)
	assert.Equal(suite.T(), string(wordpiece.EngineLocal), cfg.Vocab.Engine)
	assert.True(suite.T(), cfg.Vocab.Lowercase)
	assert.True(suite.T(), cfg.Vocab.StripAccents)
	assert.True(suite.T(), cfg.Vocab.TokenizeChineseChars)

	assert.Equal(suite.T(), internal.DefaultModelMaxLength, cfg.Encoder.ModelMaxLength)
	assert.Equal(suite.T(), -1, cfg.Encoder.CellTrimLength)
	assert.False(suite.T(), cfg.Encoder.DropRowsToFit)

	assert.Equal(suite.T(), "onnx", cfg.Predict.Backend)
	assert.Equal(suite.T(), internal.DefaultModelFile, cfg.Predict.ModelPath)
	assert.Equal(suite.T(), 0.5, cfg.Predict.CellThreshold)
}

func (suite *ConfigTestSuite) TestLoadConfigWithFile() {
	configContent := `
vocab:
  path: "./test-vocab.txt"
  engine: "sugarme"
  lowercase: false

encoder:
  model_max_length: 128
  drop_rows_to_fit: true
  worker_count: 2

predict:
  model_path: "./test-model.onnx"
  cell_threshold: 0.75
`

	configFile := filepath.Join(suite.tempDir, "config.yaml")
	err := os.WriteFile(configFile, []byte(configContent), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig(configFile)

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), "./test-vocab.txt", cfg.Vocab.Path)
	assert.Equal(suite.T(), "sugarme", cfg.Vocab.Engine)
	assert.False(suite.T(), cfg.Vocab.Lowercase)

	assert.Equal(suite.T(), 128, cfg.Encoder.ModelMaxLength)
	assert.True(suite.T(), cfg.Encoder.DropRowsToFit)
	assert.Equal(suite.T(), 2, cfg.Encoder.WorkerCount)
	// Values the file leaves out keep their defaults.
	assert.Equal(suite.T(), -1, cfg.Encoder.CellTrimLength)

	assert.Equal(suite.T(), "./test-model.onnx", cfg.Predict.ModelPath)
	assert.Equal(suite.T(), 0.75, cfg.Predict.CellThreshold)
}

func (suite *ConfigTestSuite) TestLoadConfigFromEnv() {
	suite.T().Setenv("TTOK_ENCODER_MODEL_MAX_LENGTH", "256")
	suite.T().Setenv("TTOK_VOCAB_ENGINE", "sugarme")

	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 256, cfg.Encoder.ModelMaxLength)
	assert.Equal(suite.T(), "sugarme", cfg.Vocab.Engine)
}

func (suite *ConfigTestSuite) TestLoadConfigMissingExplicitFile() {
	// An explicit path to a file that does not exist degrades to defaults,
	// just like an empty search path.
	cfg, err := LoadConfig(filepath.Join(suite.tempDir, "missing.yaml"))

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)
	assert.Equal(suite.T(), internal.DefaultModelMaxLength, cfg.Encoder.ModelMaxLength)
	assert.Equal(suite.T(), string(wordpiece.EngineLocal), cfg.Vocab.Engine)
}

func (suite *ConfigTestSuite) TestLoadConfigUnreadableFile() {
	// A path that exists but cannot be read as a file still errors.
	dir := filepath.Join(suite.tempDir, "dir.yaml")
	require.NoError(suite.T(), os.Mkdir(dir, 0o755))

	cfg, err := LoadConfig(dir)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestLoadConfigMalformedFile() {
	malformedContent := `
vocab:
  engine: "local"
  invalid_yaml: [unclosed bracket
`

	configFile := filepath.Join(suite.tempDir, "malformed.yaml")
	err := os.WriteFile(configFile, []byte(malformedContent), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig(configFile)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestAppConfigGlobal() {
	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), cfg.Vocab.Path, AppConfig.Vocab.Path)
	assert.Equal(suite.T(), cfg.Encoder.ModelMaxLength, AppConfig.Encoder.ModelMaxLength)
}

// TestVocabSubword tests the mapping into the tokenizer configuration.
func TestVocabSubword(t *testing.T) {
	vc := VocabConfig{Lowercase: true, StripAccents: false, TokenizeChineseChars: true}

	got := vc.Subword()
	assert.True(t, got.Lowercase)
	assert.False(t, got.StripAccents)
	assert.True(t, got.TokenizeChineseChars)
}

// BenchmarkLoadConfig benchmarks config loading performance
func BenchmarkLoadConfig(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, err := LoadConfig("")
		if err != nil {
			b.Fatal(err)
		}
	}
}
