package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
	"gopkg.in/yaml.v3"

	"moodpoet/internal/domain"
)

// Config is the root configuration, loaded once at startup.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Generation GenerationConfig `yaml:"generation"`
	Logger     LoggerConfig     `yaml:"logger"`
	Tracer     TracerConfig     `yaml:"tracer"`
	// Seed fixes the random source for persona, mood and template choices.
	// Zero seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// ProvidersConfig holds the three LLM backends and the default preference.
type ProvidersConfig struct {
	// Preferred moves one provider to the front of the attempt order when a
	// request has no preference of its own. Empty keeps the fixed order.
	Preferred   string            `yaml:"preferred"`
	Azure       AzureConfig       `yaml:"azure_openai"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
}

// AzureConfig configures the Azure OpenAI deployment provider.
type AzureConfig struct {
	APIKey     string        `yaml:"api_key"`
	Endpoint   string        `yaml:"endpoint" validate:"omitempty,url"`
	Deployment string        `yaml:"deployment_name"`
	APIVersion string        `yaml:"api_version" validate:"required"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
}

// Configured reports whether the key, endpoint and deployment are all set.
func (c AzureConfig) Configured() bool {
	return c.APIKey != "" && c.Endpoint != "" && c.Deployment != ""
}

// OpenAIConfig configures the OpenAI chat completions provider.
type OpenAIConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// Configured reports whether the key and model are set.
func (c OpenAIConfig) Configured() bool {
	return c.APIKey != "" && c.Model != ""
}

// HuggingFaceConfig configures the HuggingFace hosted inference provider.
type HuggingFaceConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// Configured reports whether the key and model are set.
func (c HuggingFaceConfig) Configured() bool {
	return c.APIKey != "" && c.Model != ""
}

// GenerationConfig holds the parameters sent to every provider.
type GenerationConfig struct {
	MaxTokens    int      `yaml:"max_tokens" validate:"gte=1,lte=4096"`
	Temperature  float64  `yaml:"temperature" validate:"gte=0,lte=2"`
	DefaultMoods []string `yaml:"default_moods" validate:"dive,required"`
}

// Options converts the generation settings to domain options.
func (g GenerationConfig) Options() domain.GenerateOptions {
	return domain.GenerateOptions{MaxTokens: g.MaxTokens, Temperature: g.Temperature}
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Provider defaults.
const (
	DefaultAzureDeployment    = "gpt-35-turbo"
	DefaultAzureAPIVersion    = "2023-05-15"
	DefaultOpenAIModel        = "gpt-3.5-turbo"
	DefaultOpenAIBaseURL      = "https://api.openai.com/v1"
	DefaultHuggingFaceModel   = "THUDM/chatglm3-6b"
	DefaultHuggingFaceURL     = "https://api-inference.huggingface.co"
	defaultAzureTimeout       = 10 * time.Second
	defaultOpenAITimeout      = 30 * time.Second
	defaultHuggingFaceTimeout = 15 * time.Second
)

// Defaults returns a Config with sensible defaults. No provider is
// configured until an API key is supplied.
func Defaults() *Config {
	defaults := domain.DefaultGenerateOptions()
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Providers: ProvidersConfig{
			Azure: AzureConfig{
				Deployment: DefaultAzureDeployment,
				APIVersion: DefaultAzureAPIVersion,
				Timeout:    defaultAzureTimeout,
			},
			OpenAI: OpenAIConfig{
				Model:   DefaultOpenAIModel,
				BaseURL: DefaultOpenAIBaseURL,
				Timeout: defaultOpenAITimeout,
			},
			HuggingFace: HuggingFaceConfig{
				Model:   DefaultHuggingFaceModel,
				BaseURL: DefaultHuggingFaceURL,
				Timeout: defaultHuggingFaceTimeout,
			},
		},
		Generation: GenerationConfig{
			MaxTokens:    defaults.MaxTokens,
			Temperature:  defaults.Temperature,
			DefaultMoods: append([]string(nil), domain.DefaultMoods...),
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file, applies env var overrides, decrypts secrets
// and validates the result. A missing file yields defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("%w: read config: %v", domain.ErrConfigLoad, err)
		default:
			absPath, err := filepath.Abs(path)
			if err != nil {
				return nil, fmt.Errorf("%w: resolve config path: %v", domain.ErrConfigLoad, err)
			}
			if err := validatePermissions(absPath); err != nil {
				return nil, err
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("%w: parse config: %v", domain.ErrConfigLoad, err)
			}
		}
	}

	ApplyEnvOverrides(cfg)

	if passphrase := os.Getenv("MOODPOET_CONFIG_KEY"); passphrase != "" {
		if err := decryptSecrets(cfg, passphrase); err != nil {
			return nil, domain.WrapOp("decrypt secrets", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps environment variables onto config fields. The
// provider variables keep their conventional vendor names.
func ApplyEnvOverrides(cfg *Config) {
	strVars := []struct {
		name  string
		field *string
	}{
		{"AZURE_OPENAI_API_KEY", &cfg.Providers.Azure.APIKey},
		{"AZURE_OPENAI_ENDPOINT", &cfg.Providers.Azure.Endpoint},
		{"AZURE_OPENAI_DEPLOYMENT_NAME", &cfg.Providers.Azure.Deployment},
		{"AZURE_OPENAI_API_VERSION", &cfg.Providers.Azure.APIVersion},
		{"OPENAI_API_KEY", &cfg.Providers.OpenAI.APIKey},
		{"OPENAI_MODEL", &cfg.Providers.OpenAI.Model},
		{"OPENAI_BASE_URL", &cfg.Providers.OpenAI.BaseURL},
		{"HUGGINGFACE_API_KEY", &cfg.Providers.HuggingFace.APIKey},
		{"HUGGINGFACE_MODEL", &cfg.Providers.HuggingFace.Model},
		{"HUGGINGFACE_BASE_URL", &cfg.Providers.HuggingFace.BaseURL},
		{"MOODPOET_SERVER_ADDR", &cfg.Server.Addr},
		{"MOODPOET_LOGGER_LEVEL", &cfg.Logger.Level},
		{"MOODPOET_LOGGER_FORMAT", &cfg.Logger.Format},
		{"MOODPOET_TRACER_EXPORTER", &cfg.Tracer.Exporter},
		{"MOODPOET_PREFERRED_PROVIDER", &cfg.Providers.Preferred},
	}
	for _, v := range strVars {
		if val := os.Getenv(v.name); val != "" {
			*v.field = val
		}
	}

	if v := os.Getenv("MOODPOET_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("MOODPOET_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
}

// secretFields returns pointers to every credential in cfg.
func secretFields(cfg *Config) map[string]*string {
	return map[string]*string{
		"providers.azure_openai.api_key": &cfg.Providers.Azure.APIKey,
		"providers.openai.api_key":       &cfg.Providers.OpenAI.APIKey,
		"providers.huggingface.api_key":  &cfg.Providers.HuggingFace.APIKey,
	}
}

// decryptSecrets finds "enc:..." credentials and decrypts them in place.
func decryptSecrets(cfg *Config, passphrase string) error {
	for name, field := range secretFields(cfg) {
		if !strings.HasPrefix(*field, "enc:") {
			continue
		}
		decrypted, err := DecryptValue(strings.TrimPrefix(*field, "enc:"), passphrase)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*field = decrypted
	}
	return nil
}

// EncryptValue encrypts a plaintext value with AES-256-GCM using a passphrase.
// The result goes into the config file behind an "enc:" prefix.
func EncryptValue(plaintext, passphrase string) (string, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	// Format: hex(salt) + ":" + hex(nonce+ciphertext)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(ciphertext), nil
}

// DecryptValue decrypts a value produced by EncryptValue.
func DecryptValue(encrypted, passphrase string) (string, error) {
	saltHex, dataHex, ok := strings.Cut(encrypted, ":")
	if !ok {
		return "", fmt.Errorf("%w: invalid encrypted format", domain.ErrDecryption)
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", fmt.Errorf("%w: decode salt: %v", domain.ErrDecryption, err)
	}
	data, err := hex.DecodeString(dataHex)
	if err != nil {
		return "", fmt.Errorf("%w: decode ciphertext: %v", domain.ErrDecryption, err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", domain.ErrDecryption)
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecryption, err)
	}
	return string(plaintext), nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// deriveKey uses Argon2id to derive a 32-byte key from passphrase + salt.
func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32)
}

// validatePermissions rejects config files writable by group or others.
func validatePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: stat config: %v", domain.ErrConfigLoad, err)
	}
	mode := info.Mode().Perm()
	if mode&0o022 != 0 {
		return fmt.Errorf("%w: config file %s has insecure permissions %o (want 0600 or 0644)", domain.ErrConfigLoad, path, mode)
	}
	return nil
}
