package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string `mapstructure:"port"`
	UploadDir string `mapstructure:"upload_dir"`

	// Answering engine. Provider selects between the OpenAI-compatible
	// endpoint (Groq, local servers) and Gemini.
	Provider      string   `mapstructure:"provider"`
	AIEndpoint    string   `mapstructure:"ai_endpoint"`
	Model         string   `mapstructure:"model"`
	GroqAPIKey    string   `mapstructure:"GROQ_API_KEY"`
	OpenAIAPIKey  string   `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys []string `mapstructure:"gemini_api_keys"`

	MongoURI string `mapstructure:"MONGODB_URI"`

	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`

	// Chunking and retrieval knobs.
	ChunkSize    int     `mapstructure:"chunk_size"`
	ChunkOverlap int     `mapstructure:"chunk_overlap"`
	TopK         int     `mapstructure:"top_k"`
	FetchK       int     `mapstructure:"fetch_k"`
	MMRLambda    float64 `mapstructure:"mmr_lambda"`

	// MaxUploadBytes limits uploaded file size. 0 means unlimited.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

type WeaviateStoreConfig struct {
	Host       string `mapstructure:"host"`
	APIKey     string `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
	Text2Vec   string `mapstructure:"text2vec"`
	EmbedModel string `mapstructure:"embed_model"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("GROQ_API_KEY")
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// APIKey returns the credential for the configured OpenAI-compatible
// endpoint, preferring GROQ_API_KEY.
func (c *Config) APIKey() string {
	if c.GroqAPIKey != "" {
		return c.GroqAPIKey
	}
	return c.OpenAIAPIKey
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("provider", "openai")
	v.SetDefault("ai_endpoint", "https://api.groq.com/openai/v1")
	v.SetDefault("model", "mixtral-8x7b-32768")
	v.SetDefault("chunk_size", 512)
	v.SetDefault("chunk_overlap", 0)
	v.SetDefault("top_k", 2)
	v.SetDefault("fetch_k", 4)
	v.SetDefault("mmr_lambda", 0.5)
	v.SetDefault("max_upload_bytes", 0)
	v.SetDefault("weaviate_store_config.host", "http://localhost:8081")
	v.SetDefault("weaviate_store_config.text2vec", "text2vec-transformers")
	v.SetDefault("weaviate_store_config.embed_model", "sentence-transformers/all-MiniLM-L6-v2")
}
