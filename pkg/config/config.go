package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"folio/pkg/media"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Port     string `env:"PORT"      envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// An empty BaaSURL serves content from ContentDB and media from MediaDir.
	BaaSURL      string   `env:"BAAS_URL"`
	BaaSKey      string   `env:"BAAS_KEY"`
	ContentDB    string   `env:"CONTENT_DB"    envDefault:"content.db"`
	MediaDir     string   `env:"MEDIA_DIR"     envDefault:"media"`
	MediaBuckets []string `env:"MEDIA_BUCKETS" envDefault:"projects,characters,generated" envSeparator:","`

	ImageProvider    string `env:"IMAGE_PROVIDER"     envDefault:"openai"`
	OpenAIKey        string `env:"OPENAI_API_KEY"`
	OpenAIImageModel string `env:"OPENAI_IMAGE_MODEL" envDefault:"gpt-image-1"`
	GeminiKey        string `env:"GEMINI_API_KEY"`
	GeminiImageModel string `env:"GEMINI_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`

	CacheTTL           time.Duration `env:"CACHE_TTL"           envDefault:"5m"`
	GenerationInterval time.Duration `env:"GENERATION_INTERVAL" envDefault:"2s"`
	HeroTitleInterval  time.Duration `env:"HERO_TITLE_INTERVAL" envDefault:"3s"`

	ReservedReference string `env:"RESERVED_REFERENCE" envDefault:"characters/paradoxxia.png"`
	GalleryFile       string `env:"GALLERY_FILE"       envDefault:"Gallery.json"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads only the given variables, for tests and tools.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.ImageProvider = strings.ToLower(strings.TrimSpace(cfg.ImageProvider))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.ImageProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown IMAGE_PROVIDER %q", c.ImageProvider)
	}
	if c.ImageProvider == ProviderGemini && c.GeminiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}
	if c.CacheTTL < 0 || c.GenerationInterval < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Buckets always includes the bucket generated images are written to.
func (c Config) Buckets() media.Buckets {
	b := media.ParseBuckets(strings.Join(c.MediaBuckets, ","))
	if !b.Allowed(media.BucketGenerated) {
		b = append(b, media.BucketGenerated)
	}
	return b
}

func (c Config) Remote() bool {
	return c.BaaSURL != ""
}
