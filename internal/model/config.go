package model

import "time"

// Config is the complete wikibox configuration, loadable from YAML via viper
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Wiki        WikiConfig        `yaml:"wiki" mapstructure:"wiki"`
	RateLimit   RateLimitConfig   `yaml:"ratelimit" mapstructure:"ratelimit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Infobox     InfoboxConfig     `yaml:"infobox" mapstructure:"infobox"`
	Media       MediaConfig       `yaml:"media" mapstructure:"media"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// ServerConfig controls the inbound HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// HTTPConfig controls outbound HTTP behavior
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// WikiConfig holds the outbound collaborator endpoints and display language
type WikiConfig struct {
	Language     string `yaml:"language" mapstructure:"language"`
	SummaryBase  string `yaml:"summary_base" mapstructure:"summary_base"`
	ActionBase   string `yaml:"action_base" mapstructure:"action_base"`
	EntityBase   string `yaml:"entity_base" mapstructure:"entity_base"`
	FilePathBase string `yaml:"file_path_base" mapstructure:"file_path_base"`
	ThumbWidth   int    `yaml:"thumb_width" mapstructure:"thumb_width"`
}

// RateLimitConfig controls per-host politeness toward the wiki APIs
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig bounds per-request fan-out
type ConcurrencyConfig struct {
	FieldWorkers int `yaml:"field_workers" mapstructure:"field_workers"`
	LabelWorkers int `yaml:"label_workers" mapstructure:"label_workers"`
}

// FieldPolicy selects how field sets combine when an entity matches
// several categories at once.
type FieldPolicy string

const (
	// PolicyUnion merges every matching category's field set
	PolicyUnion FieldPolicy = "union"
	// PolicyPriority keeps only the first matching category's set
	// (Country, then Company, then Human)
	PolicyPriority FieldPolicy = "priority"
)

// InfoboxConfig controls field curation
type InfoboxConfig struct {
	MinFields int         `yaml:"min_fields" mapstructure:"min_fields"`
	Policy    FieldPolicy `yaml:"policy" mapstructure:"policy"`
}

// MediaConfig controls the related-image gallery
type MediaConfig struct {
	MinWidth int `yaml:"min_width" mapstructure:"min_width"`
	MaxPages int `yaml:"max_pages" mapstructure:"max_pages"`
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "wikibox/0.1 (+https://github.com/ppiankov/wikibox)",
			MaxBodyBytes: 4 << 20,
		},
		Wiki: WikiConfig{
			Language:     "en",
			SummaryBase:  "https://en.wikipedia.org/api/rest_v1/page/summary",
			ActionBase:   "https://en.wikipedia.org/w/api.php",
			EntityBase:   "https://www.wikidata.org/wiki/Special:EntityData",
			FilePathBase: "https://commons.wikimedia.org/wiki/Special:FilePath",
			ThumbWidth:   500,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Concurrency: ConcurrencyConfig{
			FieldWorkers: 8,
			LabelWorkers: 8,
		},
		Infobox: InfoboxConfig{
			MinFields: 3,
			Policy:    PolicyUnion,
		},
		Media: MediaConfig{
			MinWidth: 200,
			MaxPages: 3,
			PageSize: 50,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
