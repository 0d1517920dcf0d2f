package config

import (
	"fmt"
	"strings"
	"time"

	validatorV10 "github.com/go-playground/validator/v10"
	"github.com/leeforge/genico/logging"
)

const (
	OutputPNG = "png"
	OutputICO = "ico"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// AppConfig is the complete configuration of the server and desktop binaries.
type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Upload    UploadConfig    `mapstructure:"upload" yaml:"upload"`
	Image     ImageConfig     `mapstructure:"image" yaml:"image"`
	Templates TemplatesConfig `mapstructure:"templates" yaml:"templates"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Limits    LimitsConfig    `mapstructure:"limits" yaml:"limits"`
	Locale    string          `mapstructure:"locale" yaml:"locale" default:"en" validate:"oneof=en ja"`
	Log       logging.Config  `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host" yaml:"host"`
	Port              int           `mapstructure:"port" yaml:"port" default:"3000" validate:"min=1,max=65535"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout" default:"10s"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" default:"5s"`
	// ValidationStatus is the HTTP status used for every validation failure.
	ValidationStatus int `mapstructure:"validation_status" yaml:"validation_status" default:"200" validate:"oneof=200 400 415 422"`
}

// Addr is the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type UploadConfig struct {
	MaxBytes        int64  `mapstructure:"max_bytes" yaml:"max_bytes" default:"10485760" validate:"gt=0"`
	Field           string `mapstructure:"field" yaml:"field" default:"file" validate:"required"`
	DefaultFilename string `mapstructure:"default_filename" yaml:"default_filename" default:"uploaded.png"`
}

type ImageConfig struct {
	CanvasSize int    `mapstructure:"canvas_size" yaml:"canvas_size" default:"256" validate:"min=16,max=256"`
	MinSize    int    `mapstructure:"min_size" yaml:"min_size" default:"256" validate:"min=1"`
	Output     string `mapstructure:"output" yaml:"output" default:"png" validate:"oneof=png ico"`
	IcoSizes   []int  `mapstructure:"ico_sizes" yaml:"ico_sizes" validate:"dive,min=1,max=256"`
	Scaler     string `mapstructure:"scaler" yaml:"scaler" default:"lanczos3" validate:"oneof=lanczos3 catmullrom bilinear"`
	MaxPixels  int64  `mapstructure:"max_pixels" yaml:"max_pixels" default:"67108864" validate:"min=1"`
}

type TemplatesConfig struct {
	// Dir overrides the embedded templates when set.
	Dir     string `mapstructure:"dir" yaml:"dir"`
	Favicon string `mapstructure:"favicon" yaml:"favicon" default:"genico.ico"`
}

type CacheConfig struct {
	Driver string        `mapstructure:"driver" yaml:"driver" default:"none" validate:"oneof=none memory redis"`
	TTL    time.Duration `mapstructure:"ttl" yaml:"ttl" default:"10m"`
	Redis  RedisConfig   `mapstructure:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host" yaml:"host" default:"127.0.0.1"`
	Port     int    `mapstructure:"port" yaml:"port" default:"6379"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LimitsConfig struct {
	MaxConcurrent int `mapstructure:"max_concurrent" yaml:"max_concurrent" default:"4" validate:"min=1"`
}

// SetDefaults implements defaults.Setter for the values struct tags cannot express.
func (c *AppConfig) SetDefaults() {
	if len(c.Image.IcoSizes) == 0 {
		c.Image.IcoSizes = []int{256, 128, 48, 32, 16}
	}
	if c.Log == (logging.Config{}) {
		c.Log = logging.DefaultConfig()
	}
}

var validate = validatorV10.New()

// Validate checks struct constraints and reports every failing field.
func (c *AppConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validatorV10.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Namespace(), validationMessage(fe)))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func validationMessage(fe validatorV10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation for tag '%s'", fe.Tag())
	}
}

// Load reads the application configuration using opts.
func Load(opts ConfigOptions) (*AppConfig, *Config, error) {
	loader, err := NewConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	var cfg AppConfig
	if err := loader.BindWithDefaults(&cfg); err != nil {
		return nil, nil, err
	}
	return &cfg, loader, nil
}
