package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/changetree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "changetree.json"

	// DefaultName is the default root listener name.
	DefaultName = "Order"

	// DefaultPort is the default server port.
	DefaultPort = 7070

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is the default Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultEventsPath is the default websocket endpoint.
	DefaultEventsPath = "/events"

	// DefaultShutdownTimeout is the default graceful shutdown timeout.
	DefaultShutdownTimeout = "5s"
)

// Config represents the complete changetree.json configuration.
type Config struct {
	// Name is the root listener name; every event path starts with it.
	Name string `json:"name,omitempty"`

	// Debug enables listener diagnostics at debug level.
	Debug bool `json:"debug,omitempty"`

	// Serve contains HTTP server configuration.
	Serve ServeConfig `json:"serve,omitempty"`

	// Journal contains event journal configuration.
	Journal JournalConfig `json:"journal,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServeConfig contains HTTP server settings.
type ServeConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// MetricsPath is the path of the Prometheus endpoint.
	MetricsPath string `json:"metricsPath,omitempty"`

	// EventsPath is the path of the websocket event stream.
	EventsPath string `json:"eventsPath,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "5s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`
}

// JournalConfig contains event journal settings.
type JournalConfig struct {
	// Path is a local file or an s3://bucket/key location. Empty disables
	// the journal.
	Path string `json:"path,omitempty"`

	// S3 contains settings used when Path is an S3 location.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 client settings for the journal.
type S3Config struct {
	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// UsePathStyle addresses buckets by path instead of subdomain.
	UsePathStyle bool `json:"usePathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: DefaultName,
		Serve: ServeConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			MetricsPath:     DefaultMetricsPath,
			EventsPath:      DefaultEventsPath,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}

// Load loads configuration from changetree.json in dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault loads changetree.json from dir if it exists and returns the
// defaults otherwise.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'changetree init' or pass --config").
				Wrap(err)
		}
		return nil, errors.New("E100").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		ce := errors.New("E101").Wrap(err)
		var syntax *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syntax):
			ce.WithOffset(path, data, syntax.Offset)
		case stderrors.As(err, &typeErr):
			ce.WithOffset(path, data, typeErr.Offset).
				WithSuggestion("Field " + typeErr.Field + " must be a " + typeErr.Type.String())
		}
		return nil, ce
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E103").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E103").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.MetricsPath == "" {
		c.Serve.MetricsPath = DefaultMetricsPath
	}
	if c.Serve.EventsPath == "" {
		c.Serve.EventsPath = DefaultEventsPath
	}
	if c.Serve.ShutdownTimeout == "" {
		c.Serve.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New("E102").
			WithDetail("Port must be between 0 and 65535")
	}
	for _, p := range []string{c.Serve.MetricsPath, c.Serve.EventsPath} {
		if !strings.HasPrefix(p, "/") {
			return errors.New("E102").
				WithDetail("Endpoint path " + strconv.Quote(p) + " must start with /")
		}
	}
	if c.Serve.MetricsPath == c.Serve.EventsPath {
		return errors.New("E102").
			WithDetail("metricsPath and eventsPath must differ")
	}
	if _, err := time.ParseDuration(c.Serve.ShutdownTimeout); err != nil {
		return errors.New("E102").
			WithDetail("shutdownTimeout must be a duration such as \"5s\"").
			Wrap(err)
	}
	return nil
}

// Address returns the host:port address to listen on.
func (c *Config) Address() string {
	return c.Serve.Host + ":" + strconv.Itoa(c.Serve.Port)
}

// ShutdownTimeout returns the parsed shutdown timeout, or the default if it
// does not parse.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Serve.ShutdownTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultShutdownTimeout)
	}
	return d
}

// Exists checks if changetree.json exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
