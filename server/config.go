package server

import (
	"fmt"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/onion-http/onion/errs"
	"github.com/onion-http/onion/tlsconfig"
)

// Flags is a bitset of scheduling and signal-handling options, the Go
// equivalent of the original constructor's O_* bit flags.
type Flags uint16

const (
	FlagOne Flags = 1 << iota
	FlagOneLoop
	FlagThreaded
	FlagDetachListen
	FlagPoll
	FlagSystemd
	FlagNoSigpipe
	FlagNoSigterm
)

// FlagPool is the combination the original library names POOL: a
// thread pool sharing one poller.
const FlagPool = FlagPoll | FlagThreaded

// Has reports whether every bit in want is set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Config is the declarative, validator-tagged description of a
// server instance, loadable from YAML/JSON/env via viper the way
// nabbar/golib/httpserver.ServerConfig is.
type Config struct {
	Name string `mapstructure:"name" json:"name" yaml:"name" validate:"required"`

	Hostname string `mapstructure:"hostname" json:"hostname" yaml:"hostname"`
	Port     int    `mapstructure:"port" json:"port" yaml:"port" validate:"required,min=1,max=65535"`

	Flags Flags `mapstructure:"flags" json:"flags" yaml:"flags"`

	// Timeout bounds every connection read/write and the TLS
	// handshake, in milliseconds.
	Timeout int `mapstructure:"timeout" json:"timeout" yaml:"timeout" validate:"omitempty,min=1"`

	MaxPostSize int64 `mapstructure:"maxPostSize" json:"maxPostSize" yaml:"maxPostSize" validate:"omitempty,min=1"`
	MaxFileSize int64 `mapstructure:"maxFileSize" json:"maxFileSize" yaml:"maxFileSize" validate:"omitempty,min=1"`

	// MaxThreads is the worker pool size used when Flags carries
	// FlagPool. Ignored otherwise.
	MaxThreads int `mapstructure:"maxThreads" json:"maxThreads" yaml:"maxThreads" validate:"omitempty,min=1"`

	// Username, if set, is used to drop privileges after binding the
	// listening socket (a boundary concern: this library only records
	// the intent, the host process performs the actual setuid).
	Username string `mapstructure:"username" json:"username" yaml:"username"`

	// TLS is nil for a plain HTTP listen point, set for HTTPS.
	TLS *tlsconfig.Config `mapstructure:"tls" json:"tls" yaml:"tls" validate:"omitempty"`
}

// DefaultConfig returns a Config with every default from spec section
// 6.3 applied, for a plain HTTP server on :8080.
func DefaultConfig() Config {
	return Config{
		Name:        "onion",
		Hostname:    "",
		Port:        8080,
		Timeout:     5000,
		MaxPostSize: 1 << 20,
		MaxFileSize: 1 << 30,
		MaxThreads:  8,
	}
}

// TimeoutDuration returns Timeout as a time.Duration, defaulting to 5s.
func (c Config) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Timeout) * time.Millisecond
}

// WorkerCount returns MaxThreads, defaulting to 8.
func (c Config) WorkerCount() int {
	if c.MaxThreads <= 0 {
		return 8
	}
	return c.MaxThreads
}

// Clone returns a deep-enough copy of c safe for independent mutation.
func (c Config) Clone() Config {
	out := c
	if c.TLS != nil {
		tlsCopy := *c.TLS
		tlsCopy.Certs = append([]tlsconfig.CertPair(nil), c.TLS.Certs...)
		tlsCopy.RootCAFiles = append([]string(nil), c.TLS.RootCAFiles...)
		tlsCopy.ClientCAFiles = append([]string(nil), c.TLS.ClientCAFiles...)
		out.TLS = &tlsCopy
	}
	return out
}

// Validate runs struct tag validation plus the nested TLS config's own
// validation when TLS is set.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		out := errs.New(ErrorValidation, "validating server configuration", nil)
		for _, fe := range err.(validator.ValidationErrors) {
			out.Add(fmt.Errorf("field '%s' fails constraint '%s'", fe.StructNamespace(), fe.ActualTag()))
		}
		return out
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig reads a YAML, JSON, or TOML configuration file at path
// and decodes it into a Config using viper, the same decode path
// nabbar/golib's config package uses.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, errs.New(ErrorLoadConfig, "reading "+path, err)
	}
	return decodeViper(v)
}

// LoadConfigEnv builds a Config purely from ONION_-prefixed
// environment variables (e.g. ONION_PORT, ONION_HOSTNAME), applying
// DefaultConfig first so unset variables keep their defaults.
func LoadConfigEnv() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ONION")
	v.AutomaticEnv()
	for _, key := range []string{"name", "hostname", "port", "timeout", "maxPostSize", "maxFileSize", "maxThreads", "username"} {
		_ = v.BindEnv(key)
	}
	return decodeViper(v)
}

func decodeViper(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.New(ErrorLoadConfig, "decoding configuration", err)
	}
	return cfg, nil
}
