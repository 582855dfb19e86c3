package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/terratensor/csvhelpers/internal/core/domain"
)

const envPrefix = "CSVHELPERS"

type Config struct {
	// Codec
	Separator    rune
	Quote        string
	UseCRLF      bool
	MaxLineBytes int

	// Demo run
	ImportPath string
	OutputPath string
	MaxRows    int
	Verbose    bool
	Progress   bool
	View       string
	Normalize  bool

	// Remote import sources
	DataDir         string
	DownloadTimeout time.Duration
	MaxRetries      int

	// Manticore
	ManticoreHost        string
	ManticorePort        int
	ManticoreConnTimeout time.Duration
	IndexTable           string
	BatchSize            int
}

// AddFlags registers every setting on fs. Flag names double as config keys,
// and CSVHELPERS_<NAME> environment variables feed the same keys.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "optional config file (yaml, json or toml)")

	fs.StringP("import", "i", "", "import filename or http(s) URL")
	fs.StringP("output", "o", "", "output filename")
	fs.IntP("max-rows", "m", 10, "max rows for output")
	fs.BoolP("verbose", "v", false, "enable verbose")

	fs.String("separator", string(domain.DefaultSeparator), "field separator character")
	fs.String("quote", domain.DefaultQuote, "quote marker wrapping text fields, empty disables quoting")
	fs.Bool("crlf", domain.PlatformNewline() == "\r\n", "terminate written lines with CRLF")
	fs.Int("max-line-bytes", 1<<20, "longest accepted line on import")
	fs.Bool("progress", false, "show a progress bar")
	fs.String("view", "log", "how imported records are shown: log, table or none")
	fs.Bool("normalize", false, "strip diacritics from imported text fields")

	fs.String("data-dir", "./data", "where remote import sources are downloaded")
	fs.Duration("download-timeout", 10*time.Minute, "timeout for downloading a remote import source")
	fs.Int("max-retries", 3, "download attempts for a remote import source")

	fs.String("manticore-host", "localhost", "manticore host")
	fs.Int("manticore-port", 9308, "manticore HTTP port")
	fs.Duration("manticore-timeout", 30*time.Second, "manticore request timeout")
	fs.String("index", "", "manticore table receiving imported records, empty disables indexing")
	fs.Int("batch-size", 1000, "records per manticore bulk insert")
}

// Load resolves the configuration from, in increasing priority: flag defaults,
// the optional config file, the environment (including .env files) and
// explicitly set flags. fs may be nil, in which case defaults come from a
// fresh flag set.
func Load(fs *pflag.FlagSet, envFiles ...string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load(envFiles...)

	if fs == nil {
		fs = pflag.NewFlagSet("csvhelpers", pflag.ContinueOnError)
		AddFlags(fs)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	separator, err := parseSeparator(v.GetString("separator"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Separator:    separator,
		Quote:        v.GetString("quote"),
		UseCRLF:      v.GetBool("crlf"),
		MaxLineBytes: v.GetInt("max-line-bytes"),

		ImportPath: v.GetString("import"),
		OutputPath: v.GetString("output"),
		MaxRows:    v.GetInt("max-rows"),
		Verbose:    v.GetBool("verbose"),
		Progress:   v.GetBool("progress"),
		View:       v.GetString("view"),
		Normalize:  v.GetBool("normalize"),

		DataDir:         v.GetString("data-dir"),
		DownloadTimeout: v.GetDuration("download-timeout"),
		MaxRetries:      v.GetInt("max-retries"),

		ManticoreHost:        v.GetString("manticore-host"),
		ManticorePort:        v.GetInt("manticore-port"),
		ManticoreConnTimeout: v.GetDuration("manticore-timeout"),
		IndexTable:           v.GetString("index"),
		BatchSize:            v.GetInt("batch-size"),
	}

	if cfg.MaxRows < 0 {
		return nil, fmt.Errorf("max-rows must not be negative, got %d", cfg.MaxRows)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}

	return cfg, nil
}

// CodecOptions returns the codec options described by the configuration.
func (c *Config) CodecOptions() *domain.Options {
	terminator := "\n"
	if c.UseCRLF {
		terminator = "\r\n"
	}
	return &domain.Options{
		Separator:      c.Separator,
		Quote:          c.Quote,
		LineTerminator: terminator,
	}
}

// ProgressWriter is where progress bars are drawn, nil when disabled.
func (c *Config) ProgressWriter() io.Writer {
	if !c.Progress {
		return nil
	}
	return os.Stderr
}

// parseSeparator accepts exactly one character. An empty value yields the
// zero rune, which the codec rejects as an invalid separator.
func parseSeparator(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("separator must be a single character, got %q", s)
	}
	return r, nil
}
