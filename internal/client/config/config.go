package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Upload backends.
const (
	UploadBackendAPI = "api"
	UploadBackendS3  = "s3"
)

// Config holds runtime settings for the blog CLI.
//
// Fields:
//   - BaseURL: root of the blog REST API (no trailing slash).
//   - Timeout: per-request timeout; an expired request fails like a network error.
//   - DatabasePath: SQLite file that keeps the credential between runs.
//   - UploadBackend: "api" (multipart POST /uploads) or "s3" (direct bucket upload).
//   - S3*: bucket settings, only read when UploadBackend is "s3". Without an
//     access key the default AWS credential chain is used; S3Endpoint points
//     the client at an S3-compatible server such as MinIO.
//   - Verbose: enables debug logging.
type Config struct {
	BaseURL       string        `validate:"required,url"`
	Timeout       time.Duration `validate:"gt=0"`
	DatabasePath  string        `validate:"required"`
	UploadBackend string        `validate:"oneof=api s3"`
	S3Bucket      string        `validate:"required_if=UploadBackend s3"`
	S3Region      string
	S3Prefix      string
	S3Endpoint    string `validate:"omitempty,url"`
	S3AccessKey   string `validate:"required_with=S3SecretKey"`
	S3SecretKey   string
	S3PublicURL   string `validate:"omitempty,url"`
	Verbose       bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8080"
	c.Timeout = 5 * time.Second
	c.DatabasePath = "blog.db"
	c.UploadBackend = UploadBackendAPI
	c.S3Prefix = "uploads/"
}

// Validate checks the loaded values and reports every offending field.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Load constructs a Config from defaults, then the JSON file named by
// -c/-config (if any), then command-line flags. Later sources win.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

// LoadConfig is Load over the process arguments.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}
