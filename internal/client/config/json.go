package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/goblog/internal/flagx"
	"github.com/dmitrijs2005/goblog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	BaseURL       string          `json:"base_url"`
	Timeout       *timex.Duration `json:"timeout"`
	DatabasePath  string          `json:"database_path"`
	UploadBackend string          `json:"upload_backend"`
	S3            *struct {
		Bucket    string `json:"bucket"`
		Region    string `json:"region"`
		Prefix    string `json:"prefix"`
		Endpoint  string `json:"endpoint"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
		PublicURL string `json:"public_url"`
	} `json:"s3"`
	Verbose *bool `json:"verbose"`
}

// parseJson overlays cfg with values from the file named by -c/-config.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.UploadBackend != "" {
		cfg.UploadBackend = jc.UploadBackend
	}
	if jc.S3 != nil {
		cfg.S3Bucket = jc.S3.Bucket
		cfg.S3Region = jc.S3.Region
		if jc.S3.Prefix != "" {
			cfg.S3Prefix = jc.S3.Prefix
		}
		cfg.S3Endpoint = jc.S3.Endpoint
		cfg.S3AccessKey = jc.S3.AccessKey
		cfg.S3SecretKey = jc.S3.SecretKey
		cfg.S3PublicURL = jc.S3.PublicURL
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
}
