package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/internportal/internal/flagx"
	"github.com/dmitrijs2005/internportal/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Durations
// accept both "2h" style strings and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	TokenIssuer                 string         `json:"token_issuer"`
	TokenAudience               string         `json:"token_audience"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ResetTokenValidityDuration  timex.Duration `json:"reset_token_validity_duration"`
	DefaultRole                 string         `json:"default_role"`
	PasswordHashing             string         `json:"password_hashing"`
	AllowDirectReset            bool           `json:"allow_direct_reset"`
	CORSOrigins                 []string       `json:"cors_origins"`
	RequestTimeout              timex.Duration `json:"request_timeout"`
	LogFormat                   string         `json:"log_format"`
	LogLevel                    string         `json:"log_level"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

func toJsonConfig(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:                    c.HTTPAddr,
		DatabaseDSN:                 c.DatabaseDSN,
		SecretKey:                   c.SecretKey,
		TokenIssuer:                 c.TokenIssuer,
		TokenAudience:               c.TokenAudience,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		ResetTokenValidityDuration:  timex.Duration{Duration: c.ResetTokenValidityDuration},
		DefaultRole:                 c.DefaultRole,
		PasswordHashing:             c.PasswordHashing,
		AllowDirectReset:            c.AllowDirectReset,
		CORSOrigins:                 c.CORSOrigins,
		RequestTimeout:              timex.Duration{Duration: c.RequestTimeout},
		LogFormat:                   c.LogFormat,
		LogLevel:                    c.LogLevel,
		S3RootUser:                  c.S3RootUser,
		S3RootPassword:              c.S3RootPassword,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3BaseEndpoint:              c.S3BaseEndpoint,
	}
}

func (j *JsonConfig) apply(c *Config) {
	c.HTTPAddr = j.HTTPAddr
	c.DatabaseDSN = j.DatabaseDSN
	c.SecretKey = j.SecretKey
	c.TokenIssuer = j.TokenIssuer
	c.TokenAudience = j.TokenAudience
	c.AccessTokenValidityDuration = j.AccessTokenValidityDuration.Duration
	c.ResetTokenValidityDuration = j.ResetTokenValidityDuration.Duration
	c.DefaultRole = j.DefaultRole
	c.PasswordHashing = j.PasswordHashing
	c.AllowDirectReset = j.AllowDirectReset
	c.CORSOrigins = j.CORSOrigins
	c.RequestTimeout = j.RequestTimeout.Duration
	c.LogFormat = j.LogFormat
	c.LogLevel = j.LogLevel
	c.S3RootUser = j.S3RootUser
	c.S3RootPassword = j.S3RootPassword
	c.S3Bucket = j.S3Bucket
	c.S3Region = j.S3Region
	c.S3BaseEndpoint = j.S3BaseEndpoint
}

// parseJson overlays the file named by -c/-config onto config. Keys missing
// from the file keep their current values. A missing or malformed file
// panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := toJsonConfig(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}
	c.apply(config)
}
