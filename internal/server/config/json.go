package config

import (
	"encoding/json"
	"os"

	"github.com/weynak/weynak/internal/flagx"
	"github.com/weynak/weynak/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Durations accept "15m" style strings or integer nanoseconds. Absent or
// zero-valued fields leave the target Config untouched.
type JsonConfig struct {
	HTTPAddr              string         `json:"http_addr"`
	StorageDriver         string         `json:"storage_driver"`
	DatabaseDSN           string         `json:"database_dsn"`
	MongoURI              string         `json:"mongo_uri"`
	MongoDatabase         string         `json:"mongo_database"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	OtpValidityDuration   timex.Duration `json:"otp_validity_duration"`
	MailProvider          string         `json:"mail_provider"`
	SMTPHost              string         `json:"smtp_host"`
	SMTPPort              int            `json:"smtp_port"`
	MailUser              string         `json:"mail_user"`
	MailPassword          string         `json:"mail_password"`
	MailFrom              string         `json:"mail_from"`
	MailTimeout           timex.Duration `json:"mail_timeout"`
	SESRegion             string         `json:"ses_region"`
	SESEndpoint           string         `json:"ses_endpoint"`
	SESAccessKeyID        string         `json:"ses_access_key_id"`
	SESSecretAccessKey    string         `json:"ses_secret_access_key"`
	MetricsEnabled        *bool          `json:"metrics_enabled"`
	LogLevel              string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, and copies every
// non-empty value into config. Unreadable or invalid files panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.HTTPAddr, c.HTTPAddr)
	overlay(&config.StorageDriver, c.StorageDriver)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.MongoURI, c.MongoURI)
	overlay(&config.MongoDatabase, c.MongoDatabase)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.TokenValidityDuration, c.TokenValidityDuration.Duration)
	overlay(&config.OtpValidityDuration, c.OtpValidityDuration.Duration)
	overlay(&config.MailProvider, c.MailProvider)
	overlay(&config.SMTPHost, c.SMTPHost)
	overlay(&config.SMTPPort, c.SMTPPort)
	overlay(&config.MailUser, c.MailUser)
	overlay(&config.MailPassword, c.MailPassword)
	overlay(&config.MailFrom, c.MailFrom)
	overlay(&config.MailTimeout, c.MailTimeout.Duration)
	overlay(&config.SESRegion, c.SESRegion)
	overlay(&config.SESEndpoint, c.SESEndpoint)
	overlay(&config.SESAccessKeyID, c.SESAccessKeyID)
	overlay(&config.SESSecretAccessKey, c.SESSecretAccessKey)
	overlay(&config.LogLevel, c.LogLevel)
	if c.MetricsEnabled != nil {
		config.MetricsEnabled = *c.MetricsEnabled
	}
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
