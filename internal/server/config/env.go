package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded when present. Variables already set in the process
// environment win over the file.
var envFile = ".env"

// parseEnv overlays Config with environment variables. Unparseable numeric,
// boolean or duration values panic, matching the JSON and flag loaders.
//
//	PORT            HTTP port (binds ":PORT")
//	HTTP_ADDR       full bind address, wins over PORT
//	STORAGE_DRIVER  postgres | mongo | memory
//	DATABASE_DSN    PostgreSQL DSN
//	MONGO_URI       MongoDB connection string
//	MONGO_DATABASE  MongoDB database name
//	JWT_SECRET      token signing secret
//	TOKEN_VALIDITY  token lifetime, e.g. "1h"
//	OTP_VALIDITY    reset code lifetime, e.g. "15m"
//	MAIL_PROVIDER   smtp | ses | log
//	SMTP_HOST, SMTP_PORT
//	EMAIL_USER, EMAIL_PASS, MAIL_FROM
//	MAIL_TIMEOUT    e.g. "10s"
//	SES_REGION, SES_ENDPOINT
//	SES_ACCESS_KEY_ID, SES_SECRET_ACCESS_KEY
//	METRICS_ENABLED true | false
//	LOG_LEVEL       debug | info | warn | error
func parseEnv(config *Config) {
	_ = godotenv.Load(envFile)

	if v, ok := lookup("PORT"); ok {
		config.HTTPAddr = ":" + v
	}
	setString(&config.HTTPAddr, "HTTP_ADDR")
	setString(&config.StorageDriver, "STORAGE_DRIVER")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.MongoURI, "MONGO_URI")
	setString(&config.MongoDatabase, "MONGO_DATABASE")
	setString(&config.SecretKey, "JWT_SECRET")
	setDuration(&config.TokenValidityDuration, "TOKEN_VALIDITY")
	setDuration(&config.OtpValidityDuration, "OTP_VALIDITY")
	setString(&config.MailProvider, "MAIL_PROVIDER")
	setString(&config.SMTPHost, "SMTP_HOST")
	setInt(&config.SMTPPort, "SMTP_PORT")
	setString(&config.MailUser, "EMAIL_USER")
	setString(&config.MailPassword, "EMAIL_PASS")
	setString(&config.MailFrom, "MAIL_FROM")
	setDuration(&config.MailTimeout, "MAIL_TIMEOUT")
	setString(&config.SESRegion, "SES_REGION")
	setString(&config.SESEndpoint, "SES_ENDPOINT")
	setString(&config.SESAccessKeyID, "SES_ACCESS_KEY_ID")
	setString(&config.SESSecretAccessKey, "SES_SECRET_ACCESS_KEY")
	setBool(&config.MetricsEnabled, "METRICS_ENABLED")
	setString(&config.LogLevel, "LOG_LEVEL")
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func setBool(dst *bool, key string) {
	if v, ok := lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		*dst = b
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}
