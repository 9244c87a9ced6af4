package config

import (
	"flag"
	"os"
	"time"

	"github.com/weynak/weynak/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8900")
//	-r string   storage driver: postgres, mongo or memory
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-o int      otp validity, minutes
//	-m string   mail provider: smtp, ses or log
//	-l string   log level
//	-metrics    expose /metrics (use -metrics=false to disable)
//
// Only flags defined here are taken from os.Args (flagx.ParseKnown), so the
// -c/-config flag handled by the JSON loader does not collide.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.StorageDriver, "r", config.StorageDriver, "storage driver (postgres, mongo, memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	otpValidity := fs.Int("o", int(config.OtpValidityDuration.Minutes()), "otp validity (in minutes)")

	fs.StringVar(&config.MailProvider, "m", config.MailProvider, "mail provider (smtp, ses, log)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.MetricsEnabled, "metrics", config.MetricsEnabled, "expose Prometheus metrics")

	if err := flagx.ParseKnown(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	// -t and -o count whole minutes; leave env/JSON values alone unless given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "o":
			config.OtpValidityDuration = time.Duration(*otpValidity) * time.Minute
		}
	})
}
