// Package config provides functionality for managing configuration options
// for the application using command-line flags, an optional JSON config file
// and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/atinyakov/MemberAuth/internal/credential"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port"`

	// DatabaseDSN holds the database connection string. An empty DSN selects
	// the in-memory member store.
	DatabaseDSN string `json:"database_dsn"`

	// BcryptCost is the work factor for newly derived secrets.
	BcryptCost int `json:"bcrypt_cost"`

	// StaticDir is the directory served at / and /home. Empty disables static serving.
	StaticDir string `json:"static_dir"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values and exits on invalid configuration.
func Parse() *Options {
	options, err := parse(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return options
}

func parse(fs *flag.FlagSet, args []string, getenv func(string) string) (*Options, error) {
	options := &Options{}

	fs.StringVar(&options.Port, "a", ":3000", "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.IntVar(&options.BcryptCost, "cost", credential.DefaultCost, "bcrypt work factor")
	fs.StringVar(&options.StaticDir, "static", "public", "static files directory")
	fs.StringVar(&options.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&options.TLSCert, "tls-cert", "", "TLS certificate file")
	fs.StringVar(&options.TLSKey, "tls-key", "", "TLS key file")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Override flags with environment variables if set
	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if port := getenv("PORT"); port != "" {
		options.Port = ":" + port
	}
	if serverAddress := getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if dir := getenv("STATIC_DIR"); dir != "" {
		options.StaticDir = dir
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}
	if cost := getenv("BCRYPT_COST"); cost != "" {
		n, err := strconv.Atoi(cost)
		if err != nil {
			return nil, fmt.Errorf("BCRYPT_COST: %w", err)
		}
		options.BcryptCost = n
	}

	if options.BcryptCost < credential.MinCost || options.BcryptCost > credential.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]", options.BcryptCost, credential.MinCost, credential.MaxCost)
	}
	if (options.TLSCert == "") != (options.TLSKey == "") {
		return nil, fmt.Errorf("tls-cert and tls-key must be set together")
	}

	return options, nil
}
