package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

const configFilePath = "config.json"

// Config represents the application's configuration structure.
type Config struct {
	PortalURL           string `json:"portal-url" mapstructure:"portal-url"`
	Username            string `json:"username" mapstructure:"username"`
	Password            string `json:"password" mapstructure:"password"`
	PollIntervalSeconds int    `json:"poll-interval-seconds" mapstructure:"poll-interval-seconds"`
	AutoTerminate       bool   `json:"auto-terminate" mapstructure:"auto-terminate"`
	NetworkName         string `json:"network-name" mapstructure:"network-name"`
	LogLevel            string `json:"log-level" mapstructure:"log-level"`
}

var requiredFields = []string{
	"username",
	"password",
}

// field: default value
var optionalFields = map[string]interface{}{
	"portal-url":            "https://wifi.gsb.gov.tr",
	"poll-interval-seconds": 30,
	"auto-terminate":        false,
	"network-name":          "GSB-WIFI",
	"log-level":             "INFO",
}

// InitConfig reads configuration from a JSON file and environment
// variables. Environment variables take precedence; the file is optional
// so credentials can come from the environment alone.
func InitConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configFilePath)
	v.SetConfigType("json")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for _, field := range requiredFields {
		v.BindEnv(field)
	}
	for field := range optionalFields {
		v.BindEnv(field)
	}

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	for _, field := range requiredFields {
		if !v.IsSet(field) {
			return nil, fmt.Errorf("missing required config field: %s", field)
		}
	}

	for optField, defaultValue := range optionalFields {
		if !v.IsSet(optField) {
			v.Set(optField, defaultValue)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return &config, nil
}
