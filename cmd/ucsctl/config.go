package main

import (
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/spf13/pflag"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// EndpointEnv holds the connection settings read from the environment. The
// variable names and defaults match the Terraform provider's.
type EndpointEnv struct {
	Host          string        `env:"UCSM_IP" envDefault:"localhost"`
	Name          string        `env:"UCSM_NAME"`
	Username      string        `env:"UCSM_USER" envDefault:"admin"`
	Password      string        `env:"UCSM_PASSWORD" envDefault:"password"`
	Port          int           `env:"UCSM_PORT" envDefault:"443"`
	Secure        bool          `env:"UCSM_SECURE" envDefault:"true"`
	SkipTLSVerify bool          `env:"UCSM_SKIP_TLS_VERIFY" envDefault:"false"`
	Timeout       time.Duration `env:"UCSM_TIMEOUT" envDefault:"30s"`
	DialRetries   int           `env:"UCSM_DIAL_RETRIES" envDefault:"2"`
}

// LoadEndpointEnv parses the UCSM_* environment variables.
func LoadEndpointEnv() (*EndpointEnv, error) {
	cfg := &EndpointEnv{}
	if err := env.Parse(cfg); err != nil {
		return nil, ucs.NewInvalidArgumentError("load environment", "%s", err.Error())
	}
	return cfg, nil
}

// connectionConfig builds the endpoint configuration from the environment,
// overridden by any flag set in flags.
func (o *globalOptions) connectionConfig(flags *pflag.FlagSet) (*ucs.ConnectionConfig, error) {
	e, err := LoadEndpointEnv()
	if err != nil {
		return nil, err
	}

	config := ucs.DefaultConfig()
	config.Host = e.Host
	config.Name = e.Name
	config.Username = e.Username
	config.Password = e.Password
	config.Port = e.Port
	config.Secure = e.Secure
	config.SkipTLSVerify = e.SkipTLSVerify
	config.Timeout = e.Timeout
	config.DialRetries = e.DialRetries

	if flags.Changed("hostname") {
		config.Host = o.hostname
	}
	if flags.Changed("username") {
		config.Username = o.username
	}
	if flags.Changed("password") {
		config.Password = o.password
	}
	if flags.Changed("port") {
		config.Port = o.port
	}
	if flags.Changed("secure") {
		config.Secure = o.secure
	}

	if config.Port <= 0 || config.Port > 65535 {
		return nil, ucs.NewInvalidArgumentError("configure", "port must be between 1 and 65535, got %d", config.Port)
	}
	if config.DialRetries < 0 || config.DialRetries > ucs.MaxDialRetries {
		return nil, ucs.NewInvalidArgumentError("configure", "dial retries must be between 0 and %d, got %d", ucs.MaxDialRetries, config.DialRetries)
	}
	return config, nil
}
