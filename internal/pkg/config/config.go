package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	EnergyCfg  *EnergyConfig
	MqttCfg    *MqttConfig
	ListenAddr string `env:"LISTEN_ADDR" envDefault:"0.0.0.0:8000"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// EnergyConfig addresses one HomeWizard Energy device on the local network.
type EnergyConfig struct {
	Host         string        `env:"ENERGY_HOST"`
	Timeout      time.Duration `env:"ENERGY_TIMEOUT" envDefault:"10s"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"10s"`
}

type MqttConfig struct {
	Host     string `env:"MQTT_HOST"`
	Username string `env:"MQTT_USER"`
	Password string `env:"MQTT_PASS"`
}

// FromEnv builds a Config from the environment. CLI flags may override the
// result afterwards.
func FromEnv() (*Config, error) {
	cfg := &Config{
		EnergyCfg: &EnergyConfig{},
		MqttCfg:   &MqttConfig{},
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
