package main

import (
	"github.com/callebjorkell/ws281x-node/internal/strip"
	"github.com/callebjorkell/ws281x-node/internal/transport/httpapi"
	"github.com/callebjorkell/ws281x-node/internal/transport/mqtt"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"os"
)

type Config struct {
	Strip strip.Params   `yaml:"strip"`
	MQTT  mqtt.Config    `yaml:"mqtt"`
	HTTP  httpapi.Config `yaml:"http"`
}

func defaultConfig() *Config {
	return &Config{
		Strip: strip.DefaultParams(),
		MQTT: mqtt.Config{
			TopicPrefix: mqtt.DefaultPrefix,
			ClientID:    mqtt.DefaultClientID,
		},
		HTTP: httpapi.Config{
			Listen: httpapi.DefaultListen,
		},
	}
}

func readConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(content)
}

// parseConfig reads the yaml over the defaults, so anything left out keeps its default value.
func parseConfig(content []byte) (*Config, error) {
	c := defaultConfig()
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse config")
	}

	if c.MQTT.Host == "" && c.HTTP.Listen == "" {
		return nil, errors.New("neither mqtt nor http is enabled, nothing would reach the strip")
	}
	if c.MQTT.ClientKey != "" && c.MQTT.ClientCert == "" {
		return nil, errors.New("mqtt client key given without a client certificate")
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = mqtt.DefaultPrefix
	}

	return c, nil
}
