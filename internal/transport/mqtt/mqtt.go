package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"github.com/callebjorkell/ws281x-node/internal/strip"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"os"
	"time"
)

const (
	DefaultPrefix   = "ws281x"
	DefaultClientID = "ws281x-node"

	topicSetLeds    = "set_leds"
	topicSetGamma   = "set_gamma"
	topicStripState = "strip_state"
	responseSuffix  = "/response"
)

// Config holds MQTT connection settings. An empty host turns MQTT off.
type Config struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	CACert      string `yaml:"ca_cert"`
	ClientCert  string `yaml:"client_cert"`
	ClientKey   string `yaml:"client_key"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// Client serves strip requests arriving on MQTT topics and publishes the strip state.
type Client struct {
	client   paho.Client
	enabled  bool
	handlers *handlers
}

func New(cfg Config, s Strip) (*Client, error) {
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	c := &Client{
		handlers: newHandlers(prefix, s),
	}

	if cfg.Host == "" {
		log.Info("MQTT disabled (no host configured)")
		return c, nil
	}
	c.enabled = true

	var broker string
	var tlsConfig *tls.Config
	if cfg.CACert != "" || cfg.ClientCert != "" {
		if cfg.Port == 0 {
			cfg.Port = 8883
		}
		broker = fmt.Sprintf("ssl://%s:%d", cfg.Host, cfg.Port)

		var err error
		tlsConfig, err = buildTLSConfig(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "build TLS config")
		}
	} else {
		if cfg.Port == 0 {
			cfg.Port = 1883
		}
		broker = fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetKeepAlive(60 * time.Second).
		SetOrderMatters(true).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn("MQTT connection lost: ", err)
		}).
		SetOnConnectHandler(c.handleConnect)
	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}

	c.client = paho.NewClient(opts)

	paho.ERROR = log.StandardLogger().WithField("source", "paho")
	paho.CRITICAL = log.StandardLogger().WithField("source", "paho")

	return c, nil
}

func buildTLSConfig(cfg Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{}

	if cfg.CACert != "" {
		caCert, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, errors.Wrap(err, "read CA cert")
		}
		caPool := x509.NewCertPool()
		caPool.AppendCertsFromPEM(caCert)
		tlsConfig.RootCAs = caPool
	}

	if cfg.ClientCert != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, errors.Wrap(err, "load client cert")
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// Connect connects to the broker. Subscriptions are (re)made in the connect handler.
func (c *Client) Connect() error {
	if !c.enabled {
		return nil
	}

	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return errors.Wrap(token.Error(), "connect")
	}
	return nil
}

func (c *Client) Disconnect() {
	if !c.enabled || c.client == nil {
		return
	}
	c.client.Disconnect(250)
	log.Debug("MQTT disconnected")
}

// Publish sends the strip state out. Nothing waits for delivery.
func (c *Client) Publish(r strip.Report) {
	if !c.enabled {
		return
	}
	payload, err := c.handlers.report(r)
	if err != nil {
		log.Warn("Unable to encode strip state: ", err)
		return
	}
	c.client.Publish(c.handlers.topic(topicStripState), 0, false, payload)
}

func (c *Client) handleConnect(client paho.Client) {
	log.Info("MQTT connection established")
	for _, topic := range []string{topicSetLeds, topicSetGamma} {
		t := c.handlers.topic(topic)
		token := client.Subscribe(t, 1, c.handleMessage)
		if token.Wait() && token.Error() != nil {
			log.Errorf("Unable to subscribe to %s: %v", t, token.Error())
			continue
		}
		log.Infof("Subscribed to %s", t)
	}
}

func (c *Client) handleMessage(client paho.Client, msg paho.Message) {
	// handled inline so that updates hit the strip in the order they were sent. The publish token is
	// never waited on here, paho would deadlock.
	response, ok := c.handlers.handle(msg.Topic(), msg.Payload())
	if !ok {
		return
	}
	client.Publish(msg.Topic()+responseSuffix, 1, false, response)
}
