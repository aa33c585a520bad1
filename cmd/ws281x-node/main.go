package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/callebjorkell/ws281x-node/internal/neopixel"
	"github.com/callebjorkell/ws281x-node/internal/node"
	"github.com/callebjorkell/ws281x-node/internal/strip"
	"github.com/callebjorkell/ws281x-node/internal/transport/httpapi"
	"github.com/callebjorkell/ws281x-node/internal/transport/mqtt"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
)

var (
	app        = kingpin.New("ws281x-node", "Serve a WS281x/SK6812 LED strip over MQTT and HTTP")
	debug      = app.Flag("debug", "Turn on debug logging.").Bool()
	timestamps = app.Flag("log-timestamps", "Log with timestamps instead of colors.").Bool()
	start      = app.Command("start", "Start driving the strip")
	configFile = start.Flag("config", "Path to the configuration file.").Short('c').Default("config.yaml").String()
	version    = app.Command("version", "Show current version.")
)

type colorFormatter struct {
	log.TextFormatter
}

func (f *colorFormatter) Format(entry *log.Entry) ([]byte, error) {
	var levelColor int
	switch entry.Level {
	case log.DebugLevel, log.TraceLevel:
		levelColor = 90 // dark grey
	case log.WarnLevel:
		levelColor = 33 // yellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		levelColor = 91 // bright red
	default:
		levelColor = 39 // default
	}
	return []byte(fmt.Sprintf("\x1b[%dm%s\x1b[0m\n", levelColor, entry.Message)), nil
}

func main() {
	cmd, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("%v: Try --help\n", err.Error())
		os.Exit(1)
	}

	if *timestamps {
		log.SetFormatter(&log.TextFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FullTimestamp:   true,
		})
	} else {
		log.SetFormatter(&colorFormatter{})
	}
	if *debug {
		log.Info("Enabling debug output...")
		log.SetLevel(log.DebugLevel)
	}

	switch cmd {
	case start.FullCommand():
		startServer()
	case version.FullCommand():
		showVersion()
	default:
		kingpin.FatalUsage("Unrecognized command")
	}
}

func loadConfig() *Config {
	conf, err := readConfig(*configFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warnf("No config at %s, running with defaults", *configFile)
		return defaultConfig()
	}
	if err != nil {
		log.Fatal(err)
	}
	return conf
}

func startServer() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	conf := loadConfig()

	state, warnings := strip.Resolve(conf.Strip)
	for _, w := range warnings {
		log.Warn(w)
	}

	engine, err := neopixel.Open(state)
	if err != nil {
		log.Fatal(err)
	}
	sequencer := strip.NewSequencer(state)
	sequencer.Arm(engine)

	var publishers strip.Publishers
	pipeline := strip.NewPipeline(state, engine, &publishers)
	n := node.New(pipeline, sequencer)

	var server *httpapi.Server
	if conf.HTTP.Listen != "" {
		server = httpapi.NewServer(conf.HTTP.Listen, n)
		publishers = append(publishers, server)
		go func() {
			if err := server.Listen(); err != nil {
				log.Error("HTTP server stopped: ", err)
			}
		}()
	}

	client, err := mqtt.New(conf.MQTT, n)
	if err != nil {
		sequencer.Shutdown()
		log.Fatal(err)
	}
	publishers = append(publishers, client)
	if err := client.Connect(); err != nil {
		// paho keeps retrying in the background.
		log.Warn("MQTT not connected yet: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go cancelOnSignal(signalChan, cancel)

	n.Run(ctx)

	client.Disconnect()
	if server != nil {
		if err := server.Close(); err != nil {
			log.Warn("Unable to close HTTP server: ", err)
		}
	}

	log.Info("Done...")
}

// cancelOnSignal cancels on the first signal and then gives signals back to the runtime, so that a second
// one kills a shutdown that hangs.
func cancelOnSignal(signals chan os.Signal, cancel context.CancelFunc) {
	s := <-signals
	log.Infof("Got %v, press again to force exit", s)
	cancel()
	signal.Stop(signals)
}
