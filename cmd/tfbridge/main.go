// Command tfbridge runs a tinyframe endpoint over a TCP connection,
// useful for exercising a link against a remote peer or as a serial
// bridge behind a TCP/serial gateway.
//
// It listens on or dials a TCP address, decodes every inbound frame,
// and optionally plays a YAML scenario of periodic typed messages.
//
// Usage:
//
//	tfbridge -config bridge.toml
package main

import (
	"context"
	"flag"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Spread0x/go-tinyframe/tinyframe"
	"github.com/Spread0x/go-tinyframe/transport"
)

func main() {
	configPath := flag.String("config", "tfbridge.toml", "path to the bridge config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load bridge config")
	}

	initLogger(cfg)
	log.Info().Str("path", *configPath).Msg("loaded bridge config")

	var scenario *Scenario
	if cfg.Scenario != "" {
		scenario, err = loadScenario(cfg.Scenario)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load scenario")
		}
		log.Info().Int("messages", len(scenario.Messages)).Str("path", cfg.Scenario).Msg("loaded scenario")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to establish the link")
	}
	defer conn.Close()

	if err := run(ctx, cfg, scenario, conn); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("bridge stopped")
	}
	log.Info().Msg("bridge shut down")
}

// initLogger configures the global zerolog logger: console output,
// plus a rotating file when log_file is set.
func initLogger(cfg Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	var out io.Writer = console
	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
		})
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Str("app", "tfbridge").Logger()
}

// connect establishes the TCP link: accept one peer when listening,
// otherwise dial out.
func connect(ctx context.Context, cfg Config) (net.Conn, error) {
	if cfg.Dial != "" {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", cfg.Dial)
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Dial).Msg("connected")
		return conn, nil
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	log.Info().Str("addr", cfg.Listen).Msg("waiting for peer")

	// unblock Accept on shutdown
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	conn, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	log.Info().Str("peer", conn.RemoteAddr().String()).Msg("peer connected")
	return conn, nil
}

func run(ctx context.Context, cfg Config, scenario *Scenario, conn net.Conn) error {
	link, err := transport.New(cfg.Codec, cfg.Peer, conn,
		transport.WithTickInterval(cfg.TickInterval),
		transport.WithLogger(log.Logger))
	if err != nil {
		return err
	}

	// Log every frame nothing else consumed.
	link.Engine().AddGenericListener(func(msg *tinyframe.Msg) bool {
		log.Info().
			Uint32("id", msg.FrameID).
			Uint32("type", msg.Type).
			Hex("data", msg.Data).
			Msg("rx frame")
		return true
	})

	if scenario != nil {
		for i := range scenario.Messages {
			go playMessage(ctx, link, &scenario.Messages[i])
		}
	}

	return link.Run(ctx)
}

// playMessage sends one scenario message on its interval until ctx is
// cancelled.
func playMessage(ctx context.Context, link *transport.Link, m *ScenarioMessage) {
	ticker := time.NewTicker(m.SendEvery())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		link.Do(func(eng *tinyframe.Engine) {
			var err error
			if m.ExpectReply {
				err = eng.QuerySimple(m.Type, m.Payload(), onReply, m.ReplyTimeoutTicks)
			} else {
				err = eng.SendSimple(m.Type, m.Payload())
			}
			if err != nil {
				log.Error().Err(err).Uint32("type", m.Type).Msg("scenario send failed")
			}
		})
	}
}

// onReply logs a scenario response or its timeout.
func onReply(msg *tinyframe.Msg) bool {
	if msg.Data == nil {
		log.Warn().Uint32("id", msg.FrameID).Msg("reply timed out")
		return true
	}
	log.Info().
		Uint32("id", msg.FrameID).
		Uint32("type", msg.Type).
		Hex("data", msg.Data).
		Msg("rx reply")
	return true
}
