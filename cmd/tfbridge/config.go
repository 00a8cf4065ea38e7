package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Spread0x/go-tinyframe/protocol"
	"github.com/Spread0x/go-tinyframe/tinyframe"
)

// Config is the resolved bridge configuration.
type Config struct {
	// Listen is the TCP address to accept one peer on. Mutually
	// exclusive with Dial.
	Listen string

	// Dial is the TCP address of the remote peer
	Dial string

	// Peer is the local peer role
	Peer tinyframe.Peer

	// Codec is the link codec configuration; must match the remote
	Codec protocol.Config

	// TickInterval is the wall-clock duration of one engine tick
	TickInterval time.Duration

	// LogFile enables rotating file logging when non-empty
	LogFile string

	// LogLevel is the zerolog level name ("debug", "info", ...)
	LogLevel string

	// Scenario is an optional YAML scenario file of messages to send
	Scenario string
}

type fileConfig struct {
	Listen       string `toml:"listen"`
	Dial         string `toml:"dial"`
	Peer         string `toml:"peer"`
	TickInterval string `toml:"tick_interval"`
	LogFile      string `toml:"log_file"`
	LogLevel     string `toml:"log_level"`
	Scenario     string `toml:"scenario"`

	Codec fileCodecConfig `toml:"codec"`
}

type fileCodecConfig struct {
	IDBytes            int    `toml:"id_bytes"`
	LenBytes           int    `toml:"len_bytes"`
	TypeBytes          int    `toml:"type_bytes"`
	Checksum           string `toml:"checksum"`
	UseSOF             *bool  `toml:"use_sof"`
	SOFByte            int    `toml:"sof_byte"`
	MaxPayload         int    `toml:"max_payload"`
	ParserTimeoutTicks int    `toml:"parser_timeout_ticks"`
}

func defaultBridgeConfig() Config {
	return Config{
		Peer:         tinyframe.PeerMaster,
		Codec:        protocol.DefaultConfig(),
		TickInterval: 10 * time.Millisecond,
		LogLevel:     "info",
	}
}

// loadConfig reads and validates a bridge configuration file.
func loadConfig(path string) (Config, error) {
	cfg := defaultBridgeConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load bridge config: %w", err)
	}

	cfg.Listen = strings.TrimSpace(raw.Listen)
	cfg.Dial = strings.TrimSpace(raw.Dial)
	if cfg.Listen == "" && cfg.Dial == "" {
		return Config{}, fmt.Errorf("config must set either listen or dial")
	}
	if cfg.Listen != "" && cfg.Dial != "" {
		return Config{}, fmt.Errorf("listen and dial are mutually exclusive")
	}

	if meta.IsDefined("peer") {
		switch strings.ToLower(strings.TrimSpace(raw.Peer)) {
		case "master":
			cfg.Peer = tinyframe.PeerMaster
		case "slave":
			cfg.Peer = tinyframe.PeerSlave
		default:
			return Config{}, fmt.Errorf("peer must be %q or %q, got %q", "master", "slave", raw.Peer)
		}
	}

	if meta.IsDefined("tick_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.TickInterval))
		if err != nil {
			return Config{}, fmt.Errorf("parse tick_interval: %w", err)
		}
		cfg.TickInterval = d
	}

	if meta.IsDefined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("scenario") {
		cfg.Scenario = strings.TrimSpace(raw.Scenario)
	}

	if meta.IsDefined("codec", "id_bytes") {
		cfg.Codec.IDBytes = raw.Codec.IDBytes
	}
	if meta.IsDefined("codec", "len_bytes") {
		cfg.Codec.LenBytes = raw.Codec.LenBytes
	}
	if meta.IsDefined("codec", "type_bytes") {
		cfg.Codec.TypeBytes = raw.Codec.TypeBytes
	}
	if meta.IsDefined("codec", "checksum") {
		kind, err := protocol.ParseChecksumKind(strings.TrimSpace(raw.Codec.Checksum))
		if err != nil {
			return Config{}, fmt.Errorf("parse codec.checksum: %w", err)
		}
		cfg.Codec.Checksum = kind
	}
	if raw.Codec.UseSOF != nil {
		cfg.Codec.UseSOF = *raw.Codec.UseSOF
	}
	if meta.IsDefined("codec", "sof_byte") {
		if raw.Codec.SOFByte < 0 || raw.Codec.SOFByte > 0xFF {
			return Config{}, fmt.Errorf("codec.sof_byte must be a byte value, got %d", raw.Codec.SOFByte)
		}
		cfg.Codec.SOFByte = byte(raw.Codec.SOFByte)
	}
	if meta.IsDefined("codec", "max_payload") {
		cfg.Codec.MaxPayloadRx = raw.Codec.MaxPayload
		cfg.Codec.MaxPayloadTx = raw.Codec.MaxPayload
	}
	if meta.IsDefined("codec", "parser_timeout_ticks") {
		cfg.Codec.ParserTimeoutTicks = raw.Codec.ParserTimeoutTicks
	}

	if err := cfg.Codec.Validate(); err != nil {
		return Config{}, fmt.Errorf("codec config: %w", err)
	}

	return cfg, nil
}
