package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario describes a repertoire of messages the bridge sends
// periodically, used for exercising a link end to end.
type Scenario struct {
	Messages []ScenarioMessage `yaml:"messages"`
}

// ScenarioMessage is one periodic send. Payload comes from DataHex or
// Text, not both.
type ScenarioMessage struct {
	// Type is the frame type to send
	Type uint32 `yaml:"type"`

	// DataHex is the payload as a hex string
	DataHex string `yaml:"data_hex"`

	// Text is the payload as literal text
	Text string `yaml:"text"`

	// Interval is how often the message is sent, as a duration string
	// ("500ms", "2s")
	Interval string `yaml:"interval"`

	// ExpectReply registers an ID listener for a response
	ExpectReply bool `yaml:"expect_reply"`

	// ReplyTimeoutTicks bounds the wait for the response
	ReplyTimeoutTicks int `yaml:"reply_timeout_ticks"`

	payload  []byte
	interval time.Duration
}

// Payload returns the decoded payload bytes.
func (m *ScenarioMessage) Payload() []byte {
	return m.payload
}

// SendEvery returns the parsed send interval.
func (m *ScenarioMessage) SendEvery() time.Duration {
	return m.interval
}

// loadScenario reads and validates a YAML scenario file.
func loadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if len(sc.Messages) == 0 {
		return nil, fmt.Errorf("scenario has no messages")
	}

	for i := range sc.Messages {
		m := &sc.Messages[i]
		if m.DataHex != "" && m.Text != "" {
			return nil, fmt.Errorf("message %d: data_hex and text are mutually exclusive", i)
		}
		switch {
		case m.DataHex != "":
			payload, err := hex.DecodeString(m.DataHex)
			if err != nil {
				return nil, fmt.Errorf("message %d: decode data_hex: %w", i, err)
			}
			m.payload = payload
		case m.Text != "":
			m.payload = []byte(m.Text)
		}
		if m.Interval == "" {
			return nil, fmt.Errorf("message %d: interval is required", i)
		}
		d, err := time.ParseDuration(m.Interval)
		if err != nil {
			return nil, fmt.Errorf("message %d: parse interval: %w", i, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("message %d: interval must be positive", i)
		}
		m.interval = d
		if m.ExpectReply && m.ReplyTimeoutTicks <= 0 {
			return nil, fmt.Errorf("message %d: expect_reply requires reply_timeout_ticks", i)
		}
	}

	return &sc, nil
}
