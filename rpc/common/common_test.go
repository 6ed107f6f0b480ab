package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

func TestParseLogLevel(t *testing.T) {
	levels := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for name, expected := range levels {
		lvl, err := ParseLogLevel(name)
		if err != nil {
			t.Errorf("ParseLogLevel(%s) failed: %v", name, err)
		}
		if lvl != expected {
			t.Errorf("ParseLogLevel(%s) = %v, expected %v", name, lvl, expected)
		}
	}

	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("ParseLogLevel should reject unknown levels")
	}
	if err := InitLoggers("verbose"); err == nil {
		t.Error("InitLoggers should reject unknown levels")
	}
}

func TestLoggerLevel(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger("test", &out)

	l.Debugf("hidden %d", 1)
	if out.Len() != 0 {
		t.Errorf("debug message written at info level: %q", out.String())
	}

	l.Infof("visible %d", 2)
	if !strings.Contains(out.String(), "visible 2") || !strings.Contains(out.String(), "test") {
		t.Errorf("info message missing or without component: %q", out.String())
	}

	out.Reset()
	l.SetLevel(logger.ERROR)
	l.Warningf("hidden")
	l.Errorf("failed")
	if strings.Contains(out.String(), "hidden") || !strings.Contains(out.String(), "failed") {
		t.Errorf("unexpected output at error level: %q", out.String())
	}
}

func TestMaxFrameSizeDefault(t *testing.T) {
	server := ServerConfig{}
	if server.MaxFrameSize() != DefaultMaxFrameSize {
		t.Errorf("server default frame size = %d", server.MaxFrameSize())
	}
	server.Transport.MaxFrameSize = 10
	if server.MaxFrameSize() != 10 {
		t.Errorf("server frame size = %d, expected 10", server.MaxFrameSize())
	}

	client := ClientConfig{}
	if client.MaxFrameSize() != DefaultMaxFrameSize {
		t.Errorf("client default frame size = %d", client.MaxFrameSize())
	}
}

func TestConfigString(t *testing.T) {
	server := ServerConfig{
		Storage:   ServerStorageConfig{Backend: "pebble", DataDir: "/var/lib/hkv"},
		Transport: ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
		LogLevel:  "info",
	}
	s := server.String()
	for _, expected := range []string{"0.0.0.0:8080", "pebble", "/var/lib/hkv", "disabled"} {
		if !strings.Contains(s, expected) {
			t.Errorf("server config dump is missing %q:\n%s", expected, s)
		}
	}

	client := ClientConfig{Transport: ClientTransportConfig{Endpoints: []string{"a:1", "b:2"}}}
	s = client.String()
	if !strings.Contains(s, "a:1") || !strings.Contains(s, "b:2") {
		t.Errorf("client config dump is missing endpoints:\n%s", s)
	}
}
