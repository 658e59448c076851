package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultServerURL = "http://localhost:3000"

const (
	defaultReconnectAttempts = 5
	defaultReconnectDelayMS  = 1000
)

// Environment variables override file values. SMARTCHAT_SERVER_URL mirrors
// the VITE_API_URL the web front-end reads: one base URL serves both the
// REST endpoints and the socket.
const (
	envServerURL         = "SMARTCHAT_SERVER_URL"
	envReconnectAttempts = "SMARTCHAT_RECONNECT_ATTEMPTS"
	envLogLevel          = "SMARTCHAT_LOG_LEVEL"
)

type Settings struct {
	Server  ServerSettings  `toml:"server"`
	Socket  SocketSettings  `toml:"socket"`
	Logging LoggingSettings `toml:"logging"`
	UI      UISettings      `toml:"ui"`
}

type ServerSettings struct {
	URL string `toml:"url"`
}

type SocketSettings struct {
	ReconnectAttempts int `toml:"reconnect_attempts"`
	ReconnectDelayMS  int `toml:"reconnect_delay_ms"`
}

type LoggingSettings struct {
	Level string `toml:"level"`
}

type UISettings struct {
	SidebarWidth int  `toml:"sidebar_width"`
	Markdown     bool `toml:"markdown"`
}

func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{URL: defaultServerURL},
		Socket: SocketSettings{
			ReconnectAttempts: defaultReconnectAttempts,
			ReconnectDelayMS:  defaultReconnectDelayMS,
		},
		Logging: LoggingSettings{Level: "info"},
		UI:      UISettings{SidebarWidth: 30, Markdown: true},
	}
}

func Load() (Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return Settings{}, err
	}
	return loadSettingsFromPath(path)
}

func loadSettingsFromPath(path string) (Settings, error) {
	cfg := DefaultSettings()
	if err := readTOML(path, &cfg); err != nil {
		return Settings{}, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (s *Settings) applyEnv() {
	if url := strings.TrimSpace(os.Getenv(envServerURL)); url != "" {
		s.Server.URL = url
	}
	if raw := strings.TrimSpace(os.Getenv(envReconnectAttempts)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			s.Socket.ReconnectAttempts = n
		}
	}
	if level := strings.TrimSpace(os.Getenv(envLogLevel)); level != "" {
		s.Logging.Level = level
	}
}

// ServerURL returns the base URL with any trailing slash removed.
func (s Settings) ServerURL() string {
	url := strings.TrimSpace(s.Server.URL)
	if url == "" {
		return defaultServerURL
	}
	return strings.TrimRight(url, "/")
}

// ReconnectAttempts may be zero: an explicit zero disables reconnection.
func (s Settings) ReconnectAttempts() int {
	if s.Socket.ReconnectAttempts < 0 {
		return 0
	}
	return s.Socket.ReconnectAttempts
}

func (s Settings) ReconnectDelay() time.Duration {
	ms := s.Socket.ReconnectDelayMS
	if ms <= 0 {
		ms = defaultReconnectDelayMS
	}
	return time.Duration(ms) * time.Millisecond
}

func (s Settings) LogLevel() string {
	level := strings.TrimSpace(s.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (s Settings) SidebarWidth() int {
	if s.UI.SidebarWidth <= 0 {
		return 30
	}
	return s.UI.SidebarWidth
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
