package config

import (
	"fmt"
	"log/slog"
	"strings"
)

type Log struct {
	Format    LogFormat  `env:"LOG_FORMAT" envDefault:"JSON"`
	Level     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	AddSource bool       `env:"LOG_ADD_SOURCE" envDefault:"true"`
	// NoColor only applies to the text format, e.g. when a terminal
	// log is piped into a file.
	NoColor bool `env:"LOG_NO_COLOR"`
}

type LogFormat uint8

const (
	LogFormatJSON LogFormat = iota
	LogFormatText
)

var logFormatNames = map[LogFormat]string{
	LogFormatJSON: "JSON",
	LogFormatText: "TEXT",
}

func (f LogFormat) String() string {
	if name, ok := logFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("LogFormat(%d)", uint8(f))
}

// UnmarshalText accepts the format name in any case. "console" is an alias of TEXT.
func (f *LogFormat) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "JSON":
		*f = LogFormatJSON
	case "TEXT", "CONSOLE":
		*f = LogFormatText
	default:
		return fmt.Errorf("unknown log format: %q", text)
	}
	return nil
}

func (f LogFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
