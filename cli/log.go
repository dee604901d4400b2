package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/benv/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during
// parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-level flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during
// parsing.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info" enum:"trace,debug,info,warn,error" help:"Set log level."`
	Format     logFormat `default:"text" enum:"json,text"                   help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                 help:"Set timestamp format."`
	Caller     bool      `default:"false"                                   help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                    help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(timeLayout(f.TimeLayout)),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// timeLayout maps the common layout names from the time package to their
// layout strings; anything else is taken as a literal layout.
func timeLayout(name string) string {
	switch name {
	case "RFC3339":
		return "2006-01-02T15:04:05Z07:00"
	case "RFC3339Nano":
		return "2006-01-02T15:04:05.999999999Z07:00"
	case "Kitchen":
		return "3:04PM"
	case "Stamp":
		return "Jan _2 15:04:05"
	case "DateTime":
		return "2006-01-02 15:04:05"
	case "TimeOnly":
		return "15:04:05"
	default:
		return name
	}
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured properly regardless of flag position on the command
// line.
//
// While logFormat and logLevel implement encoding.TextUnmarshaler to
// configure the logger as flags are encountered during parsing, boolean
// flags like Pretty don't go through that interface. This pre-scan ensures
// all logger flags are applied early.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--log-") &&
			!strings.HasPrefix(arg, "--no-log-") {
			continue
		}

		name, value, assigned := strings.Cut(arg, "=")

		// Non-boolean flags consume the next arg when not assigned with =.
		consume := func() string {
			if assigned {
				return value
			}

			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				i++

				return args[i]
			}

			return ""
		}

		// Boolean flags take an optional =value; bare means enable.
		boolValue := func(enable bool) bool {
			if !assigned {
				return enable
			}

			v, err := strconv.ParseBool(value)
			if err != nil {
				return enable
			}

			if enable {
				return v
			}

			return !v
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(consume()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(consume()))

		case "--log-pretty":
			f.Pretty = boolValue(true)
			log.Config(log.WithPretty(f.Pretty))

		case "--no-log-pretty":
			f.Pretty = boolValue(false)
			log.Config(log.WithPretty(f.Pretty))

		case "--log-caller":
			f.Caller = boolValue(true)
			log.Config(log.WithCaller(f.Caller))

		case "--no-log-caller":
			f.Caller = boolValue(false)
			log.Config(log.WithCaller(f.Caller))
		}
	}
}
