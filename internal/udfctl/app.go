// Package udfctl implements udfctl: generating registration SQL, calling guest exports from the
// command line, and checking manifests.
package udfctl

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"
)

// Version is stamped at build time.
var Version = "dev"

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "log-format",
		Aliases: []string{"f"},
		Usage:   "`format` logs as text or json",
		Value:   "text",
		EnvVars: []string{"UDFCTL_LOG_FORMAT"},
	},
	&cli.StringFlag{
		Name:    "log-level",
		Usage:   "set logging `level` to debug, info, warn or error",
		Value:   "info",
		EnvVars: []string{"UDFCTL_LOG_LEVEL"},
	},
}

// NewApp assembles the udfctl application.
func NewApp() *cli.App {
	return &cli.App{
		Name:      "udfctl",
		Usage:     "build, register and exercise wasm user-defined functions",
		UsageText: "udfctl [global options] command [command options] [arguments...]",
		Version:   Version,
		Flags:     flags,
		Commands: []*cli.Command{
			sqlCommand(),
			callCommand(),
			schemaCommand(),
			validateCommand(),
		},
	}
}

// logger builds the slog logger selected by the global flags. Logs go to the app's error writer
// so command output stays clean.
func logger(c *cli.Context) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.String("log-level")))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", c.String("log-level"))
	}
	opts := &slog.HandlerOptions{Level: level}

	switch c.String("log-format") {
	case "json":
		return slog.New(slog.NewJSONHandler(c.App.ErrWriter, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(c.App.ErrWriter, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", c.String("log-format"))
	}
}
