package udfctl

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/udfkit/udf-go/host"
	"github.com/udfkit/udf-go/wire"
)

func callCommand() *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "call a guest export with JSON-literal arguments and print the result",
		ArgsUsage: "[ARG...]",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:  "wasm",
				Usage: "guest module `path`",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "export `name` to call",
			},
			&cli.PathFlag{
				Name:  "manifest",
				Usage: "resolve --function through the manifest at `path`",
			},
			&cli.StringFlag{
				Name:  "function",
				Usage: "SQL function `name` from the manifest",
			},
		},
		Action: call,
	}
}

func call(c *cli.Context) error {
	log, err := logger(c)
	if err != nil {
		return err
	}

	wasmPath, export, err := target(c)
	if err != nil {
		return err
	}

	args := make([]wire.Value, c.NArg())
	for i, s := range c.Args().Slice() {
		if args[i], err = parseArg(s); err != nil {
			return err
		}
	}

	wasm, err := os.ReadFile(wasmPath)
	if err != nil {
		return fmt.Errorf("read wasm: %w", err)
	}

	e, err := host.NewExecutor(c.Context, host.WithLogger(log))
	if err != nil {
		return err
	}
	defer e.Close(c.Context)

	mod, err := e.LoadModule(c.Context, wasm, host.WithName(export))
	if err != nil {
		return err
	}

	log.Debug("calling guest", "export", export, "args", wire.Format(wire.Array(args)))
	result, err := mod.Call(c.Context, export, args...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, wire.Format(result))
	return err
}

// target resolves which module and export to call from either --wasm/--export or
// --manifest/--function.
func target(c *cli.Context) (wasmPath, export string, err error) {
	if path := c.Path("manifest"); path != "" {
		loader, err := host.NewLoader()
		if err != nil {
			return "", "", err
		}
		manifest, err := loader.LoadManifestFile(path, nil)
		if err != nil {
			return "", "", err
		}
		fn, ok := manifest.Function(c.String("function"))
		if !ok {
			return "", "", fmt.Errorf("manifest has no function %q", c.String("function"))
		}
		return manifest.Wasm, fn.Export(), nil
	}

	if c.Path("wasm") == "" || c.String("export") == "" {
		return "", "", fmt.Errorf("call needs --wasm and --export, or --manifest and --function")
	}
	return c.Path("wasm"), c.String("export"), nil
}
