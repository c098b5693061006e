package udfctl

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/udfkit/udf-go/host"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check a manifest and, with --exports, that its module provides every entrypoint",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:     "manifest",
				Usage:    "manifest `path`",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "exports",
				Usage: "load the wasm module and check each entrypoint is exported",
			},
		},
		Action: validate,
	}
}

func validate(c *cli.Context) error {
	log, err := logger(c)
	if err != nil {
		return err
	}

	loader, err := host.NewLoader()
	if err != nil {
		return err
	}
	manifest, err := loader.LoadManifestFile(c.Path("manifest"), nil)
	if err != nil {
		return err
	}

	if c.Bool("exports") {
		wasm, err := os.ReadFile(manifest.Wasm)
		if err != nil {
			return fmt.Errorf("read wasm: %w", err)
		}
		e, err := host.NewExecutor(c.Context, host.WithLogger(log))
		if err != nil {
			return err
		}
		defer e.Close(c.Context)

		mod, err := e.LoadModule(c.Context, wasm)
		if err != nil {
			return err
		}

		var missing []error
		for _, fn := range manifest.Functions {
			if !mod.Has(fn.Export()) {
				missing = append(missing, fmt.Errorf("function %s: %w: %s", fn.Name, host.ErrMissingExport, fn.Export()))
			}
		}
		if err := errors.Join(missing...); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(c.App.Writer, "ok: %d function(s) in %s\n", len(manifest.Functions), c.Path("manifest"))
	return err
}
