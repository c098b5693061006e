package udfctl

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/udfkit/udf-go/application/sqlgen"
	"github.com/udfkit/udf-go/domain/entities"
	"github.com/udfkit/udf-go/host"
)

func sqlCommand() *cli.Command {
	return &cli.Command{
		Name:      "sql",
		Usage:     "print CREATE FUNCTION statements for a guest module",
		ArgsUsage: "[NAME EXPORT WASM]",
		Description: "Either pass NAME EXPORT WASM to register one export, or --manifest to " +
			"register every function the manifest lists.",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:  "manifest",
				Usage: "read functions from the manifest at `path`",
			},
			&cli.StringSliceFlag{
				Name:  "input",
				Usage: "SQL `type` of the next argument; repeat once per argument",
				Value: cli.NewStringSlice("BIGINT", "BIGINT"),
			},
			&cli.StringFlag{
				Name:  "return",
				Usage: "SQL `type` of the result",
				Value: "BIGINT",
			},
		},
		Action: createSQL,
	}
}

func createSQL(c *cli.Context) error {
	if path := c.Path("manifest"); path != "" {
		if c.Args().Present() {
			return fmt.Errorf("--manifest and positional arguments are mutually exclusive")
		}
		loader, err := host.NewLoader()
		if err != nil {
			return err
		}
		manifest, err := loader.LoadManifestFile(path, nil)
		if err != nil {
			return err
		}
		wasm, err := os.ReadFile(manifest.Wasm)
		if err != nil {
			return fmt.Errorf("read wasm: %w", err)
		}
		out, err := sqlgen.CreateFunctions(manifest, wasm)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(c.App.Writer, out)
		return err
	}

	if c.NArg() != 3 {
		return fmt.Errorf("usage: udfctl sql NAME EXPORT WASM, or udfctl sql --manifest PATH")
	}
	fn := entities.FunctionManifest{
		Name:       c.Args().Get(0),
		Entrypoint: c.Args().Get(1),
		InputTypes: c.StringSlice("input"),
		ReturnType: c.String("return"),
	}
	wasm, err := os.ReadFile(c.Args().Get(2))
	if err != nil {
		return fmt.Errorf("read wasm: %w", err)
	}
	out, err := sqlgen.CreateFunction(fn, wasm)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.App.Writer, out)
	return err
}
