package udfctl

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/udfkit/udf-go/application/schema"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "print the JSON schema of the registration manifest",
		Action: func(c *cli.Context) error {
			s, err := schema.ManifestSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, string(s))
			return err
		},
	}
}
