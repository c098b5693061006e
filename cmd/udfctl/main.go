package main

import (
	"fmt"
	"os"

	"github.com/udfkit/udf-go/internal/udfctl"
)

func main() {
	if err := udfctl.NewApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "udfctl:", err)
		os.Exit(1)
	}
}
