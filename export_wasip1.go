//go:build wasip1

package udf

import (
	"log/slog"

	"github.com/udfkit/udf-go/internal/abi"
	udflog "github.com/udfkit/udf-go/log"
)

var guest = NewAdapter(abi.Linear(), WithLogger(slog.New(udflog.NewHandler())))

// Export binds fn to the module's own linear memory for use behind a //go:wasmexport
// function. Failures are written to stderr as JSON diagnostics and yield a null pointer.
func Export(fn Func) func(uint32) uint32 {
	return guest.Wrap(fn)
}
