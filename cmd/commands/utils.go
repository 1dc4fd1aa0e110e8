package commands

import (
	"fmt"
	"os"

	"github.com/dezh-tech/immortal/pkg/logger"
)

func ExitOnError(err error) {
	logger.Error("golembase-images error", "err", err.Error())
	os.Exit(1)
}

func HandleHelp(_ []string) {
	fmt.Print(`golembase-images stores images as chunked entities.

usage:
  golembase-images run <config.yml>                 serve the HTTP API and gRPC health
  golembase-images verify <config.yml> [consumer]   check committed objects from the event stream
  golembase-images version                          print the version
  golembase-images help                             print this message
`) //nolint
}
