// Package app assembles the txcrack command line application.
package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli"

	"github.com/nspcc-dev/txcrack/cli/addr"
	"github.com/nspcc-dev/txcrack/cli/crack"
)

// Version is the version of the tool, set at build time.
var Version = "dev"

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "txcrack\nVersion: %s\nGoVersion: %s\n",
		Version,
		runtime.Version(),
	)
}

// New creates a txcrack instance of cli.App with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "txcrack"
	ctl.Version = Version
	ctl.Usage = "recover ECDSA private keys from nonce-reusing transactions"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, crack.NewCommands()...)
	ctl.Commands = append(ctl.Commands, addr.NewCommands()...)
	return ctl
}
