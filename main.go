// Command pharmly runs the pharmacy assistant as an HTTP service or from the
// terminal.
package main

import (
	"os"

	"github.com/giygas/pharmly/cli"
)

func main() {
	os.Exit(cli.Execute())
}
