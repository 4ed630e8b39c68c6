// formbar renders, previews and fills in forms described by XML
// configuration documents.
package main

import (
	"os"

	"github.com/goliatone/go-formbar/cmd/formbar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
