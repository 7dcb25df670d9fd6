// The main package for the imageresolver executable.
package main

import (
	"github.com/techcatalog/image-resolver/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
