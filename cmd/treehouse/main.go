// Command treehouse is a terminal demo of the treehouse binding layer.
//
// It loads a JSON or YAML state file into a tree store, renders a small
// component hierarchy bound to it and re-renders whenever the file or a
// dispatched action changes the tree.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
