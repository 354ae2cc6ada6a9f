package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cliCommands is the full vocabulary of short names wdctl accepts, including
// the aliases (nav/navigate, snap/snapshot, screenshot/ss, eval/evaluate).
// Kept as a flat set rather than derived from the cobra command tree so
// isCLICommand's contract can't drift from a rename of the underlying
// cobra.Command.Use strings.
var cliCommands = map[string]bool{
	"nav": true, "navigate": true,
	"snap": true, "snapshot": true,
	"click": true, "type": true, "press": true, "fill": true,
	"hover": true, "scroll": true, "select": true, "focus": true,
	"text": true, "tabs": true, "tab": true,
	"screenshot": true, "ss": true,
	"eval": true, "evaluate": true,
	"pdf": true, "health": true,
}

// isCLICommand reports whether name is one of wdctl's recognized verbs.
func isCLICommand(name string) bool {
	return cliCommands[name]
}

func printHelp() {
	fmt.Print(`wdctl - command-line driver for the local WebDriver server

Usage:
  wdctl <command> [args...]

Commands:
  nav, navigate <url>         navigate to url
  snap, snapshot               print the current page source
  click <selector>              find and click an element
  type, fill <selector> <text>  find an element and send it keystrokes
  press <key>                   dispatch a single normalized key
  hover <selector>               move the pointer over an element
  scroll <dx> <dy>               scroll the viewport
  select <selector> <value>     choose an <option> by value
  focus <selector>               focus an element
  text <selector>                print an element's rendered text
  tabs                          list open window handles
  tab <handle>                  switch to a window, or "new" to open one
  screenshot, ss [file]        save a PNG screenshot
  eval, evaluate <script>      run a script and print its result
  pdf [file]                    save the page as a PDF
  health                        check the server's /status endpoint
`)
}

func main() {
	root := &cobra.Command{
		Use:   "wdctl",
		Short: "drive the local WebDriver server from a shell",
		Run: func(cmd *cobra.Command, args []string) {
			printHelp()
		},
	}
	root.AddCommand(
		newNavigateCmd(), newSnapshotCmd(), newClickCmd(), newTypeCmd(),
		newPressCmd(), newHoverCmd(), newScrollCmd(), newSelectCmd(),
		newFocusCmd(), newTextCmd(), newTabsCmd(), newTabCmd(),
		newScreenshotCmd(), newEvalCmd(), newPDFCmd(), newHealthCmd(),
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wdctl:", err)
		os.Exit(1)
	}
}
