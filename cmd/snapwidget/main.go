// snapwidget is the operational companion for the widget snapshot cache:
// it simulates a widget fetch cycle, inspects cache and scheduling state,
// seeds demo data, and fires the cross-process invalidation signal the way
// the main application would.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
