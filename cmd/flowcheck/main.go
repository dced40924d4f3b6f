// flowcheck runs end-to-end verification flows against a running instance
// of the web application.
//
// Usage:
//
//	flowcheck run                      # every flow
//	flowcheck run dashboard agents     # selected flows
//	flowcheck list
//
// Settings come from flags, FLOWCHECK_* environment variables or
// flowcheck.yaml in the working directory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println("verification failed:", err)
		os.Exit(1)
	}
}
