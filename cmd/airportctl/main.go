// Package main provides the airportctl binary entry point.
// Airportctl is the admin console for the airport backends: it manages
// the operator's session and exposes the flight-operations resources.
package main

import (
	"fmt"
	"os"

	"github.com/IsaacT30/airport-console/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
