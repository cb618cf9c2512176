// Package main is the entry point for the phaseseq API server
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/james-see/phaseseq/pkg/api"
	"github.com/james-see/phaseseq/pkg/pattern"
	"github.com/james-see/phaseseq/pkg/phase"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	patternFile := flag.String("pattern", "", "Pattern YAML file")
	flag.Parse()

	f, err := pattern.Load(*patternFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pattern error: %v\n", err)
		os.Exit(1)
	}

	engine := phase.NewEngine(phase.HostFunc(func(phase.Event) {}),
		phase.WithPattern(f.Pattern),
		phase.WithSettings(f.Settings),
		phase.WithLogger(slog.Default()),
	)

	fmt.Printf("Starting phaseseq API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(*port, engine, f.Name); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
