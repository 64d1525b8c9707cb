// Command citymap resolves GPS fixes to raster map pixels using surveyed routes
// stored in SQLite.
//
//	citymap locate <lat> <lon> [k]
//	citymap index <name>
//	citymap nearest <name> <lat> <lon> [k]
//	citymap changes [after-scn]
//	citymap serve
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/viant/citymap/internal/config"
	"github.com/viant/citymap/internal/logger"
)

func main() {
	envFile := flag.String("env", ".env", "path to .env file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: citymap [-env file] locate|index|nearest|changes|serve args...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.Setup()
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Error("config_load_failed", "err", err)
		os.Exit(2)
	}
	a, err := newApp(context.Background(), cfg, log)
	if err != nil {
		log.Error("startup_failed", "db", cfg.DB, "err", err)
		os.Exit(1)
	}
	defer a.Close()
	if err := a.run(context.Background(), flag.Args(), os.Stdout); err != nil {
		log.Error("command_failed", "args", flag.Args(), "err", err)
		os.Exit(1)
	}
}
