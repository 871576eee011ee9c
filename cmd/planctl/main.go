// Command planctl inspects and checks the plan catalogs offline.
package main

import (
	"fmt"
	"os"

	"dealspace-api/internal/logging"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const version = "0.1.0"

func main() {
	envErr := loadDotEnv()
	logging.Setup(os.Getenv("LOG_LEVEL"), false)
	if envErr != nil {
		log.Debug().Err(envErr).Msg("No .env file found. Using system environment variables.")
	}

	app := newApp(cliEnv{
		out:        os.Stdout,
		lookup:     os.LookupEnv,
		newFetcher: newStripeFetcher,
	})

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// loadDotEnv reads files (default .env) into the process environment without
// overriding variables that are already set. LOG_LEVEL may come from the file,
// so the caller reports the error once logging is configured.
func loadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}
