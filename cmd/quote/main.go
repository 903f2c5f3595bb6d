package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/joho/godotenv"
)

func init() {
	// all cycle boundaries are computed in UTC
	time.Local = time.UTC
}

func main() {
	// .env is optional, config falls back to defaults and config.yaml
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		printError(err)
		os.Exit(ierr.ExitCodeFromErr(err))
	}
}

func printError(err error) {
	out, merr := json.MarshalIndent(ierr.NewErrorResponse(err), "", "  ")
	if merr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, string(out))
}
