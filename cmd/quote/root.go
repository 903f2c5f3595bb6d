package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/flexprice/billing-engine/internal/api/dto"
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type options struct {
	quantities  map[string]int64
	concurrency int
	compact     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "quote [file...]",
		Short: "Price the current billing cycle of a plan version",
		Long: `quote reads one or more quote files (YAML or JSON) describing a plan
version, a cycle start and the reported usage, and prints the priced cycle.
Without arguments the file configured as quote.plan_file is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().StringToInt64VarP(&opts.quantities, "quantity", "q", nil, "usage quantity per feature, ex -q api_calls=3000")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 4, "number of files priced in parallel")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "print one JSON document per line")

	return cmd
}

func runQuote(ctx context.Context, opts *options, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to initialize the billing engine").
			Mark(ierr.ErrSystem)
	}

	files := args
	if len(files) == 0 {
		if d.Config.Quote.PlanFile == "" {
			return ierr.NewError("no quote file").
				WithHint("Pass a quote file or set quote.plan_file").
				Mark(ierr.ErrValidation)
		}
		files = []string{d.Config.Quote.PlanFile}
	}

	results := make([]*dto.QuoteResponse, len(files))
	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithFirstError().
		WithMaxGoroutines(max(opts.concurrency, 1))

	for i, file := range files {
		p.Go(func(ctx context.Context) error {
			req, err := loadQuoteRequest(file)
			if err != nil {
				return err
			}
			req.Quantities = mergeQuantities(d.Config.Quote.Quantities, req.Quantities, opts.quantities)

			resp, err := d.QuoteService.CreateQuote(ctx, *req)
			if err != nil {
				d.Logger.Errorw("failed to create quote", "file", file, "error", err)
				return err
			}
			results[i] = resp
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return err
	}

	for _, resp := range results {
		if err := printQuote(resp, opts.compact); err != nil {
			return err
		}
	}
	return nil
}

func loadQuoteRequest(file string) (*dto.QuoteRequest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to read quote file %s", file).
			Mark(ierr.ErrValidation)
	}

	var req dto.QuoteRequest
	// yaml is a superset of json so both file formats decode here
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invalid quote file %s", file).
			WithReportableDetails(map[string]any{
				"file": file,
			}).
			Mark(ierr.ErrValidation)
	}
	return &req, nil
}

// mergeQuantities layers the sources so later ones win per feature
func mergeQuantities(sources ...map[string]int64) map[string]int64 {
	merged := make(map[string]int64)
	for _, src := range sources {
		for k, v := range src {
			merged[k] = v
		}
	}
	return merged
}

func printQuote(resp *dto.QuoteResponse, compact bool) error {
	var (
		out []byte
		err error
	)
	if compact {
		out, err = json.Marshal(resp)
	} else {
		out, err = json.MarshalIndent(resp, "", "  ")
	}
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode quote").
			Mark(ierr.ErrSystem)
	}
	fmt.Println(string(out))
	return nil
}
