package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/config"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadClient()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		logger.Errorf(ctx, "❌  Reprocessing request failed: %v", err)
		os.Exit(1)
	}
}

// run triggers one sweep and prints its summary. Per-image failures are
// reported but do not fail the command.
func run(ctx context.Context, cfg *config.ClientSettings, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	client := newAdminClient(cfg.AdminAPIURL, cfg.ServiceSecret, nil)
	summary, err := client.ReprocessImages(ctx)
	if err != nil {
		return err
	}

	printSummary(out, summary)
	return nil
}

func printSummary(out io.Writer, s *reprocessSummary) {
	_, _ = fmt.Fprintf(out, "%s\n", s.Message)
	_, _ = fmt.Fprintf(out, "total: %d  processed: %d  failed: %d\n", s.Total, s.Processed, s.Failed)
	if s.Failed == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, "failed images:")
	for _, r := range s.Results {
		if r.Status == "success" {
			continue
		}
		_, _ = fmt.Fprintf(out, "  %s (product %s): %s\n", r.ID, r.ProductID, r.Error)
	}
}
