package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/devmatch/internal/client"
	"github.com/okian/devmatch/internal/config"
	"github.com/okian/devmatch/internal/domain/model"
	"github.com/okian/devmatch/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultRemoteTimeout = 30 * time.Second

func newRecommendCmd() *cobra.Command {
	var (
		remoteURL string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "recommend <projectId>",
		Short: "Print the recommendations of one project as JSON",
		Long: `Ranks developers for the project in process, using the configured store
and model, or asks a running server when --url is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to stderr so stdout stays valid JSON.
			cfg, log, err := setup(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			var res model.Result
			if remoteURL != "" {
				res, err = client.NewClient(remoteURL, timeout).Recommend(cmd.Context(), args[0])
			} else {
				res, err = recommendLocal(cmd.Context(), cfg, log, args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&remoteURL, "url", "", "Base URL of a running devmatch server")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultRemoteTimeout, "Request timeout for --url")
	return cmd
}

func recommendLocal(ctx context.Context, cfg *config.Config, log logger.Logger, projectID string) (model.Result, error) {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return model.Result{}, err
	}
	defer func() { _ = store.Close() }()

	svc := newService(cfg, store, log)
	if err := svc.Start(ctx); err != nil {
		return model.Result{}, fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	return svc.Recommend(ctx, projectID)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
