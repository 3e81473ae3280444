package main

import (
	"context"
	"fmt"
	"os"
	"telemetryd/internal/di"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the admin HTTP surface",
	RunE:  runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single telemetry check and exit",
	RunE:  runCheck,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the payload the next check-in would send",
	RunE:  runPreview,
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a settings value (e.g. optedIn true)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSet,
}

func runServe(cmd *cobra.Command, args []string) error {
	_, err := di.InitApp(&flags)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	return nil
}

// withTools loads the settings store around fn and flushes it afterwards.
func withTools(fn func(ctx context.Context, tools *di.Tools) error) error {
	tools, err := di.InitTools(&flags)
	if err != nil {
		return fmt.Errorf("failed to init: %w", err)
	}
	defer tools.Logger.Close()
	defer tools.Store.Close()

	ctx := context.Background()
	if err := tools.Store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := fn(ctx, tools); err != nil {
		return err
	}
	return tools.Store.Flush(ctx)
}

func runCheck(cmd *cobra.Command, args []string) error {
	return withTools(func(ctx context.Context, tools *di.Tools) error {
		result := tools.Service.TrackCheck(ctx)

		drainCtx, cancel := context.WithTimeout(ctx, tools.Config.Telemetry.Timeout)
		defer cancel()
		if err := tools.Service.Drain(drainCtx); err != nil {
			return fmt.Errorf("check-in still in flight: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "check: %s\n", result)
		return nil
	})
}

func runPreview(cmd *cobra.Command, args []string) error {
	return withTools(func(ctx context.Context, tools *di.Tools) error {
		payload, err := tools.Service.Preview(ctx)
		if err != nil {
			return fmt.Errorf("failed to build payload: %w", err)
		}
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	})
}

func runSet(cmd *cobra.Command, args []string) error {
	return withTools(func(ctx context.Context, tools *di.Tools) error {
		if err := tools.Store.Set(ctx, args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "unable to set %s\n", args[0])
			return err
		}
		return nil
	})
}
