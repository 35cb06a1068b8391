package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/af-corp/autodaily/internal/auth"
	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/gateway"
	"github.com/af-corp/autodaily/internal/report"
	"github.com/af-corp/autodaily/internal/types"
)

type generateOptions struct {
	mode        string
	period      int
	style       string
	instruction string
	json        bool
}

func generateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one report using credentials from the environment",
		Long: `Generate one report and print it.

Credentials are read from AZURE_DEVOPS_PAT, AZURE_DEVOPS_ORG,
AZURE_DEVOPS_PROJECT, AZURE_DEVOPS_REPOSITORY, AZURE_DEVOPS_USER_EMAIL,
HARVEST_TOKEN and HARVEST_ACCOUNT_ID. A .env file in the working
directory is loaded first.

Examples:
  autodaily generate --mode combined-default
  autodaily generate --mode commits-only --period 168 --style executive
  autodaily generate --mode combined-custom --instruction "List blockers only" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config")
			return runGenerate(cmd.Context(), configDir, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(types.ModeCombinedDefault), "generation mode")
	cmd.Flags().IntVarP(&opts.period, "period", "p", types.DefaultPeriodHours, "period in hours (0 means today)")
	cmd.Flags().StringVarP(&opts.style, "style", "s", string(types.StyleStandup), "report style (standup, executive)")
	cmd.Flags().StringVarP(&opts.instruction, "instruction", "i", "", "custom instruction (combined-custom mode only)")
	cmd.Flags().BoolVarP(&opts.json, "json", "j", false, "print the full response as JSON")

	return cmd
}

func runGenerate(ctx context.Context, configDir string, opts generateOptions, out io.Writer) error {
	loader := config.NewLoader(configDir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := loader.Load(); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg := loader.Config()

	// Logs go to stderr so the report can be piped.
	slog.SetDefault(newLogger(os.Stderr, cfg.Telemetry))

	a, err := newApp(loader, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Report.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Report.Timeout)
		defer cancel()
	}

	req := types.GenerationRequest{
		Mode:              types.Mode(opts.mode),
		CustomInstruction: opts.instruction,
		PeriodHours:       opts.period,
		Style:             types.Style(opts.style),
		RequestID:         gateway.NewRequestID(),
	}
	creds := auth.CredentialsFromEnv(os.Getenv)

	res, genErr := a.orchestrator.Generate(ctx, req, creds)
	return writeResult(out, opts.json, req.RequestID, res, genErr)
}

// writeResult prints the report text, or the same envelope the HTTP API
// returns when asJSON is set. A failed report is returned as an error in
// text mode so the process exits non-zero.
func writeResult(out io.Writer, asJSON bool, reqID string, res *report.Result, genErr error) error {
	if !asJSON {
		if genErr != nil {
			return genErr
		}
		_, err := fmt.Fprintln(out, res.Text)
		return err
	}

	resp := types.GenerationResponse{Success: genErr == nil, RequestID: reqID}
	if res != nil {
		resp.Text = res.Text
		resp.Sources = &res.Sources
	}
	if genErr != nil {
		e := types.AsError(genErr)
		resp.Error = e.Message
		resp.Code = e.Kind
		resp.Details = e.Details
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if genErr != nil {
		return fmt.Errorf("report failed: %s", resp.Code)
	}
	return nil
}
