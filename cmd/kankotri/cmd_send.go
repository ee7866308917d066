package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"kankotri/internal/browser"
	"kankotri/internal/logging"
	"kankotri/internal/orchestrator"
	"kankotri/internal/recipient"
	"kankotri/internal/report"
	"kankotri/internal/ux"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sendClient     string
	sendRecipients string
	sendDryRun     bool

	// pickerInput feeds the client picker; tests replace it.
	pickerInput io.Reader = os.Stdin
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send every recipient their invitation",
	Long: `Reads the roster, asks for the client folder unless --client is given,
opens the browser session and sends each recipient's PDF in roster order.

Invalid numbers and missing PDFs are reported as FAILED and skipped without
touching the browser. Press Ctrl+C to stop the run: the recipient in progress
is reported as ERROR and the remaining ones are not attempted.`,
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(commandContext(cmd))
	defer stop()

	out := cmd.OutOrStdout()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	path := sendRecipients
	if path == "" {
		path = cfg.Paths.Recipients
	}
	tasks, err := recipient.LoadCSV(path)
	if err != nil {
		return err
	}
	logger.Info("Roster loaded", zap.String("path", path), zap.Int("recipients", len(tasks)))

	folder, err := chooseClient(ctx, out)
	if err != nil {
		return err
	}

	console := report.NewConsole(out)
	styles := ux.NewStyles(out)
	if sendDryRun {
		return dryRun(out, styles, console, folder, tasks)
	}

	fan := report.NewFanout(console, logging.For(logger, logging.CategoryReport),
		report.NewHTTPSink(cfg.StatusSink.URL, cfg.GetSinkTimeout()))

	sm := browser.NewSessionManager(cfg.BrowserSettings(), logging.For(logger, logging.CategoryBrowser))
	defer func() {
		if err := sm.Shutdown(context.Background()); err != nil {
			logger.Warn("Browser shutdown failed", zap.Error(err))
		}
	}()

	runner := orchestrator.New(openSession(sm), fan, cfg.RunOptions(folder),
		logging.For(logger, logging.CategoryOrchestrator))

	fmt.Fprintln(out, styles.Title.Render(fmt.Sprintf("Sending %d invitations from %s", len(tasks), folder)))
	sum, err := runner.Run(ctx, tasks)
	printSummary(out, styles, sum)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, styles.Muted.Render("Interrupted; remaining recipients were not attempted."))
	}
	return err
}

// openSession adapts the session manager to the orchestrator.
func openSession(sm *browser.SessionManager) orchestrator.SessionOpener {
	return orchestrator.OpenFunc(func(ctx context.Context) (orchestrator.Session, error) {
		s, err := sm.Open(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// chooseClient resolves --client or asks the operator.
func chooseClient(ctx context.Context, out io.Writer) (string, error) {
	if sendClient != "" {
		return ux.ResolveClient(cfg.Paths.OutputBase, sendClient)
	}
	clients, err := ux.ListClients(cfg.Paths.OutputBase, cfg.Dispatch.ArtifactExt)
	if err != nil {
		return "", err
	}
	c, err := ux.PickClient(ctx, clients, pickerInput, out)
	if err != nil {
		return "", err
	}
	return c.Path, nil
}

func dryRun(out io.Writer, styles ux.Styles, console *report.Console, folder string, tasks []recipient.Task) error {
	runner := orchestrator.New(nil, console, cfg.RunOptions(folder), logging.For(logger, logging.CategoryOrchestrator))
	ready := 0
	for _, t := range tasks {
		p := runner.Prepare(t)
		if p.Rejection != nil {
			a := report.FromOutcome(t.Name, p.ReportAddress(), *p.Rejection)
			a.Row = t.Row
			console.Report(context.Background(), a)
			continue
		}
		ready++
		fmt.Fprintf(out, "%s %s (%s): %s\n", styles.Tag("READY"), t.Name, p.Address, p.ArtifactPath)
	}
	fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("Dry run: %d of %d recipients ready", ready, len(tasks))))
	return nil
}

func printSummary(out io.Writer, styles ux.Styles, sum orchestrator.Summary) {
	if sum.Attempted() == 0 && sum.Total > 0 {
		return
	}
	fmt.Fprintf(out, "%s %d sent, %d failed, %d errors (run %s, %s)\n",
		styles.Title.Render("Done:"),
		sum.Succeeded, sum.Failed, sum.Errored, sum.RunID,
		sum.Finished.Sub(sum.Started).Round(time.Second))
}
