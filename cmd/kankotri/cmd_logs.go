package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"kankotri/internal/delivery"
	"kankotri/internal/ledger"
	"kankotri/internal/logging"
	"kankotri/internal/ux"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultLedgerAddr = "localhost:5001"

var (
	logsAddr  string
	logsLimit int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Local status receiver and history",
}

var logsServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Receive status posts on /api/logs and store them",
	Long: `Runs the HTTP endpoint the status sink posts to. Point status_sink.url at
http://<addr>/api/logs to record every attempt in paths.ledger_db.`,
	RunE: runLogsServe,
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent stored statuses",
	RunE:  runLogsList,
}

func runLogsServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(commandContext(cmd))
	defer stop()

	store, err := ledger.Open(cfg.Paths.LedgerDB)
	if err != nil {
		return err
	}
	defer store.Close()

	ln, err := net.Listen("tcp", logsAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", logsAddr, err)
	}

	log := logging.For(logger, logging.CategoryLedger)
	log.Info("Status receiver listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("path", ledger.Path),
		zap.String("db", store.Path()))
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s%s\n", ln.Addr(), ledger.Path)

	return serveLedger(ctx, ln, ledger.Handler(store, log))
}

// serveLedger serves h on ln until ctx ends, then shuts down gracefully.
func serveLedger(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runLogsList(cmd *cobra.Command, args []string) error {
	store, err := ledger.Open(cfg.Paths.LedgerDB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := commandContext(cmd)
	entries, err := store.List(ctx, logsLimit)
	if err != nil {
		return err
	}
	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}

	styles := ux.NewStyles(cmd.OutOrStdout())
	printEntries(cmd.OutOrStdout(), styles, entries)
	printTotals(cmd.OutOrStdout(), styles, counts)
	return nil
}

// printTotals covers every stored status, not only the listed ones.
func printTotals(out io.Writer, styles ux.Styles, counts map[delivery.Status]int) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(out, "%s %s %d, %s %d, %s %d\n",
		styles.Title.Render("Totals:"),
		delivery.StatusSuccess, counts[delivery.StatusSuccess],
		delivery.StatusFailed, counts[delivery.StatusFailed],
		delivery.StatusError, counts[delivery.StatusError])
}

func printEntries(out io.Writer, styles ux.Styles, entries []ledger.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, styles.Muted.Render("No statuses recorded yet."))
		return
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s %s %s (%s): %s\n",
			styles.Muted.Render(e.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			styles.Tag(e.Status.String()), e.Name, e.Number, e.Message)
	}
}
