package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahrav/go-ballot/infrastructure/middleware"
	"github.com/ahrav/go-ballot/internal/application"
	"github.com/ahrav/go-ballot/internal/domain"
)

func main() {
	var (
		configPath  = flag.String("config", "election.yaml", "Election configuration file")
		ruleIDs     = flag.String("rule", "", "Comma-separated rule IDs to run (default: all)")
		concurrency = flag.Int("concurrency", application.DefaultRunnerConcurrency, "Maximum rules evaluated at once")
		explain     = flag.Bool("explain", false, "Print scores and elimination rounds")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090) until interrupted")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	loader, err := application.NewElectionLoader(application.NewDefaultRuleRegistry())
	if err != nil {
		log.Fatalf("Failed to create loader: %v", err)
	}

	ctx := context.Background()
	election, err := loader.LoadFromFile(ctx, *configPath)
	if err != nil {
		log.Fatalf("Failed to load election: %v", err)
	}

	runner := application.Runner{Concurrency: *concurrency, Logger: logger}

	var srv *http.Server
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		runner.Metrics = middleware.NewPrometheusMetrics(reg)
		srv = &http.Server{
			Addr:              *metricsAddr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Metrics server failed: %v", err)
			}
		}()
		logger.Info("serving metrics", "addr", *metricsAddr)
	}

	var outcomes []domain.Outcome[string]
	if ids := splitIDs(*ruleIDs); len(ids) > 0 {
		outcomes, err = runner.RunRules(ctx, election, ids...)
	} else {
		outcomes, err = runner.Run(ctx, election)
	}
	if err != nil {
		log.Fatalf("Failed to run election: %v", err)
	}

	if err := printOutcomes(os.Stdout, election, outcomes, *explain); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}

	if srv == nil {
		return
	}
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Metrics server shutdown: %v", err)
	}
}

// metricsMux exposes the registry's collectors at /metrics.
func metricsMux(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func printOutcomes(w io.Writer, election *application.Election, outcomes []domain.Outcome[string], explain bool) error {
	fmt.Fprintf(w, "Election: %s\n", election.Metadata.Name)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tMETHOD\tWINNER\tTIE-BREAK")
	for _, o := range outcomes {
		tieBreak := ""
		if o.TieBroken {
			tieBreak = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Rule, o.Method, o.Winner, tieBreak)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !explain {
		return nil
	}
	order := election.Profile.Candidates()
	for _, o := range outcomes {
		fmt.Fprintf(w, "\n%s:\n", o.Rule)
		if len(o.Scores) > 0 {
			for _, c := range order {
				if s, ok := o.Scores[c]; ok {
					fmt.Fprintf(w, "  %s: %g\n", c, s)
				}
			}
		}
		for _, round := range o.Rounds {
			fmt.Fprintf(w, "  round %d: eliminated %v, remaining %v\n", round.Number, round.Eliminated, round.Remaining)
		}
	}
	return nil
}
