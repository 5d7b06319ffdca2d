// Command asklly wires the orchestrator's core components together:
// load config -> build the shared document store, database, and
// embedder -> start the session manager and idle reaper -> run one
// demo conversation turn.
//
// This is intentionally minimal (spec section 1 excludes the outer
// HTTP/CLI entry point from the core contract); a real deployment would
// replace the demo loop with a long-lived request handler.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jeeva2334/asklly-agents-v1/browser"
	"github.com/jeeva2334/asklly-agents-v1/config"
	"github.com/jeeva2334/asklly-agents-v1/databases"
	"github.com/jeeva2334/asklly-agents-v1/docstore"
	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/metrics"
	"github.com/jeeva2334/asklly-agents-v1/pkg/embedders"
	"github.com/jeeva2334/asklly-agents-v1/pkg/logger"
	"github.com/jeeva2334/asklly-agents-v1/session"
)

func main() {
	configPath := flag.String("config", "config.ini", "path to the ini configuration file")
	logLevel := flag.String("log-level", "info", "log level: debug|info|warn|error")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
	query := flag.String("query", "hello, how are you?", "demo query to run through one session")
	flag.Parse()

	logger.Setup(*logLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asklly: failed to load config %q, using defaults: %v\n", *configPath, err)
		cfg = &config.Config{Main: config.Main{ProviderName: "test", Languages: []string{"en"}}}
	}

	store, err := docstore.OpenSQLite(".asklly.db")
	if err != nil {
		fmt.Fprintf(os.Stderr, "asklly: failed to open document store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	db, err := databases.NewQdrantDatabaseProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "asklly: vector database unavailable, retrieval agent degraded: %v\n", err)
		db = nil
	}

	embedder, err := embedders.NewEmbedderRegistry().CreateEmbedderFromConfig("router", &config.EmbedderProviderConfig{Type: "local"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "asklly: failed to build embedder: %v\n", err)
		os.Exit(1)
	}

	m := metrics.New()
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
			_ = http.ListenAndServe(*metricsAddr, nil)
		}()
	}

	llmConfig := &config.LLMProviderConfig{
		Type:    cfg.Main.ProviderName,
		Model:   cfg.Main.ProviderModel,
		Host:    cfg.Main.ProviderServerAddress,
		IsLocal: cfg.Main.IsLocal,
		APIKey:  config.ProviderAPIKey(cfg.Main.ProviderName),
	}
	if llmConfig.Type == "" {
		llmConfig.Type = "test"
	}

	mgr := session.New(session.Deps{
		Config:    cfg,
		LLMConfig: llmConfig,
		Store:     store,
		Database:  db,
		Embedder:  embedder,
		Metrics:   m,
		BrowserOpts: browser.Options{
			Headless: cfg.Browser.HeadlessBrowser,
			Stealth:  cfg.Browser.StealthMode,
			Timeout:  30 * time.Second,
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cid, err := mgr.CreateSession(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "asklly: failed to create session: %v\n", err)
		os.Exit(1)
	}
	defer mgr.CloseSession(cid)

	go mgr.CleanupInactiveSessions(ctx, time.Hour)

	sess, _ := mgr.GetSession(cid)
	sess.Interaction.SetQuery(*query, "demo-bot", db)
	if ok, thinkErr := sess.Interaction.Think(ctx, "demo-uid", "demo-org"); thinkErr != nil {
		fmt.Fprintf(os.Stderr, "asklly: think failed: %v\n", thinkErr)
	} else if !ok {
		fmt.Println("asklly: no agent could handle the query")
	} else {
		fmt.Printf("answer: %s\n", sess.Interaction.LastAnswer())
		if reasoning := sess.Interaction.LastReasoning(); reasoning != "" {
			fmt.Printf("reasoning: %s\n", reasoning)
		}
	}

	llms.WarnIfUnsafe(llmConfig.Type, llmConfig.IsLocal)
}
