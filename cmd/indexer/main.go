// Package main is the bankrag bulk indexer. It embeds the policy corpus plus
// optional JSON document files into the vector store, then optionally stays
// up consuming index requests from NATS and serving /metrics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bankrag/bankrag/engine/domain"
	"github.com/bankrag/bankrag/engine/embed"
	"github.com/bankrag/bankrag/engine/index"
	"github.com/bankrag/bankrag/engine/semantic"
	"github.com/bankrag/bankrag/pkg/metrics"
	"github.com/bankrag/bankrag/pkg/natsutil"
)

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var (
		reindex     = flag.Bool("reindex", false, "delete existing documents and rebuild")
		docsFile    = flag.String("docs", "", "JSON file with additional documents to index")
		listen      = flag.Bool("listen", false, "stay up and consume index requests from NATS")
		metricsAddr = flag.String("metrics", envOr("METRICS_ADDR", ""), "address for /metrics, e.g. :9102")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dim := envInt("EMBEDDING_DIMENSION", embed.DefaultDimension)
	var embedder embed.Embedder
	if envOr("EMBEDDING_PROVIDER", "local") == "openai" {
		embedder = embed.NewOpenAI(os.Getenv("OPENAI_API_KEY"), envOr("OPENAI_EMBED_MODEL", ""), dim, 30*time.Second)
	} else {
		embedder = embed.NewLocal(dim)
	}

	store, err := semantic.New(envOr("QDRANT_URL", "localhost:6334"), envOr("QDRANT_COLLECTION", "bankrag"))
	if err != nil {
		logger.Error("qdrant connect failed", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx, dim); err != nil {
		logger.Error("collection setup failed", "err", err)
		os.Exit(1)
	}

	var docs []domain.Document
	if *docsFile != "" {
		docs, err = loadDocs(*docsFile)
		if err != nil {
			logger.Error("loading documents failed", "file", *docsFile, "err", err)
			os.Exit(1)
		}
		logger.Info("loaded documents from file", "file", *docsFile, "count", len(docs))
	}

	ix := index.New(embedder, store, logger)

	var stats index.Stats
	if *reindex {
		stats, err = ix.ReindexAll(ctx, docs)
	} else {
		stats, err = ix.IndexAll(ctx, docs)
	}
	if err != nil {
		logger.Error("indexing failed", "err", err)
		os.Exit(1)
	}
	logger.Info("indexing done", "indexed", stats.Indexed, "skipped", stats.Skipped, "elapsed_ms", stats.Elapsed.Milliseconds())

	if *metricsAddr != "" {
		go func() {
			if err := metrics.Default.Serve(*metricsAddr); err != nil {
				logger.Error("metrics server failed", "err", err)
			}
		}()
	}

	if !*listen {
		return
	}

	nc, err := natsutil.Connect(envOr("NATS_URL", "nats://localhost:4222"), "bankrag-indexer")
	if err != nil {
		logger.Error("nats connect failed", "err", err)
		os.Exit(1)
	}
	defer nc.Close()

	consumer := index.NewConsumer(ix, logger)
	if err := consumer.Start(nc); err != nil {
		logger.Error("consumer start failed", "err", err)
		os.Exit(1)
	}
	logger.Info("consuming index requests", "subject", index.SubjectDocuments)

	<-ctx.Done()
	if err := consumer.Stop(); err != nil {
		logger.Warn("consumer drain failed", "err", err)
	}
}

func loadDocs(path string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []domain.Document
	if err := json.NewDecoder(f).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for i, d := range docs {
		if err := domain.ValidateDocument(d, 0); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
	}
	return docs, nil
}
