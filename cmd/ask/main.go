// Package main is the interactive bankrag query CLI. It wires the embedder,
// vector store, conversation store, and generation strategy from environment
// configuration and runs the retrieval pipeline per typed question.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bankrag/bankrag/engine/domain"
	"github.com/bankrag/bankrag/engine/embed"
	"github.com/bankrag/bankrag/engine/history"
	"github.com/bankrag/bankrag/engine/index"
	"github.com/bankrag/bankrag/engine/llm"
	"github.com/bankrag/bankrag/engine/rag"
	"github.com/bankrag/bankrag/engine/retrieval"
	"github.com/bankrag/bankrag/engine/semantic"
	"github.com/redis/go-redis/v9"
)

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
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
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var (
		oneShot   = flag.String("q", "", "ask a single question and exit")
		filter    = flag.String("type", "", "restrict retrieval to one source type")
		seedMem   = flag.Bool("seed", false, "with the memory store, index the policy corpus at startup")
		storeKind = flag.String("store", envOr("VECTOR_STORE", "qdrant"), "vector store backend: qdrant or memory")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedder := buildEmbedder(logger)
	store, cleanup := buildStore(*storeKind, logger)
	defer cleanup()
	turns := buildHistory(logger)

	dispatcher, err := llm.New(llm.Config{
		Provider:    envOr("LLM_PROVIDER", "mock"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: envOr("OPENAI_CHAT_MODEL", ""),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel: envOr("GEMINI_MODEL", ""),
		OllamaURL:   envOr("OLLAMA_URL", ""),
		OllamaModel: envOr("OLLAMA_MODEL", ""),
		Timeout:     60 * time.Second,
	}, logger)
	if err != nil {
		logger.Error("llm setup failed", "err", err)
		os.Exit(1)
	}

	if *seedMem {
		ix := index.New(embedder, store, logger)
		if _, err := ix.IndexAll(ctx, nil); err != nil {
			logger.Error("seeding failed", "err", err)
			os.Exit(1)
		}
	}

	gateway := retrieval.NewGateway(store, 10*time.Second, logger)
	opts := rag.DefaultOptions()
	opts.TopK = envInt("RAG_TOP_K", opts.TopK)
	opts.Threshold = envFloat("RAG_SIMILARITY_THRESHOLD", opts.Threshold)
	svc := rag.New(embedder, gateway, dispatcher, turns, opts, logger)

	typeFilter := domain.SourceType(strings.ToUpper(*filter))

	if *oneShot != "" {
		resp, err := svc.Query(ctx, *oneShot, "", typeFilter)
		if err != nil {
			logger.Error("query failed", "err", err)
			os.Exit(1)
		}
		printResponse(resp)
		return
	}

	runREPL(ctx, svc, typeFilter)
}

func buildEmbedder(logger *slog.Logger) embed.Embedder {
	dim := envInt("EMBEDDING_DIMENSION", embed.DefaultDimension)
	switch provider := envOr("EMBEDDING_PROVIDER", "local"); provider {
	case "openai":
		return embed.NewOpenAI(os.Getenv("OPENAI_API_KEY"), envOr("OPENAI_EMBED_MODEL", ""), dim, 30*time.Second)
	case "local":
		return embed.NewLocal(dim)
	default:
		logger.Warn("unknown embedding provider, using local", "provider", provider)
		return embed.NewLocal(dim)
	}
}

func buildStore(kind string, logger *slog.Logger) (retrieval.DocumentStore, func()) {
	if kind == "memory" {
		return semantic.NewMemStore(), func() {}
	}
	store, err := semantic.New(envOr("QDRANT_URL", "localhost:6334"), envOr("QDRANT_COLLECTION", "bankrag"))
	if err != nil {
		logger.Error("qdrant connect failed", "err", err)
		os.Exit(1)
	}
	if err := store.EnsureCollection(context.Background(), envInt("EMBEDDING_DIMENSION", embed.DefaultDimension)); err != nil {
		logger.Error("collection setup failed", "err", err)
		os.Exit(1)
	}
	return store, func() { store.Close() }
}

func buildHistory(logger *slog.Logger) history.Store {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		return history.NewMemStore()
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	logger.Info("using redis conversation store", "addr", addr)
	return history.NewRedisStore(client, 24*time.Hour)
}

func runREPL(ctx context.Context, svc *rag.Service, typeFilter domain.SourceType) {
	fmt.Println("bankrag: ask about accounts, transactions, and policies. Ctrl-D to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	sessionID := ""

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		resp, err := svc.Query(ctx, question, sessionID, typeFilter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		sessionID = resp.SessionID
		printResponse(resp)
	}
}

func printResponse(resp domain.Response) {
	fmt.Println()
	fmt.Println(resp.Answer)
	fmt.Println()
	if len(resp.Sources) > 0 {
		fmt.Println("Sources:")
		for _, s := range resp.Sources {
			fmt.Printf("  - %s %s (%.2f): %s\n", s.SourceType, s.SourceID, s.Similarity, s.Excerpt)
		}
	}
	fmt.Printf("[%d docs, %dms, embed=%s, llm=%s]\n\n",
		resp.DocumentsRetrieved, resp.LatencyMs, resp.EmbeddingProvider, resp.LLMProvider)
}
