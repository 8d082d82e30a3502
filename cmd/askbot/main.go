package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/premstats/premstats/internal/config"
	"github.com/premstats/premstats/internal/llm"
	"github.com/premstats/premstats/internal/pipeline"
	"github.com/premstats/premstats/internal/store"
)

func main() {
	questionFlag := flag.String("q", "", "Run a single natural language question and exit")
	modelFlag := flag.String("model", "", "Override the completion model name")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.WarnLevel)

	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if cfg.OpenRouterAPIKey == "" {
		logger.Fatal("OPENROUTER_API_KEY is required for the ask bot.")
	}
	if *modelFlag != "" {
		cfg.Model = *modelFlag
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	st, err := store.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer st.Close()

	completer, err := llm.NewClient(llm.ClientConfig{
		APIKey:            cfg.OpenRouterAPIKey,
		BaseURL:           cfg.LLMBaseURL,
		Model:             cfg.Model,
		RequestsPerMinute: cfg.LLMRequestsPerMin,
		Logger:            logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create completion client")
	}

	pipe := pipeline.New(pipeline.Config{
		Completer: completer,
		Store:     st,
		Logger:    logger,
	})

	if *questionFlag != "" {
		if err := askOnce(ctx, pipe, *questionFlag); err != nil {
			logger.WithError(err).Fatal("question failed")
		}
		return
	}

	runREPL(ctx, pipe)
}

func askOnce(ctx context.Context, pipe *pipeline.Pipeline, question string) error {
	ans, err := pipe.Ask(ctx, question)
	if errors.Is(err, pipeline.ErrUnanswerable) {
		fmt.Println("That question can't be answered from the match database.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", ans.Message)
	if ans.ShortCircuit {
		fmt.Printf("\n(%d rows returned)\n", len(ans.Data))
	}
	return nil
}

func runREPL(ctx context.Context, pipe *pipeline.Pipeline) {
	fmt.Println("premstats ask bot (NL → SQL over Premier League matches)")
	fmt.Println("Type your question and press Enter. Empty line to exit.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		q, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("error reading input:", err)
			return
		}
		q = strings.TrimSpace(q)
		if q == "" {
			fmt.Println("bye")
			return
		}

		if err := askOnce(ctx, pipe, q); err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println()
	}
}
