package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/qjs/studyhelper/server/config"
	"github.com/qjs/studyhelper/server/llm"
	"github.com/qjs/studyhelper/server/prompts"
	studypipeline "github.com/qjs/studyhelper/server/study_pipeline"
	"github.com/qjs/studyhelper/server/webapp"
)

var (
	configPath = flag.String("config", "", "path to YAML config file (optional)")
	provider   = flag.String("provider", "", "model provider: gemini | ollama (overrides config)")
	model      = flag.String("model", "", "model name to pass to the provider (overrides config)")
	ollamaURL  = flag.String("ollama_url", "", "base URL of Ollama API (overrides config)")
	webAddr    = flag.String("web_addr", "", "listen address for the web UI (overrides config)")
	serve      = flag.Bool("serve", false, "run the web UI instead of the one-shot CLI")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	style, err := prompts.ParseStyle(cfg.PromptStyle)
	if err != nil {
		return err
	}

	//------------------------------------------------------------
	// Graceful-shutdown context
	//------------------------------------------------------------
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The client is constructed here and passed down explicitly; nothing in
	// the pipeline holds process-wide state.
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}

	orch := studypipeline.New(client, prompts.Builder{Style: style, Model: cfg.Model})

	if *serve {
		return serveWeb(ctx, cfg, orch, client.ProviderName())
	}
	return runCLI(ctx, cfg, orch)
}

func applyOverrides(cfg *config.Config) {
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *ollamaURL != "" {
		cfg.OllamaURL = *ollamaURL
	}
	if *webAddr != "" {
		cfg.WebAddr = *webAddr
	}
}

func newClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return llm.NewOllamaClient(cfg.OllamaURL, cfg.Model)
	default:
		return llm.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), cfg.Model)
	}
}

//------------------------------------------------------------
// Web mode
//------------------------------------------------------------

func serveWeb(ctx context.Context, cfg *config.Config, orch *studypipeline.Orchestrator, providerName string) error {
	app := webapp.NewWebApp(orch, webapp.Options{
		RequestTimeout: cfg.RequestTimeout(),
		Provider:       providerName,
	})
	app.Run(cfg.WebAddr)

	<-ctx.Done()
	log.Println("shutting down ...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web app shutdown: %w", err)
	}
	log.Println("server shut down")
	return nil
}

//------------------------------------------------------------
// CLI mode
//------------------------------------------------------------

func runCLI(ctx context.Context, cfg *config.Config, orch *studypipeline.Orchestrator) error {
	fmt.Println("Study Helper - paste your study text below, end with a blank line:")

	text, err := readInput(os.Stdin)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
	defer cancel()

	res, err := orch.Run(runCtx, text)
	if err != nil {
		return err
	}
	if failed, ok := res.FailedStage(); ok {
		return failed.Err
	}

	out, _ := res.FinalOutput()
	fmt.Println(out)
	return nil
}

// readInput reads free text from r up to the first blank line after some
// content, or EOF, whichever comes first.
func readInput(r io.Reader) (string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}
