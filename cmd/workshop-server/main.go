package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"future-workshop/internal/app"
	"future-workshop/internal/content"
	"future-workshop/internal/discussion"
	"future-workshop/internal/generate"
	"future-workshop/internal/imagegen"
	"future-workshop/internal/llm"
	"future-workshop/internal/logging"
	"future-workshop/internal/persona"
	"future-workshop/internal/server"
)

type options struct {
	Port        int    `short:"p" long:"port" env:"WORKSHOP_PORT" default:"8080" description:"HTTP listen port"`
	Model       string `long:"model" env:"WORKSHOP_MODEL" default:"gpt-4o" description:"chat completion model"`
	ContentDir  string `long:"content-dir" env:"WORKSHOP_CONTENT_DIR" default:"content" description:"directory holding the CSV content catalogs"`
	PersonaFile string `long:"persona-file" env:"WORKSHOP_PERSONA_FILE" description:"optional YAML persona catalog overriding the built-in one"`
	EnvFile     string `long:"env-file" default:".env" description:"optional dotenv file"`
	MaxRetries  int    `long:"max-retries" env:"WORKSHOP_MAX_RETRIES" default:"0" description:"extra generation attempts per persona before falling back"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	// Missing dotenv files are fine; real deployments use plain env vars.
	_ = godotenv.Load(opts.EnvFile)

	logger := logging.NewStdLogger()

	personas := persona.DefaultPersonas()
	if opts.PersonaFile != "" {
		loaded, err := persona.LoadFile(opts.PersonaFile)
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		personas = loaded
	}
	registry, err := persona.NewRegistry(personas)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	var completer llm.Completer
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:  apiKey,
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   opts.Model,
		})
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		completer = client
	} else {
		logger.Info("OPENAI_API_KEY not set, personas will answer from their fallback pools")
		completer = llm.NewNoopCompleter()
	}

	generator, err := discussion.NewGenerator(discussion.GeneratorConfig{
		Model:          opts.Model,
		MaxRetries:     opts.MaxRetries,
		RetryBaseDelay: time.Second,
	}, completer, nil, logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	orchestrator := discussion.NewOrchestrator(registry, generator, logger)
	emitter := discussion.NewEmitter(discussion.DefaultPacing())

	generateSvc, err := generate.NewService(generate.Config{Model: opts.Model, MaxRetries: 2}, completer, logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	images := imagegen.NewClient(imagegen.Config{
		APIKey:  os.Getenv("FAL_KEY"),
		BaseURL: os.Getenv("FAL_API_URL"),
	}, logger)

	library, err := content.LoadLibrary(opts.ContentDir, logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	srv := server.New(orchestrator, emitter, generateSvc, images, library, logger)

	application, err := app.New(app.Config{Port: opts.Port}, logger, srv.Handler())
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error(fmt.Sprintf("server stopped: %v", err))
		os.Exit(1)
	}
}
