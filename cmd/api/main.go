package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecaldwell/cipher/internal/api"
	"github.com/ecaldwell/cipher/internal/api/handlers"
	"github.com/ecaldwell/cipher/internal/auth"
	"github.com/ecaldwell/cipher/internal/bank"
	"github.com/ecaldwell/cipher/internal/config"
	"github.com/ecaldwell/cipher/internal/decoy"
	"github.com/ecaldwell/cipher/internal/docstore"
	"github.com/ecaldwell/cipher/internal/insight"
	"github.com/ecaldwell/cipher/internal/jobs"
	"github.com/ecaldwell/cipher/internal/jobs/inmemory"
	"github.com/ecaldwell/cipher/internal/keystore"
	"github.com/ecaldwell/cipher/internal/logger"
	"github.com/ecaldwell/cipher/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Local encrypted keystore backing the session store.
	ks, err := keystore.Open(filepath.Clean(cfg.Keystore.Path), cfg.Keystore.Passphrase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open keystore")
	}
	sessions := session.NewStore(ks)

	// Identity provider.
	identity, err := auth.NewFirebaseIdentity(ctx, cfg.Firebase.ProjectID, cfg.Firebase.WebAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize identity provider")
	}
	gateway := auth.NewGateway(identity, sessions, log)

	// Document store: Firestore, falling back to memory for local runs.
	var store docstore.Store
	if cfg.Firebase.ProjectID != "" {
		fs, err := docstore.NewFirestoreStore(ctx, cfg.Firebase.ProjectID, cfg.Firestore.Collection)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Firestore store")
		}
		defer fs.Close()
		store = fs
	} else {
		log.Warn().Msg("No Firebase project configured - using in-memory data store")
		store = docstore.NewMemory()
	}

	decoyStore := decoy.NewStore()

	bankClient := bank.NewClient(cfg.Nessie.BaseURL, cfg.Nessie.APIKey)

	// Model behind the analysis worker.
	model, err := insight.NewGeminiModel(ctx, cfg.Gemini.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create model client")
	}
	generator := insight.NewGenerator(model, cfg.Gemini.CallDelay, cfg.Gemini.Concurrent, log)

	// Job infrastructure for analysis runs.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job *jobs.AnalysisJob) error {
		log.Info().
			Str("job_id", job.JobID).
			Str("user_id", job.UserID).
			Msg("Processing analysis run")

		result, err := generator.Analyze(ctx, insight.Request{
			Transactions: job.Transactions,
			Location:     job.Location,
			Dependents:   job.Dependents,
		})
		if err != nil {
			log.Error().Err(err).Str("job_id", job.JobID).Msg("Analysis run failed")
			return err
		}

		job.Result = result

		log.Info().
			Str("job_id", job.JobID).
			Bool("plan_parsed", result.Plan != nil).
			Msg("Analysis run completed")

		return nil
	}

	go func() {
		log.Info().Msg("Starting analysis worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Analysis worker stopped with error")
		}
	}()

	isDecoy := gateway.IsDecoy

	authHandler := handlers.NewAuthHandler(gateway, log)
	txHandler := handlers.NewTransactionsHandler(store, decoyStore, bankClient, isDecoy, log)
	analysisHandler := handlers.NewAnalysisHandler(jobQueue, jobStore, store, decoyStore, isDecoy, log)
	savingsHandler := handlers.NewSavingsHandler(store, decoyStore, isDecoy, log)

	router := api.NewRouter(authHandler, txHandler, analysisHandler, savingsHandler, log)

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.App.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
