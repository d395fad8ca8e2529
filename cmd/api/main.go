package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/aicodepro/landing-api/internal/config"
	"github.com/aicodepro/landing-api/internal/entity"
	"github.com/aicodepro/landing-api/internal/infra/backup"
	"github.com/aicodepro/landing-api/internal/infra/database"
	"github.com/aicodepro/landing-api/internal/infra/http/handlers"
	mw "github.com/aicodepro/landing-api/internal/infra/http/middleware"
	"github.com/aicodepro/landing-api/internal/infra/integration/airtable"
	"github.com/aicodepro/landing-api/internal/infra/mail"
	"github.com/aicodepro/landing-api/internal/infra/memory"
	"github.com/aicodepro/landing-api/internal/infra/queue"
	"github.com/aicodepro/landing-api/internal/infra/worker"
	"github.com/aicodepro/landing-api/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Stores
	memStore := memory.NewStore(cfg.QualificationTTL)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()
	}

	var airtableClient *airtable.Client
	if cfg.AirtableConfigured() {
		airtableClient = airtable.NewClient(cfg.AirtableAPIKey, cfg.AirtableBaseID, cfg.AirtableTable)
	}

	primary, secondary := selectBackends(cfg, db, airtableClient, memStore)
	log.Printf("lead store chain: primary=%s secondary=%v", primary.Name(), secondaryName(secondary))

	var qualStore entity.QualificationStore = memStore
	if db != nil {
		qualStore = database.NewQualificationRepository(db)
	}

	backupStore := backup.NewFileStore(cfg.BackupPath)

	// 2. Queue + mail (both optional; the pipeline works without them)
	var rabbitMQ *queue.RabbitMQ
	var producer usecase.QueueProducerInterface
	if cfg.RabbitConfigured() {
		var err error
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
		if err != nil {
			log.Fatalf("rabbitmq connection failed: %v", err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()

		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		var mailSender queue.ConfirmationSender
		if cfg.MailConfigured() {
			mailSender = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass)
		}

		notifWorker := queue.NewWorker(rabbitMQ.Ch, mailSender)
		go notifWorker.Start(queue.QueueName)
	}

	// 3. Background sweep for stale qualifications
	if db != nil {
		expiryWorker := worker.NewQualificationExpiryWorker(db, cfg.QualificationTTL)
		go expiryWorker.Start(ctx)
	}

	// 4. UseCases
	submitUC := usecase.NewSubmitLeadUseCase(primary, secondary, qualStore, backupStore, producer)
	recordUC := usecase.NewRecordQualificationUseCase(qualStore)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(submitUC)
	partialHandler := handlers.NewPartialLeadHandler(recordUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitConnOrNil(rabbitMQ), cfg.AirtableConfigured())

	// 6. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Post("/partial-lead", partialHandler.HandleRecord)
	r.Post("/submit-lead", leadHandler.HandleSubmit)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🔥 AI Code Pro leads API running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// selectBackends maps the configured primary to a concrete store and picks
// the remaining remote as the secondary in the fallback chain.
func selectBackends(cfg *config.Config, db *sql.DB, airtableClient *airtable.Client, memStore *memory.Store) (entity.LeadStore, entity.LeadStore) {
	var pgStore entity.LeadStore
	if db != nil {
		pgStore = database.NewLeadRepository(db)
	}

	switch cfg.PrimaryBackend {
	case "postgres":
		if pgStore == nil {
			log.Fatal("PRIMARY_BACKEND=postgres but DATABASE_URL is not set")
		}
		if airtableClient != nil {
			return pgStore, airtableClient
		}
		return pgStore, nil
	case "airtable":
		if airtableClient == nil {
			log.Fatal("PRIMARY_BACKEND=airtable but Airtable credentials are not set")
		}
		return airtableClient, pgStore
	case "memory":
		return memStore, nil
	default:
		log.Fatalf("unknown PRIMARY_BACKEND %q", cfg.PrimaryBackend)
		return nil, nil
	}
}

func secondaryName(s entity.LeadStore) string {
	if s == nil {
		return "none"
	}
	return s.Name()
}

func rabbitConnOrNil(r *queue.RabbitMQ) *amqp091.Connection {
	if r == nil {
		return nil
	}
	return r.Conn
}
