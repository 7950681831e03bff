package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/justsurfingit/talent-crm/internal/auth"
	"github.com/justsurfingit/talent-crm/internal/config"
	"github.com/justsurfingit/talent-crm/internal/database"
	"github.com/justsurfingit/talent-crm/internal/extractor"
	"github.com/justsurfingit/talent-crm/internal/handlers"
	"github.com/justsurfingit/talent-crm/internal/logger"
	"github.com/justsurfingit/talent-crm/internal/services"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func main() {
	// 1. Configuration
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Logging
	zl, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Database
	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}

	// 4. LLM (optional: AI endpoints answer 503 without it)
	var (
		llm          *services.LLMService
		resumeParser services.ResumeParser
		analyzer     services.EmailAnalyzer
	)
	if llm, err = services.NewLLMService(ctx, cfg, zl); err != nil {
		zl.Warn("AI features disabled", zap.Error(err))
	} else {
		resumeParser = llm
		analyzer = llm
	}

	// 5. Google Workspace
	var (
		gmailService    *gmail.Service
		calendarService *calendar.Service
	)
	if cfg.GmailEnabled || cfg.CalendarID != "" {
		httpClient, err := auth.GoogleClient(ctx, cfg.GoogleCredentialsFile, cfg.GoogleTokenFile,
			os.Stdin, os.Stdout, gmail.GmailReadonlyScope, calendar.CalendarEventsScope)
		if err != nil {
			zl.Warn("google workspace disabled", zap.Error(err))
		} else {
			if cfg.GmailEnabled {
				if gmailService, err = gmail.NewService(ctx, option.WithHTTPClient(httpClient)); err != nil {
					zl.Warn("failed to create gmail service", zap.Error(err))
				}
			}
			if cfg.CalendarID != "" {
				if calendarService, err = calendar.NewService(ctx, option.WithHTTPClient(httpClient)); err != nil {
					zl.Warn("failed to create calendar service", zap.Error(err))
				}
			}
		}
	}

	// 6. Services
	jobService := services.NewJobService(db)
	companyService := services.NewCompanyService(db)
	candidateService := services.NewCandidateService(db, zl)
	dealService := services.NewDealService(db, zl)
	interviewService := services.NewInterviewService(db, calendarService, cfg.CalendarID, zl)
	textExtractor := extractor.New(zl.Named("extractor"), extractor.WithMaxInputBytes(int(cfg.MaxUploadBytes)))
	resumeService := services.NewResumeService(textExtractor, resumeParser, candidateService, zl.Named("resume"))

	// 7. Inbox watcher
	emailService := services.NewEmailService(db, analyzer, gmailService, services.NewMatcherService(db), zl.Named("inbox"))
	emailService.StartWatcher(ctx)

	// 8. Router
	router := handlers.NewRouter(handlers.Handlers{
		Jobs:       handlers.NewJobHandler(llm, jobService),
		Companies:  handlers.NewCompanyHandler(companyService),
		Candidates: handlers.NewCandidateHandler(candidateService, resumeService, cfg.MaxUploadBytes),
		Deals:      handlers.NewDealHandler(dealService),
		Interviews: handlers.NewInterviewHandler(interviewService),
	}, cfg.CORSAllowOrigins)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.Int("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	zl.Info("server stopped")
}
