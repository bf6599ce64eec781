// Package main is the entry point for the roster planning API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hotelops/roster/internal/agenda"
	"github.com/hotelops/roster/internal/assignment"
	"github.com/hotelops/roster/internal/auth"
	"github.com/hotelops/roster/internal/calendar"
	"github.com/hotelops/roster/internal/config"
	"github.com/hotelops/roster/internal/convocation"
	"github.com/hotelops/roster/internal/demand"
	"github.com/hotelops/roster/internal/forecast"
	"github.com/hotelops/roster/internal/handler"
	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/rulesengine"
	"github.com/hotelops/roster/internal/scheduler"
	"github.com/hotelops/roster/internal/stats"
	"github.com/hotelops/roster/internal/suggestion"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	cfg := config.Load()

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	authConfig := &auth.Config{
		DevMode:      cfg.IsDevelopment(),
		JWTSecret:    []byte(cfg.JWT.Secret),
		JWTExpiry:    cfg.JWT.Expiry,
		JWTIssuer:    "roster-api",
		CookieSecure: cfg.IsProduction(),
		FrontendURL:  cfg.FrontendURL,
	}

	jwtManager := auth.NewJWTManager([]byte(cfg.JWT.Secret), "roster-api", cfg.JWT.Expiry)

	if authConfig.IsDevMode() {
		log.Info().Msg("running in dev mode - use /api/v1/auth/dev/login")
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database connection")
		}
	}()
	log.Info().Msg("connected to database")

	// Repositories
	sectorRepo := repository.NewSectorRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	userRepo := repository.NewUserRepository(db)
	agentRunRepo := repository.NewAgentRunRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	convocationRepo := repository.NewConvocationRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)
	agendaRepo := repository.NewAgendaRepository(db)
	demandRepo := repository.NewDemandRepository(db)
	forecastRepo := repository.NewForecastRunRepository(db)
	occupancyRepo := repository.NewOccupancyRepository(db)
	frontdeskRepo := repository.NewFrontdeskRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	_ = repository.NewCalculationRuleRepository(db) // reserved for calculation-rule administration endpoints

	// Engines
	rulesEng := rulesengine.NewEngine(ruleRepo)
	calendarEng := calendar.NewEngine(calendarRepo)
	statsEng := stats.NewEngine(occupancyRepo, frontdeskRepo, statsRepo)
	forecastEng := forecast.NewEngine(sectorRepo, activityRepo, occupancyRepo, statsRepo, forecastRepo, agentRunRepo, rulesEng)
	demandEng := demand.NewEngine(sectorRepo, activityRepo, frontdeskRepo, statsRepo, forecastRepo, demandRepo, agentRunRepo, rulesEng, calendarEng)
	schedulerEng := scheduler.NewEngine(demandRepo, scheduleRepo, statsRepo, sectorRepo, ruleRepo, agentRunRepo)
	assignmentEng := assignment.NewEngine(employeeRepo, scheduleRepo, agentRunRepo, rulesEng)
	agendaEng := agenda.NewEngine(activityRepo, demandRepo, scheduleRepo, agendaRepo, agentRunRepo)
	convocationEng := convocation.NewEngine(convocationRepo, employeeRepo, scheduleRepo, rulesEng, calendarEng)
	suggestionEng := suggestion.NewEngine(scheduleRepo, demandRepo, forecastRepo, suggestionRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo, jwtManager, authConfig)
	userHandler := handler.NewUserHandler(userRepo)
	sectorHandler := handler.NewSectorHandler(sectorRepo)
	employeeHandler := handler.NewEmployeeHandler(employeeRepo)
	activityHandler := handler.NewActivityHandler(activityRepo)
	ruleHandler := handler.NewRuleHandler(ruleRepo, rulesEng)
	calendarHandler := handler.NewCalendarHandler(calendarRepo, calendarEng)
	statsHandler := handler.NewStatsHandler(statsEng)
	forecastHandler := handler.NewForecastHandler(forecastRepo, forecastEng)
	demandHandler := handler.NewDemandHandler(demandRepo, demandEng)
	schedulerHandler := handler.NewSchedulerHandler(scheduleRepo, forecastRepo, demandRepo, schedulerEng, rulesEng)
	assignmentHandler := handler.NewAssignmentHandler(assignmentEng)
	agendaHandler := handler.NewAgendaHandler(agendaRepo, agendaEng)
	convocationHandler := handler.NewConvocationHandler(convocationRepo, scheduleRepo, convocationEng, assignmentEng)
	suggestionHandler := handler.NewSuggestionHandler(suggestionRepo, suggestionEng)
	agentRunHandler := handler.NewAgentRunHandler(agentRunRepo)
	datalakeHandler := handler.NewDatalakeHandler(occupancyRepo, frontdeskRepo)

	sectorMiddleware := middleware.NewSectorMiddleware(sectorRepo, userRepo)
	_ = sectorMiddleware // sector scoping is applied per-route via handlers that already take sector_id
	authzMiddleware := middleware.NewAuthorizationMiddleware(userRepo)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL, "http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Sector-ID", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","version":"1.0.0"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		handler.RegisterAuthRoutes(r, authHandler, jwtManager, authConfig.IsDevMode())

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtManager))
			handler.RegisterUserRoutes(r, userHandler, authzMiddleware)
			handler.RegisterSectorRoutes(r, sectorHandler, authzMiddleware)
			handler.RegisterEmployeeRoutes(r, employeeHandler, authzMiddleware)
			handler.RegisterActivityRoutes(r, activityHandler, authzMiddleware)
			handler.RegisterRuleRoutes(r, ruleHandler, authzMiddleware)
			handler.RegisterCalendarRoutes(r, calendarHandler, authzMiddleware)
			handler.RegisterStatsRoutes(r, statsHandler, authzMiddleware)
			handler.RegisterForecastRoutes(r, forecastHandler, authzMiddleware)
			handler.RegisterDemandRoutes(r, demandHandler, authzMiddleware)
			handler.RegisterSchedulerRoutes(r, schedulerHandler, authzMiddleware)
			handler.RegisterAssignmentRoutes(r, assignmentHandler, authzMiddleware)
			handler.RegisterAgendaRoutes(r, agendaHandler, authzMiddleware)
			handler.RegisterConvocationRoutes(r, convocationHandler, authzMiddleware)
			handler.RegisterSuggestionRoutes(r, suggestionHandler, authzMiddleware)
			handler.RegisterAgentRunRoutes(r, agentRunHandler, authzMiddleware)
			handler.RegisterDatalakeRoutes(r, datalakeHandler, authzMiddleware)
		})

		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"message":"roster planning API v1"}`))
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
