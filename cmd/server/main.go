// Command server runs the Mind180 coaching API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/neomind180-byte/neomind180-sub000/internal/ai"
	"github.com/neomind180-byte/neomind180-sub000/internal/config"
	"github.com/neomind180-byte/neomind180-sub000/internal/database"
	"github.com/neomind180-byte/neomind180-sub000/internal/httputil"
	"github.com/neomind180-byte/neomind180-sub000/internal/logging"
	"github.com/neomind180-byte/neomind180-sub000/internal/mail"
	"github.com/neomind180-byte/neomind180-sub000/internal/metrics"
	"github.com/neomind180-byte/neomind180-sub000/internal/middleware"
	"github.com/neomind180-byte/neomind180-sub000/internal/navigation"
	"github.com/neomind180-byte/neomind180-sub000/services/checkin"
	checkinsupabase "github.com/neomind180-byte/neomind180-sub000/services/checkin/supabase"
	"github.com/neomind180-byte/neomind180-sub000/services/coachdesk"
	coachsupabase "github.com/neomind180-byte/neomind180-sub000/services/coachdesk/supabase"
	"github.com/neomind180-byte/neomind180-sub000/services/library"
	librarysupabase "github.com/neomind180-byte/neomind180-sub000/services/library/supabase"
	"github.com/neomind180-byte/neomind180-sub000/services/profile"
	profilesupabase "github.com/neomind180-byte/neomind180-sub000/services/profile/supabase"
	"github.com/neomind180-byte/neomind180-sub000/services/reflection"
	reflectionsupabase "github.com/neomind180-byte/neomind180-sub000/services/reflection/supabase"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	dbClient, err := database.NewClient(database.Config{
		URL:        cfg.Supabase.URL,
		AnonKey:    cfg.Supabase.AnonKey,
		ServiceKey: cfg.Supabase.ServiceKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("supabase client")
	}
	baseRepo := database.NewRepository(dbClient)

	aiClient := newAIClient(cfg, log)
	mailer := newMailer(cfg, log)

	sections, err := navigation.LoadSections(cfg.Server.SectionsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load navigation sections")
	}

	profileSvc, err := profile.New(profilesupabase.NewRepository(baseRepo), sections, logging.Component(log, "profile"))
	if err != nil {
		log.Fatal().Err(err).Msg("profile service")
	}

	checkinSvc, err := checkin.New(checkin.Config{
		AI:  aiClient,
		DB:  checkinsupabase.NewRepository(baseRepo),
		Log: logging.Component(log, "checkin"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("checkin service")
	}

	reflectionSvc, err := reflection.New(reflection.Config{
		AI:  aiClient,
		DB:  reflectionsupabase.NewRepository(baseRepo),
		Log: logging.Component(log, "reflection"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("reflection service")
	}
	reflectionHandler := reflection.NewHandler(reflectionSvc, profileSvc)

	coachdeskSvc, err := coachdesk.New(coachdesk.Config{
		DB:         coachsupabase.NewRepository(baseRepo),
		Mailer:     mailer,
		CoachEmail: cfg.Mail.CoachAddress,
		SiteURL:    cfg.Server.SiteURL,
		Log:        logging.Component(log, "coachdesk"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("coachdesk service")
	}

	librarySvc, err := library.New(librarysupabase.NewRepository(baseRepo), profileSvc)
	if err != nil {
		log.Fatal().Err(err).Msg("library service")
	}

	auth := middleware.NewAuth(cfg.Supabase.JWTSecret, dbClient, logging.Component(log, "auth"))

	r := mux.NewRouter()
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// mux runs middleware only after a route matches, and the API routes
	// are method-specific, so preflights need their own matcher to reach
	// the CORS handler.
	r.PathPrefix("/api").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Anonymous-capable endpoints: session identity is attached when a
	// valid token is present, and handlers requiring one enforce it.
	open := r.PathPrefix("/api").Subrouter()
	open.Use(instrument("api"), auth.Optional)
	checkinSvc.Routes(open)
	reflectionHandler.Routes(open)
	librarySvc.Routes(open)
	coachdeskSvc.PublicRoutes(open)

	// Session-required endpoints.
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(instrument("api"), auth.Require)
	profileSvc.Routes(authed)
	coachdeskSvc.Routes(authed)

	// Coach-role endpoints.
	coach := r.PathPrefix("/api").Subrouter()
	coach.Use(instrument("coach"), auth.Require, middleware.RequireCoach)
	coachdeskSvc.CoachRoutes(coach)

	// Database-webhook endpoints authenticated by the static token.
	webhook := r.PathPrefix("/api").Subrouter()
	webhook.Use(instrument("webhook"), middleware.StaticToken(cfg.Notify.StaticToken))
	coachdeskSvc.WebhookRoutes(webhook)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// newAIClient picks the configured text-generation provider. A missing
// key is not fatal here: the clients report it per request.
func newAIClient(cfg *config.Config, log zerolog.Logger) ai.Client {
	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.GeminiKey == "" {
			log.Warn().Msg("GEMINI_API_KEY not set; AI endpoints will report a missing key")
		}
		return ai.NewGeminiClient(cfg.AI.GeminiKey, cfg.AI.GeminiModel)
	default:
		if cfg.AI.OpenAIKey == "" {
			log.Warn().Msg("OPENAI_API_KEY not set; AI endpoints will report a missing key")
		}
		return ai.NewOpenAIClient(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel)
	}
}

// newMailer prefers Resend and falls back to SMTP. Missing credentials
// surface per send, not at startup.
func newMailer(cfg *config.Config, log zerolog.Logger) mail.Sender {
	if cfg.Mail.ResendKey != "" {
		return mail.NewResendSender(cfg.Mail.ResendKey, cfg.Mail.From)
	}
	if cfg.Mail.SMTPHost == "" {
		log.Warn().Msg("no email provider configured; mail endpoints will report missing credentials")
	}
	return mail.NewSMTPSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUsername, cfg.Mail.SMTPPassword, cfg.Mail.From)
}

// instrument names a route group for request metrics.
func instrument(name string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return metrics.Instrument(name, next)
	}
}
