package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/Tarynjenifer/smartgrow-ai/internal/chat"
	"github.com/Tarynjenifer/smartgrow-ai/internal/clock"
	"github.com/Tarynjenifer/smartgrow-ai/internal/config"
	"github.com/Tarynjenifer/smartgrow-ai/internal/content"
	"github.com/Tarynjenifer/smartgrow-ai/internal/dashboard"
	"github.com/Tarynjenifer/smartgrow-ai/internal/httpmw"
	"github.com/Tarynjenifer/smartgrow-ai/internal/suggest"
	"github.com/Tarynjenifer/smartgrow-ai/internal/task"
	"github.com/Tarynjenifer/smartgrow-ai/internal/telemetry"
	"github.com/Tarynjenifer/smartgrow-ai/internal/ui"
	staticfiles "github.com/Tarynjenifer/smartgrow-ai/static"
)

const maxEvents = 10000

type Options struct {
	Config *config.Config
	// Content defaults to Config.Content when set, otherwise the embedded
	// tables.
	Content       *content.Content
	Clock         clock.Clock
	StaticDir     string
	UseDiskStatic bool
	Logger        *zap.Logger
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = opts.Config.Server.StaticDir
	}
	if opts.Content == nil {
		c, err := LoadContent(opts.Config)
		if err != nil {
			return nil, err
		}
		opts.Content = c
	}
	cfg := opts.Config
	logger := opts.Logger

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic || cfg.Server.DevStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "smartgrow",
			"time":    opts.Clock.Now().UTC().Format(time.RFC3339),
		})
	})

	rr := &RouteRegistry{}

	events := telemetry.NewMemoryRepository(opts.Clock, maxEvents)
	Handle(mux, rr, "GET", "/api/stats", "Usage counters since an optional ?since=YYYY-MM-DD", "", telemetry.NewHandler(events).Stats)

	taskRepo := task.NewMemoryRepo(
		task.WithClock(opts.Clock),
		task.WithRecorder(events),
		task.WithLogger(logger.Named("task")),
	)
	seed := opts.Content.Seed()
	if err := taskRepo.Reset(context.Background(), seed); err != nil {
		return nil, fmt.Errorf("seed tasks: %w", err)
	}
	taskHandler := task.NewHandler(taskRepo)
	taskHandler.SetSeed(seed)
	taskHandler.SetUpcomingLimit(cfg.Planner.UpcomingLimit)
	taskHandler.SetIgnoreMissing(cfg.IgnoreMissingIDs())
	taskHandler.SetLogger(logger.Named("task"))
	Handle(mux, rr, "GET POST", "/api/tasks", "List tasks (?status=&type=&zone=) or create one", `{"title":"Water Tomato Plants","type":"watering","crop":"Tomatoes","zone":"Zone B","date":"2024-12-22"}`, taskHandler.TasksRoot)
	Handle(mux, rr, "GET POST PUT PATCH DELETE", "/api/tasks/", "Task by id, {id}/status, upcoming, counts and reset", `{"status":"in-progress"}`, taskHandler.TasksSub)

	chatService := chat.NewService(chat.Options{
		Script:     opts.Content.Chat,
		Clock:      opts.Clock,
		ReplyDelay: cfg.ReplyDelay(),
		Events:     events,
		Logger:     logger.Named("chat"),
	})
	Handle(mux, rr, "GET POST DELETE", "/api/chat/", "Conversation messages, quick questions and one-shot answers", `{"text":"How often should I water plants?"}`, chat.NewHandler(chatService).Sub)

	panel := suggest.NewPanel(suggest.Options{
		Catalog: opts.Content.Suggestions,
		Clock:   opts.Clock,
		Delay:   cfg.SuggestDelay(),
		Events:  events,
		Logger:  logger.Named("suggest"),
	})
	Handle(mux, rr, "GET POST DELETE", "/api/suggest/", "Parameter ranges and crop suggestions per panel", `{"temperature":24,"humidity":65,"ph":6.5,"area":10,"soil_type":"hydroponic","experience":"beginner"}`, suggest.NewHandler(panel).Sub)

	dash := dashboard.NewService(opts.Content.Dashboard, opts.Content.Home, taskRepo, cfg.Planner.UpcomingLimit)
	dashHandler := dashboard.NewHandler(dash)
	Handle(mux, rr, "GET", "/api/dashboard", "Environment tables, metrics, alerts and planner summary", "", dashHandler.Dashboard)
	Handle(mux, rr, "GET", "/api/home", "Home page features and stats", "", dashHandler.Home)

	Handle(mux, rr, "GET", "/api/config", "Effective configuration", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})

	mux.HandleFunc("/api/routes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rr.List())
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := taskRepo.Counts(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "smartgrow",
			"time":    opts.Clock.Now().UTC().Format(time.RFC3339),
		})
	})

	pages, err := ui.NewPages()
	if err != nil {
		return nil, err
	}
	home := templ.Handler(pages.HomePage(opts.Content.Home))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		home.ServeHTTP(w, r)
	}))
	mux.Handle("/dashboard", templ.Handler(pages.DashboardPage(dash)))
	mux.Handle("/planner", templ.Handler(pages.PlannerPage()))
	mux.Handle("/chat", templ.Handler(pages.ChatPage(chatService.QuickQuestions())))
	mux.Handle("/suggest", templ.Handler(pages.SuggestPage()))

	logger.Info("handler ready",
		zap.Int("seed_tasks", len(seed)),
		zap.Int("chat_rules", len(opts.Content.Chat.Rules)),
		zap.Int("suggestions", len(opts.Content.Suggestions)),
		zap.Bool("disk_static", opts.UseDiskStatic || cfg.Server.DevStatic),
	)

	return httpmw.Chain(
		mux,
		httpmw.WithRequestID,
		httpmw.WithAccessLog(logger.Named("http")),
		httpmw.WithRecover(logger.Named("http")),
		httpmw.WithCORS(cfg.Server.CORS.AllowedOrigins),
	), nil
}

// LoadContent returns the content named by cfg.Content, or the embedded
// tables when none is configured.
func LoadContent(cfg *config.Config) (*content.Content, error) {
	if cfg != nil && strings.TrimSpace(cfg.Content) != "" {
		c, err := content.LoadFile(cfg.Content)
		if err != nil {
			return nil, fmt.Errorf("load content %s: %w", cfg.Content, err)
		}
		return c, nil
	}
	return content.Load()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
