package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"polyterminal/internal/config"
	cronrunner "polyterminal/internal/cron"
	"polyterminal/internal/db"
	"polyterminal/internal/gamma"
	"polyterminal/internal/handler"
	"polyterminal/internal/logger"
	gormrepository "polyterminal/internal/repository/gorm"
	"polyterminal/internal/sync"
)

type cliFlags struct {
	configPath string

	loadTags          bool
	loadEvents        bool
	loadMarkets       bool
	loadSeries        bool
	loadRelationships bool
	loadComments      bool
	loadAll           bool
	enrich            bool
	daily             bool

	deleteTags     bool
	deleteEvents   bool
	deleteMarkets  bool
	deleteSeries   bool
	deleteComments bool

	stats bool
	serve bool
}

func parseFlags() cliFlags {
	var f cliFlags
	defaultCfg := os.Getenv("PM_CONFIG")
	if defaultCfg == "" {
		defaultCfg = "config/config.yaml"
	}
	flag.StringVar(&f.configPath, "config", defaultCfg, "path to config file")
	flag.BoolVar(&f.loadTags, "load-tags", false, "bulk load tags")
	flag.BoolVar(&f.loadEvents, "load-events", false, "bulk load events (with nested markets)")
	flag.BoolVar(&f.loadMarkets, "load-markets", false, "reload markets from stored events")
	flag.BoolVar(&f.loadSeries, "load-series", false, "bulk load series")
	flag.BoolVar(&f.loadRelationships, "load-relationships", false, "load related-tags edges for stored tags")
	flag.BoolVar(&f.loadComments, "load-comments", false, "load recent comments for stored events and markets")
	flag.BoolVar(&f.loadAll, "all", false, "full dependency-ordered load")
	flag.BoolVar(&f.enrich, "enrich", false, "refetch stored entities by id for detail fields")
	flag.BoolVar(&f.daily, "daily", false, "run the daily scan (open catalog refresh)")
	flag.BoolVar(&f.deleteTags, "delete-tags", false, "delete all tags (and their edges)")
	flag.BoolVar(&f.deleteEvents, "delete-events", false, "delete all events (cascades markets and edges)")
	flag.BoolVar(&f.deleteMarkets, "delete-markets", false, "delete all markets")
	flag.BoolVar(&f.deleteSeries, "delete-series", false, "delete all series")
	flag.BoolVar(&f.deleteComments, "delete-comments", false, "delete all comments (cascades reactions)")
	flag.BoolVar(&f.stats, "stats", false, "print table counts")
	flag.BoolVar(&f.serve, "serve", false, "run the HTTP server and cron scheduler")
	flag.Parse()
	return f
}

func (f cliFlags) hasAction() bool {
	return f.loadTags || f.loadEvents || f.loadMarkets || f.loadSeries ||
		f.loadRelationships || f.loadComments || f.loadAll || f.enrich || f.daily ||
		f.deleteTags || f.deleteEvents || f.deleteMarkets || f.deleteSeries ||
		f.deleteComments || f.stats
}

func main() {
	flags := parseFlags()

	envOnly := false
	if raw := os.Getenv("PM_ENV_ONLY"); raw != "" {
		envOnly = strings.EqualFold(raw, "true") || raw == "1"
	}

	cfg, err := config.Load(flags.configPath, envOnly)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		log.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		log.Fatal("auto-migrate failed", zap.Error(err))
	}

	gammaHTTP := &http.Client{Timeout: cfg.Gamma.Timeout}
	gammaClient := gamma.NewClient(gammaHTTP, gamma.Options{
		BaseURL:      cfg.Gamma.BaseURL,
		RequestDelay: cfg.Gamma.RequestDelay,
		MaxRetries:   cfg.Gamma.MaxRetries,
		RetryBackoff: cfg.Gamma.RetryBackoff,
	})
	store := gormrepository.New(dbConn.Gorm)
	syncService := &sync.Service{
		Store:  store,
		Gamma:  gammaClient,
		Logger: log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if flags.hasAction() {
		if code := runActions(ctx, flags, cfg, syncService, store, log); code != 0 {
			os.Exit(code)
		}
		if !flags.serve {
			return
		}
	}

	serve(ctx, cfg, syncService, store, dbConn, log)
}

func syncOptions(cfg config.Config) sync.Options {
	var closed *bool
	if !cfg.Sync.FetchClosed {
		open := false
		closed = &open
	}
	return sync.Options{
		Limit:         cfg.Sync.PageLimit,
		MaxPages:      cfg.Sync.MaxPages,
		Resume:        cfg.Sync.Resume,
		Closed:        closed,
		IncludeChat:   true,
		Tags:          cfg.Sync.FetchTags,
		Series:        cfg.Sync.FetchSeries,
		Relationships: cfg.Sync.TagRelationships,
		Comments:      cfg.Sync.FetchComments,
		Enrich:        cfg.Sync.EnrichDetails,
	}
}

// runActions executes the requested one-shot operations: deletes first, then
// loads in dependency order, enrichment last. The first hard failure stops
// the run and yields a non-zero exit code.
func runActions(ctx context.Context, flags cliFlags, cfg config.Config, svc *sync.Service, store *gormrepository.Store, log *zap.Logger) int {
	opts := syncOptions(cfg)

	deletes := []struct {
		enabled bool
		name    string
		run     func(context.Context) (int64, error)
	}{
		{flags.deleteComments, "comments", store.DeleteAllComments},
		{flags.deleteMarkets, "markets", store.DeleteAllMarkets},
		{flags.deleteEvents, "events", store.DeleteAllEvents},
		{flags.deleteSeries, "series", store.DeleteAllSeries},
		{flags.deleteTags, "tags", store.DeleteAllTags},
	}
	for _, d := range deletes {
		if !d.enabled {
			continue
		}
		n, err := d.run(ctx)
		if err != nil {
			log.Error("delete failed", zap.String("table", d.name), zap.Error(err))
			return 1
		}
		log.Info("deleted", zap.String("table", d.name), zap.Int64("rows", n))
	}

	loads := []struct {
		enabled bool
		run     func(context.Context, sync.Options) (sync.Result, error)
	}{
		{flags.loadTags, svc.SyncTags},
		{flags.loadEvents, svc.SyncEvents},
		{flags.loadMarkets, svc.SyncMarkets},
		{flags.loadRelationships, svc.SyncTagRelationships},
		{flags.loadSeries, svc.SyncSeries},
		{flags.loadComments, svc.SyncComments},
	}
	for _, l := range loads {
		if !l.enabled {
			continue
		}
		if _, err := l.run(ctx, opts); err != nil {
			if errors.Is(err, sync.ErrNoEvents) {
				log.Error("markets need stored events; run -load-events first")
			}
			return 1
		}
	}

	if flags.loadAll {
		if _, err := svc.RunAll(ctx, opts); err != nil {
			return 1
		}
	}
	if flags.daily {
		if _, err := svc.DailyScan(ctx, opts); err != nil {
			return 1
		}
	}
	if flags.enrich {
		enrichers := []func(context.Context, sync.Options) (sync.Result, error){
			svc.EnrichTags,
			svc.EnrichEvents,
			svc.EnrichMarkets,
			svc.EnrichSeries,
		}
		for _, run := range enrichers {
			if _, err := run(ctx, opts); err != nil {
				return 1
			}
		}
	}

	if flags.stats {
		counts, err := store.TableCounts(ctx)
		if err != nil {
			log.Error("stats failed", zap.Error(err))
			return 1
		}
		payload, _ := json.MarshalIndent(counts, "", "  ")
		os.Stdout.Write(append(payload, '\n'))
	}
	return 0
}

func serve(ctx context.Context, cfg config.Config, svc *sync.Service, store *gormrepository.Store, dbConn *db.DB, log *zap.Logger) {
	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	catalogHandler := &handler.CatalogHandler{
		Sync:   svc,
		Store:  store,
		Logger: log,
	}
	catalogHandler.Register(engine)

	cronRunner := cronrunner.New(log, ctx)
	if cfg.Cron.Enabled {
		opts := syncOptions(cfg)
		if _, err := cronRunner.Add(cfg.Cron.DailyScan, func(ctx context.Context) {
			if _, err := svc.DailyScan(ctx, opts); err != nil {
				log.Warn("cron daily scan failed", zap.Error(err))
			}
		}); err != nil {
			log.Fatal("cron add failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}
	go func() {
		log.Info("http server started", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown failed", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
