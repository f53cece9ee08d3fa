package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"ordermate/config"
	"ordermate/engine"
	"ordermate/messaging"
	"ordermate/statcache"
	"ordermate/store"
	"ordermate/www"
)

var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "ordermate.yaml", "path to config file")
	flag.Parse()

	if *showVersion {
		fmt.Println("ordermate", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	log.Printf("ordermate: database open (%s)", cfg.Database.Driver)

	if cfg.Seed.AutoSeed {
		if err := db.SeedAll(); err != nil {
			log.Printf("ordermate: seed: %v", err)
		}
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var statStore *statcache.RedisStore
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("ordermate: redis not available (%v), running without cache", err)
	} else {
		log.Printf("ordermate: redis connected (%s)", cfg.Redis.Address)
		statStore = statcache.NewRedisStore(redisClient)
	}
	cancel()
	defer redisClient.Close()

	statMgr := statcache.NewManager(statStore)

	// Messaging client
	msgClient := messaging.NewClient(&cfg.Messaging)
	if cfg.Messaging.Backend != "none" {
		if err := msgClient.Connect(); err != nil {
			log.Printf("ordermate: messaging connect failed (%v)", err)
		} else {
			log.Printf("ordermate: messaging connected (%s)", cfg.Messaging.Backend)
		}
	}
	defer msgClient.Close()

	// Engine
	eng := engine.New(engine.Config{
		AppConfig:  cfg,
		ConfigPath: *configPath,
		DB:         db,
		Stats:      statMgr,
		MsgClient:  msgClient,
	})

	// Web server; building the router registers the stat cache sources,
	// so it must exist before the engine's initial cache sync.
	handler, stopWeb := www.NewRouter(eng)

	eng.Start()
	defer eng.Stop()

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		log.Printf("ordermate: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("web server: %v", err)
		}
	}()

	log.Printf("ordermate: ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("ordermate: shutting down...")
	stopWeb()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	log.Printf("ordermate: stopped")
}
