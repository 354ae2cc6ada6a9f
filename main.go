package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

func main() {
	portFlag := flag.Int("port", 0, "port to listen on (overrides TAURI_WEBDRIVER_PORT and config file)")
	flag.Parse()

	cfg, err := LoadConfig(*portFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := os.MkdirAll(cfg.ProfileDir, 0755); err != nil {
		log.Fatalf("create profile dir: %v", err)
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	backend, err := newChromeBackend(bootCtx, cfg)
	bootCancel()
	if err != nil {
		log.Fatalf("start Chrome: %v", err)
	}

	srvState := &serverState{
		sessions:  newSessionManager(cfg.SessionDefaultTimeouts()),
		backend:   backend,
		cfg:       cfg,
		dashboard: NewDashboard(),
	}

	router := buildRouter(srvState)
	httpServer := &http.Server{
		Addr:    "127.0.0.1:" + strconv.Itoa(cfg.Port),
		Handler: router,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("shutting down, draining active session...")
		drainActiveSession(srvState)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := backend.Close(shutdownCtx); err != nil {
			log.Printf("backend close: %v", err)
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("wd-bridge running on http://127.0.0.1:%d", cfg.Port)
	if cfg.Token != "" {
		log.Println("auth: bearer token required")
	} else {
		log.Println("auth: none (set PINCHTAB_TOKEN to enable)")
	}
	log.Printf("headless: %v, profile: %s", cfg.Headless, cfg.ProfileDir)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// drainActiveSession tears down whatever session is live when a shutdown
// signal arrives, so its pending alert and async scripts don't leak past
// process exit.
func drainActiveSession(srv *serverState) {
	sess := srv.sessions.Active()
	if sess == nil {
		return
	}
	_ = srv.sessions.Delete(sess.ID)
}
