package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/h2o/internal/config"
	http_controllers "github.com/mrlokans/h2o/internal/http"
	"github.com/mrlokans/h2o/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting h2o v%s", version)

	if cfg.Obsidian.DeliveryMode == config.DeliveryModeFile {
		checkVaultDir(cfg.Obsidian.VaultDir)
	}

	source, err := NewLibrarySource(cfg.Calibre)
	if err != nil {
		log.Fatalf("Failed to open calibre library: %v", err)
	}
	launcher, err := NewLauncher(cfg.Obsidian)
	if err != nil {
		log.Fatalf("Failed to set up delivery: %v", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Close()
	sendService := app.NewSender(source, launcher)

	autoSend := scheduler.NewAutoSendScheduler(app.Settings, sendService)
	schedCtx, schedCancel := context.WithCancel(context.Background())
	if err := autoSend.Start(schedCtx); err != nil {
		log.Printf("WARNING: Failed to start auto send scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:  app.DB,
		Version:   version,
		Settings:  app.Settings,
		Sender:    sendService,
		History:   app.History,
		Scheduler: autoSend,
	})

	onShutdown := func(ctx context.Context) {
		autoSend.Stop()
		schedCancel()
	}

	Serve(router, cfg, onShutdown)
}

// checkVaultDir fails fast when the vault directory for file delivery is
// missing or not writable.
func checkVaultDir(dir string) {
	log.Printf("Checking vault directory: %s\n", dir)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Fatalf("Vault directory %s does not exist", dir)
	}

	probe, err := os.CreateTemp(dir, ".h2o-*")
	if err != nil {
		log.Fatalf("Vault directory %s is not writable", dir)
	}
	probe.Close()
	if err := os.Remove(probe.Name()); err != nil {
		log.Printf("WARNING: could not remove %s: %v", probe.Name(), err)
	}
}
