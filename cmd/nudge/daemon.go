package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fentz26/nudge/internal/audit"
	"github.com/fentz26/nudge/internal/config"
	"github.com/fentz26/nudge/internal/dispatcher"
	"github.com/fentz26/nudge/internal/gateway"
	"github.com/fentz26/nudge/internal/interpreter"
	"github.com/fentz26/nudge/internal/notify"
	"github.com/fentz26/nudge/internal/store"
	"github.com/spf13/cobra"
)

var (
	listenAddr string
	dbPath     string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the nudge daemon",
	Long:  `Starts the nudge daemon: the HTTP message gateway plus the due-reminder dispatcher.`,
	RunE:  runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address for the API server (overrides config)")
	daemonCmd.Flags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
}

// loadAgentConfig resolves the config file, honoring the --config flag.
func loadAgentConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadFromHome()
}

// buildInterpreter constructs the interpreter from config.
func buildInterpreter(cfg *config.Config) *interpreter.Interpreter {
	return interpreter.New(interpreter.Options{
		AgentName:   cfg.AgentName,
		WakePhrases: cfg.WakePhrases,
		Window: interpreter.Window{
			Duration: cfg.AttentiveWindow(),
			Sliding:  cfg.SlidingWindow,
		},
		MinConfidence: cfg.MinConfidence,
	})
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log.Println("Starting nudge daemon...")

	cfg, err := loadAgentConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	// Initialize store
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return err
	}

	// Initialize components
	recorder := audit.NewRecorder(s)
	interp := buildInterpreter(cfg)
	notifier := notify.NewConsole(nil)

	// Create service and server
	service := gateway.NewService(s, interp, recorder, cfg.DefaultLocale, cfg.MaxRemindersPerUser)
	server := gateway.NewServer(service, cfg.ListenAddr)

	// Create and start dispatcher
	disp := dispatcher.New(s, notifier, cfg.PollInterval())
	disp.Start()
	defer disp.Stop()

	// Periodic sweep keeps the session map from growing unbounded.
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go func() {
		ticker := time.NewTicker(cfg.AttentiveWindow())
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				interp.Sessions().Sweep(time.Now().UTC())
			}
		}
	}()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		err := server.Start()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-serverErr:
		if err != nil {
			log.Printf("Server error: %v", err)
			s.Close()
			return err
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Println("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Closing database connection...")
	if err := s.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}
