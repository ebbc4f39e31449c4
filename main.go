package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"svenbot/clients"
	"svenbot/config"
	"svenbot/handlers"
	"svenbot/services/rolepolicy"
	"svenbot/tasks"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	publicKey, err := hex.DecodeString(cfg.DiscordConfig.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to decode public key: %w", err)
	}
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("public key has wrong length %d", len(publicKey))
	}

	httpClient := clients.NewHTTPClient(cfg.DiscordConfig.BotToken)
	discordClient := clients.NewDiscordClient(httpClient, clients.DefaultDiscordAPIBase)
	archubClient := clients.NewArchubClient(httpClient,
		clients.DefaultArchubAPIBase, clients.DefaultHubBaseURL, clients.DefaultArchubSiteBase,
		cfg.ArchubConfig.Token)
	githubClient := clients.NewGitHubClient(httpClient, clients.DefaultGitHubAPIBase, cfg.GitHubConfig.Token)
	steamClient := clients.NewSteamClient(httpClient,
		cfg.SteamConfig.RepoURL, clients.DefaultWorkshopAPIBase, clients.DefaultCommunityBase)

	rolePolicy := rolepolicy.NewService(
		discordClient,
		cfg.DiscordConfig.ClientID,
		rolepolicy.ParsePolicies(cfg.GuildPolicies),
	)

	interactionsHandler := handlers.NewInteractionsHandler(
		ed25519.PublicKey(publicKey),
		discordClient,
		archubClient,
		githubClient,
		rolePolicy,
	)
	calendarHandler := handlers.NewCalendarHandler(
		discordClient,
		archubClient,
		cfg.ChannelConfig.OpChannel,
		handlers.DefaultEventPings(cfg.ChannelConfig.MemberRole, cfg.ChannelConfig.RecruitRole),
	)

	router := mux.NewRouter()
	interactionsHandler.SetupEndpoints(router)
	calendarHandler.SetupEndpoints(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	runner, err := setupTasks(cfg, discordClient, steamClient)
	if err != nil {
		return err
	}
	runner.Start()
	defer runner.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func setupTasks(cfg *config.AppConfig, discordClient *clients.DiscordClient, steamClient *clients.SteamClient) (*tasks.Runner, error) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	runner := tasks.NewRunner(london)

	recruitTask := tasks.NewRecruitTask(discordClient, cfg.ChannelConfig.StaffChannel, cfg.ChannelConfig.AdminRole)
	if err := runner.Register(tasks.RecruitSchedule, "recruit", recruitTask.Run); err != nil {
		return nil, err
	}

	if cfg.SteamConfig.IsConfigured() {
		a3syncTask := tasks.NewA3SyncTask(steamClient, discordClient,
			cfg.ChannelConfig.AnnounceChannel,
			filepath.Join(cfg.CheckpointDir, "revision.json"))
		if err := runner.Register(tasks.RepoSchedule, "a3sync", a3syncTask.Run); err != nil {
			return nil, err
		}

		workshopTask := tasks.NewWorkshopTask(steamClient, discordClient,
			cfg.ChannelConfig.AnnounceChannel,
			cfg.SteamConfig.CollectionID,
			filepath.Join(cfg.CheckpointDir, "steam.json"))
		if err := runner.Register(tasks.WorkshopSchedule, "workshop", workshopTask.Run); err != nil {
			return nil, err
		}
	}

	return runner, nil
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
