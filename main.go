package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cloud.google.com/go/firestore"
	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/lit"
	"github.com/kkyr/fig"
)

var (
	// Discord bot token
	token string
	// Playing status
	site string
	// Per-guild configuration accessor
	configs *ConfigStore
	// Per-guild project collection accessor
	projects *ProjectStore
	// Pending yes/no confirmation prompts
	gate = NewConfirmationGate(confirmationWindow)
	// Firestore client, closed on shutdown
	fsClient *firestore.Client
)

func init() {
	lit.LogLevel = lit.LogError

	var cfg Config
	err := fig.Load(&cfg, fig.File("config.yml"), fig.UseEnv(""))
	if err != nil {
		lit.Error("%s", err)
		os.Exit(1)
	}

	// Config file found
	token = cfg.Token
	site = cfg.Site

	// Set lit.LogLevel to the given value
	switch strings.ToLower(cfg.LogLevel) {
	case "logwarning", "warning":
		lit.LogLevel = lit.LogWarning
	case "loginformational", "informational":
		lit.LogLevel = lit.LogInformational
	case "logdebug", "debug":
		lit.LogLevel = lit.LogDebug
	}

	// Open the document store
	store, client, err := openFirestore(context.Background(), cfg.FirestoreCredentials)
	if err != nil {
		lit.Error("Error opening Firestore, %s", err)
		os.Exit(1)
	}

	fsClient = client
	configs = &ConfigStore{store: store}
	projects = &ProjectStore{store: store}
}

func main() {
	// Create a new Discord session using the provided bot token.
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		lit.Error("Error creating Discord session, %s", err)
		return
	}

	// Add events handler
	dg.AddHandler(ready)
	dg.AddHandler(messageCreate)

	// Add commands handler
	dg.AddHandler(interactionCreate)

	// Initialize intents that we use
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	// Open discord session
	err = dg.Open()
	if err != nil {
		lit.Error("Error opening connection, %s", err)
		return
	}

	// Register commands
	_, err = dg.ApplicationCommandBulkOverwrite(dg.State.User.ID, "", commands)
	if err != nil {
		lit.Error("Can't register commands, %s", err)
	}

	// Wait here until CTRL-C or another term signal is received.
	lit.Info("publimanager is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Cleanly close down the Discord session.
	_ = dg.Close()

	// And the document store
	_ = fsClient.Close()
}

func ready(s *discordgo.Session, _ *discordgo.Ready) {
	if site == "" {
		return
	}

	// Set the playing status.
	err := s.UpdateGameStatus(0, site)
	if err != nil {
		lit.Error("Can't set status, %s", err)
	}
}
