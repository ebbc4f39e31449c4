package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type DiscordConfig struct {
	BotToken  string
	ClientID  string
	PublicKey string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != "" &&
		c.ClientID != "" &&
		c.PublicKey != ""
}

type ArchubConfig struct {
	Token string
}

// IsConfigured returns true if the mission hub bearer token is present
func (c ArchubConfig) IsConfigured() bool {
	return c.Token != ""
}

type GitHubConfig struct {
	Token string
}

// IsConfigured returns true if the issue tracker bearer token is present
func (c GitHubConfig) IsConfigured() bool {
	return c.Token != ""
}

type SteamConfig struct {
	RepoURL      string
	CollectionID string
}

// IsConfigured returns true if all required mod-repo configuration is present
func (c SteamConfig) IsConfigured() bool {
	return c.RepoURL != "" &&
		c.CollectionID != ""
}

// ChannelConfig groups the numeric channel and role ids the bot posts to.
type ChannelConfig struct {
	StaffChannel    string
	AnnounceChannel string
	OpChannel       string
	AdminRole       string
	MemberRole      string
	RecruitRole     string
}

type AppConfig struct {
	// Core configuration
	Port          string // Optional with default "8000"
	CheckpointDir string // Optional with default "."

	// Per-guild policy table, guild id -> policy name ("basic" or "color").
	// Guilds not listed here are fail-closed.
	GuildPolicies map[string]string

	DiscordConfig DiscordConfig
	ArchubConfig  ArchubConfig
	GitHubConfig  GitHubConfig
	SteamConfig   SteamConfig
	ChannelConfig ChannelConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Could not load .env file, continuing with system env vars")
	}

	botToken, err := getEnvRequired("BOT_TOKEN")
	if err != nil {
		return nil, err
	}

	clientID, err := getEnvRequired("CLIENT_ID")
	if err != nil {
		return nil, err
	}

	publicKey, err := getEnvRequired("PUBLIC_KEY")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		Port:          getEnvWithDefault("PORT", "8000"),
		CheckpointDir: getEnvWithDefault("CHECKPOINT_DIR", "."),
		GuildPolicies: parseGuildPolicies(getEnvWithDefault("GUILD_POLICIES", "")),

		DiscordConfig: DiscordConfig{
			BotToken:  botToken,
			ClientID:  clientID,
			PublicKey: publicKey,
		},

		// Mission hub configuration (optional)
		ArchubConfig: ArchubConfig{
			Token: os.Getenv("ARCHUB_TOKEN"),
		},

		// Issue tracker configuration (optional)
		GitHubConfig: GitHubConfig{
			Token: os.Getenv("GITHUB_TOKEN"),
		},

		// Mod repository configuration (optional)
		SteamConfig: SteamConfig{
			RepoURL:      os.Getenv("REPO_URL"),
			CollectionID: os.Getenv("STEAM_COLLECTION_ID"),
		},

		ChannelConfig: ChannelConfig{
			StaffChannel:    os.Getenv("STAFF_CHANNEL"),
			AnnounceChannel: os.Getenv("ANNOUNCE_CHANNEL"),
			OpChannel:       os.Getenv("OP_CHANNEL"),
			AdminRole:       os.Getenv("ADMIN_ROLE"),
			MemberRole:      os.Getenv("MEMBER_ROLE"),
			RecruitRole:     os.Getenv("RECRUIT_ROLE"),
		},
	}

	if config.ArchubConfig.IsConfigured() {
		log.Printf("✅ Mission hub integration configured")
	} else {
		log.Printf("⚠️ Mission hub integration not configured - hub commands will fail")
	}

	if config.GitHubConfig.IsConfigured() {
		log.Printf("✅ Issue tracker integration configured")
	} else {
		log.Printf("⚠️ Issue tracker integration not configured - ticket command will fail")
	}

	if config.SteamConfig.IsConfigured() {
		log.Printf("✅ Mod repository integration configured")
	} else {
		log.Printf("⚠️ Mod repository integration not configured - changelog tasks disabled")
	}

	return config, nil
}

// parseGuildPolicies parses "guildID:policy,guildID:policy" pairs. Malformed
// entries are skipped with a warning rather than failing startup.
func parseGuildPolicies(raw string) map[string]string {
	policies := make(map[string]string)
	if raw == "" {
		return policies
	}

	for _, pair := range splitAndTrim(raw, ",") {
		parts := splitAndTrim(pair, ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			log.Printf("⚠️ Skipping malformed guild policy entry: %q", pair)
			continue
		}
		policies[parts[0]] = parts[1]
	}
	return policies
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
