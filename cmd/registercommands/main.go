// Command registercommands overwrites the application's slash commands
// for a guild. Run it once after deploying a change to the command set.
//
// Usage: registercommands -guild <guild_id> [-global]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

func main() {
	guildID := flag.String("guild", "", "guild id to register commands for")
	global := flag.Bool("global", false, "register globally instead of per-guild")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Could not load .env file, continuing with system env vars")
	}

	botToken := os.Getenv("BOT_TOKEN")
	clientID := os.Getenv("CLIENT_ID")
	if botToken == "" || clientID == "" {
		log.Fatalf("❌ BOT_TOKEN and CLIENT_ID must be set")
	}
	if *guildID == "" && !*global {
		log.Fatalf("❌ -guild is required unless -global is set")
	}

	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		log.Fatalf("❌ Failed to create session: %v", err)
	}

	target := *guildID
	if *global {
		target = ""
	}

	registered, err := session.ApplicationCommandBulkOverwrite(clientID, target, commands())
	if err != nil {
		log.Fatalf("❌ Failed to register commands: %v", err)
	}

	for _, cmd := range registered {
		log.Printf("✅ Registered command: %s (%s)", cmd.Name, cmd.ID)
	}
}

func commands() []*discordgo.ApplicationCommand {
	staffOnly := int64(discordgo.PermissionManageRoles)
	required := true

	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Ping!",
		},
		{
			Name:        "roles",
			Description: "Get a list of roles you can join",
		},
		{
			Name:        "role",
			Description: "Join or leave a role",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "role",
					Description: "Role",
					Type:        discordgo.ApplicationCommandOptionRole,
					Required:    required,
				},
			},
		},
		{
			Name:        "members",
			Description: "Get a list of members in a role",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "role",
					Description: "Role",
					Type:        discordgo.ApplicationCommandOptionRole,
					Required:    required,
				},
			},
		},
		{
			Name:        "myroles",
			Description: "Get a list of roles you're in",
		},
		{
			Name:        "optime",
			Description: "Time until optime",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "modifier",
					Description: "Modifier",
					Type:        discordgo.ApplicationCommandOptionInteger,
				},
			},
		},
		{
			Name:                     "addrole",
			Description:              "Add a new role",
			DefaultMemberPermissions: &staffOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "name",
					Description: "Name",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    required,
				},
			},
		},
		{
			Name:                     "removerole",
			Description:              "Remove an existing role",
			DefaultMemberPermissions: &staffOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "role",
					Description: "Role",
					Type:        discordgo.ApplicationCommandOptionRole,
					Required:    required,
				},
			},
		},
		{
			Name:                     "renamerole",
			Description:              "Rename an existing role",
			DefaultMemberPermissions: &staffOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "role",
					Description: "Role",
					Type:        discordgo.ApplicationCommandOptionRole,
					Required:    required,
				},
				{
					Name:        "name",
					Description: "New name",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    required,
				},
			},
		},
		{
			Name:        "subscribe",
			Description: "(Un)subscribe to mission notifications",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "mission",
					Description: "The mission ID",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Required:    required,
				},
			},
		},
		{
			Name:        "ticket",
			Description: "Create a github ticket",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "repo",
					Description: "Target repo",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    required,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "archub", Value: "ARCOMM/ARCHUB"},
						{Name: "arc_misc", Value: "ARCOMM/arc_misc"},
						{Name: "arcmt", Value: "ARCOMM/ARCMT"},
						{Name: "svenbot", Value: "TomBurch/SvenBot"},
					},
				},
				{
					Name:        "title",
					Description: "Ticket title",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    required,
				},
				{
					Name:        "body",
					Description: "Ticket description",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    required,
				},
			},
		},
		{
			Name:        "cointoss",
			Description: "Flip a coin",
		},
		{
			Name:        "d20",
			Description: "Roll some dice",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "roll",
					Description: "Dice expression, e.g. 2d20+4",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    required,
				},
			},
		},
		{
			Name:        "maps",
			Description: "Get a list of maps on the hub",
		},
		{
			Name:                     "renamemap",
			Description:              "Rename a map on the hub",
			DefaultMemberPermissions: &staffOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "old_name",
					Description: "Current display name",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    required,
				},
				{
					Name:        "new_name",
					Description: "New display name",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    required,
				},
			},
		},
	}
}
