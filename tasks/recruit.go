package tasks

import (
	"context"
	"fmt"
	"log"

	"svenbot/clients"
	"svenbot/models"
)

// RecruitTask reminds staff to post recruitment. Stateless: it fires on its
// schedule and sends the same message every time.
type RecruitTask struct {
	discord      *clients.DiscordClient
	staffChannel string
	adminRole    string
}

func NewRecruitTask(discord *clients.DiscordClient, staffChannel, adminRole string) *RecruitTask {
	return &RecruitTask{
		discord:      discord,
		staffChannel: staffChannel,
		adminRole:    adminRole,
	}
}

func (t *RecruitTask) Run() error {
	log.Printf("⚡ Recruit task")
	content := fmt.Sprintf("<@&%s> Post recruitment on <https://www.reddit.com/r/FindAUnit>", t.adminRole)
	message := models.NewMessage(content, []string{"roles"}, nil)
	return t.discord.SendMessage(context.Background(), t.staffChannel, message)
}
