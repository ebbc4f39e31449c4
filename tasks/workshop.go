package tasks

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"svenbot/clients"
	"svenbot/models"
)

// WorkshopTask watches the subscribed mod collection for updates. It expands
// the collection to a flat mod set, compares each mod's last-updated time
// against the checkpoint, and posts the scraped changelog text for every mod
// updated since. The checkpoint always advances to now, even when there is
// nothing to post.
type WorkshopTask struct {
	steam           *clients.SteamClient
	discord         *clients.DiscordClient
	announceChannel string
	collectionID    string
	checkpointPath  string

	now func() time.Time
}

func NewWorkshopTask(steam *clients.SteamClient, discord *clients.DiscordClient, announceChannel, collectionID, checkpointPath string) *WorkshopTask {
	return &WorkshopTask{
		steam:           steam,
		discord:         discord,
		announceChannel: announceChannel,
		collectionID:    collectionID,
		checkpointPath:  checkpointPath,
		now:             time.Now,
	}
}

func (t *WorkshopTask) Run() error {
	ctx := context.Background()

	checkpoint, err := LoadLastChecked(t.checkpointPath, t.now())
	if err != nil {
		return err
	}

	mods, err := t.steam.GetCollectionItems(ctx, t.collectionID)
	if err != nil {
		return err
	}

	files, err := t.steam.GetFileDetails(ctx, mods)
	if err != nil {
		return err
	}

	var post strings.Builder
	for _, file := range files {
		if float64(file.TimeUpdated) <= checkpoint.LastChecked {
			continue
		}

		text, err := t.steam.GetChangelogText(ctx, file.PublishedFileID)
		if err != nil {
			return err
		}
		log.Printf("📨 Mod '%s' has updated", file.Title)
		post.WriteString(formatModUpdate(file, t.steam.ChangelogPageURL(file.PublishedFileID), text))
	}

	if err := SaveLastChecked(t.checkpointPath, TimeCheckpoint{LastChecked: float64(t.now().Unix())}); err != nil {
		return err
	}

	if post.Len() == 0 {
		return nil
	}
	message := models.NewMessage(post.String(), []string{}, nil)
	return t.discord.SendMessage(ctx, t.announceChannel, message)
}

func formatModUpdate(file models.WorkshopFile, pageURL, text string) string {
	var section strings.Builder
	section.WriteString(fmt.Sprintf("**%s**\n<%s>\n", file.Title, pageURL))
	if text != "" {
		section.WriteString(fmt.Sprintf("```\n%s\n```\n", text))
	}
	return section.String()
}
