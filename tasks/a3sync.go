package tasks

import (
	"context"
	"fmt"
	"strings"

	"svenbot/clients"
	"svenbot/models"
)

// A3SyncTask watches the mod repository for new revisions. When the revision
// moves past the checkpoint it posts the changelog entries since then and
// advances the checkpoint to the latest revision seen.
type A3SyncTask struct {
	steam           *clients.SteamClient
	discord         *clients.DiscordClient
	announceChannel string
	checkpointPath  string
}

func NewA3SyncTask(steam *clients.SteamClient, discord *clients.DiscordClient, announceChannel, checkpointPath string) *A3SyncTask {
	return &A3SyncTask{
		steam:           steam,
		discord:         discord,
		announceChannel: announceChannel,
		checkpointPath:  checkpointPath,
	}
}

func (t *A3SyncTask) Run() error {
	ctx := context.Background()

	repoInfo, err := t.steam.GetRepoInfo(ctx)
	if err != nil {
		return err
	}

	checkpoint, err := LoadRevision(t.checkpointPath)
	if err != nil {
		return err
	}
	if repoInfo.Revision == checkpoint.Revision {
		return nil
	}

	changelogs, err := t.steam.GetChangelogs(ctx)
	if err != nil {
		return err
	}

	var post strings.Builder
	post.WriteString(fmt.Sprintf("```md\n# The A3Sync repo has changed #\n\n[%.2f GB]\n```\n", repoInfo.SizeGB()))

	latest := checkpoint.Revision
	for _, changelog := range changelogs {
		if changelog.Revision > checkpoint.Revision {
			if section := formatChangelog(changelog); section != "" {
				post.WriteString(fmt.Sprintf("```md\n%s\n```\n", section))
			}
		}
		latest = changelog.Revision
	}

	if err := SaveRevision(t.checkpointPath, RevisionCheckpoint{Revision: latest}); err != nil {
		return err
	}

	message := models.NewMessage(post.String(), []string{}, nil)
	return t.discord.SendMessage(ctx, t.announceChannel, message)
}

func formatChangelog(changelog models.RepoChangelog) string {
	var section strings.Builder
	if len(changelog.NewAddons) > 0 {
		section.WriteString("< New >\n" + strings.Join(changelog.NewAddons, "\n"))
	}
	if len(changelog.DeletedAddons) > 0 {
		section.WriteString("\n\n< Deleted >\n" + strings.Join(changelog.DeletedAddons, "\n"))
	}
	if len(changelog.UpdatedAddons) > 0 {
		section.WriteString("\n\n< Updated >\n" + strings.Join(changelog.UpdatedAddons, "\n"))
	}
	return section.String()
}
