package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"svenbot/models"
)

const (
	// DefaultArchubAPIBase is the mission hub's REST API base URL.
	DefaultArchubAPIBase = "https://arcomm.co.uk/api/v1"
	// DefaultHubBaseURL is the user-facing hub site, used in reply links.
	DefaultHubBaseURL = "https://arcomm.co.uk/hub"
	// DefaultArchubSiteBase serves static assets such as mission thumbnails.
	DefaultArchubSiteBase = "https://arcomm.co.uk"
)

// ArchubClient wraps the mission hub's bearer-token-authenticated REST API.
type ArchubClient struct {
	http     *HTTPClient
	apiBase  string
	hubBase  string
	siteBase string
	headers  map[string]string
}

func NewArchubClient(httpClient *HTTPClient, apiBase, hubBase, siteBase, token string) *ArchubClient {
	return &ArchubClient{
		http:     httpClient,
		apiBase:  apiBase,
		hubBase:  hubBase,
		siteBase: siteBase,
		headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	}
}

// MissionURL returns the user-facing hub link for a mission.
func (c *ArchubClient) MissionURL(missionID int) string {
	return fmt.Sprintf("%s/missions/%d", c.hubBase, missionID)
}

// ThumbnailURL resolves a mission's thumbnail path against the site base.
func (c *ArchubClient) ThumbnailURL(path string) string {
	return c.siteBase + path
}

// GetMaps fetches the hub's terrain list.
func (c *ArchubClient) GetMaps(ctx context.Context) ([]models.HubMap, error) {
	url := c.apiBase + "/maps"
	resp, err := c.http.Request(ctx, http.MethodGet, []int{http.StatusOK}, url, c.headers, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch maps: %w", err)
	}

	var maps []models.HubMap
	if err := resp.JSON(&maps); err != nil {
		return nil, err
	}
	return maps, nil
}

// RenameMap renames a terrain entry on the hub.
func (c *ArchubClient) RenameMap(ctx context.Context, oldName, newName string) error {
	renameURL := fmt.Sprintf("%s/maps?old_name=%s&new_name=%s",
		c.apiBase, url.QueryEscape(oldName), url.QueryEscape(newName))

	_, err := c.http.Request(ctx, http.MethodPatch, []int{http.StatusNoContent}, renameURL, c.headers, nil)
	if err != nil {
		return fmt.Errorf("failed to rename map: %w", err)
	}
	return nil
}

// ToggleSubscription flips the caller's subscription to a mission. The hub
// answers Created when the user is now subscribed and No Content when the
// toggle removed an existing subscription.
func (c *ArchubClient) ToggleSubscription(ctx context.Context, missionID int, discordID string) (int, error) {
	url := fmt.Sprintf("%s/missions/%d/subscribe?discord_id=%s", c.apiBase, missionID, discordID)

	resp, err := c.http.Post(ctx, []int{http.StatusCreated, http.StatusNoContent}, url, c.headers, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to toggle subscription: %w", err)
	}
	return resp.StatusCode, nil
}

// NextOperations fetches the missions scheduled for the next operation. A No
// Content answer means nothing is scheduled.
func (c *ArchubClient) NextOperations(ctx context.Context) ([]models.HubMission, error) {
	url := c.apiBase + "/operations/next"
	resp, err := c.http.Request(ctx, http.MethodGet,
		[]int{http.StatusOK, http.StatusNoContent}, url, c.headers, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch next operations: %w", err)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var missions []models.HubMission
	if err := resp.JSON(&missions); err != nil {
		return nil, err
	}
	return missions, nil
}
