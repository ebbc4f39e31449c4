package clients

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"svenbot/models"
)

const (
	// DefaultWorkshopAPIBase is the mod-distribution platform's web API.
	DefaultWorkshopAPIBase = "https://api.steampowered.com"
	// DefaultCommunityBase hosts the human-readable changelog pages.
	DefaultCommunityBase = "https://steamcommunity.com"
)

// SteamClient wraps the mod-distribution surfaces: the A3Sync repository
// metadata endpoints, the workshop web API, and the community changelog pages.
type SteamClient struct {
	http          *HTTPClient
	repoURL       string
	apiBase       string
	communityBase string
}

func NewSteamClient(httpClient *HTTPClient, repoURL, apiBase, communityBase string) *SteamClient {
	return &SteamClient{
		http:          httpClient,
		repoURL:       repoURL,
		apiBase:       apiBase,
		communityBase: communityBase,
	}
}

// noAuth suppresses the default bot-authorization headers; none of these
// services want them.
var noAuth = map[string]string{}

// GetRepoInfo fetches the mod repository's current revision and size.
func (c *SteamClient) GetRepoInfo(ctx context.Context) (models.RepoInfo, error) {
	resp, err := c.http.Request(ctx, http.MethodGet, []int{http.StatusOK}, c.repoURL+"/repo", noAuth, nil)
	if err != nil {
		return models.RepoInfo{}, fmt.Errorf("failed to fetch repo info: %w", err)
	}

	var info models.RepoInfo
	if err := resp.JSON(&info); err != nil {
		return models.RepoInfo{}, err
	}
	return info, nil
}

// GetChangelogs fetches the repository's per-revision changelog list.
func (c *SteamClient) GetChangelogs(ctx context.Context) ([]models.RepoChangelog, error) {
	resp, err := c.http.Request(ctx, http.MethodGet, []int{http.StatusOK}, c.repoURL+"/changelog", noAuth, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch changelog: %w", err)
	}

	var list models.RepoChangelogList
	if err := resp.JSON(&list); err != nil {
		return nil, err
	}
	return list.List, nil
}

// GetCollectionItems expands a workshop collection into a flat list of mod
// ids. Children that are themselves collections are expanded one level deep.
func (c *SteamClient) GetCollectionItems(ctx context.Context, collectionID string) ([]string, error) {
	collections, err := c.getCollectionDetails(ctx, []string{collectionID})
	if err != nil {
		return nil, err
	}

	var mods []string
	var nested []string
	for _, collection := range collections {
		for _, child := range collection.Children {
			if child.FileType == models.WorkshopFileTypeCollection {
				nested = append(nested, child.PublishedFileID)
			} else {
				mods = append(mods, child.PublishedFileID)
			}
		}
	}

	if len(nested) > 0 {
		children, err := c.getCollectionDetails(ctx, nested)
		if err != nil {
			return nil, err
		}
		for _, collection := range children {
			for _, child := range collection.Children {
				if child.FileType != models.WorkshopFileTypeCollection {
					mods = append(mods, child.PublishedFileID)
				}
			}
		}
	}

	return dedupe(mods), nil
}

func (c *SteamClient) getCollectionDetails(ctx context.Context, ids []string) ([]models.WorkshopCollection, error) {
	form := url.Values{}
	form.Set("collectioncount", strconv.Itoa(len(ids)))
	for i, id := range ids {
		form.Set(fmt.Sprintf("publishedfileids[%d]", i), id)
	}

	endpoint := c.apiBase + "/ISteamRemoteStorage/GetCollectionDetails/v1/"
	resp, err := c.http.PostForm(ctx, []int{http.StatusOK}, endpoint, form)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection details: %w", err)
	}

	var details models.WorkshopCollectionResponse
	if err := resp.JSON(&details); err != nil {
		return nil, err
	}
	return details.Response.CollectionDetails, nil
}

// GetFileDetails fetches title and last-updated timestamps for the given mods.
func (c *SteamClient) GetFileDetails(ctx context.Context, ids []string) ([]models.WorkshopFile, error) {
	form := url.Values{}
	form.Set("itemcount", strconv.Itoa(len(ids)))
	for i, id := range ids {
		form.Set(fmt.Sprintf("publishedfileids[%d]", i), id)
	}

	endpoint := c.apiBase + "/ISteamRemoteStorage/GetPublishedFileDetails/v1/"
	resp, err := c.http.PostForm(ctx, []int{http.StatusOK}, endpoint, form)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file details: %w", err)
	}

	var details models.WorkshopFileResponse
	if err := resp.JSON(&details); err != nil {
		return nil, err
	}
	return details.Response.PublishedFileDetails, nil
}

// ChangelogPageURL returns the human-readable changelog page for a mod.
func (c *SteamClient) ChangelogPageURL(fileID string) string {
	return fmt.Sprintf("%s/sharedfiles/filedetails/changelog/%s", c.communityBase, fileID)
}

// GetChangelogText scrapes the most recent changelog entry for a mod: the
// first paragraph following the first changelog headline on the page.
func (c *SteamClient) GetChangelogText(ctx context.Context, fileID string) (string, error) {
	resp, err := c.http.Request(ctx, http.MethodGet, []int{http.StatusOK}, c.ChangelogPageURL(fileID), noAuth, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch changelog page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return "", fmt.Errorf("failed to parse changelog page: %w", err)
	}

	headline := doc.Find("div.changelog.headline").First()
	if headline.Length() == 0 {
		return "", nil
	}

	paragraph := headline.NextAllFiltered("p").First()
	return strings.TrimSpace(paragraph.Text()), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
