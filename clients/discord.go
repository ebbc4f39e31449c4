package clients

import (
	"context"
	"fmt"
	"net/http"

	"svenbot/models"
)

// DefaultDiscordAPIBase is the production chat-platform REST base URL.
const DefaultDiscordAPIBase = "https://discord.com/api/v8"

// DiscordClient wraps the chat platform's guild and channel REST endpoints.
type DiscordClient struct {
	http    *HTTPClient
	baseURL string
}

func NewDiscordClient(httpClient *HTTPClient, baseURL string) *DiscordClient {
	return &DiscordClient{
		http:    httpClient,
		baseURL: baseURL,
	}
}

// GetGuildRoles fetches all roles in the guild, ordered as the API returns
// them. Callers doing several role checks should fetch once and pass the
// snapshot down.
func (c *DiscordClient) GetGuildRoles(ctx context.Context, guildID string) ([]models.Role, error) {
	resp, err := c.http.Get(ctx, []int{http.StatusOK}, fmt.Sprintf("%s/guilds/%s/roles", c.baseURL, guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild roles: %w", err)
	}

	var roles []models.Role
	if err := resp.JSON(&roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// AddMemberRole puts the role on the member. A forbidden status is part of
// the contract (the platform rejecting a hierarchy violation) and is reported
// via the returned status rather than an error.
func (c *DiscordClient) AddMemberRole(ctx context.Context, guildID, userID, roleID string) (int, error) {
	url := fmt.Sprintf("%s/guilds/%s/members/%s/roles/%s", c.baseURL, guildID, userID, roleID)
	resp, err := c.http.Put(ctx, []int{http.StatusNoContent, http.StatusForbidden}, url)
	if err != nil {
		return 0, fmt.Errorf("failed to add member role: %w", err)
	}
	return resp.StatusCode, nil
}

// RemoveMemberRole deletes the role from the member, with the same forbidden
// semantics as AddMemberRole.
func (c *DiscordClient) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) (int, error) {
	url := fmt.Sprintf("%s/guilds/%s/members/%s/roles/%s", c.baseURL, guildID, userID, roleID)
	resp, err := c.http.Delete(ctx, []int{http.StatusNoContent, http.StatusForbidden}, url)
	if err != nil {
		return 0, fmt.Errorf("failed to remove member role: %w", err)
	}
	return resp.StatusCode, nil
}

// ListMembers fetches the first page of guild members, up to limit.
func (c *DiscordClient) ListMembers(ctx context.Context, guildID string, limit int) ([]models.Member, error) {
	url := fmt.Sprintf("%s/guilds/%s/members?limit=%d", c.baseURL, guildID, limit)
	resp, err := c.http.Get(ctx, []int{http.StatusOK}, url)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild members: %w", err)
	}

	var members []models.Member
	if err := resp.JSON(&members); err != nil {
		return nil, err
	}
	return members, nil
}

// CreateRole creates a mentionable role and returns the created role object.
func (c *DiscordClient) CreateRole(ctx context.Context, guildID, name string) (models.Role, error) {
	url := fmt.Sprintf("%s/guilds/%s/roles", c.baseURL, guildID)
	body := map[string]any{"name": name, "mentionable": true}

	resp, err := c.http.Post(ctx, []int{http.StatusOK}, url, nil, body)
	if err != nil {
		return models.Role{}, fmt.Errorf("failed to create role: %w", err)
	}

	var role models.Role
	if err := resp.JSON(&role); err != nil {
		return models.Role{}, err
	}
	return role, nil
}

// DeleteRole removes the role from the guild.
func (c *DiscordClient) DeleteRole(ctx context.Context, guildID, roleID string) error {
	url := fmt.Sprintf("%s/guilds/%s/roles/%s", c.baseURL, guildID, roleID)
	if _, err := c.http.Delete(ctx, []int{http.StatusNoContent}, url); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

// RenameRole patches the role's name.
func (c *DiscordClient) RenameRole(ctx context.Context, guildID, roleID, name string) error {
	url := fmt.Sprintf("%s/guilds/%s/roles/%s", c.baseURL, guildID, roleID)
	body := map[string]any{"name": name}

	if _, err := c.http.Patch(ctx, []int{http.StatusOK}, url, nil, body); err != nil {
		return fmt.Errorf("failed to rename role: %w", err)
	}
	return nil
}

// SendMessage posts a message envelope to the channel.
func (c *DiscordClient) SendMessage(ctx context.Context, channelID string, message models.ResponseData) error {
	url := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)
	if _, err := c.http.Post(ctx, []int{http.StatusOK}, url, nil, message); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
