package models

// RoleTags is only present on roles auto-created for an integration; BotID
// identifies the application the role belongs to.
type RoleTags struct {
	BotID *string `json:"bot_id,omitempty"`
}

// Role mirrors the guild role object returned by the chat platform. Position
// is the hierarchy slot (larger means higher); a Color of zero means the role
// is uncolored.
type Role struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Position int       `json:"position"`
	Color    int       `json:"color"`
	Tags     *RoleTags `json:"tags,omitempty"`
}

// IsBotRole reports whether the role was auto-created for a bot integration.
func (r Role) IsBotRole() bool {
	return r.Tags != nil && r.Tags.BotID != nil
}

// Mention renders the role as a chat mention.
func (r Role) Mention() string {
	return "<@&" + r.ID + ">"
}
