package models

// InteractionType identifies the kind of inbound interaction callback.
type InteractionType int

const (
	InteractionTypePing               InteractionType = 1
	InteractionTypeApplicationCommand InteractionType = 2
	InteractionTypeMessageComponent   InteractionType = 3
)

// OptionType identifies how a command option's value should be interpreted.
type OptionType int

const (
	OptionTypeSubCommand      OptionType = 1
	OptionTypeSubCommandGroup OptionType = 2
	OptionTypeString          OptionType = 3
	OptionTypeInteger         OptionType = 4
	OptionTypeBoolean         OptionType = 5
	OptionTypeUser            OptionType = 6
	OptionTypeChannel         OptionType = 7
	OptionTypeRole            OptionType = 8
	OptionTypeMentionable     OptionType = 9
)

type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Bot           *bool  `json:"bot,omitempty"`
}

type Member struct {
	User        *User    `json:"user,omitempty"`
	Nick        *string  `json:"nick,omitempty"`
	Roles       []string `json:"roles"`
	Permissions *string  `json:"permissions,omitempty"`
}

// HasRole reports whether the member holds the given role, regardless of the
// order the roles were returned in.
func (m *Member) HasRole(roleID string) bool {
	for _, id := range m.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// DisplayName returns the member's nickname when set, else the username.
func (m *Member) DisplayName() string {
	if m.Nick != nil {
		return *m.Nick
	}
	if m.User != nil {
		return m.User.Username
	}
	return ""
}

// Option is a single command argument. Value is untyped on the wire and
// interpreted per Type by the executor that knows its command's arity.
type Option struct {
	Name    string     `json:"name"`
	Type    OptionType `json:"type"`
	Value   any        `json:"value,omitempty"`
	Options []Option   `json:"options,omitempty"`
}

// StringValue returns the option value as a string. Role and string options
// both carry string payloads.
func (o Option) StringValue() string {
	if s, ok := o.Value.(string); ok {
		return s
	}
	return ""
}

// IntValue returns the option value as an int. JSON numbers decode to
// float64, so both forms are handled.
func (o Option) IntValue() int {
	switch v := o.Value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Command is the data payload of an APPLICATION_COMMAND interaction.
type Command struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []Option `json:"options,omitempty"`
}

// Interaction is one inbound signed command invocation. It is parsed once at
// ingress and discarded after the response is produced.
type Interaction struct {
	ID            string          `json:"id"`
	ApplicationID string          `json:"application_id"`
	Type          InteractionType `json:"type"`
	Data          *Command        `json:"data,omitempty"`
	GuildID       string          `json:"guild_id,omitempty"`
	ChannelID     string          `json:"channel_id,omitempty"`
	Member        *Member         `json:"member,omitempty"`
	User          *User           `json:"user,omitempty"`
	Token         string          `json:"token"`
	Version       int             `json:"version"`
}

// Username returns the acting user's name for logging, tolerating interactions
// with no member attached.
func (i *Interaction) Username() string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return "unknown"
}
