package models

// InteractionResponseType identifies the kind of reply sent back to the chat
// platform for an interaction.
type InteractionResponseType int

const (
	ResponseTypePong                     InteractionResponseType = 1
	ResponseTypeChannelMessageWithSource InteractionResponseType = 4
	ResponseTypeDeferredChannelMessage   InteractionResponseType = 5
)

// EphemeralFlag marks a reply visible only to the invoking user.
const EphemeralFlag = 64

// AllowedMentions constrains which mention types in the content will actually
// render as pings. An empty Parse list suppresses all pings.
type AllowedMentions struct {
	Parse []string `json:"parse"`
}

type EmbedThumbnail struct {
	URL string `json:"url"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type Embed struct {
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	URL         string          `json:"url,omitempty"`
	Color       int             `json:"color,omitempty"`
	Fields      []EmbedField    `json:"fields,omitempty"`
	Thumbnail   *EmbedThumbnail `json:"thumbnail,omitempty"`
}

// ResponseData is the outbound message envelope, used both for interaction
// replies and for messages posted to a channel.
type ResponseData struct {
	TTS             *bool            `json:"tts,omitempty"`
	Content         *string          `json:"content,omitempty"`
	Embeds          []Embed          `json:"embeds,omitempty"`
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
	Flags           *int             `json:"flags,omitempty"`
	Components      any              `json:"components,omitempty"`
}

// InteractionResponse is the body returned from the interaction endpoint.
type InteractionResponse struct {
	Type InteractionResponseType `json:"type"`
	Data *ResponseData           `json:"data,omitempty"`
}

// NewMessage builds a channel message envelope. Content may be empty when the
// message is embeds-only.
func NewMessage(content string, mentions []string, embeds []Embed) ResponseData {
	if mentions == nil {
		mentions = []string{}
	}
	message := ResponseData{
		Embeds:          embeds,
		AllowedMentions: &AllowedMentions{Parse: mentions},
	}
	if content != "" {
		message.Content = &content
	}
	return message
}

// ImmediateReply builds a CHANNEL_MESSAGE_WITH_SOURCE response with the given
// content and mention scope. Ephemeral replies are flagged visible only to the
// invoking user.
func ImmediateReply(content string, mentions []string, ephemeral bool) InteractionResponse {
	if mentions == nil {
		mentions = []string{}
	}
	data := &ResponseData{
		Content:         &content,
		AllowedMentions: &AllowedMentions{Parse: mentions},
	}
	if ephemeral {
		flags := EphemeralFlag
		data.Flags = &flags
	}
	return InteractionResponse{
		Type: ResponseTypeChannelMessageWithSource,
		Data: data,
	}
}
