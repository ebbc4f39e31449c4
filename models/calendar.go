package models

// Calendar webhook envelope, delivered by the workspace calendar integration.
// Two sub-types arrive on the same route: a url_verification handshake that
// must have its challenge echoed back, and an event_callback carrying the
// calendar event as a rich-text attachment.

const (
	CalendarNotificationVerification = "url_verification"
	CalendarNotificationCallback     = "event_callback"
)

type CalendarAttachment struct {
	Color string `json:"color,omitempty"`
	Text  string `json:"text,omitempty"`
	Title string `json:"title"`
}

type CalendarEvent struct {
	Type        string               `json:"type"`
	Text        string               `json:"text,omitempty"`
	Attachments []CalendarAttachment `json:"attachments,omitempty"`
}

type CalendarNotification struct {
	Token     string         `json:"token"`
	Type      string         `json:"type"`
	Challenge string         `json:"challenge,omitempty"`
	Event     *CalendarEvent `json:"event,omitempty"`
}
