package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"

	"svenbot/clients"
	"svenbot/models"
)

// eventTitleRegex pulls the start/end timestamps and the event title out of
// the calendar attachment's rich-text title field, e.g.
// "<!date^1657144680^{time}|7:00 PM> - <!date^1657148280^{time}|11:00 PM> <https://...|Event title>".
var eventTitleRegex = regexp.MustCompile(`<!date\^(\d+)\^.*?> - <!date\^(\d+)\^.*?> <.*?\|(.*?)>`)

// Mode colors used on mission embeds.
const (
	colorCoop   = 959977
	colorTvt    = 16007006
	colorArcade = 1096065
)

// EventPing selects the mention set and embed color for a calendar event
// whose title contains Keyword. WithMissions additionally enriches the post
// with the hub's upcoming-mission list.
type EventPing struct {
	Keyword      string
	Roles        []string
	Color        int
	WithMissions bool
}

// DefaultEventPings is the production keyword table: main events ping the
// whole community, recruit events ping recruits only. Anything else
// broadcasts without a ping.
func DefaultEventPings(memberRole, recruitRole string) []EventPing {
	return []EventPing{
		{Keyword: "main", Roles: []string{memberRole, recruitRole}, Color: 15158332, WithMissions: true},
		{Keyword: "recruit", Roles: []string{recruitRole}, Color: 3066993},
	}
}

// CalendarHandler receives third-party calendar webhooks and broadcasts
// matching events to the operations channel.
type CalendarHandler struct {
	discord   *clients.DiscordClient
	archub    *clients.ArchubClient
	opChannel string
	pings     []EventPing
}

func NewCalendarHandler(
	discord *clients.DiscordClient,
	archub *clients.ArchubClient,
	opChannel string,
	pings []EventPing,
) *CalendarHandler {
	return &CalendarHandler{
		discord:   discord,
		archub:    archub,
		opChannel: opChannel,
		pings:     pings,
	}
}

func (h *CalendarHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/slack", h.HandleCalendarNotification).Methods("POST")
}

// HandleCalendarNotification handles both webhook sub-types: the verification
// handshake echoes the challenge token verbatim, and event callbacks get
// parsed and broadcast.
func (h *CalendarHandler) HandleCalendarNotification(w http.ResponseWriter, r *http.Request) {
	var notification models.CalendarNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	if notification.Type == models.CalendarNotificationVerification {
		log.Printf("🔐 Calendar URL verification challenge received")
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(notification.Challenge)); err != nil {
			log.Printf("❌ Failed to write challenge response: %v", err)
		}
		return
	}

	if notification.Type != models.CalendarNotificationCallback || notification.Event == nil {
		log.Printf("📋 Ignoring calendar notification of type %q", notification.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.broadcastEvent(r, notification.Event); err != nil {
		log.Printf("❌ Failed to broadcast calendar event: %v", err)
		http.Error(w, "failed to broadcast event", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *CalendarHandler) broadcastEvent(r *http.Request, event *models.CalendarEvent) error {
	if len(event.Attachments) == 0 {
		log.Printf("⚠️ Calendar event carried no attachments")
		return nil
	}

	match := eventTitleRegex.FindStringSubmatch(event.Attachments[0].Title)
	if match == nil {
		log.Printf("⚠️ Calendar attachment title did not match the event pattern")
		return nil
	}
	startTime, endTime, title := match[1], match[2], match[3]

	ping := h.matchPing(title)

	embeds := []models.Embed{{
		Title:       title,
		Description: fmt.Sprintf("Starting <t:%s:R>", startTime),
		Fields: []models.EmbedField{
			{Name: "Start", Value: fmt.Sprintf("<t:%s:t>", startTime), Inline: true},
			{Name: "End", Value: fmt.Sprintf("<t:%s:t>", endTime), Inline: true},
		},
		Color: ping.Color,
	}}

	if ping.WithMissions {
		missionEmbeds, err := h.missionEmbeds(r)
		if err != nil {
			return err
		}
		embeds = append(embeds, missionEmbeds...)
	}

	var mentions []string
	for _, roleID := range ping.Roles {
		mentions = append(mentions, fmt.Sprintf("<@&%s>", roleID))
	}

	message := models.NewMessage(strings.Join(mentions, " "), []string{"roles"}, embeds)
	return h.discord.SendMessage(r.Context(), h.opChannel, message)
}

// matchPing selects the first keyword table entry contained in the title,
// case-insensitively. No match yields a zero ping: no mentions, no color.
func (h *CalendarHandler) matchPing(title string) EventPing {
	lower := strings.ToLower(title)
	for _, ping := range h.pings {
		if strings.Contains(lower, ping.Keyword) {
			return ping
		}
	}
	return EventPing{}
}

func (h *CalendarHandler) missionEmbeds(r *http.Request) ([]models.Embed, error) {
	missions, err := h.archub.NextOperations(r.Context())
	if err != nil {
		return nil, err
	}

	var embeds []models.Embed
	for _, mission := range missions {
		description := fmt.Sprintf("Made by %s", mission.User)
		if mission.HasMaintainer {
			description = fmt.Sprintf("Maintained by %s", mission.User)
		}

		embeds = append(embeds, models.Embed{
			Title:       mission.DisplayName,
			URL:         h.archub.MissionURL(mission.ID),
			Description: description,
			Color:       missionColor(mission.Mode),
			Thumbnail:   &models.EmbedThumbnail{URL: h.archub.ThumbnailURL(mission.Thumbnail)},
		})
	}
	return embeds, nil
}

func missionColor(mode string) int {
	switch mode {
	case "coop":
		return colorCoop
	case "tvt":
		return colorTvt
	case "ade":
		return colorArcade
	default:
		return 0
	}
}
