package handlers

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinian/dice"

	"svenbot/clients"
	"svenbot/models"
	"svenbot/services/rolepolicy"
	"svenbot/utils"
)

// DispatchError is an outward-facing fault produced at the dispatcher
// boundary. Internal exception text never leaks into Message.
type DispatchError struct {
	Status  int
	Message string
}

func (e *DispatchError) Error() string {
	return e.Message
}

type executorFunc func(ctx context.Context, interaction *models.Interaction) (string, error)

// InteractionsHandler verifies, dispatches and executes slash-command
// interactions.
type InteractionsHandler struct {
	publicKey  ed25519.PublicKey
	discord    *clients.DiscordClient
	archub     *clients.ArchubClient
	github     *clients.GitHubClient
	rolePolicy *rolepolicy.Service

	executors map[string]executorFunc
	ephemeral map[string]bool

	// now and coinFlip are swapped out in tests for determinism.
	now      func() time.Time
	coinFlip func() string
}

func NewInteractionsHandler(
	publicKey ed25519.PublicKey,
	discord *clients.DiscordClient,
	archub *clients.ArchubClient,
	github *clients.GitHubClient,
	rolePolicy *rolepolicy.Service,
) *InteractionsHandler {
	h := &InteractionsHandler{
		publicKey:  publicKey,
		discord:    discord,
		archub:     archub,
		github:     github,
		rolePolicy: rolePolicy,
		now:        time.Now,
		coinFlip: func() string {
			if rand.Intn(2) == 0 {
				return "Heads"
			}
			return "Tails"
		},
	}

	h.executors = map[string]executorFunc{
		"addrole":    h.executeAddrole,
		"cointoss":   h.executeCointoss,
		"d20":        h.executeD20,
		"maps":       h.executeMaps,
		"members":    h.executeMembers,
		"myroles":    h.executeMyroles,
		"optime":     h.executeOptime,
		"ping":       h.executePing,
		"removerole": h.executeRemoverole,
		"renamemap":  h.executeRenamemap,
		"renamerole": h.executeRenamerole,
		"role":       h.executeRole,
		"roles":      h.executeRoles,
		"subscribe":  h.executeSubscribe,
		"ticket":     h.executeTicket,
	}
	h.ephemeral = map[string]bool{"myroles": true}

	return h
}

func (h *InteractionsHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/interaction", h.HandleInteraction).Methods("POST")
}

// HandleInteraction is the inbound webhook: signature gate, PING handshake,
// then command dispatch.
func (h *InteractionsHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusInternalServerError)
		return
	}

	signature := r.Header.Get("X-Signature-Ed25519")
	timestamp := r.Header.Get("X-Signature-Timestamp")
	if signature == "" || timestamp == "" || !VerifyKey(body, signature, timestamp, h.publicKey) {
		log.Printf("❌ Rejected interaction with bad request signature")
		http.Error(w, "Bad request signature", http.StatusUnauthorized)
		return
	}

	var interaction models.Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		log.Printf("❌ Failed to parse interaction payload: %v", err)
		http.Error(w, "invalid interaction payload", http.StatusBadRequest)
		return
	}

	if interaction.Type == models.InteractionTypePing {
		writeJSON(w, models.InteractionResponse{Type: models.ResponseTypePong})
		return
	}

	response, err := h.Dispatch(r.Context(), &interaction)
	if err != nil {
		var dispatchErr *DispatchError
		if errors.As(err, &dispatchErr) {
			http.Error(w, dispatchErr.Message, dispatchErr.Status)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, response)
}

// Dispatch routes an application-command interaction to its executor. It is
// the single error boundary: every executor failure is logged here with the
// acting user and command, and converted to an opaque fault. Panics inside an
// executor (e.g. a payload missing fields the command needs) are contained
// the same way.
func (h *InteractionsHandler) Dispatch(ctx context.Context, interaction *models.Interaction) (response models.InteractionResponse, err error) {
	if interaction.Type != models.InteractionTypeApplicationCommand || interaction.Data == nil {
		return models.InteractionResponse{}, &DispatchError{
			Status:  http.StatusBadRequest,
			Message: "Not an application command",
		}
	}

	command := interaction.Data.Name
	executor, ok := h.executors[command]
	if !ok {
		return models.InteractionResponse{}, &DispatchError{
			Status:  http.StatusNotImplemented,
			Message: fmt.Sprintf("'%s' is not a known command", command),
		}
	}

	log.Printf("⚡ '%s' executing '%s'", interaction.Username(), command)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic executing '%s': %v", command, r)
			response = models.InteractionResponse{}
			err = &DispatchError{
				Status:  http.StatusInternalServerError,
				Message: fmt.Sprintf("Error executing '%s'", command),
			}
		}
	}()

	reply, err := executor(ctx, interaction)
	if err != nil {
		log.Printf("❌ Error executing '%s': %v", command, err)
		return models.InteractionResponse{}, &DispatchError{
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("Error executing '%s'", command),
		}
	}

	return models.ImmediateReply(reply, []string{}, h.ephemeral[command]), nil
}

// commandOptions returns the interaction's options, requiring at least n of
// them. Executors know their command's fixed arity.
func commandOptions(interaction *models.Interaction, n int) ([]models.Option, error) {
	if interaction.Data == nil || len(interaction.Data.Options) < n {
		return nil, fmt.Errorf("expected at least %d options", n)
	}
	return interaction.Data.Options, nil
}

func (h *InteractionsHandler) executePing(ctx context.Context, interaction *models.Interaction) (string, error) {
	return "Pong!", nil
}

func (h *InteractionsHandler) executeRole(ctx context.Context, interaction *models.Interaction) (string, error) {
	options, err := commandOptions(interaction, 1)
	if err != nil {
		return "", err
	}
	guildID := interaction.GuildID
	userID := interaction.Member.User.ID
	roleID := options[0].StringValue()

	eligible, err := h.rolePolicy.ValidateRoleByID(ctx, guildID, roleID)
	if err != nil {
		return "", err
	}
	if !eligible {
		return fmt.Sprintf("<@&%s> is restricted", roleID), nil
	}

	var status int
	var reply string
	if interaction.Member.HasRole(roleID) {
		status, err = h.discord.RemoveMemberRole(ctx, guildID, userID, roleID)
		reply = fmt.Sprintf("You've left <@&%s>", roleID)
	} else {
		status, err = h.discord.AddMemberRole(ctx, guildID, userID, roleID)
		reply = fmt.Sprintf("You've joined <@&%s>", roleID)
	}
	if err != nil {
		return "", err
	}

	// The platform can still refuse the mutation; report that the same way
	// as a pre-flight policy rejection.
	if status == http.StatusForbidden {
		return fmt.Sprintf("<@&%s> is restricted", roleID), nil
	}
	return reply, nil
}

func (h *InteractionsHandler) executeRoles(ctx context.Context, interaction *models.Interaction) (string, error) {
	guildID := interaction.GuildID
	roles, err := h.rolePolicy.GetRoles(ctx, guildID)
	if err != nil {
		return "", err
	}

	var joinable []string
	for _, role := range roles {
		eligible, err := h.rolePolicy.ValidateRole(ctx, guildID, role, roles)
		if err != nil {
			return "", err
		}
		if eligible {
			joinable = append(joinable, role.Name)
		}
	}

	sort.Slice(joinable, func(i, j int) bool {
		return strings.ToLower(joinable[i]) < strings.ToLower(joinable[j])
	})
	return fmt.Sprintf("```\n%s\n```", strings.Join(joinable, "\n")), nil
}

func (h *InteractionsHandler) executeMembers(ctx context.Context, interaction *models.Interaction) (string, error) {
	options, err := commandOptions(interaction, 1)
	if err != nil {
		return "", err
	}
	roleID := options[0].StringValue()

	members, err := h.discord.ListMembers(ctx, interaction.GuildID, 200)
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	for _, member := range members {
		if member.HasRole(roleID) && member.User != nil {
			reply.WriteString(member.User.Username)
			reply.WriteString("\n")
		}
	}

	return fmt.Sprintf("```\n%s```", reply.String()), nil
}

func (h *InteractionsHandler) executeMyroles(ctx context.Context, interaction *models.Interaction) (string, error) {
	var reply strings.Builder
	for _, roleID := range interaction.Member.Roles {
		reply.WriteString(fmt.Sprintf("<@&%s>\n", roleID))
	}
	return reply.String(), nil
}

func (h *InteractionsHandler) executeOptime(ctx context.Context, interaction *models.Interaction) (string, error) {
	modifier := 0
	if interaction.Data != nil && len(interaction.Data.Options) > 0 {
		modifier = interaction.Data.Options[0].IntValue()
	}

	var modifierString string
	switch {
	case modifier > 0:
		modifierString = fmt.Sprintf(" +%d", modifier)
	case modifier < 0:
		modifierString = fmt.Sprintf(" %d", modifier)
	}

	remaining := utils.TimeUntilOptime(h.now(), modifier)
	return fmt.Sprintf("Optime%s starts in %s!", modifierString, utils.FormatDuration(remaining)), nil
}

func (h *InteractionsHandler) executeAddrole(ctx context.Context, interaction *models.Interaction) (string, error) {
	options, err := commandOptions(interaction, 1)
	if err != nil {
		return "", err
	}
	guildID := interaction.GuildID
	name := options[0].StringValue()

	existing, err := h.rolePolicy.FindRoleByName(ctx, guildID, name, false)
	if err != nil {
		return "", err
	}
	if role, ok := existing.Get(); ok {
		return fmt.Sprintf("%s already exists", role.Mention()), nil
	}

	role, err := h.discord.CreateRole(ctx, guildID, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s added", role.Mention()), nil
}

func (h *InteractionsHandler) executeRemoverole(ctx context.Context, interaction *models.Interaction) (string, error) {
	options, err := commandOptions(interaction, 1)
	if err != nil {
		return "", err
	}
	guildID := interaction.GuildID
	roleID := options[0].StringValue()

	eligible, err := h.rolePolicy.ValidateRoleByID(ctx, guildID, roleID)
	if err != nil {
		return "", err
	}
	if !eligible {
		return "Role is restricted", nil
	}

	if err := h.discord.DeleteRole(ctx, guildID, roleID); err != nil {
		return "", err
	}
	return "Role deleted", nil
}

func (h *InteractionsHandler) executeRenamerole(ctx context.Context, interaction *models.Interaction) (string, error) {
	options, err := commandOptions(interaction, 2)
	if err != nil {
		return "", err
	}
	guildID := interaction.GuildID
	roleID := options[0].StringValue()
	newName := options[1].StringValue()

	eligible, err := h.rolePolicy.ValidateRoleByID(ctx, guildID, roleID)
	if err != nil {
		return "", err
	}
	if !eligible {
		return fmt.Sprintf("<@&%s> is restricted", roleID), nil
	}

	// Name-conflict check runs after eligibility, and deliberately does not
	// exclude reserved roles: a rename may collide with a reserved name.
	existing, err := h.rolePolicy.FindRoleByName(ctx, guildID, newName, false)
	if err != nil {
		return "", err
	}
	if role, ok := existing.Get(); ok {
		return fmt.Sprintf("%s already exists", role.Mention()), nil
	}

	if err := h.discord.RenameRole(ctx, guildID, roleID, newName); err != nil {
		return "", err
	}
	return fmt.Sprintf("<@&%s> was renamed", roleID), nil
}

func (h *InteractionsHandler) executeSubscribe(ctx context.Context, interaction *models.Interaction) (string, error) {
	options, err := commandOptions(interaction, 1)
	if err != nil {
		return "", err
	}
	missionID := options[0].IntValue()
	userID := interaction.Member.User.ID

	status, err := h.archub.ToggleSubscription(ctx, missionID, userID)
	if err != nil {
		return "", err
	}

	missionURL := h.archub.MissionURL(missionID)
	if status == http.StatusCreated {
		return fmt.Sprintf("You are now subscribed to %s", missionURL), nil
	}
	return fmt.Sprintf("You are no longer subscribed to %s", missionURL), nil
}

func (h *InteractionsHandler) executeTicket(ctx context.Context, interaction *models.Interaction) (string, error) {
	options, err := commandOptions(interaction, 3)
	if err != nil {
		return "", err
	}
	repo := options[0].StringValue()
	title := options[1].StringValue()
	body := options[2].StringValue()

	issueTitle := fmt.Sprintf("%s: %s", interaction.Member.DisplayName(), title)
	issueURL, err := h.github.CreateIssue(ctx, repo, issueTitle, body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Ticket created at: %s", issueURL), nil
}

func (h *InteractionsHandler) executeCointoss(ctx context.Context, interaction *models.Interaction) (string, error) {
	return h.coinFlip(), nil
}

func (h *InteractionsHandler) executeD20(ctx context.Context, interaction *models.Interaction) (string, error) {
	options, err := commandOptions(interaction, 1)
	if err != nil {
		return "", err
	}

	// A malformed expression is a user-facing error; it propagates through
	// the dispatcher boundary like any other executor failure.
	result, _, err := dice.Roll(options[0].StringValue())
	if err != nil {
		return "", fmt.Errorf("failed to roll dice: %w", err)
	}
	return result.String(), nil
}

func (h *InteractionsHandler) executeMaps(ctx context.Context, interaction *models.Interaction) (string, error) {
	maps, err := h.archub.GetMaps(ctx)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString("File name [Display name]\n=========================\n")
	for _, m := range maps {
		if m.ClassName == m.DisplayName {
			out.WriteString(m.ClassName + "\n")
		} else {
			out.WriteString(fmt.Sprintf("%s [%s]\n", m.ClassName, m.DisplayName))
		}
	}

	return fmt.Sprintf("```ini\n%s```", out.String()), nil
}

func (h *InteractionsHandler) executeRenamemap(ctx context.Context, interaction *models.Interaction) (string, error) {
	options, err := commandOptions(interaction, 2)
	if err != nil {
		return "", err
	}
	oldName := options[0].StringValue()
	newName := options[1].StringValue()

	if err := h.archub.RenameMap(ctx, oldName, newName); err != nil {
		return "", err
	}
	return fmt.Sprintf("`%s` was renamed to `%s`", oldName, newName), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to write response: %v", err)
	}
}
