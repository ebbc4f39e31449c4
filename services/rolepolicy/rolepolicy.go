// Package rolepolicy decides which guild roles are self-service: roles a
// member may join, leave, create, delete or rename through the bot. Policies
// are pure functions over a fetched role snapshot; the service fails closed
// for guilds with no registered policy.
package rolepolicy

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/mo"

	"svenbot/clients"
	"svenbot/models"
)

var (
	// ErrBotRoleNotFound means the guild has no role tagged with this
	// application's client id. That is a misconfiguration, not user error:
	// the bot cannot establish its own hierarchy position.
	ErrBotRoleNotFound = errors.New("unable to find bot's role")

	// ErrRoleNotFound means a role id was not present in the guild snapshot.
	ErrRoleNotFound = errors.New("unable to find role")
)

// Policy is a closed enumeration of per-guild eligibility variants.
type Policy int

const (
	// Unregistered rejects every role; guilds absent from the policy table
	// get this.
	Unregistered Policy = iota

	// Basic admits roles with no bot tag positioned strictly below the bot.
	Basic

	// ColorGated is Basic restricted further to uncolored roles; colored
	// roles are reserved for cosmetics and staff.
	ColorGated
)

// ParsePolicy maps a configuration name to a policy variant. Unknown names
// fail closed.
func ParsePolicy(name string) Policy {
	switch strings.ToLower(name) {
	case "basic":
		return Basic
	case "color", "colour":
		return ColorGated
	default:
		return Unregistered
	}
}

// ParsePolicies converts a config-level name table into policy variants.
func ParsePolicies(names map[string]string) map[string]Policy {
	policies := make(map[string]Policy, len(names))
	for guildID, name := range names {
		policies[guildID] = ParsePolicy(name)
	}
	return policies
}

// Eligible reports whether a role is self-service under this policy, given
// the bot's own hierarchy position.
func (p Policy) Eligible(role models.Role, botPosition int) bool {
	switch p {
	case Basic:
		return !role.IsBotRole() && role.Position < botPosition
	case ColorGated:
		return Basic.Eligible(role, botPosition) && role.Color == 0
	default:
		return false
	}
}

// Service evaluates role eligibility against live guild state.
type Service struct {
	discord  *clients.DiscordClient
	clientID string
	policies map[string]Policy
}

func NewService(discord *clients.DiscordClient, clientID string, policies map[string]Policy) *Service {
	return &Service{
		discord:  discord,
		clientID: clientID,
		policies: policies,
	}
}

// GetRoles fetches the guild's role snapshot.
func (s *Service) GetRoles(ctx context.Context, guildID string) ([]models.Role, error) {
	return s.discord.GetGuildRoles(ctx, guildID)
}

// BotPosition locates the hierarchy position of the bot's own integration
// role within the snapshot.
func (s *Service) BotPosition(roles []models.Role) (int, error) {
	for _, role := range roles {
		if role.Tags != nil && role.Tags.BotID != nil && *role.Tags.BotID == s.clientID {
			return role.Position, nil
		}
	}
	return 0, ErrBotRoleNotFound
}

// ValidateRole reports whether the role is self-service in the guild. A nil
// snapshot triggers a fetch; callers checking several roles should fetch once
// and pass the snapshot down.
func (s *Service) ValidateRole(ctx context.Context, guildID string, role models.Role, roles []models.Role) (bool, error) {
	if roles == nil {
		fetched, err := s.GetRoles(ctx, guildID)
		if err != nil {
			return false, err
		}
		roles = fetched
	}

	botPosition, err := s.BotPosition(roles)
	if err != nil {
		return false, err
	}

	return s.policies[guildID].Eligible(role, botPosition), nil
}

// ValidateRoleByID resolves the role id against a fresh snapshot and checks
// eligibility. An id absent from the guild is a fault, not a policy rejection.
func (s *Service) ValidateRoleByID(ctx context.Context, guildID, roleID string) (bool, error) {
	roles, err := s.GetRoles(ctx, guildID)
	if err != nil {
		return false, err
	}

	for _, role := range roles {
		if role.ID == roleID {
			return s.ValidateRole(ctx, guildID, role, roles)
		}
	}
	return false, ErrRoleNotFound
}

// FindRoleByName locates a role by case-insensitive exact name, first match
// winning by snapshot order. With excludeReserved set, a match that fails the
// guild policy comes back None — indistinguishable from no match at all.
func (s *Service) FindRoleByName(ctx context.Context, guildID, query string, excludeReserved bool) (mo.Option[models.Role], error) {
	roles, err := s.GetRoles(ctx, guildID)
	if err != nil {
		return mo.None[models.Role](), err
	}

	query = strings.ToLower(query)
	for _, role := range roles {
		if strings.ToLower(role.Name) != query {
			continue
		}

		if excludeReserved {
			eligible, err := s.ValidateRole(ctx, guildID, role, roles)
			if err != nil {
				return mo.None[models.Role](), err
			}
			if !eligible {
				return mo.None[models.Role](), nil
			}
		}
		return mo.Some(role), nil
	}

	return mo.None[models.Role](), nil
}
