package rolepolicy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svenbot/clients"
	"svenbot/models"
)

const testClientID = "bot-client-id"

func botTag(botID string) *models.RoleTags {
	return &models.RoleTags{BotID: &botID}
}

func testRoles() []models.Role {
	return []models.Role{
		{ID: "everyone", Name: "@everyone", Position: 0, Color: 0},
		{ID: "joinable", Name: "Joinable", Position: 1, Color: 0},
		{ID: "colored", Name: "Colored", Position: 2, Color: 15158332},
		{ID: "otherbot", Name: "Other Bot", Position: 3, Color: 0, Tags: botTag("someone-else")},
		{ID: "botrole", Name: "SvenBot", Position: 5, Color: 0, Tags: botTag(testClientID)},
		{ID: "staff", Name: "Staff", Position: 7, Color: 0},
	}
}

func newTestService(t *testing.T, policies map[string]Policy, roles string) *Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(roles))
	}))
	t.Cleanup(server.Close)

	discord := clients.NewDiscordClient(clients.NewHTTPClient("token"), server.URL)
	return NewService(discord, testClientID, policies)
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, Basic, ParsePolicy("basic"))
	assert.Equal(t, Basic, ParsePolicy("Basic"))
	assert.Equal(t, ColorGated, ParsePolicy("color"))
	assert.Equal(t, ColorGated, ParsePolicy("colour"))
	assert.Equal(t, Unregistered, ParsePolicy("something-else"))
	assert.Equal(t, Unregistered, ParsePolicy(""))
}

func TestPolicyEligible(t *testing.T) {
	botPosition := 5

	tests := []struct {
		name   string
		policy Policy
		role   models.Role
		want   bool
	}{
		{"unregistered rejects everything", Unregistered, models.Role{ID: "r", Position: 1}, false},
		{"basic admits low uncolored role", Basic, models.Role{ID: "r", Position: 1}, true},
		{"basic admits low colored role", Basic, models.Role{ID: "r", Position: 1, Color: 255}, true},
		{"basic rejects role above bot", Basic, models.Role{ID: "r", Position: 7}, false},
		{"basic rejects role at bot position", Basic, models.Role{ID: "r", Position: 5}, false},
		{"basic rejects bot-tagged role", Basic, models.Role{ID: "r", Position: 1, Tags: botTag("x")}, false},
		{"color admits low uncolored role", ColorGated, models.Role{ID: "r", Position: 1}, true},
		{"color rejects colored role", ColorGated, models.Role{ID: "r", Position: 1, Color: 255}, false},
		{"color rejects role above bot", ColorGated, models.Role{ID: "r", Position: 7}, false},
		{"color rejects bot-tagged role", ColorGated, models.Role{ID: "r", Position: 1, Tags: botTag("x")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Eligible(tt.role, botPosition))
		})
	}
}

func TestBotPosition(t *testing.T) {
	service := NewService(nil, testClientID, nil)

	t.Run("finds own integration role past other bots", func(t *testing.T) {
		position, err := service.BotPosition(testRoles())
		require.NoError(t, err)
		assert.Equal(t, 5, position)
	})

	t.Run("errors when absent", func(t *testing.T) {
		roles := []models.Role{
			{ID: "otherbot", Name: "Other Bot", Position: 3, Tags: botTag("someone-else")},
		}
		_, err := service.BotPosition(roles)
		assert.ErrorIs(t, err, ErrBotRoleNotFound)
	})
}

func TestValidateRole(t *testing.T) {
	rolesJSON := `[
		{"id": "joinable", "name": "Joinable", "position": 1, "color": 0},
		{"id": "colored", "name": "Colored", "position": 2, "color": 255},
		{"id": "botrole", "name": "SvenBot", "position": 5, "color": 0, "tags": {"bot_id": "bot-client-id"}}
	]`

	t.Run("unknown guild fails closed", func(t *testing.T) {
		service := newTestService(t, map[string]Policy{}, rolesJSON)

		eligible, err := service.ValidateRole(context.Background(), "unknown-guild",
			models.Role{ID: "joinable", Position: 1}, nil)

		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("basic guild admits joinable role", func(t *testing.T) {
		service := newTestService(t, map[string]Policy{"g1": Basic}, rolesJSON)

		eligible, err := service.ValidateRole(context.Background(), "g1",
			models.Role{ID: "joinable", Position: 1}, nil)

		require.NoError(t, err)
		assert.True(t, eligible)
	})

	t.Run("no bot role is a fault", func(t *testing.T) {
		service := newTestService(t, map[string]Policy{"g1": Basic},
			`[{"id": "joinable", "name": "Joinable", "position": 1, "color": 0}]`)

		_, err := service.ValidateRole(context.Background(), "g1",
			models.Role{ID: "joinable", Position: 1}, nil)

		assert.ErrorIs(t, err, ErrBotRoleNotFound)
	})
}

func TestValidateRoleByID(t *testing.T) {
	rolesJSON := `[
		{"id": "joinable", "name": "Joinable", "position": 1, "color": 0},
		{"id": "staff", "name": "Staff", "position": 7, "color": 0},
		{"id": "botrole", "name": "SvenBot", "position": 5, "color": 0, "tags": {"bot_id": "bot-client-id"}}
	]`
	service := newTestService(t, map[string]Policy{"g1": Basic}, rolesJSON)

	t.Run("eligible role", func(t *testing.T) {
		eligible, err := service.ValidateRoleByID(context.Background(), "g1", "joinable")
		require.NoError(t, err)
		assert.True(t, eligible)
	})

	t.Run("reserved role", func(t *testing.T) {
		eligible, err := service.ValidateRoleByID(context.Background(), "g1", "staff")
		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("missing role", func(t *testing.T) {
		_, err := service.ValidateRoleByID(context.Background(), "g1", "nope")
		assert.ErrorIs(t, err, ErrRoleNotFound)
	})
}

func TestFindRoleByName(t *testing.T) {
	rolesJSON := `[
		{"id": "joinable", "name": "Joinable", "position": 1, "color": 0},
		{"id": "staff", "name": "Staff", "position": 7, "color": 0},
		{"id": "botrole", "name": "SvenBot", "position": 5, "color": 0, "tags": {"bot_id": "bot-client-id"}}
	]`
	service := newTestService(t, map[string]Policy{"g1": Basic}, rolesJSON)

	t.Run("case-insensitive match", func(t *testing.T) {
		found, err := service.FindRoleByName(context.Background(), "g1", "jOiNaBlE", false)
		require.NoError(t, err)
		require.True(t, found.IsPresent())
		assert.Equal(t, "joinable", found.MustGet().ID)
	})

	t.Run("no match", func(t *testing.T) {
		found, err := service.FindRoleByName(context.Background(), "g1", "Ghost", false)
		require.NoError(t, err)
		assert.True(t, found.IsAbsent())
	})

	t.Run("reserved match included without exclusion", func(t *testing.T) {
		found, err := service.FindRoleByName(context.Background(), "g1", "Staff", false)
		require.NoError(t, err)
		require.True(t, found.IsPresent())
		assert.Equal(t, "staff", found.MustGet().ID)
	})

	t.Run("reserved match hidden with exclusion", func(t *testing.T) {
		found, err := service.FindRoleByName(context.Background(), "g1", "Staff", true)
		require.NoError(t, err)
		assert.True(t, found.IsAbsent())
	})
}
