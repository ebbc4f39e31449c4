package handlers

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svenbot/models"
)

func signRequest(t *testing.T, key ed25519.PrivateKey, timestamp string, body []byte) string {
	t.Helper()
	message := append([]byte(timestamp), body...)
	return hex.EncodeToString(ed25519.Sign(key, message))
}

func TestVerifyKey(t *testing.T) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	body := []byte(`{"type": 1}`)
	timestamp := "1616182259"

	t.Run("valid signature", func(t *testing.T) {
		signature := signRequest(t, privateKey, timestamp, body)
		assert.True(t, VerifyKey(body, signature, timestamp, publicKey))
	})

	t.Run("tampered body", func(t *testing.T) {
		signature := signRequest(t, privateKey, timestamp, body)
		assert.False(t, VerifyKey([]byte(`{"type": 2}`), signature, timestamp, publicKey))
	})

	t.Run("tampered timestamp", func(t *testing.T) {
		signature := signRequest(t, privateKey, timestamp, body)
		assert.False(t, VerifyKey(body, signature, "1616182260", publicKey))
	})

	t.Run("wrong key", func(t *testing.T) {
		otherPublic, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		signature := signRequest(t, privateKey, timestamp, body)
		assert.False(t, VerifyKey(body, signature, timestamp, otherPublic))
	})

	t.Run("signature is not hex", func(t *testing.T) {
		assert.False(t, VerifyKey(body, "zznothex", timestamp, publicKey))
	})

	t.Run("signature too short", func(t *testing.T) {
		assert.False(t, VerifyKey(body, "abcd", timestamp, publicKey))
	})

	t.Run("empty public key", func(t *testing.T) {
		signature := signRequest(t, privateKey, timestamp, body)
		assert.False(t, VerifyKey(body, signature, timestamp, nil))
	})
}

func TestHandleInteraction_SignatureGate(t *testing.T) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	env := newTestEnv(t)
	env.handler.publicKey = publicKey

	post := func(body string, sign bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/interaction", strings.NewReader(body))
		if sign {
			timestamp := "1616182259"
			req.Header.Set("X-Signature-Ed25519", signRequest(t, privateKey, timestamp, []byte(body)))
			req.Header.Set("X-Signature-Timestamp", timestamp)
		}
		recorder := httptest.NewRecorder()
		env.handler.HandleInteraction(recorder, req)
		return recorder
	}

	t.Run("ping handshake", func(t *testing.T) {
		recorder := post(`{"type": 1}`, true)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response models.InteractionResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, models.ResponseTypePong, response.Type)
	})

	t.Run("signed command", func(t *testing.T) {
		recorder := post(`{"type": 2, "guild_id": "guild1", "data": {"name": "ping"},
			"member": {"user": {"id": "User123", "username": "TestUser"}, "roles": []}}`, true)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response models.InteractionResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.NotNil(t, response.Data)
		assert.Equal(t, "Pong!", *response.Data.Content)
	})

	t.Run("unsigned request", func(t *testing.T) {
		recorder := post(`{"type": 1}`, false)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Bad request signature")
	})

	t.Run("forged signature", func(t *testing.T) {
		body := `{"type": 1}`
		req := httptest.NewRequest(http.MethodPost, "/interaction", strings.NewReader(body))
		req.Header.Set("X-Signature-Ed25519", strings.Repeat("ab", ed25519.SignatureSize))
		req.Header.Set("X-Signature-Timestamp", "1616182259")
		recorder := httptest.NewRecorder()

		env.handler.HandleInteraction(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown command surfaces dispatch status", func(t *testing.T) {
		recorder := post(`{"type": 2, "guild_id": "guild1", "data": {"name": "nope"},
			"member": {"user": {"id": "User123", "username": "TestUser"}, "roles": []}}`, true)

		assert.Equal(t, http.StatusNotImplemented, recorder.Code)
	})
}
