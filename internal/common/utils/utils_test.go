package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, issued, err := GenerateSessionToken(42, time.Hour, "secret")
	require.NoError(t, err)
	require.NotEmpty(t, issued.TokenID)

	claims, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestParseSessionTokenRejects(t *testing.T) {
	token, _, err := GenerateSessionToken(42, time.Hour, "secret")
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := GenerateSessionToken(42, -time.Minute, "secret")
	require.NoError(t, err)
	_, err = ParseSessionToken(expired, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseSessionToken("garbage", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	type req struct {
		TargetUserID int64  `json:"target_user_id" validate:"required,gt=0"`
		Action       string `json:"action" validate:"required,oneof=like reject"`
	}

	err := ValidateStruct(req{TargetUserID: 3, Action: "like"})
	require.NoError(t, err)

	err = ValidateStruct(req{Action: "wink"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_user_id is required")
	assert.Contains(t, err.Error(), "action must be one of: like reject")
}

func TestErrorResponseEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, "nope", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "nope", body["error"])
	assert.NotContains(t, body, "data")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ana"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "ana", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.EqualError(t, DecodeJSON(r, &dst), "request body is empty")

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	assert.Error(t, DecodeJSON(r, &dst))
}
