package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mommatch/mommatch-backend/internal/auth"
	"github.com/mommatch/mommatch-backend/internal/common/database"
	"github.com/mommatch/mommatch-backend/internal/common/testutil"
	"github.com/mommatch/mommatch-backend/internal/common/utils"
	"github.com/mommatch/mommatch-backend/internal/profile"
)

func TestEnsureConversationIsIdempotentAndCanonical(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	ada := testutil.CreateUser(t, db, "Ada")
	bea := testutil.CreateUser(t, db, "Bea")

	conv, created, err := repo.EnsureConversation(ctx, db, bea, ada)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, ada, conv.UserAID)
	assert.Equal(t, bea, conv.UserBID)

	again, created, err := repo.EnsureConversation(ctx, db, ada, bea)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv.ID, again.ID)

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM conversations`))
	assert.Equal(t, 1, count)
}

func TestEnsureConversationRejectsInvalidPair(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ada := testutil.CreateUser(t, db, "Ada")

	_, _, err := repo.EnsureConversation(context.Background(), db, ada, ada)
	assert.ErrorIs(t, err, ErrInvalidPair)

	_, _, err = repo.EnsureConversation(context.Background(), db, 0, ada)
	assert.ErrorIs(t, err, ErrInvalidPair)
}

func TestEnsureConversationInsideTransaction(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	ada := testutil.CreateUser(t, db, "Ada")
	bea := testutil.CreateUser(t, db, "Bea")

	err := database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		_, _, err := repo.EnsureConversation(ctx, tx, ada, bea)
		require.NoError(t, err)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = repo.GetConversationByPair(ctx, db, ada, bea)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestServiceReadSide(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, profile.NewRepository(db), db)
	ctx := context.Background()
	ada := testutil.CreateUser(t, db, "Ada")
	bea := testutil.CreateUser(t, db, "Bea")
	cleo := testutil.CreateUser(t, db, "Cleo")

	conv, _, err := repo.EnsureConversation(ctx, db, ada, bea)
	require.NoError(t, err)
	_, _, err = repo.EnsureConversation(ctx, db, cleo, ada)
	require.NoError(t, err)

	list, err := svc.ListConversations(ctx, ada)
	require.NoError(t, err)
	require.Len(t, list, 2)
	others := []int64{list[0].OtherUser.ID, list[1].OtherUser.ID}
	assert.ElementsMatch(t, []int64{bea, cleo}, others)

	list, err = svc.ListConversations(ctx, bea)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].OtherUser.DisplayName)

	view, err := svc.GetConversation(ctx, bea, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, ada, view.OtherUser.ID)

	_, err = svc.GetConversation(ctx, cleo, conv.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.GetConversation(ctx, ada, conv.ID+100)
	assert.ErrorIs(t, err, ErrConversationNotFound)

	ok, err := svc.CanMessage(ctx, bea, ada)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanMessage(ctx, bea, cleo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConversationRoutes(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ada := testutil.CreateUser(t, db, "Ada")
	bea := testutil.CreateUser(t, db, "Bea")
	cleo := testutil.CreateUser(t, db, "Cleo")
	conv, _, err := repo.EnsureConversation(context.Background(), db, ada, bea)
	require.NoError(t, err)

	authSvc := auth.NewService(auth.NewRepository(db), nil, &auth.Config{SessionSecret: "s", SessionTTL: time.Hour})
	router := mux.NewRouter()
	RegisterRoutes(router, NewHandler(NewService(repo, profile.NewRepository(db), db)), NewHub(nil), auth.NewMiddleware(authSvc, "mommatch_session"))

	get := func(userID int64, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if userID > 0 {
			token, _, err := utils.GenerateSessionToken(userID, time.Hour, "s")
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, get(0, "/api/v1/conversations").Code)

	rec := get(ada, "/api/v1/conversations")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool                `json:"success"`
		Data    []*ConversationView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, conv.ID, body.Data[0].ID)

	path := "/api/v1/conversations/" + strconv.FormatInt(conv.ID, 10)
	assert.Equal(t, http.StatusOK, get(bea, path).Code)
	assert.Equal(t, http.StatusForbidden, get(cleo, path).Code)
	assert.Equal(t, http.StatusNotFound, get(ada, "/api/v1/conversations/999999").Code)

	canMessage := func(userID, otherID int64) bool {
		rec := get(userID, "/api/v1/conversations/with/"+strconv.FormatInt(otherID, 10))
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data map[string]bool `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body.Data["can_message"]
	}
	assert.True(t, canMessage(ada, bea))
	assert.True(t, canMessage(bea, ada))
	assert.False(t, canMessage(ada, cleo))
	assert.False(t, canMessage(ada, ada))
	assert.Equal(t, http.StatusUnauthorized, get(0, "/api/v1/conversations/with/"+strconv.FormatInt(bea, 10)).Code)
}

func TestHubPushesMatchToConnectedMembers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
		hub.ServeWS(w, r.WithContext(auth.WithActorID(r.Context(), userID)))
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?user=7"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.online(7) }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, hub.online(8))

	hub.NotifyMatch(7, 8, map[string]int64{"conversation_id": 3})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type   string           `json:"type"`
		UserID int64            `json:"user_id"`
		Data   map[string]int64 `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "new_match", msg.Type)
	assert.Equal(t, int64(7), msg.UserID)
	assert.Equal(t, int64(3), msg.Data["conversation_id"])

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return !hub.online(7) }, 2*time.Second, 10*time.Millisecond)
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	hub := NewHub([]string{"https://mommatch.example"})
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r.WithContext(auth.WithActorID(r.Context(), 1)))
	}))
	t.Cleanup(server.Close)

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
