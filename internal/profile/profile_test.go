package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mommatch/mommatch-backend/internal/auth"
	"github.com/mommatch/mommatch-backend/internal/common/testutil"
	"github.com/mommatch/mommatch-backend/internal/common/utils"
)

func addInterest(t *testing.T, db *sqlx.DB, actorID, targetID int64, status string) {
	t.Helper()
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO interests (actor_id, target_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		actorID, targetID, status, now, now)
	require.NoError(t, err)
}

func TestUserExistsAndGetProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	ada := testutil.CreateUser(t, db, "Ada")

	ok, err := repo.UserExists(ctx, ada)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UserExists(ctx, ada+100)
	require.NoError(t, err)
	assert.False(t, ok)

	p, err := repo.GetProfile(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.DisplayName)
	assert.Equal(t, "Lagos", p.City)

	_, err = repo.GetProfile(ctx, ada+100)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestListCandidatesExcludesSelfAndActedOn(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewService(NewRepository(db), bcrypt.MinCost)
	ctx := context.Background()

	ada := testutil.CreateUser(t, db, "Ada")
	bea := testutil.CreateUser(t, db, "Bea")
	cleo := testutil.CreateUser(t, db, "Cleo")
	dora := testutil.CreateUser(t, db, "Dora")

	addInterest(t, db, ada, bea, "pending")
	addInterest(t, db, ada, cleo, "rejected")
	// Incoming edges do not hide anyone.
	addInterest(t, db, dora, ada, "pending")

	got, err := svc.ListCandidates(ctx, ada, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, dora, got[0].ID)

	// Deleting the rejected edge puts Cleo back in the pool.
	_, err = db.Exec(`DELETE FROM interests WHERE actor_id = ? AND target_id = ?`, ada, cleo)
	require.NoError(t, err)
	got, err = svc.ListCandidates(ctx, ada, &CandidateFilter{Limit: 10})
	require.NoError(t, err)
	ids := []int64{}
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []int64{cleo, dora}, ids)
}

func TestListCandidatesPaging(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewService(NewRepository(db), bcrypt.MinCost)
	ctx := context.Background()

	ada := testutil.CreateUser(t, db, "Ada")
	for i := 0; i < 5; i++ {
		testutil.CreateUser(t, db, "Member"+strconv.Itoa(i))
	}

	page, err := svc.ListCandidates(ctx, ada, &CandidateFilter{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = svc.ListCandidates(ctx, ada, &CandidateFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	page, err = svc.ListCandidates(ctx, ada, &CandidateFilter{Limit: 1000, Offset: -3})
	require.NoError(t, err)
	assert.Len(t, page, 5)
}

func TestCreateUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewService(NewRepository(db), bcrypt.MinCost)
	ctx := context.Background()

	p, err := svc.CreateUser(ctx, &CreateUserRequest{
		Email:       "Grace@Example.com",
		DisplayName: "Grace",
		Password:    "supersecret",
		City:        "Abuja",
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Abuja", p.City)

	var hash string
	require.NoError(t, db.Get(&hash, `SELECT password_hash FROM users WHERE email = ?`, "grace@example.com"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("supersecret")))

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Email: "grace@example.com", DisplayName: "Grace", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Email: "bad", DisplayName: "G", Password: "short"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email")
}

func TestProfileRoutes(t *testing.T) {
	db := testutil.NewTestDB(t)
	ada := testutil.CreateUser(t, db, "Ada")
	bea := testutil.CreateUser(t, db, "Bea")

	authSvc := auth.NewService(auth.NewRepository(db), nil, &auth.Config{SessionSecret: "s", SessionTTL: time.Hour})
	router := NewRouter(NewHandler(NewService(NewRepository(db), bcrypt.MinCost)), auth.NewMiddleware(authSvc, "mommatch_session"))

	token, _, err := utils.GenerateSessionToken(ada, time.Hour, "s")
	require.NoError(t, err)

	get := func(path string, authenticated bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if authenticated {
			req.AddCookie(&http.Cookie{Name: "mommatch_session", Value: token})
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := get(PathPrefix+"/candidates", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(PathPrefix+"/candidates", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Profiles []Profile `json:"profiles"`
			Count    int       `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Data.Count)
	assert.Equal(t, bea, body.Data.Profiles[0].ID)

	rec = get(PathPrefix+"/"+strconv.FormatInt(bea, 10), true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(PathPrefix+"/999999", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(PathPrefix+"/abc", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(PathPrefix+"/candidates?limit=x", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
