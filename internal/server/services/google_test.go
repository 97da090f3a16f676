package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// tokenServer imitates Google's OAuth token endpoint.
type tokenServer struct {
	mu    sync.Mutex
	forms []url.Values
	next  string
}

func (s *tokenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.forms = append(s.forms, r.PostForm)
	access := s.next
	s.mu.Unlock()

	resp := map[string]any{"access_token": access, "token_type": "Bearer", "expires_in": 3600}
	if r.PostForm.Get("grant_type") == "authorization_code" {
		resp["refresh_token"] = "refresh-1"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func newGoogleFixture(t *testing.T) (*GoogleService, *memDB, *tokenServer, func() string) {
	t.Helper()
	ts := &tokenServer{next: "access-1"}
	oauthSrv := httptest.NewServer(ts)
	t.Cleanup(oauthSrv.Close)

	var mu sync.Mutex
	var lastAuth string
	driveSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		lastAuth = r.Header.Get("Authorization")
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(driveSrv.Close)

	cfg := NewGoogleOAuthConfig("cid", "csecret", "http://localhost/cb")
	cfg.Endpoint = oauth2.Endpoint{AuthURL: oauthSrv.URL + "/auth", TokenURL: oauthSrv.URL + "/token"}

	db, _ := newSQLMockDB(t)
	mem := newMemDB()
	svc := NewGoogleService(db, &fakeRepoManager{m: mem}, cfg, logging.Nop{}, option.WithEndpoint(driveSrv.URL+"/"))
	seenAuth := func() string {
		mu.Lock()
		defer mu.Unlock()
		return lastAuth
	}
	return svc, mem, ts, seenAuth
}

func TestGoogle_AuthURL(t *testing.T) {
	svc, _, _, _ := newGoogleFixture(t)

	raw, state, err := svc.AuthURL(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, state, 32)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, state, q.Get("state"))
	assert.Contains(t, q.Get("scope"), "drive.appdata")
}

func TestGoogle_ConnectStatusDisconnect(t *testing.T) {
	svc, mem, ts, _ := newGoogleFixture(t)
	ctx := context.Background()

	st, err := svc.Status(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, st.Connected)

	require.NoError(t, svc.Connect(ctx, "u1", "auth-code"))
	require.Len(t, ts.forms, 1)
	assert.Equal(t, "auth-code", ts.forms[0].Get("code"))

	tok := mem.tokens["u1"]
	require.NotNil(t, tok)
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.Equal(t, "refresh-1", tok.RefreshToken)

	st, err = svc.Status(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, st.Connected)
	assert.False(t, st.Expiry.IsZero())

	require.NoError(t, svc.Disconnect(ctx, "u1"))
	require.NoError(t, svc.Disconnect(ctx, "u1"))
	st, err = svc.Status(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, st.Connected)
}

func TestGoogle_ConnectRequiresCode(t *testing.T) {
	svc, _, _, _ := newGoogleFixture(t)

	err := svc.Connect(context.Background(), "u1", "")
	assert.ErrorIs(t, err, common.ErrInvalidCredentialInput)
}

func TestGoogle_DriveServiceNotConnected(t *testing.T) {
	svc, _, _, _ := newGoogleFixture(t)

	_, err := svc.DriveService(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrNotConnected)
}

func TestGoogle_DriveServiceRefreshesAndPersists(t *testing.T) {
	svc, mem, ts, seenAuth := newGoogleFixture(t)
	ctx := context.Background()
	mem.tokens["u1"] = &models.GoogleToken{
		UserID:       "u1",
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	}
	ts.next = "fresh"

	srv, err := svc.DriveService(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, srv.Files.Delete("drv-1").Context(ctx).Do())
	assert.Equal(t, "Bearer fresh", seenAuth())

	require.Len(t, ts.forms, 1)
	assert.Equal(t, "refresh_token", ts.forms[0].Get("grant_type"))
	assert.Equal(t, "refresh-1", ts.forms[0].Get("refresh_token"))

	tok := mem.tokens["u1"]
	assert.Equal(t, "fresh", tok.AccessToken)
	assert.Equal(t, "refresh-1", tok.RefreshToken)
	assert.True(t, tok.Expiry.After(time.Now()))
}

func TestPersistingTokenSource_SavesOnlyNewTokens(t *testing.T) {
	var saved []string
	p := &persistingTokenSource{
		base: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "same"}),
		last: "same",
		save: func(t *oauth2.Token) error {
			saved = append(saved, t.AccessToken)
			return nil
		},
		onSaveErr: func(error) {},
	}

	_, err := p.Token()
	require.NoError(t, err)
	assert.Empty(t, saved)

	p.base = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "new"})
	_, err = p.Token()
	require.NoError(t, err)
	_, err = p.Token()
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, saved)
}
