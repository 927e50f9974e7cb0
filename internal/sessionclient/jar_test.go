package sessionclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileJar_SurvivesReopen(t *testing.T) {
	srv := httptest.NewServer(&fakeAuthServer{})
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "session.json")

	jar, err := OpenFileJar(srv.URL, path)
	if err != nil {
		t.Fatalf("open jar: %v", err)
	}
	s := New(Options{BaseURL: srv.URL, HTTP: NewHTTPClient(time.Second, jar)})
	if err := s.Login(context.Background(), "a@b.com", "right"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := jar.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := OpenFileJar(srv.URL, path)
	if err != nil {
		t.Fatalf("reopen jar: %v", err)
	}
	s = New(Options{BaseURL: srv.URL, HTTP: NewHTTPClient(time.Second, reopened)})
	s.Start(context.Background())
	if s.Status() != StatusAuthenticated {
		t.Fatalf("expected session restored, got %s", s.Status())
	}

	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := reopened.Save(); err != nil {
		t.Fatalf("save after logout: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected session file removed, got %v", err)
	}
}

func TestOpenFileJar_MissingFile(t *testing.T) {
	jar, err := OpenFileJar("http://localhost:8080", filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("open jar: %v", err)
	}
	u, _ := url.Parse("http://localhost:8080/")
	if got := jar.Cookies(u); len(got) != 0 {
		t.Fatalf("expected empty jar, got %v", got)
	}
}

func TestFileJar_KeepsExpiryAndDropsExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	origin := "http://localhost:8080"
	u, _ := url.Parse(origin + "/")
	// The underlying jar checks expiry against the wall clock.
	now := time.Now().UTC().Truncate(time.Second)
	clock := func() time.Time { return now }

	jar, err := openFileJar(origin, path, clock)
	if err != nil {
		t.Fatalf("open jar: %v", err)
	}
	jar.SetCookies(u, []*http.Cookie{
		{Name: "customerAccessToken", Value: "tok-1", Path: "/", Expires: now.Add(time.Hour)},
		{Name: "cartId", Value: "cart-1", Path: "/", MaxAge: 60},
	})
	if err := jar.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var saved []savedCookie
	if err := json.Unmarshal(raw, &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	expires := map[string]time.Time{}
	for _, c := range saved {
		expires[c.Name] = c.Expires
	}
	if !expires["customerAccessToken"].Equal(now.Add(time.Hour)) || !expires["cartId"].Equal(now.Add(time.Minute)) {
		t.Fatalf("expected expiries to be kept, got %v", expires)
	}

	later := func() time.Time { return now.Add(30 * time.Minute) }
	reopened, err := openFileJar(origin, path, later)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.Cookies(u)
	if len(got) != 1 || got[0].Name != "customerAccessToken" {
		t.Fatalf("expected only the unexpired token, got %v", got)
	}
}
