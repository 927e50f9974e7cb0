package sessionclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileJar is a cookie jar for one origin whose cookies survive between
// processes in a JSON file. Expired cookies are dropped when the file is
// opened.
type FileJar struct {
	*cookiejar.Jar
	origin *url.URL
	path   string
	now    func() time.Time

	mu   sync.Mutex
	meta map[string]cookieMeta
}

type cookieMeta struct {
	expires time.Time
	secure  bool
}

type savedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitzero"`
	Secure  bool      `json:"secure,omitempty"`
}

// OpenFileJar loads the cookies stored at path for origin. A missing file
// yields an empty jar.
func OpenFileJar(origin, path string) (*FileJar, error) {
	return openFileJar(origin, path, time.Now)
}

func openFileJar(origin, path string, now func() time.Time) (*FileJar, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	fj := &FileJar{Jar: jar, origin: u, path: path, now: now, meta: map[string]cookieMeta{}}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fj, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var saved []savedCookie
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		if !c.Expires.IsZero() && !c.Expires.After(now()) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/", Expires: c.Expires, Secure: c.Secure})
	}
	fj.SetCookies(u, cookies)
	return fj, nil
}

// SetCookies records expiry and Secure for the origin's cookies, which the
// underlying jar does not report back, before storing them.
func (j *FileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if u.Host == j.origin.Host {
		j.mu.Lock()
		for _, c := range cookies {
			switch {
			case c.MaxAge < 0:
				delete(j.meta, c.Name)
			case c.MaxAge > 0:
				j.meta[c.Name] = cookieMeta{expires: j.now().Add(time.Duration(c.MaxAge) * time.Second), secure: c.Secure}
			default:
				j.meta[c.Name] = cookieMeta{expires: c.Expires, secure: c.Secure}
			}
		}
		j.mu.Unlock()
	}
	j.Jar.SetCookies(u, cookies)
}

// Save writes the jar's current cookies for the origin. An empty jar
// removes the file.
func (j *FileJar) Save() error {
	cookies := j.Cookies(j.origin)
	if len(cookies) == 0 {
		if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	j.mu.Lock()
	saved := make([]savedCookie, 0, len(cookies))
	for _, c := range cookies {
		m := j.meta[c.Name]
		saved = append(saved, savedCookie{Name: c.Name, Value: c.Value, Expires: m.expires.UTC(), Secure: m.secure})
	}
	j.mu.Unlock()

	raw, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(j.path, raw, 0o600)
}
