// Package session keeps the logged-in principal and one-shot flash notices
// in a signed, encrypted cookie session.
package session

import (
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cse_motors/internal/model"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"
)

const (
	cookieName   = "sessionId"
	principalKey = "client"
	loggedInKey  = "loggedin"
	noticeKey    = "notice"
	maxAgeSecs   = 60 * 60 * 2
)

func init() {
	gob.Register(model.Principal{})
}

// Manager wraps the cookie store used for every request.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager derives the signing and encryption keys from secret.
func NewManager(secret string, secure bool) *Manager {
	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			deriveKey(secret, "session-hash", 64),
			deriveKey(secret, "session-block", 32),
		),
		Options: &sessions.Options{
			Path:     "/",
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		},
	}
	store.MaxAge(maxAgeSecs)
	return &Manager{store: store}
}

// deriveKey stretches the configured secret to the key sizes securecookie
// expects. Rotating SESSION_SECRET invalidates all sessions.
func deriveKey(secret, purpose string, size int) []byte {
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose)), key); err != nil {
		panic(fmt.Sprintf("session: derive key: %v", err))
	}
	return key
}

func (m *Manager) get(r *http.Request) *sessions.Session {
	// A cookie that fails to decode yields a fresh session.
	s, _ := m.store.Get(r, cookieName)
	return s
}

// save writes the session cookie, replacing any cookie an earlier save in
// the same request already queued.
func (m *Manager) save(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	prefix := cookieName + "="
	headers := w.Header()["Set-Cookie"]
	kept := headers[:0]
	for _, h := range headers {
		if !strings.HasPrefix(h, prefix) {
			kept = append(kept, h)
		}
	}
	if len(kept) == 0 {
		w.Header().Del("Set-Cookie")
	} else {
		w.Header()["Set-Cookie"] = kept
	}
	return s.Save(r, w)
}

// Principal returns the logged-in principal, if any.
func (m *Manager) Principal(r *http.Request) (model.Principal, bool) {
	s := m.get(r)
	if loggedIn, _ := s.Values[loggedInKey].(bool); !loggedIn {
		return model.Principal{}, false
	}
	p, ok := s.Values[principalKey].(model.Principal)
	return p, ok
}

// SetPrincipal stores (or refreshes) the logged-in principal.
func (m *Manager) SetPrincipal(w http.ResponseWriter, r *http.Request, p model.Principal) error {
	s := m.get(r)
	s.Values[principalKey] = p
	s.Values[loggedInKey] = true
	return m.save(w, r, s)
}

// AddNotice queues a flash notice for the next rendered page.
func (m *Manager) AddNotice(w http.ResponseWriter, r *http.Request, msg string) error {
	s := m.get(r)
	s.AddFlash(msg, noticeKey)
	return m.save(w, r, s)
}

// PopNotices returns and clears the queued notices.
func (m *Manager) PopNotices(w http.ResponseWriter, r *http.Request) ([]string, error) {
	s := m.get(r)
	flashes := s.Flashes(noticeKey)
	if len(flashes) == 0 {
		return nil, nil
	}
	notices := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if msg, ok := f.(string); ok {
			notices = append(notices, msg)
		}
	}
	return notices, m.save(w, r, s)
}

// Destroy logs the principal out and expires the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	for k := range s.Values {
		delete(s.Values, k)
	}
	s.Options.MaxAge = -1
	return m.save(w, r, s)
}
