package session

import (
	"github.com/sirupsen/logrus"

	"github.com/onion-http/onion/dict"
	"github.com/onion-http/onion/handler"
	"github.com/onion-http/onion/internal/onlog"
	"github.com/onion-http/onion/request"
	"github.com/onion-http/onion/response"
)

// Middleware attaches a session dict to every request it handles,
// persisting it (and minting an id on first use) once Inner returns,
// so response.commitHeaders can still queue the Set-Cookie header
// before it writes the status line.
type Middleware struct {
	Inner handler.Handler
	Store Store
	log   *logrus.Entry
}

// Wrap builds a session-aware handler around inner, backed by store.
func Wrap(store Store, inner handler.Handler) *Middleware {
	return &Middleware{Inner: inner, Store: store, log: onlog.For("session")}
}

// Handle resolves the session (from a cookie candidate or freshly
// empty), runs Inner, and persists the result if Inner wrote anything
// to it.
func (m *Middleware) Handle(req *request.Request, res *response.Response) handler.Status {
	id, sess, existed := m.resolve(req)
	req.SetSession(id, sess)

	st := m.Inner.Handle(req, res)

	if sess.Count() > 0 {
		if id == "" {
			newID, err := NewID()
			if err != nil {
				m.log.WithError(err).Error("failed to mint session id")
				return st
			}
			id = newID
			req.SetSession(id, sess)
		}
		if err := m.Store.Save(id, sess); err != nil {
			m.log.WithError(err).Warn("failed to persist session")
		}
	} else if existed {
		if err := m.Store.Save(id, nil); err != nil {
			m.log.WithError(err).Warn("failed to remove emptied session")
		}
	}
	return st
}

// resolve looks up every sessionid cookie candidate the client sent,
// tolerant of a client presenting the cookie more than once, and
// returns the first one the store recognizes. If none match, it
// returns a fresh, unsaved, empty dict with no id yet assigned.
func (m *Middleware) resolve(req *request.Request) (id string, sess *dict.Dict, existed bool) {
	for _, candidate := range req.CookieCandidates(response.SessionCookieName) {
		if d, ok := m.Store.Get(candidate); ok {
			return candidate, d, true
		}
	}
	return "", dict.New(), false
}
