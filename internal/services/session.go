package services

import (
	"errors"
	"time"

	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/models"
)

// ErrNotAuthenticated is returned when an operation gets no session or a
// session that was disconnected.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the connected user. It is created by AuthService.Connect,
// Probe or Resume and ended by AuthService.Disconnect; every task operation
// takes it explicitly.
type Session struct {
	User        models.User
	ConnectedAt time.Time
	closed      bool
}

// Address returns the session owner's wallet address, or "" for a nil or
// disconnected session.
func (s *Session) Address() string {
	if !s.Active() {
		return ""
	}
	return s.User.Address
}

// Active reports whether the session can be used for task operations.
func (s *Session) Active() bool {
	return s != nil && !s.closed && s.User.Address != ""
}

func (s *Session) close() {
	s.closed = true
	s.User = models.User{}
}

func requireSession(op string, sess *Session) error {
	if !sess.Active() {
		return apierrors.E(op, apierrors.KindWallet, ErrNotAuthenticated)
	}
	return nil
}
