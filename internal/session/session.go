// Package session tracks the authenticated identity and idle expiry of one
// interactive login. Session state lives in an explicit Session value passed
// to every protected operation; there is no ambient global.
package session

import (
	"context"
	"time"

	"emotivision/internal/auth"
	apperrors "emotivision/internal/errors"
	"emotivision/internal/repository"
)

// State is the session manager's authentication state.
type State int

const (
	// Unauthenticated means no identity is bound to the session.
	Unauthenticated State = iota
	// Authenticated means a login succeeded and has not expired.
	Authenticated
)

// Session is the interactive authenticated context bound to one login.
type Session struct {
	Username  string
	LoginTime time.Time
	RecordID  uint
	TokenID   string
}

// CredentialVerifier checks a username/password pair against the credential
// store.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// Resettable is a collaborator holding session-scoped derived state that must
// be cleared on logout, such as chat history.
type Resettable interface {
	Reset(username string)
}

// Manager owns the login/logout state machine and the idle-timeout rule.
type Manager struct {
	verifier      CredentialVerifier
	records       repository.SessionRepository
	jwtService    *auth.JWTService
	store         auth.SessionStoreInterface
	timeout       time.Duration
	collaborators []Resettable

	now func() time.Time
}

// NewManager creates a session manager with the given idle timeout.
func NewManager(
	verifier CredentialVerifier,
	records repository.SessionRepository,
	jwtService *auth.JWTService,
	store auth.SessionStoreInterface,
	timeout time.Duration,
) *Manager {
	return &Manager{
		verifier:   verifier,
		records:    records,
		jwtService: jwtService,
		store:      store,
		timeout:    timeout,
		now:        time.Now,
	}
}

// AddCollaborator registers session-scoped state to clear on logout.
func (m *Manager) AddCollaborator(c Resettable) {
	m.collaborators = append(m.collaborators, c)
}

// Login verifies credentials and, on success, opens a session record, issues
// a session token, and returns the authenticated session. A failed check
// leaves the caller unauthenticated with ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, string, error) {
	ok, err := m.verifier.Verify(ctx, username, password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	loginTime := m.now()
	record, err := m.records.Start(ctx, username, loginTime)
	if err != nil {
		return nil, "", apperrors.Storage(err)
	}

	tokenID, token, err := m.jwtService.GenerateSessionToken(username, record.ID)
	if err != nil {
		return nil, "", err
	}
	if err := m.store.StoreSession(ctx, tokenID, username, record.ID, loginTime, m.timeout); err != nil {
		return nil, "", err
	}

	return &Session{
		Username:  username,
		LoginTime: loginTime,
		RecordID:  record.ID,
		TokenID:   tokenID,
	}, token, nil
}

// CheckActive reports the session's state. A session idle beyond the timeout
// is forcibly logged out and reported as expired.
func (m *Manager) CheckActive(ctx context.Context, s *Session) (State, error) {
	if s == nil || s.Username == "" {
		return Unauthenticated, nil
	}
	if m.now().Sub(s.LoginTime) > m.timeout {
		_ = m.Logout(ctx, s)
		return Unauthenticated, apperrors.ErrSessionExpired
	}
	return Authenticated, nil
}

// Logout unconditionally transitions to Unauthenticated: the session record
// is closed, the token is revoked, and collaborator state is cleared.
func (m *Manager) Logout(ctx context.Context, s *Session) error {
	if s == nil || s.Username == "" {
		return nil
	}

	username := s.Username
	if s.TokenID != "" {
		_ = m.store.DeleteSession(ctx, s.TokenID)
	}
	var endErr error
	if s.RecordID != 0 {
		if err := m.records.End(ctx, s.RecordID, m.now()); err != nil {
			endErr = apperrors.Storage(err)
		}
	}

	for _, c := range m.collaborators {
		c.Reset(username)
	}

	s.Username = ""
	s.LoginTime = time.Time{}
	s.RecordID = 0
	s.TokenID = ""

	return endErr
}

// Resume rebuilds a session from validated token claims, rejecting tokens
// that are revoked or past the idle limit.
func (m *Manager) Resume(ctx context.Context, claims *auth.Claims) (*Session, error) {
	username, recordID, loginTime, err := m.store.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.ErrSessionExpired
	}

	s := &Session{
		Username:  username,
		LoginTime: loginTime,
		RecordID:  recordID,
		TokenID:   claims.ID,
	}
	if _, err := m.CheckActive(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
