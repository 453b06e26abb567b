// Package services contains the application services of the billsync client.
// This file defines the authentication service: online/offline login,
// register, liveness probe and the saved session that scopes every write.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/billsync/internal/client/client"
	"github.com/dmitrijs2005/billsync/internal/client/models"
	"github.com/dmitrijs2005/billsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/billsync/internal/common"
	"github.com/dmitrijs2005/billsync/internal/cryptox"
	"github.com/dmitrijs2005/billsync/internal/logging"
)

// ErrPendingWritesOfOtherUser is returned when a different user tries to
// sign in while writes of the previous user are still queued.
var ErrPendingWritesOfOtherUser = errors.New("pending writes of another user must be synced or discarded first")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: online login, falling back to offline login when the server is
//     unreachable.
//   - OnlineLogin: authenticate against the server and save the session and
//     offline login material.
//   - OfflineLogin: verify the password against locally saved material and
//     restore the saved session.
//   - Register: create a user (and its organization) on the server.
//   - Logout: forget the session but keep queued writes.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (models.Session, bool, error)
	OnlineLogin(ctx context.Context, username string, password []byte) (models.Session, error)
	OfflineLogin(ctx context.Context, username string, password []byte) (models.Session, error)
	Register(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	Session() models.Session
	OrganizationID() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// PendingCounter reports how many writes are still queued locally.
type PendingCounter interface {
	Count(ctx context.Context) int
}

type authService struct {
	client  client.Client
	meta    metadata.Repository
	pending PendingCounter
	logger  logging.Logger

	mu      sync.RWMutex
	session models.Session
}

// NewAuthService constructs an AuthService bound to the API client and the
// local metadata store. pending may be nil.
func NewAuthService(c client.Client, meta metadata.Repository, pending PendingCounter, logger logging.Logger) AuthService {
	return &authService{client: c, meta: meta, pending: pending, logger: logger.With("module", "auth")}
}

func (a *authService) Session() models.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

func (a *authService) OrganizationID() string {
	return a.Session().OrganizationID
}

func (a *authService) setSession(s models.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
}

// Login tries the server first. When it is unreachable, the locally saved
// credentials are used instead. The bool result reports whether the server
// confirmed the login.
func (a *authService) Login(ctx context.Context, username string, password []byte) (models.Session, bool, error) {
	s, err := a.OnlineLogin(ctx, username, password)
	if err == nil {
		return s, true, nil
	}
	if !errors.Is(err, client.ErrUnavailable) {
		return models.Session{}, false, err
	}

	a.logger.Info(ctx, "server unavailable, trying offline login", "username", username)
	s, err = a.OfflineLogin(ctx, username, password)
	if err != nil {
		return models.Session{}, false, err
	}
	return s, false, nil
}

// OfflineLogin derives the key from (password, saved salt) and checks it
// against the saved verifier. If local data is missing it returns
// client.ErrLocalDataNotAvailable; on mismatch client.ErrUnauthorized.
func (a *authService) OfflineLogin(ctx context.Context, username string, password []byte) (models.Session, error) {
	saved, err := a.meta.List(ctx)
	if err != nil {
		return models.Session{}, err
	}

	savedUsername, ok := saved[metadata.KeyUsername]
	if !ok || len(saved[metadata.KeySalt]) == 0 || len(saved[metadata.KeyVerifier]) == 0 {
		return models.Session{}, client.ErrLocalDataNotAvailable
	}
	if string(savedUsername) != username {
		return models.Session{}, client.ErrUnauthorized
	}

	key := cryptox.DeriveKey(password, saved[metadata.KeySalt])
	defer common.WipeByteArray(key)

	if subtle.ConstantTimeCompare(saved[metadata.KeyVerifier], cryptox.MakeVerifier(key)) == 0 {
		return models.Session{}, client.ErrUnauthorized
	}

	s := models.Session{
		Username:       username,
		OrganizationID: string(saved[metadata.KeyOrganizationID]),
		AccessToken:    string(saved[metadata.KeyAccessToken]),
	}
	if !s.Active() {
		return models.Session{}, client.ErrLocalDataNotAvailable
	}

	a.client.SetAccessToken(s.AccessToken)
	a.setSession(s)
	return s, nil
}

// OnlineLogin authenticates against the server and saves the offline login
// material together with the session.
func (a *authService) OnlineLogin(ctx context.Context, username string, password []byte) (models.Session, error) {
	if err := a.checkPendingOwner(ctx, username); err != nil {
		return models.Session{}, err
	}

	salt, err := a.client.GetSalt(ctx, username)
	if err != nil {
		return models.Session{}, fmt.Errorf("get salt error: %w", err)
	}

	key := cryptox.DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	verifier := cryptox.MakeVerifier(key)

	s, err := a.client.Login(ctx, username, verifier)
	if err != nil {
		return models.Session{}, fmt.Errorf("login error: %w", err)
	}

	if err := a.meta.SetMany(ctx, map[string][]byte{
		metadata.KeyUsername:       []byte(username),
		metadata.KeySalt:           salt,
		metadata.KeyVerifier:       verifier,
		metadata.KeyOrganizationID: []byte(s.OrganizationID),
		metadata.KeyAccessToken:    []byte(s.AccessToken),
	}); err != nil {
		return models.Session{}, fmt.Errorf("offline data saving error: %w", err)
	}

	a.setSession(s)
	return s, nil
}

func (a *authService) checkPendingOwner(ctx context.Context, username string) error {
	if a.pending == nil || a.pending.Count(ctx) == 0 {
		return nil
	}
	saved, err := a.meta.Get(ctx, metadata.KeyUsername)
	if err != nil {
		return err
	}
	if saved != nil && string(saved) != username {
		return ErrPendingWritesOfOtherUser
	}
	return nil
}

// Register creates a new account on the server with a fresh salt and the
// verifier derived from password.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	salt := cryptox.NewSalt()
	key := cryptox.DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	return a.client.Register(ctx, username, salt, cryptox.MakeVerifier(key))
}

// Logout drops the session and the saved token. Offline login material,
// the organization and queued writes stay, so a later offline login can
// keep queueing.
func (a *authService) Logout(ctx context.Context) error {
	a.setSession(models.Session{})
	a.client.SetAccessToken("")
	return a.meta.Delete(ctx, metadata.KeyAccessToken)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
