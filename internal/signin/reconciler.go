package signin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"comic-service/internal/account"
	"comic-service/internal/auth"
	"comic-service/internal/logger"
	"comic-service/internal/observability"
)

// DefaultPasswordPrefix is prepended to the email to form the bridge password.
const DefaultPasswordPrefix = "GOOGLE_AUTH_"

var (
	ErrInvalidAssertion = errors.New("identity assertion has no email")
	ErrSignInInProgress = errors.New("sign-in already in progress")
	ErrLoginRejected    = errors.New("login rejected")

	errEmptyToken = errors.New("empty response body")
)

// loginError keeps the backend's message as the error text while still
// matching ErrLoginRejected.
type loginError struct {
	err error
}

func (e *loginError) Error() string   { return e.err.Error() }
func (e *loginError) Unwrap() []error { return []error{ErrLoginRejected, e.err} }

// DeriveCredential returns the synthetic password that bridges an identity
// provider account onto a password account. It is a pure function of its
// inputs and is NOT a secret: anyone who knows the prefix and the email can
// compute it.
func DeriveCredential(prefix, email string) string {
	return prefix + email
}

// Presence is the outcome of an account lookup.
type Presence int

const (
	// PresenceUnknown means the lookup itself failed.
	PresenceUnknown Presence = iota
	PresenceAbsent
	PresencePresent
)

func (p Presence) String() string {
	switch p {
	case PresenceAbsent:
		return "absent"
	case PresencePresent:
		return "present"
	default:
		return "unknown"
	}
}

const (
	pathExisting   = "existing"
	pathRepaired   = "repaired"
	pathRegistered = "registered"
	pathPassword   = "password"
)

// Reconciler maps identity-provider sign-ins onto password accounts and keeps
// the client's session State current.
type Reconciler struct {
	accounts AccountAPI
	creds    CredentialStore
	state    *Holder
	prefix   string

	// persistMu orders credential store writes with the state transition
	// they belong to, so a logout never races a token being saved.
	persistMu sync.Mutex
}

type Option func(*Reconciler)

func WithPasswordPrefix(prefix string) Option {
	return func(r *Reconciler) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

func NewReconciler(accounts AccountAPI, creds CredentialStore, state *Holder, opts ...Option) *Reconciler {
	if state == nil {
		state = NewHolder()
	}
	r := &Reconciler{
		accounts: accounts,
		creds:    creds,
		state:    state,
		prefix:   DefaultPasswordPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) State() *Holder {
	return r.state
}

// SignIn reconciles a verified identity with the account backend. Every
// failure ends up in the returned State; the only error is
// ErrSignInInProgress, returned without touching state when another attempt
// is still loading.
func (r *Reconciler) SignIn(ctx context.Context, id auth.Identity) (State, error) {
	attempt, ok := r.state.Begin()
	if !ok {
		observability.RecordSignIn("federated", "busy")
		return r.state.Current(), ErrSignInInProgress
	}

	token, path, err := r.reconcile(ctx, id)
	return r.settle(ctx, attempt, "federated", path, token, err), nil
}

// Login signs in with a plain email and password.
func (r *Reconciler) Login(ctx context.Context, email, password string) (State, error) {
	attempt, ok := r.state.Begin()
	if !ok {
		observability.RecordSignIn(pathPassword, "busy")
		return r.state.Current(), ErrSignInInProgress
	}

	token, err := r.login(ctx, strings.TrimSpace(email), password)
	return r.settle(ctx, attempt, pathPassword, pathPassword, token, err), nil
}

// Restore marks the session authenticated from a previously saved token. It
// returns ErrSignInInProgress, leaving state untouched, while an attempt is
// loading.
func (r *Reconciler) Restore(ctx context.Context) (State, error) {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	token, err := r.creds.Load(ctx)
	if err != nil {
		return r.state.Current(), err
	}
	if token != "" && !r.state.Resume(token) {
		return r.state.Current(), ErrSignInInProgress
	}
	return r.state.Current(), nil
}

// Logout forgets the saved token and returns to idle. A completion from an
// attempt still in flight is discarded, and a save already under way
// finishes before the token is cleared.
func (r *Reconciler) Logout(ctx context.Context) error {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	r.state.Reset()
	return r.creds.Clear(ctx)
}

func (r *Reconciler) reconcile(ctx context.Context, id auth.Identity) (string, string, error) {
	email := strings.TrimSpace(id.Email)
	if email == "" {
		return "", "", ErrInvalidAssertion
	}

	cred := DeriveCredential(r.prefix, email)

	presence := r.lookup(ctx, email)
	observability.RecordLookup(presence.String())

	if presence == PresencePresent {
		token, err := r.login(ctx, email, cred)
		if err == nil {
			return token, pathExisting, nil
		}

		logger.Info("bridged login failed, repairing password", map[string]any{
			"email": email,
			"error": err.Error(),
		})

		if err := r.accounts.UpdatePassword(ctx, account.UpdatePasswordRequest{
			Email:       email,
			NewPassword: cred,
		}); err != nil {
			return "", pathRepaired, fmt.Errorf("failed to update password: %w", err)
		}

		token, err = r.login(ctx, email, cred)
		return token, pathRepaired, err
	}

	// Absent and Unknown both register; a duplicate from an Unknown lookup
	// surfaces as the backend's registration error.
	if err := r.accounts.RegisterUser(ctx, account.RegisterRequest{
		Email:    email,
		UserName: account.LocalPart(email),
		FullName: id.DisplayName,
		Password: cred,
	}); err != nil {
		return "", pathRegistered, err
	}

	logger.Info("bridged account registered", map[string]any{
		"email":    email,
		"provider": id.Provider,
	})

	token, err := r.login(ctx, email, cred)
	return token, pathRegistered, err
}

func (r *Reconciler) lookup(ctx context.Context, email string) Presence {
	profile, err := r.accounts.FindUserByEmail(ctx, email)
	switch {
	case err != nil:
		logger.Warn("account lookup failed, assuming no account", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return PresenceUnknown
	case profile == nil:
		return PresenceAbsent
	default:
		return PresencePresent
	}
}

func (r *Reconciler) login(ctx context.Context, email, password string) (string, error) {
	data, err := r.accounts.LoginUser(ctx, email, password)
	if err != nil {
		return "", &loginError{err: err}
	}
	if data == nil || data.Token == "" {
		return "", &loginError{err: errEmptyToken}
	}
	return data.Token, nil
}

func (r *Reconciler) settle(
	ctx context.Context,
	attempt *Attempt,
	flow string,
	path string,
	token string,
	err error,
) State {
	if ctx.Err() != nil {
		attempt.Abandon()
		observability.RecordSignIn(flow, "abandoned")
		return r.state.Current()
	}

	if err != nil {
		logger.Error("sign-in failed", map[string]any{
			"flow":  flow,
			"path":  path,
			"error": err.Error(),
		})
		attempt.Fail(err.Error())
		observability.RecordSignIn(flow, "error")
		return r.state.Current()
	}

	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	if !attempt.Live() {
		observability.RecordSignIn(flow, "discarded")
		return r.state.Current()
	}

	if err := r.creds.Save(ctx, token); err != nil {
		logger.Warn("failed to persist session token", map[string]any{
			"error": err.Error(),
		})
	}

	if attempt.Succeed(token) {
		logger.Info("signed in", map[string]any{
			"flow": flow,
			"path": path,
		})
		observability.RecordSignIn(flow, "authenticated")
		return r.state.Current()
	}

	// superseded by a direct state write after the save
	if err := r.creds.Clear(ctx); err != nil {
		logger.Warn("failed to clear discarded session token", map[string]any{
			"error": err.Error(),
		})
	}
	observability.RecordSignIn(flow, "discarded")
	return r.state.Current()
}
