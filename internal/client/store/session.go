package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/goblog/internal/client/credentials"
	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/dmitrijs2005/goblog/internal/common"
	"github.com/dmitrijs2005/goblog/internal/logging"
)

// LandingPath is where a successful login takes the user.
const LandingPath = "/home"

// UserAPI is implemented by resources.Users.
type UserAPI interface {
	Login(ctx context.Context, form models.LoginForm) (models.AuthResult, error)
	Register(ctx context.Context, form models.RegisterForm) (models.AuthResult, error)
	Me(ctx context.Context) (models.User, error)
	UpdateMe(ctx context.Context, in models.ProfileInput) (models.User, error)
	ChangePassword(ctx context.Context, userID int, in models.PasswordChange) error
}

// CredentialStore is implemented by credentials.Store.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token, username string) error
	Clear(ctx context.Context) error
}

// Bearer is the adapter's default Authorization header.
type Bearer interface {
	SetBearer(token string)
	ClearBearer()
}

// Navigate moves the application to path.
type Navigate func(ctx context.Context, path string) error

// Session is the single owner of the logged-in flag and the user profile.
// IsLoggedIn is true exactly when a profile is held.
type Session struct {
	users  UserAPI
	creds  CredentialStore
	bearer Bearer
	logger logging.Logger
	now    func() time.Time

	action sync.Mutex

	mu       sync.RWMutex
	user     *models.User
	loading  bool
	errMsg   string
	navigate Navigate
}

func NewSession(users UserAPI, creds CredentialStore, bearer Bearer, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Session{
		users:  users,
		creds:  creds,
		bearer: bearer,
		logger: logger.With("container", "session"),
		now:    time.Now,
	}
}

// SetNavigator installs the function Login uses to reach LandingPath.
func (s *Session) SetNavigator(fn Navigate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigate = fn
}

func (s *Session) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// UserInfo returns a copy of the profile.
func (s *Session) UserInfo() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Session) setUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}

// Invalidate forgets the in-memory session. The api adapter's 401 handler
// calls it while a request, and possibly an action, is still in flight, so
// it must not take the action lock.
func (s *Session) Invalidate() {
	s.setUser(nil)
}

func (s *Session) run(ctx context.Context, op, fallback string, fn func(ctx context.Context) error) (err error) {
	s.action.Lock()
	defer s.action.Unlock()

	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		if err != nil {
			s.errMsg = messageOr(err, fallback)
		}
		s.mu.Unlock()
		if err != nil {
			s.logger.Warn(ctx, "action failed", "op", op, "error", err)
		}
	}()

	return fn(ctx)
}

func messageOr(err error, fallback string) string {
	var re *common.RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}

// establish attaches token, resolves the user behind it and persists both.
// Nothing stays attached when it fails.
func (s *Session) establish(ctx context.Context, token string, user *models.User) (models.User, error) {
	s.bearer.SetBearer(token)
	if user == nil {
		me, err := s.users.Me(ctx)
		if err != nil {
			s.bearer.ClearBearer()
			return models.User{}, err
		}
		user = &me
	}
	if err := s.creds.Save(ctx, token, user.Username); err != nil {
		s.bearer.ClearBearer()
		return models.User{}, err
	}
	return *user, nil
}

// Login authenticates, persists the credential, fills the session and moves
// to LandingPath. On failure the session is left as it was.
func (s *Session) Login(ctx context.Context, form models.LoginForm) (models.User, error) {
	var user models.User
	err := s.run(ctx, "login", "login failed", func(ctx context.Context) error {
		res, err := s.users.Login(ctx, form)
		if err != nil {
			return err
		}
		if res.Token == "" {
			return &common.RequestError{Kind: common.KindApplication, Message: "login failed: no token issued"}
		}
		user, err = s.establish(ctx, res.Token, res.User)
		if err != nil {
			return err
		}
		s.setUser(&user)
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	s.mu.RLock()
	nav := s.navigate
	s.mu.RUnlock()
	if nav != nil {
		if err := nav(ctx, LandingPath); err != nil {
			s.logger.Warn(ctx, "navigate after login", "error", err)
		}
	}
	return user, nil
}

// Register creates the account. When the backend signs the new user in,
// the session is filled like Login does (without navigating) and signedIn is
// true; otherwise the session is untouched.
func (s *Session) Register(ctx context.Context, form models.RegisterForm) (signedIn bool, err error) {
	err = s.run(ctx, "register", "registration failed", func(ctx context.Context) error {
		res, err := s.users.Register(ctx, form)
		if err != nil {
			return err
		}
		if res.Token == "" {
			return nil
		}
		user, err := s.establish(ctx, res.Token, res.User)
		if err != nil {
			return err
		}
		s.setUser(&user)
		signedIn = true
		return nil
	})
	return signedIn, err
}

// Logout removes the stored credential and clears the session. Only a
// storage failure can make it fail, recorded as a logout failure.
func (s *Session) Logout(ctx context.Context) error {
	return s.run(ctx, "logout", common.LogoutFailureMessage, func(ctx context.Context) error {
		if err := s.creds.Clear(ctx); err != nil {
			return err
		}
		s.bearer.ClearBearer()
		s.setUser(nil)
		return nil
	})
}

// InitializeFromStoredCredential resumes a session after a restart. It
// reports false without side effects when no credential is stored, and
// false after deleting the credential when the server rejects it.
func (s *Session) InitializeFromStoredCredential(ctx context.Context) bool {
	ok, _ := s.EnsureSession(ctx)
	return ok
}

// EnsureSession makes sure the in-memory session matches the stored
// credential. It is a no-op when already logged in and re-authenticates
// once otherwise. The error is nil when there simply is no credential.
//
// A JWT whose exp has passed is dropped without asking the server.
func (s *Session) EnsureSession(ctx context.Context) (bool, error) {
	token, err := s.creds.Token(ctx)
	if err != nil {
		s.logger.Error(ctx, "read stored credential", "error", err)
		return false, err
	}
	if token == "" {
		return false, nil
	}
	if s.IsLoggedIn() {
		return true, nil
	}

	err = s.run(ctx, "initialize", common.SessionExpiredNotice, func(ctx context.Context) error {
		// Another action may have restored the session while we waited.
		if s.IsLoggedIn() {
			return nil
		}
		if claims, err := credentials.Inspect(token); err == nil && claims.Expired(s.now()) {
			s.drop(ctx)
			return &common.RequestError{Kind: common.KindAuthorization, Message: common.SessionExpiredNotice, Err: common.ErrTokenExpired}
		}

		s.bearer.SetBearer(token)
		me, err := s.users.Me(ctx)
		if err != nil {
			// On 401 the adapter has already deleted the credential.
			if errors.Is(err, common.ErrUnauthorized) {
				s.bearer.ClearBearer()
				s.setUser(nil)
			} else {
				s.drop(ctx)
			}
			return err
		}
		s.setUser(&me)
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// drop deletes the credential and forgets the session.
func (s *Session) drop(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.logger.Error(ctx, "clear credential", "error", err)
	}
	s.bearer.ClearBearer()
	s.setUser(nil)
}

// UpdateProfile saves the changes and replaces the profile in place. When
// the server does not echo the user back, the submitted fields are merged
// into the current profile.
func (s *Session) UpdateProfile(ctx context.Context, in models.ProfileInput) (models.User, error) {
	var out models.User
	err := s.run(ctx, "update profile", "update failed", func(ctx context.Context) error {
		u, err := s.users.UpdateMe(ctx, in)
		if err != nil {
			return err
		}
		out = u
		current, ok := s.UserInfo()
		if !ok {
			// A profile update never logs anybody in.
			return nil
		}
		if u.ID == 0 {
			out = current
			if in.Username != "" {
				out.Username = in.Username
			}
			if in.Email != "" {
				out.Email = in.Email
			}
		}
		s.setUser(&out)
		return nil
	})
	return out, err
}

// RefreshProfile re-reads the profile from the server.
func (s *Session) RefreshProfile(ctx context.Context) (models.User, error) {
	var out models.User
	err := s.run(ctx, "refresh profile", "failed to load profile", func(ctx context.Context) error {
		me, err := s.users.Me(ctx)
		if err != nil {
			return err
		}
		out = me
		s.setUser(&me)
		return nil
	})
	return out, err
}

func (s *Session) ChangePassword(ctx context.Context, in models.PasswordChange) error {
	return s.run(ctx, "change password", "password change failed", func(ctx context.Context) error {
		u, ok := s.UserInfo()
		if !ok {
			return &common.RequestError{Kind: common.KindAuthorization, Message: "not logged in", Err: common.ErrUnauthorized}
		}
		return s.users.ChangePassword(ctx, u.ID, in)
	})
}
