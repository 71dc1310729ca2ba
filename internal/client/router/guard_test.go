package router

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/goblog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession re-authenticates successfully when reauth is true. On failure
// it drops the credential the way the real session does.
type fakeSession struct {
	mu       sync.Mutex
	loggedIn bool
	reauth   bool
	ensured  int
	creds    *fakeCreds
}

func (f *fakeSession) IsLoggedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedIn
}

func (f *fakeSession) EnsureSession(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured++
	if f.reauth {
		f.loggedIn = true
		return true, nil
	}
	f.creds.token = ""
	return false, errors.New("unauthorized")
}

type fakeCreds struct {
	token string
	err   error
}

func (f *fakeCreds) Token(context.Context) (string, error) { return f.token, f.err }

func newGuard(token string, loggedIn, reauth bool) (*Guard, *fakeSession, *fakeCreds) {
	creds := &fakeCreds{token: token}
	s := &fakeSession{loggedIn: loggedIn, reauth: reauth, creds: creds}
	return NewGuard(s, creds, nil), s, creds
}

func TestGuard_PublicRoutesPass(t *testing.T) {
	g, s, _ := newGuard("", false, false)
	for _, p := range []string{"/", "/blog", "/blog/3", "/login", "/register", "/categories", "/missing"} {
		d := g.Check(context.Background(), p)
		assert.Equal(t, StateAuthorized, d.State, p)
	}
	assert.Zero(t, s.ensured)
}

func TestGuard_NoCredentialDenies(t *testing.T) {
	g, s, _ := newGuard("", false, false)

	d := g.Check(context.Background(), "/personal")
	assert.Equal(t, StateDenied, d.State)
	assert.Equal(t, "/login?redirect=%2Fpersonal", d.Redirect)
	assert.Empty(t, d.Notice)
	assert.Zero(t, s.ensured)
}

func TestGuard_CredentialReadErrorDenies(t *testing.T) {
	g, _, creds := newGuard("tok", true, false)
	creds.err = errors.New("db locked")
	assert.Equal(t, StateDenied, g.Check(context.Background(), "/home").State)
}

func TestGuard_LoggedInPassesWithoutReauth(t *testing.T) {
	g, s, _ := newGuard("tok", true, false)
	d := g.Check(context.Background(), "/edit-post/3")
	assert.True(t, d.Allowed())
	assert.Zero(t, s.ensured)
}

func TestGuard_StaleSessionReauthenticates(t *testing.T) {
	g, s, _ := newGuard("tok", false, true)

	d := g.Check(context.Background(), "/add-post")
	assert.True(t, d.Allowed())
	assert.Equal(t, 1, s.ensured)

	g.Check(context.Background(), "/add-post")
	assert.Equal(t, 1, s.ensured, "no second attempt once the session is back")
}

func TestGuard_FailedReauthDeniesWithNotice(t *testing.T) {
	g, s, creds := newGuard("tok", false, false)

	d := g.Check(context.Background(), "/edit-post/9?tab=body")
	assert.Equal(t, StateDenied, d.State)
	assert.Equal(t, LoginRedirect("/edit-post/9?tab=body"), d.Redirect)
	assert.Equal(t, common.SessionExpiredNotice, d.Notice)
	assert.Empty(t, creds.token)

	d = g.Check(context.Background(), "/edit-post/9")
	assert.Equal(t, StateDenied, d.State)
	assert.Empty(t, d.Notice, "credential is gone, so no further attempt")
	assert.Equal(t, 1, s.ensured)
}

func TestGuard_NeverCachesDecisions(t *testing.T) {
	g, s, creds := newGuard("tok", true, false)
	require.True(t, g.Check(context.Background(), "/home").Allowed())

	creds.token = ""
	assert.False(t, g.Check(context.Background(), "/home").Allowed())

	creds.token = "tok"
	s.mu.Lock()
	s.loggedIn = true
	s.mu.Unlock()
	assert.True(t, g.Check(context.Background(), "/home").Allowed())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "UNVERIFIED", StateUnverified.String())
	assert.Equal(t, "AUTH_PENDING", StateAuthPending.String())
	assert.Equal(t, "AUTHORIZED", StateAuthorized.String())
	assert.Equal(t, "DENIED", StateDenied.String())
}
