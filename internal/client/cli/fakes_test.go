package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/weynak/weynak/internal/client/client"
)

// stubInputs feeds answers to getSimpleText in order and returns password
// for every getPassword call. The returned slice is what the CLI received,
// so tests can check it was wiped.
func stubInputs(t *testing.T, password []byte, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		i++
		return answers[i-1], nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAuth struct {
	email string

	regName, regEmail string
	regPass           []byte
	lastPass          []byte
	lastOtp           string

	msg     string
	err     error
	profile *client.Profile

	logoutCalled bool
	pingErr      error
	pings        int
}

func (f *fakeAuth) Register(_ context.Context, name, email string, pass []byte) (string, error) {
	f.regName, f.regEmail, f.regPass = name, email, append([]byte(nil), pass...)
	return f.msg, f.err
}
func (f *fakeAuth) Login(_ context.Context, email string, pass []byte) error {
	f.lastPass = append([]byte(nil), pass...)
	if f.err == nil {
		f.email = email
	}
	return f.err
}
func (f *fakeAuth) RequestReset(_ context.Context, email string) (string, error) {
	f.regEmail = email
	return f.msg, f.err
}
func (f *fakeAuth) ConfirmReset(_ context.Context, email, otp string, pass []byte) (string, error) {
	f.regEmail, f.lastOtp, f.lastPass = email, otp, append([]byte(nil), pass...)
	return f.msg, f.err
}
func (f *fakeAuth) Whoami(context.Context) (*client.Profile, error) { return f.profile, f.err }
func (f *fakeAuth) RestoreSession(context.Context) (string, error) { return f.email, nil }
func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	f.email = ""
	return f.err
}
func (f *fakeAuth) LoggedInAs() string { return f.email }
func (f *fakeAuth) Ping(context.Context) error {
	f.pings++
	return f.pingErr
}
func (f *fakeAuth) Close(context.Context) error { return nil }

func newTestApp(f *fakeAuth) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{authService: f, out: &out}, &out
}
