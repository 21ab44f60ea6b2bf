package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	signedIn bool
	err      error

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isSignedIn() bool { return f.signedIn }
func (f *fakeExec) SignUp(ctx context.Context, args []string) error {
	f.signedIn = true
	return f.record("signup", args)
}
func (f *fakeExec) SignIn(ctx context.Context) error {
	f.signedIn = true
	return f.record("signin", nil)
}
func (f *fakeExec) Renew(ctx context.Context) error  { return f.record("renew", nil) }
func (f *fakeExec) Invite(ctx context.Context) error { return f.record("invite", nil) }
func (f *fakeExec) WhoAmI(ctx context.Context) error { return f.record("whoami", nil) }
func (f *fakeExec) CheckInvite(ctx context.Context, args []string) error {
	return f.record("check-invite", args)
}
func (f *fakeExec) SignOut(ctx context.Context) error {
	f.signedIn = false
	return f.record("signout", nil)
}

func capturePrints(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	lines := capturePrints(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"signin",
		"help",
		"",
		"invite",
		"check-invite K1 extra",
		"whoami",
		"renew",
		"signout",
		"signup https://gk.test/sign-up?registration-key=K2",
		"foobar",
		"exit",
		"whoami",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	require.Equal(t, []string{"signin", "invite", "check-invite", "whoami", "renew", "signout", "signup"}, exec.calls)
	require.Equal(t, []string{"K1", "extra"}, exec.args[2])
	require.Equal(t, []string{"https://gk.test/sign-up?registration-key=K2"}, exec.args[6])

	require.Contains(t, *lines, "Available commands: signup, signin, check-invite, exit")
	require.Contains(t, *lines, "Available commands: invite, check-invite, whoami, renew, signout, exit")
	require.Contains(t, *lines, "Unknown command: foobar")
	require.Contains(t, *lines, "Bye!")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{err: errors.New("unauthorized: invalid access token")}
	runREPL(context.Background(), exec, func() string { return "(alice)" }, bufio.NewScanner(strings.NewReader("invite\nwhoami\n")))

	require.Equal(t, []string{"invite", "whoami"}, exec.calls)
	require.Contains(t, *lines, "Error: unauthorized: invalid access token")
	require.Contains(t, *lines, "gk(alice)> ")
}
