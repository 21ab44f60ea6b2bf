package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// registrationKeyFrom accepts either a bare key or a registration link and
// returns the key.
func registrationKeyFrom(s string) string {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return s
	}
	return u.Query().Get(common.RegistrationKeyParam)
}

func (a *App) credentials() (userName string, password []byte, err error) {
	userName, err = getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err = getPassword("Enter password", a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// SignUp creates an account from the invitation in args, or asks for it.
func (a *App) SignUp(ctx context.Context, args []string) error {
	var key string
	if len(args) > 0 {
		key = registrationKeyFrom(args[0])
	} else {
		raw, err := getSimpleText(a.reader, "Enter registration link or key", a.out)
		if err != nil {
			return err
		}
		key = registrationKeyFrom(raw)
	}

	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.SignUp(ctx, userName, string(password), string(confirm), key); err != nil {
		return err
	}

	a.userName = userName
	fmt.Fprintf(a.out, "Signed up as %s\n", userName)
	return nil
}

func (a *App) SignIn(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.SignIn(ctx, userName, string(password)); err != nil {
		return err
	}

	a.userName = userName
	fmt.Fprintf(a.out, "Signed in as %s\n", userName)
	return nil
}

func (a *App) Renew(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.RenewTokens(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Tokens renewed")
	return nil
}

// SignOut always forgets the local identity, even when the server call fails.
func (a *App) SignOut(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err := a.client.SignOut(ctx)
	a.userName = ""
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) Invite(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	link, err := a.client.CreateRegistrationLink(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, link)
	return nil
}

func (a *App) CheckInvite(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: check-invite <link|key>")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.ValidateRegistrationKey(ctx, registrationKeyFrom(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registration key is valid")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	st, err := a.client.SessionStatus(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s), session %s\n", st.Username, st.UserID, st.Status)
	return nil
}
