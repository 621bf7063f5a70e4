package cli

import (
	"context"
	"os"
	"time"

	"github.com/dpetrovs/proconnect/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to the interactive input helpers and can be swapped
// in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for account details and attempts to create the account.
// Validation and server-side failures are printed, not returned.
func (a *App) Signup(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	res := a.store.Signup(ctx, username, email, password)
	if res.Message != "" {
		printlnFn(res.Message)
	}
	return nil
}

// Login prompts for an identifier (username or email) and password and
// authenticates. The outcome message comes from the session store; the
// store itself distinguishes validation, rejected credentials, and
// transport failures.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter username or email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	res := a.store.Login(ctx, identifier, password)
	if !res.OK {
		printlnFn(res.Message)
		return nil
	}

	printlnFn("Login successful")
	if exp, ok := a.store.TokenExpiresAt(); ok {
		printlnFn("Session valid until " + exp.Local().Format(time.RFC1123))
	}
	if a.store.ProfileState() == session.ProfileStale {
		printlnFn("(showing cached profile; server unreachable)")
	}
	return nil
}

// Logout clears the session. Safe to call when already logged out.
func (a *App) Logout(ctx context.Context) error {
	a.store.Logout(ctx)
	printlnFn("Logged out")
	return nil
}

// WhoAmI prints the current identity and session expiry.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.store.CurrentUser()
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn("Logged in as", u.Username, "<"+u.Email+">")
	if exp, ok := a.store.TokenExpiresAt(); ok {
		printlnFn("Session valid until " + exp.Local().Format(time.RFC1123))
	}
	return nil
}
