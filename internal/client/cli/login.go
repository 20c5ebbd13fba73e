package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/securoserv/securovault/internal/client/guard"
	"github.com/securoserv/securovault/internal/client/notify"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for an identifier (email or username) and a password and
// authenticates. A logged-in user is sent back to the dashboard without
// prompting.
func (a *App) Login(ctx context.Context) error {
	d, err := a.guard.Check(ctx, guard.RouteAuthOnly)
	if err != nil {
		return err
	}
	if d == guard.RedirectToDashboard {
		fmt.Println("Already logged in")
		return nil
	}

	identifier, err := getSimpleText(a.reader, "Enter email or username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	out, err := a.auth.Login(ctx, identifier, password)
	if err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	a.notifier.Notify(notify.Success, "Login successful", "")
	fmt.Printf("Welcome! You are on the %s plan.\n", out.Role)
	return nil
}

// Logout clears the session and drops the cached quota so nothing from the
// old session survives.
func (a *App) Logout(ctx context.Context) error {
	if _, err := a.auth.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	a.quota.Drop()
	a.pendingEmail = ""
	fmt.Println("Logged out")
	return nil
}
