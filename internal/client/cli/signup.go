package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/securoserv/securovault/internal/client/guard"
	"github.com/securoserv/securovault/internal/client/validate"
)

// Signup runs the two-step registration flow: collect and validate the form,
// create the account, then verify the emailed OTP.
func (a *App) Signup(ctx context.Context) error {
	d, err := a.guard.Check(ctx, guard.RouteAuthOnly)
	if err != nil {
		return err
	}
	if d == guard.RedirectToDashboard {
		fmt.Println("Already logged in")
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	strength := validate.ScorePassword(password)
	fmt.Printf("Password strength: %s (%d/7)\n", strength.Label(), strength.Score)

	confirm, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.signup.Begin(ctx, email, username, password, confirm); err != nil {
		fmt.Println("Signup failed:", err)
		return err
	}

	a.pendingEmail = email
	fmt.Println("A verification code was sent to", email)
	return a.verify(ctx)
}

// verify prompts for the OTP and completes the signup.
func (a *App) verify(ctx context.Context) error {
	otp, err := GetOTP(a.reader, os.Stdout)
	if err != nil {
		fmt.Println(err)
		return err
	}

	out, err := a.signup.Verify(ctx, a.pendingEmail, otp)
	if err != nil {
		fmt.Println("Verification failed:", err)
		fmt.Println("Type 'resend' for a new code or 'signup' to start over")
		return err
	}

	a.pendingEmail = ""
	fmt.Printf("Account verified! You are on the %s plan.\n", out.Role)
	return nil
}

// Resend requests a fresh verification code for the pending signup.
func (a *App) Resend(ctx context.Context) error {
	if a.pendingEmail == "" {
		fmt.Println("No signup in progress")
		return nil
	}

	if err := a.signup.Resend(ctx, a.pendingEmail); err != nil {
		if remaining := a.signup.ResendRemaining(); remaining > 0 {
			fmt.Printf("Please wait %.0fs before requesting another code\n", remaining.Seconds())
		} else {
			fmt.Println("Resend failed:", err)
		}
		return err
	}

	fmt.Println("A new code was sent to", a.pendingEmail)
	return a.verify(ctx)
}
