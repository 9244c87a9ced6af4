package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/weynak/weynak/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates an account.
// The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.authService.Register(ctx, name, email, password)
	if err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Login successful")
	a.setMode(ModeOnline)
	return nil
}

// ForgotPassword asks the server to mail a reset code.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	msg, err := a.authService.RequestReset(ctx, email)
	if err != nil {
		log.Printf("Reset request unsuccessful: %s", err.Error())
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

// ResetPassword prompts for the mailed code and a new password.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	otp, err := getSimpleText(a.reader, "Enter the code from the email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.authService.ConfirmReset(ctx, email, otp, password)
	if err != nil {
		log.Printf("Password reset unsuccessful: %s", err.Error())
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

// Whoami prints the identity the server attaches to the current token.
func (a *App) Whoami(ctx context.Context) error {
	p, err := a.authService.Whoami(ctx)
	if err != nil {
		log.Printf("whoami: %s", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "%s (id %s), session valid until %s\n", p.Username, p.ID, p.ExpiresAt.Local().Format(time.DateTime))
	return nil
}

// Logout forgets the local session.
func (a *App) Logout(ctx context.Context) error {
	return a.authService.Logout(ctx)
}
