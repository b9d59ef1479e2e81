package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// Login prompts for the password and tries to unlock the vault.
//
// A wrong password is not an error: the attempt simply fails and the user
// stays at the login prompt. The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ok, err := a.controller.AttemptLogin(ctx, string(password))
	if err != nil {
		a.logger.Error(ctx, "login failed", "error", err)
		return err
	}

	if ok {
		fmt.Println("Vault unlocked.")
	} else {
		fmt.Println("Wrong password. Try again or type 'forgot' to reset.")
	}
	return nil
}

// Forgot switches to the password reset flow.
func (a *App) Forgot(ctx context.Context) error {
	if err := a.controller.ForgotPassword(ctx); err != nil {
		a.logger.Error(ctx, "cannot start reset", "error", err)
		return err
	}
	fmt.Println("Answer your security questions (type 'verify'), then choose a new password (type 'newpass').")
	return nil
}

// Logout locks the vault and returns to the login prompt.
func (a *App) Logout(ctx context.Context) error {
	if err := a.controller.Logout(ctx); err != nil {
		a.logger.Error(ctx, "logout failed", "error", err)
		return err
	}
	fmt.Println("Vault locked.")
	return nil
}
