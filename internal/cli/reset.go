package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// Verify prompts for the three security answers and checks them against the
// stored digests. All three must match for the reset to proceed.
func (a *App) Verify(ctx context.Context) error {
	school, err := getSimpleText(a.reader, "What was the name of your first school?", os.Stdout)
	if err != nil {
		return err
	}
	city, err := getSimpleText(a.reader, "In what city were you born?", os.Stdout)
	if err != nil {
		return err
	}
	food, err := getSimpleText(a.reader, "What is your favorite food?", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := a.controller.VerifyResetAnswers(ctx, school, city, food)
	if err != nil {
		a.logger.Error(ctx, "verification failed", "error", err)
		return err
	}

	if ok {
		fmt.Println("Answers verified. Choose a new password (type 'newpass').")
	} else {
		fmt.Println("Answers do not match. Try again or type 'cancel'.")
	}
	return nil
}

// NewPassword prompts for a replacement password and completes the reset.
// It is rejected unless the security answers were verified first.
func (a *App) NewPassword(ctx context.Context) error {
	password, err := getPassword("Choose a new password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.controller.CompleteReset(ctx, string(password)); err != nil {
		a.logger.Error(ctx, "reset failed", "error", err)
		return err
	}

	fmt.Println("Password changed. Vault unlocked.")
	return nil
}

// Cancel abandons the reset flow and returns to the login prompt.
func (a *App) Cancel(ctx context.Context) error {
	if err := a.controller.CancelReset(ctx); err != nil {
		a.logger.Error(ctx, "cannot cancel reset", "error", err)
		return err
	}
	fmt.Println("Reset cancelled.")
	return nil
}
