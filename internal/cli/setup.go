package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/vault"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) phase() vault.Phase {
	return a.controller.Phase()
}

// Setup prompts for the initial vault password and stores its digest.
// The password byte slice is securely wiped before returning.
func (a *App) Setup(ctx context.Context) error {
	password, err := getPassword("Choose a password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat the password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		fmt.Println("Passwords do not match.")
		return nil
	}

	if err := a.controller.SetPassword(ctx, string(password)); err != nil {
		a.logger.Error(ctx, "password setup failed", "error", err)
		return err
	}

	fmt.Println("Password saved. Now set your security answers (type 'answers').")
	return nil
}

// Answers prompts for the three security answers and stores their digests.
// On success the vault is unlocked immediately.
func (a *App) Answers(ctx context.Context) error {
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

	if err := a.controller.SetSecurityAnswers(ctx, school, city, food); err != nil {
		a.logger.Error(ctx, "security setup failed", "error", err)
		return err
	}

	fmt.Println("Setup complete. Vault unlocked.")
	return nil
}
