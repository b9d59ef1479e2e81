// Package vault implements the authentication core of filevault: the phase
// state machine that sequences setup, login, and password recovery, and the
// controller that owns the session flags and gates every file operation.
package vault

import "github.com/dmitrijs2005/filevault/internal/accounts"

// Phase is the current step of the authentication/setup state machine.
// It is derived once per profile load and afterwards changes only through
// the controller's transition methods; nothing else assigns it.
type Phase int

const (
	// PhaseLoading means the profile has not been fetched yet.
	PhaseLoading Phase = iota
	// PhaseSetupPassword means no vault password has ever been configured.
	PhaseSetupPassword
	// PhaseSetupSecurity means the password exists but at least one of the
	// three security answers is missing.
	PhaseSetupSecurity
	// PhaseLogin is the resting phase of a fully set-up, unauthenticated vault.
	PhaseLogin
	// PhaseReset is the transient forgot-password flow.
	PhaseReset
	// PhaseVault is the terminal unlocked phase; file operations are only
	// reachable here.
	PhaseVault
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSetupPassword:
		return "setup-password"
	case PhaseSetupSecurity:
		return "setup-security"
	case PhaseLogin:
		return "login"
	case PhaseReset:
		return "reset"
	case PhaseVault:
		return "vault"
	default:
		return "unknown"
	}
}

// DerivePhase computes the initial phase from profile completeness. Pure
// function of its inputs. It cannot produce PhaseReset or PhaseVault: those
// are only reachable through explicit transitions, because profile state
// alone cannot distinguish a fresh login from a completed setup or reset.
func DerivePhase(profileLoaded bool, p *accounts.Profile) Phase {
	if !profileLoaded || p == nil {
		return PhaseLoading
	}
	if !p.PasswordConfigured() {
		return PhaseSetupPassword
	}
	if !p.SecurityConfigured() {
		return PhaseSetupSecurity
	}
	return PhaseLogin
}
