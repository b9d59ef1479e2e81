package vault

// Session holds the process-local authentication flags for one vault
// session. It is owned exclusively by the Controller, lives for the process
// lifetime, and is never persisted. Keeping it an explicit value (rather
// than package state) lets tests run independent sessions side by side.
type Session struct {
	authenticated bool
	resetVerified bool
}

// Authenticated reports whether the session has passed a credential check.
func (s *Session) Authenticated() bool { return s.authenticated }

// ResetVerified reports whether the security answers were verified in the
// current reset flow. Only ever true while the machine is in PhaseReset.
func (s *Session) ResetVerified() bool { return s.resetVerified }
