// Package cli provides the interactive vault command-line client.
//
// It wires configuration, the metadata database, the object store, and an
// interactive REPL that walks the user through the auth phases. Typical flow:
// load the profile, prompt for a password (or run first-time setup), and
// execute vault commands once unlocked.
//
// Key features:
//   - First-time setup: password, then three security answers
//   - Login / Logout
//   - Password reset gated on the security answers
//   - Upload / Download / Share / Delete encrypted files
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
