// Package cli provides the interactive chat command-line client.
//
// It wires the auth and chat services to a read–eval–print loop: the user
// signs in (email/password or a Google ID token), browses conversations,
// talks to the assistant and manages the profile. Failures are printed
// inline and never end the session.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// ctx is canceled. See App and runREPL for details.
package cli
