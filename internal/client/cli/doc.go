// Package cli provides the interactive Event Aura command-line client.
//
// App wires configuration, the HTTP API client and a session file kept in a
// local .eventaura directory, then runs a REPL until the user exits. A saved
// session is restored on start, so a login survives restarts until the token
// expires or the user logs out.
package cli
