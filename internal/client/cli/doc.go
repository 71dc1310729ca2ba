// Package cli provides the interactive blog command-line client.
//
// It wires configuration, the local credential database, the HTTP adapter,
// resource clients, state containers and the router into a REPL. Every view
// the user opens goes through the route guard: protected views send a
// logged-out user to the login prompt and return to the original view after
// a successful login.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the command handlers for details.
package cli
