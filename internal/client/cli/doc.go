// Package cli provides the interactive weynak command-line client.
//
// It wires configuration, the local session store and the account API into
// a REPL. On start it restores a remembered session, then watches server
// reachability in the background while executing user commands.
//
// Commands: register, login, forgot, reset, whoami, logout, exit.
package cli
