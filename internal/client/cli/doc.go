// Package cli provides the interactive InternPortal command-line client.
//
// It wires configuration, the HTTP API client, the saved session and an
// interactive REPL. Typical flow: restore the previous session, start a
// background connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout
//   - Password reset, direct or with an emailed token
//   - Add, list and delete journal entries
//   - Attach a file to an entry and fetch its download link
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
