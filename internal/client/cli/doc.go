// Package cli provides the interactive gallery command-line client.
//
// It wires configuration, the configured backend and the gallery view model
// behind a REPL. Typical flow: sign up or sign in (or stay guest on the
// local backends), add files, list them and open them back by id.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
