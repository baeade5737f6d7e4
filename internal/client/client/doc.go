// Package client wires a gallery client from configuration.
//
// New picks the blob store, reference resolver and session context for the
// configured backend and builds the gallery view model on top of them:
//
//   - memory: in-process store, local accounts in memory, blob: handles.
//   - sqlite: embedded database (falling back to memory when it cannot be
//     opened), local accounts in the same database, blob: handles.
//   - remote: object store plus a Postgres metadata table, signed URLs with
//     an optional cache, identity delegated to the token server.
//
// InitDatabase and RunMigrations bootstrap the embedded SQLite database with
// the embedded goose migrations.
package client
