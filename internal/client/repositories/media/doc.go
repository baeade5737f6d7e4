// Package media implements the gallery Blob Store: durable storage of media
// payloads and their metadata, partitioned by owner key.
//
// Three backends satisfy Store:
//
//   - MemoryStore keeps everything in process memory and loses it on exit.
//   - SQLiteStore keeps payloads as BLOBs in an embedded SQLite database.
//   - RemoteStore uploads payloads to an object store and keeps metadata in
//     a remote table.
//
// Open picks SQLiteStore and silently degrades to MemoryStore when the
// embedded database cannot be opened, so callers never branch on the
// backend; Persistent reports which one is active.
package media
