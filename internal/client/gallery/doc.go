// Package gallery holds the view model: the ordered list of media the user
// currently sees, kept consistent with the blob store across uploads,
// removals and account switches.
//
// A Session owns its item list and every display handle minted for it.
// Items are always scoped to the session context's active owner key; an
// owner change empties the list (releasing handles) before the new
// partition is loaded, so records of two owners are never visible together.
//
// Removal policy depends on the store. Stores that hold payloads locally are
// deleted from first and the view follows. Remote stores are updated
// optimistically: the item leaves the view immediately and the durable
// delete runs in the background, where a failure is only logged.
package gallery
