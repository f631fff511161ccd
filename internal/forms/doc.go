// Package forms implements the session-synchronized, schema-driven form engine.
//
// The engine has four cooperating parts:
//
//   - [Schema] / [Field] : the server-declared description of a section's
//     editable fields, decoded from the backend's schema documents with
//     source ordering preserved.
//   - [ValueCache] : the reactive per-section store every widget reads from
//     and writes to. Hydration and user edits enter through different
//     methods so downstream consumers can tell them apart structurally.
//   - [SyncScheduler] : converts the cache's change stream into a debounced,
//     coalesced, loop-free sequence of remote patches. The snapshot produced
//     by hydration is never echoed back to the server.
//   - [RequiredSections] : the static dependency table mapping a pipeline
//     action to the ordered sections a user must configure before running it.
//
// Sessions and schemas themselves are fetched by internal/services; this
// package owns only the client-side editing state and its write-through
// policy.
package forms
