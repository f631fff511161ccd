// Package services implements the remote-facing clients for the EEG pipeline backend.
//
// Three clients share one raw HTTP layer:
//
//   - [APIClient] : thin JSON request plumbing, one instance per backend.
//   - [SessionStore] : creates, loads, and patches the server-held session
//     document, and owns persistence of the opaque session id across runs.
//     Every response may carry a replacement id (the backend recycles
//     sessions on restart); the store adopts it transparently.
//   - [SchemaCatalog] : fetches and memoizes per-section field schemas.
//     Schemas are immutable for the process lifetime.
//
// None of these clients retry. Write retry policy belongs to the sync
// scheduler in internal/forms, which deliberately has none.
package services
