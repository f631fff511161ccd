// Package repositories provides the persistence layer for durable client state.
//
// The only state eegx persists locally is the opaque session id handed out by
// the backend, stored in a single-row key/value table so it survives process
// restarts. [SessionIDRepository] implements services.IDStore.
package repositories
