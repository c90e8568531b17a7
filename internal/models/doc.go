// Package models defines the core domain models for the to-do application.
//
// # Models
//
//   - Task: one to-do item, owned by exactly one user
//   - Identity: the authenticated user attached to a session
//   - User: a locally stored account (SQL backends only; the hosted identity
//     provider keeps its own accounts)
//
// # Ownership
//
// Every Task carries the ID of its owner. Stores filter and write by that ID on
// every call, so a Task is only ever visible to the user who created it.
// Relationships are expressed with ID strings, never pointers.
package models
