// Package types defines the note entity, the persistence backend
// interface, configuration, and standard errors for the Satchel
// note-capture system.
package types
