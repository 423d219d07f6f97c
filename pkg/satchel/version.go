// Package satchel exposes build metadata for the satchel tool.
package satchel

// Version is the satchel release version.
const Version = "0.1.0"
