// Package app holds identifiers shared by every package.
package app

// Name is the application name used for the config directory.
const Name = "timecard"
