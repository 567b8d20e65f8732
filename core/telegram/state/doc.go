// Package state keeps per-user conversation state for the bot.
// Records live in memory for the lifetime of the process.
package state
