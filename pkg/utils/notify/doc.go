// Package notify provides utilities for sending formatted notifications to CLI users.
//
// This package includes:
//   - [WriteMessage] for displaying formatted messages with type-specific prefixes and colors
//   - [StageSeparatingWriter] for automatic blank line insertion between deployment stages
//   - [Table] for summaries and inventories
//
// Message lines carry the prefixes [INFO], [SUCCESS], [WARNING] and [ERROR]. Activity lines
// use ► and titles use a custom emoji.
package notify
