// Package ui provides semantic text formatting for CLI output.
//
// This package defines formatters for different types of content (commands,
// paths, entry names, errors) that render appropriately based on terminal
// capabilities. When colors are available, content is colorized. When
// NO_COLOR is set or the terminal doesn't support colors, text-based
// decorations (backticks, quotes) are used instead.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("secman init")        // Commands
//	ui.Path.Sprint("~/.secman")          // File paths
//	ui.Highlight.Sprint("github")        // Entry names
//	ui.Muted.Sprint("modified 2h ago")   // De-emphasized text
//
// Whole lines are built with Ok, Fail and Hint:
//
//	fmt.Print(ui.Lines(ui.Ok("Entry added"), ui.Hint("Run secman list")))
//
// # Color Behavior
//
// Colors are disabled when:
//   - NO_COLOR environment variable is set (any value)
//   - Terminal doesn't support colors (TERM=dumb, not a TTY)
package ui
