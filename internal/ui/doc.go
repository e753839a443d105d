// Package ui holds the terminal styling shared by the CLI and the text formatter.
//
// Styles are built with lipgloss and degrade to plain text when output is not a
// terminal, so rendered strings are safe to write to files and pipes.
package ui
