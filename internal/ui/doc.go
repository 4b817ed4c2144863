// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for batch poster uploads:
//  1. [URLListView] : Browse the queued poster URLs
//  2. [ConfirmView] : Confirm the batch run
//  3. [ProcessingView] : Monitor real-time progress with cooperative cancellation
//  4. [ResultView] : Display the batch summary and failed URLs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the PosterEngine; the cancel binding trips the batch's CancelToken,
// after which the view stays on [ProcessingView] until running tasks drain and the summary arrives.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, x, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
