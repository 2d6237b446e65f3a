package ui

// Package ui is the thin Fyne presentation layer: it submits URLs to the
// resolver, edits the queue, starts the sequencer, and merge-accumulates
// relay updates into per-item progress rows. No download logic lives here.
