package model

// Package model contains the domain types shared across the download,
// conversion and queue packages: stream variants, queue items with their
// post-processing switches, and per-item progress state.
