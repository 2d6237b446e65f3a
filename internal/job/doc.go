package job

// Package job implements the per-item download pipeline: it resolves the
// item's selected stream variants against the metadata cache, downloads
// them with live progress, then runs the optional conversion or merge
// phases and reports the final saved path over the relay.
