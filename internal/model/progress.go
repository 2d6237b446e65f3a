package model

// ProgressColor is the severity tag attached to a progress update. The
// values mirror the presentation layer's palette names.
type ProgressColor string

const (
	ColorPrimary ProgressColor = "primary"
	ColorWarning ProgressColor = "warning"
	ColorSuccess ProgressColor = "success"
	ColorError   ProgressColor = "error"
)

// Progress is the ephemeral per-item progress state the presentation layer
// accumulates from relay updates. Value is always within [0, 100]. SavedAt
// is set only once Completed is true. Status is JobStatusPending while the
// item waits for its job to start.
type Progress struct {
	Value     float64
	Color     ProgressColor
	Action    string
	Status    JobStatus
	Completed bool
	SavedAt   string
}

// ClampPercent clamps a raw percentage into [0, 100]. Underlying streams
// may report transferred bytes exceeding the declared length.
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
