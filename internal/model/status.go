package model

// JobStatus represents the state of a queue item's job
type JobStatus string

const (
	// JobStatusPending means the item is queued but its job has not started
	JobStatusPending JobStatus = "Pending"

	// JobStatusDownloading means a stream download is in progress
	JobStatusDownloading JobStatus = "Downloading"

	// JobStatusConverting means a container conversion is in progress
	JobStatusConverting JobStatus = "Converting"

	// JobStatusMerging means the video+audio merge is in progress
	JobStatusMerging JobStatus = "Merging"

	// JobStatusCompleted means the job finished successfully
	JobStatusCompleted JobStatus = "Completed"

	// JobStatusError means the job failed with an error
	JobStatusError JobStatus = "Error"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job is in an active state
func (js JobStatus) IsActive() bool {
	return js == JobStatusDownloading || js == JobStatusConverting || js == JobStatusMerging
}

// IsFinished returns true if the job is in a terminal state
func (js JobStatus) IsFinished() bool {
	return js == JobStatusCompleted || js == JobStatusError
}
