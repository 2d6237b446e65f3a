package job

import (
	"fmt"
	"path/filepath"
)

// Phase prefixes keep files of the two media kinds from colliding when
// both can exist for the same title.
const (
	PhasePrefixVideo = "VIDEO"
	PhasePrefixAudio = "AUDIO"
)

// BuildFilePath constructs a destination path. With a prefix the filename
// becomes "(PREFIX) <title>.<container>", without one "<title>.<container>".
func BuildFilePath(dir, prefix, title, container string) string {
	name := fmt.Sprintf("%s.%s", title, container)
	if prefix != "" {
		name = fmt.Sprintf("(%s) %s", prefix, name)
	}
	return filepath.Join(dir, name)
}
