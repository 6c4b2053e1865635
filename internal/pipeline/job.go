package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"im2rec/internal/config"
)

// Job describes what one Driver packs.
type Job struct {
	ListPath string
	RootDir  string
	// OutputPath is the container path before partition naming.
	OutputPath string
	Pack       config.Pack
	// ManifestPath enables the SQLite manifest when set.
	ManifestPath string
}

// Validate checks the paths of the job; pack options are validated by config.
func (j Job) Validate() error {
	if strings.TrimSpace(j.ListPath) == "" {
		return errors.New("image list path is required")
	}
	if strings.TrimSpace(j.OutputPath) == "" {
		return errors.New("output path is required")
	}
	return nil
}

// PartitionPath returns the container path for one partition. Outputs are
// suffixed with ".partNNN" only when the list is split.
func PartitionPath(output string, nsplit, part int) string {
	if nsplit <= 1 {
		return output
	}
	return fmt.Sprintf("%s.part%03d", output, part)
}

// IndexPath returns the offset index path for a container: ".rec" is
// replaced by ".idx", any other name gets ".idx" appended.
func IndexPath(container string) string {
	if filepath.Ext(container) == ".rec" {
		return strings.TrimSuffix(container, ".rec") + ".idx"
	}
	return container + ".idx"
}

// LockPath returns the advisory lock file guarding a container.
func LockPath(container string) string {
	return container + ".lock"
}
