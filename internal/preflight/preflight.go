package preflight

import (
	"fmt"
	"strings"

	"im2rec/internal/faults"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Targets names the paths a run reads and writes.
type Targets struct {
	ListPath     string
	RootDir      string
	OutputPath   string
	IndexPath    string
	ManifestPath string
}

// RunAll executes every check that applies to targets. An empty root means
// list paths are used as given and is not checked; index and manifest checks
// run only when those outputs are enabled.
func RunAll(targets Targets) []Result {
	results := []Result{CheckFileReadable("Image list", targets.ListPath)}

	if strings.TrimSpace(targets.RootDir) != "" {
		results = append(results, CheckDirectoryReadable("Image root", targets.RootDir))
	}

	results = append(results, CheckOutputWritable("Output", targets.OutputPath))

	if targets.IndexPath != "" {
		results = append(results, CheckOutputWritable("Index", targets.IndexPath))
	}
	if targets.ManifestPath != "" {
		results = append(results, CheckOutputWritable("Manifest", targets.ManifestPath))
	}
	return results
}

// Err folds failed results into one configuration error, or nil when every
// check passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return faults.Wrap(faults.ErrConfiguration, "preflight", "check", strings.Join(failed, "; "), nil)
}
