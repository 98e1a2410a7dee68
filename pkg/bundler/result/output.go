package result

import (
	"fmt"
	"time"

	"github.com/NVIDIA/shellpack/pkg/bundler/types"
)

// Output contains the aggregated results of a pipeline run.
type Output struct {
	// BuildID uniquely identifies the run.
	BuildID string `json:"build_id" yaml:"build_id"`

	// Results contains one entry per executed strategy in execution order.
	Results []*Result `json:"results" yaml:"results"`

	// Artifacts holds every produced artifact in request order, deduplicated by path.
	Artifacts []Artifact `json:"artifacts" yaml:"artifacts"`

	// TotalDuration is the wall time of the whole run.
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`

	// Errors contains errors from failed strategies.
	Errors []BundleError `json:"errors,omitempty" yaml:"errors,omitempty"`

	// OutputDir is <projectOut>/bundle.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ChecksumFile and ManifestFile are set after a successful run.
	ChecksumFile string `json:"checksum_file,omitempty" yaml:"checksum_file,omitempty"`
	ManifestFile string `json:"manifest_file,omitempty" yaml:"manifest_file,omitempty"`
}

// BundleError represents an error from a specific strategy.
type BundleError struct {
	Type  types.PackageType `json:"type" yaml:"type"`
	Error string            `json:"error" yaml:"error"`
}

// NewOutput returns an empty output.
func NewOutput(buildID, outputDir string) *Output {
	return &Output{
		BuildID:   buildID,
		Results:   make([]*Result, 0),
		Artifacts: make([]Artifact, 0),
		Errors:    make([]BundleError, 0),
		OutputDir: outputDir,
	}
}

// AddArtifacts appends artifacts, skipping paths already present.
func (o *Output) AddArtifacts(artifacts ...Artifact) {
	seen := make(map[string]bool, len(o.Artifacts))
	for _, a := range o.Artifacts {
		seen[a.Path] = true
	}
	for _, a := range artifacts {
		if seen[a.Path] {
			continue
		}
		seen[a.Path] = true
		o.Artifacts = append(o.Artifacts, a)
	}
}

// AddError records a strategy failure.
func (o *Output) AddError(pt types.PackageType, err error) {
	if err == nil {
		return
	}
	o.Errors = append(o.Errors, BundleError{Type: pt, Error: err.Error()})
}

// HasErrors returns true if any strategy failed.
func (o *Output) HasErrors() bool {
	return len(o.Errors) > 0
}

// SuccessCount returns the number of successful strategies.
func (o *Output) SuccessCount() int {
	count := 0
	for _, r := range o.Results {
		if r.Success {
			count++
		}
	}
	return count
}

// TotalSize returns the summed size of file artifacts.
func (o *Output) TotalSize() int64 {
	var total int64
	for _, a := range o.Artifacts {
		total += a.Size
	}
	return total
}

// Summary returns a human-readable summary of the run.
func (o *Output) Summary() string {
	return fmt.Sprintf(
		"Produced %d artifacts (%s) in %v. Success: %d/%d package types.",
		len(o.Artifacts),
		formatBytes(o.TotalSize()),
		o.TotalDuration.Round(time.Millisecond),
		o.SuccessCount(),
		len(o.Results),
	)
}

// formatBytes formats bytes into human-readable format.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FailedTypes returns the package types that failed.
func (o *Output) FailedTypes() []types.PackageType {
	failed := make([]types.PackageType, 0, len(o.Errors))
	for _, e := range o.Errors {
		failed = append(failed, e.Type)
	}
	return failed
}
