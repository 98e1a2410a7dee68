package result

import (
	"os"
	"time"

	"github.com/NVIDIA/shellpack/pkg/bundler/types"
)

// Artifact is a file or directory produced by a strategy.
type Artifact struct {
	Path string            `json:"path" yaml:"path"`
	Type types.PackageType `json:"type" yaml:"type"`

	// Size is the file size in bytes. Zero for directories such as .app bundles.
	Size int64 `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`

	// Checksum is the hex SHA256 of a file artifact, populated by the pipeline.
	Checksum string `json:"sha256,omitempty" yaml:"sha256,omitempty"`
}

// NewArtifact stats path and returns an artifact describing it.
func NewArtifact(pt types.PackageType, path string) Artifact {
	a := Artifact{Path: path, Type: pt}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		a.Size = info.Size()
	}
	return a
}

// IsDir reports whether the artifact is a directory on disk.
func (a Artifact) IsDir() bool {
	info, err := os.Stat(a.Path)
	return err == nil && info.IsDir()
}

// Result records one strategy execution.
type Result struct {
	Type      types.PackageType `json:"type" yaml:"type"`
	Success   bool              `json:"success" yaml:"success"`
	Artifacts []Artifact        `json:"artifacts" yaml:"artifacts"`
	Duration  time.Duration     `json:"duration" yaml:"duration"`
	Errors    []string          `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// New creates an empty result for the given package type.
func New(pt types.PackageType) *Result {
	return &Result{
		Type:      pt,
		Artifacts: make([]Artifact, 0),
		Errors:    make([]string, 0),
	}
}

// AddArtifact appends an artifact to the result.
func (r *Result) AddArtifact(a Artifact) {
	r.Artifacts = append(r.Artifacts, a)
}

// AddError records a failure message.
func (r *Result) AddError(err error) {
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
	}
}

// MarkSuccess marks the result as successful.
func (r *Result) MarkSuccess() {
	r.Success = true
}
