package dmg

import (
	"github.com/caarlos0/env/v11"

	"github.com/NVIDIA/shellpack/pkg/errors"
)

// Environment holds the environment inputs of the disk image strategy.
// It is read on every invocation so a changed CI value takes effect
// without restarting the process.
type Environment struct {
	CI string `env:"CI"`
}

// LoadEnvironment reads Environment from the process environment.
func LoadEnvironment() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(errors.ErrCodeConfig, "failed to parse environment", err)
	}
	return e, nil
}

// SkipJenkins reports whether the Finder AppleScript step should be skipped
// because the build runs on a headless CI machine.
func (e Environment) SkipJenkins() bool {
	return e.CI == "true"
}
