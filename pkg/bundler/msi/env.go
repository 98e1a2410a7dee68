package msi

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/NVIDIA/shellpack/pkg/errors"
)

// Environment holds the WiX toolset location.
type Environment struct {
	// WIX is the toolset root set by the WiX installer. Tools are looked up
	// in $WIX/bin; when empty they are expected on PATH.
	WIX string `env:"WIX"`
}

// LoadEnvironment reads Environment from the process environment.
func LoadEnvironment() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(errors.ErrCodeConfig, "failed to parse environment", err)
	}
	return e, nil
}

// Tool returns the path of a WiX tool such as "candle" or "light".
func (e Environment) Tool(name string) string {
	if e.WIX == "" {
		return name
	}
	return filepath.Join(e.WIX, "bin", name+".exe")
}
