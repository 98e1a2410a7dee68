// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/NVIDIA/shellpack/pkg/errors"
)

// Validate checks the structural rules that decoding alone cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.App.EmbeddedServer.Host) == "" {
		return errors.New(errors.ErrCodeConfig, "app.embeddedServer.host must not be empty")
	}
	if c.App.CLI != nil {
		if err := c.App.CLI.validate("app.cli"); err != nil {
			return err
		}
	}
	return nil
}

func (c *CliConfig) validate(path string) error {
	for i, arg := range c.Args {
		argPath := fmt.Sprintf("%s.args[%d]", path, i)
		if err := arg.validate(argPath); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(c.Subcommands))
	for name := range c.Subcommands {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		sub := c.Subcommands[name]
		if sub == nil {
			continue
		}
		if err := sub.validate(path + ".subcommands." + name); err != nil {
			return err
		}
	}
	return nil
}

func (a CliArg) validate(path string) error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New(errors.ErrCodeConfig, path+": name is required")
	}
	if a.MinValues != nil && a.MaxValues != nil && *a.MinValues > *a.MaxValues {
		return errors.NewWithContext(errors.ErrCodeConfig,
			path+": minValues must not exceed maxValues",
			map[string]any{"minValues": *a.MinValues, "maxValues": *a.MaxValues})
	}
	if a.Index != nil && *a.Index < 1 {
		return errors.New(errors.ErrCodeConfig, path+": index must be 1 or greater")
	}
	if len(a.RequiresIf) != 0 && len(a.RequiresIf) != 2 {
		return errors.New(errors.ErrCodeConfig, path+": requiresIf must be an [arg, value] pair")
	}
	if len(a.RequiredIf) != 0 && len(a.RequiredIf) != 2 {
		return errors.New(errors.ErrCodeConfig, path+": requiredIf must be an [arg, value] pair")
	}
	return nil
}
