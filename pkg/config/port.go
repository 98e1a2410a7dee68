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
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/NVIDIA/shellpack/pkg/errors"
)

// PortRandom is the literal that asks the shell to pick a free port at runtime.
const PortRandom = "random"

// Port is either a fixed TCP port or the "random" marker.
type Port struct {
	Value  uint16
	Random bool
}

// RandomPort returns the "random" port value.
func RandomPort() Port { return Port{Random: true} }

// FixedPort returns a fixed port value.
func FixedPort(p uint16) Port { return Port{Value: p} }

// String renders the port the way it is written in configuration.
func (p Port) String() string {
	if p.Random {
		return PortRandom
	}
	return strconv.FormatUint(uint64(p.Value), 10)
}

// MarshalJSON encodes "random" as a string and fixed ports as numbers.
func (p Port) MarshalJSON() ([]byte, error) {
	if p.Random {
		return json.Marshal(PortRandom)
	}
	return json.Marshal(p.Value)
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (p Port) MarshalYAML() (any, error) {
	if p.Random {
		return PortRandom, nil
	}
	return p.Value, nil
}

// UnmarshalJSON accepts an unsigned 16-bit integer or the string "random".
func (p *Port) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return invalidPort(string(data), err)
		}
		if s != PortRandom {
			return invalidPort(s, nil)
		}
		*p = RandomPort()
		return nil
	case 't', 'f', '[', '{':
		return invalidPort(string(data), nil)
	}

	v, err := strconv.ParseUint(string(data), 10, 16)
	if err != nil {
		return invalidPort(string(data), err)
	}
	*p = FixedPort(uint16(v))
	return nil
}

func invalidPort(raw string, cause error) error {
	msg := fmt.Sprintf("invalid embeddedServer port %s: expected an integer between 0 and 65535 or %q", raw, PortRandom)
	if cause == nil {
		return errors.New(errors.ErrCodeConfig, msg)
	}
	return errors.Wrap(errors.ErrCodeConfig, msg, cause)
}
