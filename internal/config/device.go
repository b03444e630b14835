// Package config loads the backend/device description the pass entry
// point (C8) needs — spec §6's local_mem_size() — from a YAML document, in
// the pattern of roach88-nysm/brutalist/internal/harness/scenario.go's
// YAML-backed fixtures.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/honorpeter/onnc-memplan/internal/sizeinfo"
)

// DeviceSpec is the on-disk shape of a device/backend description.
type DeviceSpec struct {
	// Name identifies the target DLA, for diagnostics only.
	Name string `yaml:"name"`

	// LocalMemBytes is the scratchpad capacity spec §6 calls local_mem_size.
	LocalMemBytes uint64 `yaml:"local_mem_bytes"`
}

// LoadDeviceSpec reads and validates a device YAML file.
func LoadDeviceSpec(path string) (*DeviceSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading device spec: %w", err)
	}

	var spec DeviceSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing device spec %s: %w", path, err)
	}
	if spec.LocalMemBytes == 0 {
		return nil, fmt.Errorf("device spec %s: local_mem_bytes must be > 0", path)
	}
	return &spec, nil
}

// Device converts the on-disk spec into the sizeinfo.Device the pass
// entry point consumes.
func (s *DeviceSpec) Device() sizeinfo.Device {
	return sizeinfo.Device{LocalMemBytes: sizeinfo.MemSize(s.LocalMemBytes)}
}
