package audiocapture

import (
	"fmt"
	"strconv"

	"github.com/gen2brain/malgo"
)

// DeviceInfo describes one capture device for --list-devices output.
type DeviceInfo struct {
	Index     int
	Name      string
	IsDefault bool
}

// ListDevices enumerates the available capture devices.
func ListDevices() ([]DeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	defer freeContext(ctx)

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerate capture devices: %w", err)
	}

	devices := make([]DeviceInfo, len(infos))
	for i, info := range infos {
		devices[i] = DeviceInfo{
			Index:     i,
			Name:      info.Name(),
			IsDefault: info.IsDefault != 0,
		}
	}
	return devices, nil
}

// resolveDevice maps the configured device selector to a malgo device ID,
// or nil for the system default.
func resolveDevice(ctx *malgo.AllocatedContext, selector string) (*malgo.DeviceID, error) {
	switch selector {
	case "", "auto", "default":
		return nil, nil
	}

	index, err := strconv.Atoi(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid audio device %q: want 'auto', 'default' or an index", selector)
	}

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerate capture devices: %w", err)
	}
	if index < 0 || index >= len(infos) {
		return nil, fmt.Errorf("audio device index %d out of range (%d devices)", index, len(infos))
	}

	id := infos[index].ID
	return &id, nil
}
