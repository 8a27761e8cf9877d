package dbus

import (
	"github.com/godbus/dbus/v5"
)

const (
	// UPowerBusName is the UPower service name on the system bus.
	UPowerBusName = "org.freedesktop.UPower"
	// DeviceInterface is the interface every UPower device implements.
	DeviceInterface = "org.freedesktop.UPower.Device"
	// DisplayDevicePath is UPower's composite battery device.
	DisplayDevicePath = "/org/freedesktop/UPower/devices/DisplayDevice"

	propertiesInterface = "org.freedesktop.DBus.Properties"
	propertiesChanged   = propertiesInterface + ".PropertiesChanged"
	iconNameProperty    = "IconName"
)

// Publisher receives icon names. Implementations must not block.
type Publisher interface {
	Publish(iconName string)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(iconName string)

// Publish calls f(iconName).
func (f PublisherFunc) Publish(iconName string) { f(iconName) }

// iconUpdate describes what a PropertiesChanged signal means for IconName.
type iconUpdate int

const (
	iconUnchanged iconUpdate = iota
	// iconChanged carries the new value in the signal.
	iconChanged
	// iconInvalidated means the value changed but must be read back.
	iconInvalidated
)

// String returns the string representation of the update.
func (u iconUpdate) String() string {
	switch u {
	case iconUnchanged:
		return "unchanged"
	case iconChanged:
		return "changed"
	case iconInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// iconFromSignal extracts an IconName change for device from sig.
// PropertiesChanged carries (interface, changed map, invalidated list).
func iconFromSignal(sig *dbus.Signal, device dbus.ObjectPath) (string, iconUpdate) {
	if sig == nil || sig.Path != device || sig.Name != propertiesChanged {
		return "", iconUnchanged
	}
	if len(sig.Body) < 2 {
		return "", iconUnchanged
	}
	if iface, ok := sig.Body[0].(string); !ok || iface != DeviceInterface {
		return "", iconUnchanged
	}

	if changed, ok := sig.Body[1].(map[string]dbus.Variant); ok {
		if v, ok := changed[iconNameProperty]; ok {
			if name, ok := v.Value().(string); ok {
				return name, iconChanged
			}
		}
	}

	if len(sig.Body) >= 3 {
		if invalidated, ok := sig.Body[2].([]string); ok {
			for _, p := range invalidated {
				if p == iconNameProperty {
					return "", iconInvalidated
				}
			}
		}
	}

	return "", iconUnchanged
}
