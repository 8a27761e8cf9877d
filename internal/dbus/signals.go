package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// subscribe registers for PropertiesChanged on the device and returns the
// channel signals are delivered on. The channel is closed when the
// connection goes away.
func subscribe(conn *dbus.Conn, device dbus.ObjectPath) (<-chan *dbus.Signal, error) {
	err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(device),
		dbus.WithMatchInterface(propertiesInterface),
		dbus.WithMatchMember("PropertiesChanged"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add match rule for %s: %w", device, err)
	}

	ch := make(chan *dbus.Signal, 16)
	conn.Signal(ch)
	return ch, nil
}

// readIconName reads the device's current IconName property.
func readIconName(conn *dbus.Conn, device dbus.ObjectPath) (string, error) {
	obj := conn.Object(UPowerBusName, device)
	v, err := obj.GetProperty(DeviceInterface + "." + iconNameProperty)
	if err != nil {
		return "", fmt.Errorf("failed to read %s of %s: %w", iconNameProperty, device, err)
	}
	name, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("unexpected %s type %s", iconNameProperty, v.Signature())
	}
	return name, nil
}
