// Package dbus watches a UPower device on the system bus and publishes the
// icon name UPower suggests for its current charge and state.
package dbus
