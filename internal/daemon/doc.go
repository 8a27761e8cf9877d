// Package daemon wires the compositor listener, the workspace engine and
// the power watcher together behind one Run call. The GTK panel and the
// terminal view both drive the same Daemon with their own sinks.
package daemon
