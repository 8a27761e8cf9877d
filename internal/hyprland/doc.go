// Package hyprland talks to the Hyprland compositor over its IPC sockets.
//
// The request socket (.socket.sock) answers one command per connection and
// is used for the startup snapshot and for dispatching workspace switches.
// The event socket (.socket2.sock) streams "EVENT>>DATA" lines, which the
// Listener translates into workspace messages and feeds to the ingestion
// queue. Workspace names outside the numbered range are filtered here so the
// engine only ever sees ids it has slots for.
package hyprland
