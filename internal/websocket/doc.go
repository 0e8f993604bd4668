// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

/*
Package websocket pushes refresh notifications to open dashboard pages.

It uses gorilla/websocket with a hub-and-spoke layout:

	┌──────────┐
	│   Hub    │ ← refresh scheduler calls BroadcastJSON
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│ Client1  │ Client2 │ Client3 │
	└──────────┴─────────┴─────────┘

Each Client runs a readPump (answers "ping" messages, tracks pongs) and a
writePump (serializes queued messages, sends keepalive pings).

Message Types:

  - dashboard_refreshed: a refresh succeeded; the page should reload its data
  - refresh_failed: a refresh failed; the page should show "data unavailable"
  - dashboard_status: sent once on connect with the current refresh status
  - ping / pong: application-level keepalive

The browser never sends data to the server beyond pings, so the hub has no
inbound routing.

Hub.RunWithContext is the supervised entry point. When its context is
cancelled every client channel is closed and the write pumps send a close
frame.
*/
package websocket
