// Package cli implements the interactive SecuroVault client.
//
// App wires the configuration, session store and services together; runREPL
// reads commands and dispatches to App's per-command methods. Input helpers
// (GetSimpleText, GetPassword, GetOTP, Confirm) isolate terminal I/O behind
// test seams.
package cli
