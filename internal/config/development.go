package config

import "os"

// Development reports whether the server runs in development mode:
// tinted console logs instead of JSON, and relaxed origin checks on
// the board-session WebSocket. Any value of DEVELOPMENT other than
// "0" or "false" turns it on.
func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0" && development != "false"
}
