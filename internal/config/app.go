package config

import "os"

// Port is the listen address for the HTTP server ("":8080"" style);
// empty means the caller's default.
func Port() string {
	return os.Getenv("APP_PORT")
}

// LevelsDir is the directory authored .level packs are loaded from;
// empty means only the built-in seed levels are served.
func LevelsDir() string {
	return os.Getenv("APP_LEVELS_DIR")
}
