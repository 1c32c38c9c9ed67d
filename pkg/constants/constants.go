// Package constants provides shared constants used throughout the arcade codebase.
// This includes timeouts, file permissions, source tree layout, and other values
// that should be consistent across the application.
package constants

import "time"

// Static server timeouts.
const (
	// ShutdownTimeout bounds graceful shutdown of the static server
	ShutdownTimeout = 5 * time.Second

	// ReadHeaderTimeout is the static server's header read timeout
	ReadHeaderTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Logging constants
const (
	// LogMaxSizeMB is the size of a log file before rotation
	LogMaxSizeMB = 10

	// LogMaxBackups is the maximum number of old log files to retain
	LogMaxBackups = 5
)

// Default values
const (
	// DefaultSourceDir is the root all inputs are read from
	DefaultSourceDir = "."

	// DefaultOutputDir is the root all outputs are written under
	DefaultOutputDir = "public"

	// DefaultDatabase is the catalog database used when none is specified
	DefaultDatabase = "all"

	// DefaultLanguage is the localization language used when none is specified
	DefaultLanguage = "en"

	// DefaultAppName is the app name used when none is configured
	DefaultAppName = "Arcade"

	// DefaultSection is the game document section shown on load
	DefaultSection = "emulator"

	// DefaultPort is the static server port
	DefaultPort = 8080

	// DefaultConfigFile is the configuration file name searched in the source root
	DefaultConfigFile = "arcade.yaml"
)

// Build constants
const (
	// AppIDLength is the number of hex characters of the template digest used as app id
	AppIDLength = 8

	// CacheMaxAge is the static server's Cache-Control max-age (ten years)
	CacheMaxAge = 315360000 * time.Second

	// MaxExtraImageIndex caps the positional index of unnumbered extra images
	MaxExtraImageIndex = 4
)

// Source tree directories, relative to the source root
const (
	DatabasesDir  = "databases"
	MameDir       = "mame"
	MameRomsDir   = "mame/roms"
	ImagesDir     = "images"
	IconsDir      = "icons"
	VideoDir      = "video"
	PreviewsDir   = "video/previews"
	HTMLDir       = "html"
	StyleDir      = "style"
	ScriptsDir    = "scripts"
	GamesDir      = "games"
	ResourcesFile = "resources.json"
	AppFile       = "app.json"
)

// Systems with dedicated handling
const (
	SystemMAME   = "mame"
	SystemDOSBox = "dosbox"
)
