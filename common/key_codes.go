package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87 // W key (ASCII)
	KeyA     = 65 // A key (ASCII)
	KeyS     = 83 // S key (ASCII)
	KeyD     = 68 // D key (ASCII)
	KeyQ     = 81 // Q key (ASCII)
	KeyE     = 69 // E key (ASCII)
	KeyC     = 67 // C key (ASCII)
	KeyF     = 70 // F key (ASCII)
	KeySpace = 32 // Spacebar (ASCII)
)

// Navigation keys (GLFW).
const (
	KeyRight    = 262
	KeyLeft     = 263
	KeyDown     = 264
	KeyUp       = 265
	KeyPageUp   = 266
	KeyPageDown = 267
	KeyHome     = 268
)

// Modifier keys (GLFW).
const (
	KeyLeftShift    = 340
	KeyLeftControl  = 341
	KeyLeftAlt      = 342
	KeyRightShift   = 344
	KeyRightControl = 345
)
