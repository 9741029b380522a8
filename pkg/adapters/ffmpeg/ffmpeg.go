// Package ffmpeg locates the ffmpeg binary shared by the decoder and encoder.
package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

// ErrNotFound is returned when no ffmpeg binary can be located.
var ErrNotFound = errors.New("ffmpeg: not found in PATH")

// EnvPath is the environment variable consulted before PATH.
const EnvPath = "FFMPEG_PATH"

var (
	mu         sync.RWMutex
	customPath string
)

// SetPath sets an explicit ffmpeg binary. An empty path restores lookup.
func SetPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	customPath = path
}

// Find searches for ffmpeg.
// Priority: 1) SetPath, 2) FFMPEG_PATH env, 3) PATH, 4) common locations
func Find() (string, error) {
	mu.RLock()
	custom := customPath
	mu.RUnlock()

	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrNotFound, custom)
	}

	if envPath := os.Getenv(EnvPath); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: %s %s not found", ErrNotFound, EnvPath, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, p := range commonPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrNotFound
}

// IsAvailable reports whether Find succeeds.
func IsAvailable() bool {
	_, err := Find()
	return err == nil
}

func commonPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\ffmpeg.exe`,
		}
	case "darwin":
		return []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/usr/bin/ffmpeg",
		}
	default:
		return []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
}
