package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// illegalFilenameChars are characters rejected by at least one supported
// filesystem, replaced during sanitization.
const illegalFilenameChars = `/\:*?"<>|`

// SanitizeFilename strips filesystem-illegal characters and control
// characters from a title, collapses runs of whitespace, and trims
// trailing dots and spaces. Sanitizing an already-sanitized name is a
// no-op.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(illegalFilenameChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.Join(strings.Fields(b.String()), " ")
	return strings.TrimRight(cleaned, ". ")
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// HomeDownloadsDir returns the user's Downloads directory.
func HomeDownloadsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "Downloads"), nil
}

// RevealInFileManager opens the system file manager and highlights the file
func RevealInFileManager(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return revealInFinderMacOS(absPath)
	case OSWindows:
		return revealInExplorerWindows(absPath)
	case OSLinux:
		return revealInManagerLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// revealInFinderMacOS opens the file in Finder with selection
func revealInFinderMacOS(filePath string) error {
	cmd := exec.Command(OpenCommand, MacOSSelectFlag, filePath)
	return cmd.Run()
}

// revealInExplorerWindows opens the file in Explorer with selection
func revealInExplorerWindows(filePath string) error {
	cmd := exec.Command(ExplorerCommand, WindowsSelectParam, filePath)
	return cmd.Run()
}

// revealInManagerLinux opens the directory containing the file.
// File selection is not standardized on Linux, so the parent directory is
// opened instead.
func revealInManagerLinux(filePath string) error {
	dir := filepath.Dir(filePath)

	cmd := exec.Command(XDGOpenCommand, dir)
	if err := cmd.Run(); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			cmd := exec.Command(fm, dir)
			return cmd.Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}
