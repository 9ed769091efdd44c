package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "addressbook"

	// ConfigFileName is the name of the configuration file inside the application directory
	ConfigFileName = "config.ini"

	// EnvConfig overrides the configuration file location
	EnvConfig = "ADDRESSBOOK_CONFIG"
)

// Version is set at build time with -ldflags "-X .../application.Version=..."
var Version = "0.3.0"

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the addressbook configuration directory path.
// Linux: ~/.config/addressbook (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\addressbook (via os.UserCacheDir)
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, nil
}

// DefaultConfigPath returns the configuration file path, honouring ADDRESSBOOK_CONFIG.
func DefaultConfigPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}

	dir, err := GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, ConfigFileName), nil
}

func lazyLoad() {
	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		baseDir, err = os.UserCacheDir()
	default:
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get config directory: %w", err)
		return
	}

	appDir = filepath.Join(baseDir, AppName)
}
