package env_mode

import (
	"os"
	"strings"
	"sync"
)

const ENV_MODE_KEY = "GO_ENV_MODE"

type ENV_MODE string

const (
	DevMode  ENV_MODE = "development"
	ProMode  ENV_MODE = "production"
	TestMode ENV_MODE = "test"
)

var (
	currentEnv ENV_MODE
	modeMu     sync.RWMutex
)

// ParseEnv maps the common spellings of a run mode onto ENV_MODE.
// Unknown values are treated as production so that a typo never
// enables development conveniences such as config watching.
func ParseEnv(env string) ENV_MODE {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development", "dev", "":
		return DevMode
	case "test", "testing":
		return TestMode
	default:
		return ProMode
	}
}

func Mode() ENV_MODE {
	modeMu.RLock()
	m := currentEnv
	modeMu.RUnlock()
	if m != "" {
		return m
	}

	modeMu.Lock()
	defer modeMu.Unlock()
	if currentEnv == "" {
		currentEnv = ParseEnv(os.Getenv(ENV_MODE_KEY))
	}
	return currentEnv
}

func SetMode(mode ENV_MODE) {
	modeMu.Lock()
	defer modeMu.Unlock()
	currentEnv = mode
	_ = os.Setenv(ENV_MODE_KEY, string(mode))
}

// Suffixes returns the config file suffixes tried for the current mode,
// lowest priority first.
func Suffixes() []string {
	switch Mode() {
	case ProMode:
		return []string{"pro", "prod", "production"}
	case TestMode:
		return []string{"test"}
	default:
		return []string{"dev", "development"}
	}
}
