package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Validator interface {
	Validate() error
}

type Config struct {
	instance   *viper.Viper
	opts       ConfigOptions
	files      []string
	watchOnce  sync.Once
	watchMutex sync.RWMutex
}

type ConfigOptions struct {
	BasePath  string
	FileName  string
	FileType  string
	EnvPrefix string
	WatchAble bool

	// OnChange receives a freshly loaded and validated copy of the bound
	// value after every file change.
	OnChange func(e fsnotify.Event, fresh any)

	// OnError receives reloads that failed to read or validate. They are
	// dropped; the last good configuration stays in effect.
	OnError func(err error)

	// Required makes a missing configuration file an error.
	// By default the loader falls back to struct defaults.
	Required bool
}
