package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/fsnotify/fsnotify"
	"github.com/leeforge/genico/env_mode"
	"github.com/leeforge/genico/utils"
	"github.com/spf13/viper"
)

func DefaultConfigOptions() ConfigOptions {
	basePath := os.Getenv("CONFIG_PATH")
	if basePath == "" {
		basePath = "config"
	}

	return ConfigOptions{
		BasePath:  basePath,
		FileName:  "config",
		FileType:  "yaml",
		EnvPrefix: "GENICO",
	}
}

func NewConfig(optsArr ...ConfigOptions) (*Config, error) {
	opts := DefaultConfigOptions()
	if len(optsArr) > 0 {
		opts = optsArr[0]
	}

	files := getConfigFilePaths(opts)
	if len(files) == 0 && opts.Required {
		return nil, fmt.Errorf("❌ No valid configuration files found in path: %s", opts.BasePath)
	}

	instance, err := createViper(opts, files)
	if err != nil {
		return nil, err
	}

	return &Config{
		instance: instance,
		opts:     opts,
		files:    files,
	}, nil
}

// Files returns the configuration files that were merged, lowest priority first.
func (c *Config) Files() []string {
	return c.files
}

// Bind unmarshals the merged configuration into instance, which must be a
// pointer to a struct. When the options enable watching, every file change
// is loaded into a fresh value of the same type and handed to OnChange once
// it passes defaults and validation; instance itself is never written again.
func (c *Config) Bind(instance any) error {
	if c == nil || c.instance == nil {
		return fmt.Errorf("❌ Config instance is nil")
	}
	if instance == nil {
		return fmt.Errorf("❌ Target instance is nil")
	}

	c.watchMutex.Lock()
	defer c.watchMutex.Unlock()

	registerDefaults(c.instance, "", reflect.ValueOf(instance))
	applyEnvOverrides(c.instance, c.opts.EnvPrefix)

	if err := c.instance.Unmarshal(instance); err != nil {
		return fmt.Errorf("❌ Failed to unmarshal config (path: %s, file: %s.%s): %w",
			c.opts.BasePath, c.opts.FileName, c.opts.FileType, err)
	}

	if c.opts.WatchAble && len(c.files) > 0 {
		typ := reflect.TypeOf(instance).Elem()
		c.watchOnce.Do(func() {
			// viper watches a single file; the highest priority one wins.
			c.instance.SetConfigFile(c.files[len(c.files)-1])
			c.instance.OnConfigChange(func(e fsnotify.Event) {
				fresh, err := c.reload(typ)
				if err != nil {
					if c.opts.OnError != nil {
						c.opts.OnError(err)
					} else {
						fmt.Fprintf(os.Stderr, "❌ Config watch error: %v\n", err)
					}
					return
				}
				if c.opts.OnChange != nil {
					c.opts.OnChange(e, fresh)
				}
			})
			c.instance.WatchConfig()
		})
	}

	return nil
}

// reload reads the files again into a new value of typ.
func (c *Config) reload(typ reflect.Type) (any, error) {
	v, err := createViper(c.opts, c.files)
	if err != nil {
		return nil, err
	}

	fresh := reflect.New(typ).Interface()
	if err := defaults.Set(fresh); err != nil {
		return nil, fmt.Errorf("❌ Failed to set defaults: %w", err)
	}
	registerDefaults(v, "", reflect.ValueOf(fresh))
	applyEnvOverrides(v, c.opts.EnvPrefix)
	if err := v.Unmarshal(fresh); err != nil {
		return nil, fmt.Errorf("❌ Failed to unmarshal config: %w", err)
	}
	if err := complete(fresh); err != nil {
		return nil, err
	}

	c.watchMutex.Lock()
	c.instance = v
	c.watchMutex.Unlock()
	return fresh, nil
}

// BindWithDefaults fills `default` tags before and after Bind so that
// zero values coming from the files are replaced as well.
func (c *Config) BindWithDefaults(instance any) error {
	if err := defaults.Set(instance); err != nil {
		return fmt.Errorf("❌ Failed to set defaults: %w", err)
	}

	if err := c.Bind(instance); err != nil {
		return err
	}
	return complete(instance)
}

// complete fills defaults left zero by the files and validates the result.
func complete(instance any) error {
	if err := defaults.Set(instance); err != nil {
		return fmt.Errorf("❌ Failed to set defaults after unmarshal: %w", err)
	}

	if v, ok := instance.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("❌ Config validation failed: %w", err)
		}
	}
	return nil
}

func (c *Config) Get(key string) any {
	c.watchMutex.RLock()
	defer c.watchMutex.RUnlock()

	return c.instance.Get(key)
}

func (c *Config) Set(key string, value any) {
	c.watchMutex.Lock()
	defer c.watchMutex.Unlock()

	c.instance.Set(key, value)
}

func createViper(opts ConfigOptions, files []string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType(opts.FileType)

	for _, configPath := range files {
		tempV := viper.New()
		tempV.SetConfigFile(configPath)
		if err := tempV.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("❌ Error reading config file %s: %w", configPath, err)
		}
		if err := v.MergeConfigMap(tempV.AllSettings()); err != nil {
			return nil, fmt.Errorf("❌ Error merging config file %s: %w", configPath, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
	}
	v.AutomaticEnv()

	return v, nil
}

// registerDefaults walks the target struct and registers every mapstructure
// key with viper, so that AllKeys (and therefore env overrides) also cover
// keys absent from the files.
func registerDefaults(v *viper.Viper, prefix string, rv reflect.Value) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := strings.Split(field.Tag.Get("mapstructure"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		fv := rv.Field(i)
		if fv.Kind() == reflect.Struct && field.Type.String() != "time.Time" {
			registerDefaults(v, key, fv)
			continue
		}
		if !v.IsSet(key) {
			v.SetDefault(key, fv.Interface())
		}
	}
}

// applyEnvOverrides gives environment variables priority over file values:
// server.port -> GENICO_SERVER_PORT.
func applyEnvOverrides(v *viper.Viper, envPrefix string) {
	replacer := strings.NewReplacer(".", "_")

	for _, key := range v.AllKeys() {
		envKey := strings.ToUpper(replacer.Replace(key))
		if envPrefix != "" {
			envKey = envPrefix + "_" + envKey
		}

		if envValue, ok := os.LookupEnv(envKey); ok && envValue != "" {
			v.Set(key, envValue)
		}
	}
}

// getConfigFilePaths lists existing files in merge order:
// config, config.local, config.<mode>, config.<mode>.local and aliases.
func getConfigFilePaths(opts ConfigOptions) (configFiles []string) {
	fileNames := []string{
		opts.FileName,
		opts.FileName + ".local",
	}
	for _, suffix := range env_mode.Suffixes() {
		fileNames = append(fileNames,
			fmt.Sprintf("%s.%s", opts.FileName, suffix),
			fmt.Sprintf("%s.%s.local", opts.FileName, suffix),
		)
	}

	for _, fileName := range fileNames {
		file := filepath.Join(opts.BasePath, fmt.Sprintf("%s.%s", fileName, opts.FileType))
		if utils.IsFile(file) {
			configFiles = append(configFiles, file)
		}
	}

	return configFiles
}
