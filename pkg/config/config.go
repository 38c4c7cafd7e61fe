package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/limaJavier/armahorarios/pkg/model"
	"github.com/mitchellh/mapstructure"
)

const FileName = "config.json"

type Config struct {
	Catalog      string                // Raw catalog export ({"resources": [...]})
	Classes      string                // Pre-split course table, used when Catalog is empty
	Categories   string                // Pre-split category table
	Restrictions model.RawRestrictions // Defaults for every request
	NodeLimit    uint64                `mapstructure:"nodeLimit"`
	Format       string
}

func Default() Config {
	return Config{
		Restrictions: model.DefaultRawRestrictions(),
		Format:       "grid",
	}
}

// Load reads a config file on top of the defaults. Keys missing from the file keep their default value
func Load(file string) (Config, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}
	var configJson map[string]any
	if err := json.Unmarshal(bytes, &configJson); err != nil {
		return Config{}, fmt.Errorf("cannot parse config file \"%v\": %w", file, err)
	}

	config := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           &config,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(configJson); err != nil {
		return Config{}, fmt.Errorf("cannot decode config file \"%v\": %w", file, err)
	}

	// Relative paths are resolved against the config file's directory
	dir := path.Dir(file)
	config.Catalog = resolve(dir, config.Catalog)
	config.Classes = resolve(dir, config.Classes)
	config.Categories = resolve(dir, config.Categories)

	return config, nil
}

// Locate returns the config file next to the executable, or an empty string if there is none
func Locate() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("cannot determine executable path: %w", err)
	}
	file := path.Join(path.Dir(execPath), FileName)
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return file, nil
}

// ParseRestrictions converts the configured raw restrictions
func (config Config) ParseRestrictions() (model.Restrictions, error) {
	return model.ProcessRawRestrictions(config.Restrictions)
}

func resolve(dir, file string) string {
	if file == "" || path.IsAbs(file) {
		return file
	}
	return path.Join(dir, file)
}
