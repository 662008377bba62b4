package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// mergeDotEnv layers KEY=VALUE pairs from a dotenv file under v. A missing
// file is not an error.
func mergeDotEnv(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read dotenv: %w", err)
	}
	return nil
}
