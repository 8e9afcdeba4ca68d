package config

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/bolasblack/boxfetch/internal/util"
)

func readFile(env *util.Env, path string) ([]byte, error) {
	data, err := afero.ReadFile(env.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return data, nil
}

func writeFile(env *util.Env, path string, content []byte, perm os.FileMode) error {
	if err := afero.WriteFile(env.Fs, path, content, perm); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
