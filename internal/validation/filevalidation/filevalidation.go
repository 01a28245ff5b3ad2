// Package filevalidation checks paths of the files the server keeps its
// blocks in.
package filevalidation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/models"
	"go.uber.org/zap"
)

func CheckFilePresence(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CheckPathWritable makes sure the file at path can be opened for writing,
// creating it together with missing parent directories when needed.
func CheckPathWritable(path string) error {
	if path == "" {
		return fmt.Errorf("path can not be empty")
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("path \"%s\" is a directory", path)
		}
	case os.IsNotExist(err):
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, os.FileMode(models.DefaultDirMode)); err != nil {
				return fmt.Errorf("can not create directory \"%s\": %w", dir, err)
			}
		}
	default:
		return fmt.Errorf("can not get information about path \"%s\": %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, os.FileMode(models.OsAllRw))
	if err != nil {
		return fmt.Errorf("can not open file in Write mode: %w", err)
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			logger.Log.Warn("failed to close file", zap.String("path", path), zap.Error(err))
		}
	}(file)

	return nil
}
