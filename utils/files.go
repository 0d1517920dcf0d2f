package utils

import (
	"os"
)

// Exists reports whether path exists and whether it is a directory.
func Exists(path string) (isDir bool, exists bool, err error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return info.IsDir(), true, nil
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	isDir, exists, _ := Exists(path)
	return exists && !isDir
}

func CreateDir(path string) error {
	return os.MkdirAll(path, os.ModePerm)
}
