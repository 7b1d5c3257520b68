package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader error codes. These identify usage/file problems that never reach
// the core pipeline and always map to ExitCommandError.
const (
	ErrCodeNotFound  = "L001" // path does not exist or is not a regular file
	ErrCodeExtension = "L002" // not a .forma file
	ErrCodeRead      = "L003" // read failed
)

// ModelExt is the required source file extension.
const ModelExt = ".forma"

// LoadError reports a problem locating or reading a model file.
type LoadError struct {
	Code    string
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadModel reads the Forma source at path after checking that it exists,
// is a regular file, and carries the .forma extension.
func LoadModel(path string) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("file not found: %s", path)}
	}
	if err != nil {
		return "", &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
	}
	if info.IsDir() {
		return "", &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("not a file: %s", path)}
	}
	if filepath.Ext(path) != ModelExt {
		return "", &LoadError{Code: ErrCodeExtension, Path: path, Message: fmt.Sprintf("only %s files are supported (got %q)", ModelExt, filepath.Ext(path))}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return "", &LoadError{Code: ErrCodeRead, Path: path, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	return string(source), nil
}

// loadForCommand loads a model file and maps failures to a command error
// with exit code 2, reporting through the formatter.
func loadForCommand(formatter *OutputFormatter, path string) (string, error) {
	source, err := LoadModel(path)
	if err != nil {
		if loadErr, ok := err.(*LoadError); ok {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return "", NewExitError(ExitCommandError, loadErr.Message)
		}
		_ = formatter.Error(ErrCodeRead, err.Error(), nil)
		return "", NewExitError(ExitCommandError, err.Error())
	}
	return source, nil
}
