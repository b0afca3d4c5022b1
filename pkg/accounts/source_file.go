package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSource loads accounts from a JSON or YAML file shaped:
//
//	{"accounts": [{"name": "...", "api_key": "...", "description": "..."}]}
//
// The format is chosen by file extension: .json is parsed as JSON,
// everything else as YAML.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed account source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load implements Source.
func (s *FileSource) Load(_ context.Context) ([]Account, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &ConfigError{
			Source:  s.path,
			Message: "failed to read account file",
			Cause:   err,
		}
	}

	var list accountList
	if strings.EqualFold(filepath.Ext(s.path), ".json") {
		err = json.Unmarshal(data, &list)
	} else {
		err = yaml.Unmarshal(data, &list)
	}
	if err != nil {
		return nil, &ConfigError{
			Source:  s.path,
			Message: "failed to parse account file",
			Cause:   err,
		}
	}

	return list.Accounts, nil
}

// Describe implements Source.
func (s *FileSource) Describe() string {
	return fmt.Sprintf("file:%s", s.path)
}
