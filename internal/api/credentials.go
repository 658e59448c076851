package api

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/asafzaf/smartchat/internal/types"
)

// Credentials is the persisted sign-in state: the bearer token plus the user
// it belongs to. The reconciliation layer only ever consumes the user id and
// token from here.
type Credentials struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	if strings.TrimSpace(creds.Token) == "" || strings.TrimSpace(creds.User.ID) == "" {
		return nil, nil
	}
	return &creds, nil
}

func SaveCredentials(path string, creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func ClearCredentials(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
