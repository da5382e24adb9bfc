package repositories

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sbilibin2017/gw-user-store/internal/models"
)

// ErrCorruptDocument is returned when a stored user document cannot be decoded.
var ErrCorruptDocument = errors.New("corrupt user document")

// decodeUsers parses a serialized user collection. Empty input is an empty collection.
func decodeUsers(data []byte) ([]models.UserRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.UserRecord{}, nil
	}

	var users []models.UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if users == nil {
		users = []models.UserRecord{}
	}
	return users, nil
}

// encodeUsers serializes the full collection as an indented JSON array.
func encodeUsers(users []models.UserRecord) ([]byte, error) {
	if users == nil {
		users = []models.UserRecord{}
	}
	return json.MarshalIndent(users, "", "  ")
}

func cloneUsers(users []models.UserRecord) []models.UserRecord {
	out := make([]models.UserRecord, len(users))
	copy(out, users)
	return out
}
