package publication

import (
	"encoding/json"
	"fmt"
)

// Marshal encodes a snapshot in its wire/storage shape.
func Marshal(p PublishedMenu) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal published menu: %w", err)
	}
	return data, nil
}

func Unmarshal(data []byte) (PublishedMenu, error) {
	var p PublishedMenu
	if err := json.Unmarshal(data, &p); err != nil {
		return PublishedMenu{}, fmt.Errorf("failed to unmarshal published menu: %w", err)
	}
	return p, nil
}
