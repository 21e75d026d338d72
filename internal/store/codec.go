package store

import (
	"fmt"

	"github.com/bytedance/sonic"
)

func encodeConversation(c Conversation) ([]byte, error) {
	if c == nil {
		c = Conversation{}
	}
	data, err := sonic.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation: %w", err)
	}
	return data, nil
}

func decodeConversation(data []byte) (Conversation, error) {
	if len(data) == 0 {
		return Conversation{}, nil
	}
	var c Conversation
	if err := sonic.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	if c == nil {
		c = Conversation{}
	}
	return c, nil
}
