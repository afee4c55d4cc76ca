package session

// Flash levels mirror the CSS classes the storefront templates use.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

const flashKey = "_flash"

// Message is a one-shot notice shown on the next rendered page.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// AddFlash queues a message for the next page.
func (s *Session) AddFlash(level, text string) {
	msgs := s.peekFlashes()
	msgs = append(msgs, Message{Level: level, Text: text})
	s.Set(flashKey, msgs)
}

// Flashes returns and clears queued messages.
func (s *Session) Flashes() []Message {
	msgs := s.peekFlashes()
	if _, ok := s.data[flashKey]; ok {
		s.Delete(flashKey)
	}
	return msgs
}

func (s *Session) peekFlashes() []Message {
	raw, ok := s.data[flashKey]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []Message:
		return v
	case []interface{}:
		// decoded from JSON
		out := make([]Message, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			level, _ := m["level"].(string)
			text, _ := m["text"].(string)
			out = append(out, Message{Level: level, Text: text})
		}
		return out
	}
	return nil
}
