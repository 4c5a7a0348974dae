package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// RecordSavedMessage announces that the record for Date was written.
// The consumer reads the current table itself; the message carries no values.
type RecordSavedMessage struct {
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSavedMessage(date string) *RecordSavedMessage {
	return &RecordSavedMessage{
		Date:      date,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordSavedMessageFromJSON decodes a message. A message without a date is
// rejected so the consumer can drop it instead of requeueing forever.
func RecordSavedMessageFromJSON(data []byte) (*RecordSavedMessage, error) {
	var msg RecordSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Date == "" {
		return nil, errors.New("record saved message without date")
	}
	return &msg, nil
}
