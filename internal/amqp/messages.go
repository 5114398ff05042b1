package amqp

import (
	"encoding/json"
	"time"
)

// SeasonArchivedMessage announces a season archival. It carries only the
// season ID and summary figures; consumers fetch the full season from the
// archive before acting on it.
type SeasonArchivedMessage struct {
	SeasonID           int64     `json:"seasonId"`
	Name               string    `json:"name"`
	EndingCapitalCents int64     `json:"endingCapitalCents"`
	Timestamp          time.Time `json:"timestamp"`
}

// NewSeasonArchivedMessage creates a message stamped with the current time.
func NewSeasonArchivedMessage(seasonID int64, name string, endingCapitalCents int64) *SeasonArchivedMessage {
	return &SeasonArchivedMessage{
		SeasonID:           seasonID,
		Name:               name,
		EndingCapitalCents: endingCapitalCents,
		Timestamp:          time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SeasonArchivedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SeasonArchivedMessageFromJSON creates a message from JSON bytes
func SeasonArchivedMessageFromJSON(data []byte) (*SeasonArchivedMessage, error) {
	var msg SeasonArchivedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
