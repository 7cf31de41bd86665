// Package bus provides the asynchronous message queue connecting the chat
// channel, the assistant core and the reminder sweeper. Inbound messages
// flow from the channel into the assistant; outbound messages flow from the
// assistant and the sweeper back to the channel.
package bus

import (
	"encoding/json"
	"time"
)

// ChannelType identifies the communication channel a message belongs to.
type ChannelType string

const (
	ChannelTypeTelegram ChannelType = "telegram"
	ChannelTypeSweeper  ChannelType = "sweeper"
)

// InboundMessage is a message received from an external channel.
type InboundMessage struct {
	ChannelType ChannelType    `json:"channel_type"`
	ChatID      string         `json:"chat_id"`
	Content     string         `json:"content"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// InlineButton is a single button of an inline keyboard.
type InlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// InlineKeyboard is a channel-agnostic inline keyboard, one row per slice.
type InlineKeyboard struct {
	Rows [][]InlineButton `json:"rows"`
}

// OutboundMessage is a message to be sent to an external channel.
type OutboundMessage struct {
	ChannelType    ChannelType     `json:"channel_type"`
	ChatID         string          `json:"chat_id"`
	Content        string          `json:"content"`
	InlineKeyboard *InlineKeyboard `json:"inline_keyboard,omitempty"`
	CorrelationID  string          `json:"correlation_id,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
}

// ToJSON serializes the InboundMessage to JSON bytes.
func (m *InboundMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON deserializes the InboundMessage from JSON bytes.
func (m *InboundMessage) FromJSON(data []byte) error {
	return json.Unmarshal(data, m)
}

// ToJSON serializes the OutboundMessage to JSON bytes.
func (m *OutboundMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON deserializes the OutboundMessage from JSON bytes.
func (m *OutboundMessage) FromJSON(data []byte) error {
	return json.Unmarshal(data, m)
}

// NewInboundMessage creates an InboundMessage with the current timestamp.
func NewInboundMessage(channelType ChannelType, chatID, content string, metadata map[string]any) *InboundMessage {
	return &InboundMessage{
		ChannelType: channelType,
		ChatID:      chatID,
		Content:     content,
		Timestamp:   time.Now(),
		Metadata:    metadata,
	}
}

// NewOutboundMessage creates an OutboundMessage with the current timestamp.
func NewOutboundMessage(channelType ChannelType, chatID, content, correlationID string, metadata map[string]any) *OutboundMessage {
	return &OutboundMessage{
		ChannelType:   channelType,
		ChatID:        chatID,
		Content:       content,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
		Metadata:      metadata,
	}
}
