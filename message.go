package sqslistener

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Message is a single delivery fetched from the queue. It embeds the raw SQS
// message, so the message id, body and attributes are available directly.
// The receipt handle identifies this particular delivery and is required to
// acknowledge it; SQS may omit it for invalid or expired messages.
type Message struct {
	*types.Message
}

func newMessage(m *types.Message) *Message {
	return &Message{m}
}

// Decode unmarshals the JSON message body into out.
func (m *Message) Decode(out interface{}) error {
	return json.Unmarshal(m.body(), &out)
}

func (m *Message) body() []byte {
	if m.Message == nil || m.Message.Body == nil {
		return nil
	}
	return []byte(*m.Message.Body)
}

func (m *Message) hasHandle() bool {
	return m.Message != nil && m.ReceiptHandle != nil
}
