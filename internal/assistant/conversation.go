package assistant

import "time"

// historyWindow is how many trailing messages are replayed as model context
// on each turn.
const historyWindow = 6

const welcomeMessage = `Hi! I can add expenses/income or provide insights. Try: "How much did I spend on food this month?"`

// Descriptive statements substituted for UI-only message kinds so the model
// never sees raw preview markers in its context.
const (
	previewContextText = "I have generated a transaction preview for you to confirm."
	insightContextText = "I have generated a financial insight report."
)

// Conversation is the append-only message log driving both model context and
// rendering. It is touched only from the single active turn.
type Conversation struct {
	messages []Message
	now      func() time.Time
}

// NewConversation creates a log seeded with the welcome message.
func NewConversation() *Conversation {
	c := &Conversation{now: time.Now}
	c.AppendText(RoleBot, welcomeMessage)
	return c
}

// AppendText appends a plain message and returns it.
func (c *Conversation) AppendText(role Role, content string) Message {
	return c.append(Message{Role: role, Kind: KindText, Content: content})
}

// AppendInsight appends a bot message tagged for report rendering.
func (c *Conversation) AppendInsight(report InsightReport) Message {
	return c.append(Message{Role: RoleBot, Kind: KindInsightReport, Report: &report})
}

// AppendPreview appends the editable pending-batch preview message.
func (c *Conversation) AppendPreview(items []PendingItem) Message {
	copied := append([]PendingItem(nil), items...)
	return c.append(Message{Role: RoleBot, Kind: KindPendingPreview, Items: copied})
}

func (c *Conversation) append(msg Message) Message {
	msg.Timestamp = c.now()
	c.messages = append(c.messages, msg)
	return msg
}

// Messages returns a copy of the full log.
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

// Len returns the number of logged messages.
func (c *Conversation) Len() int { return len(c.messages) }

// ModelContext re-expresses the most recent messages as (speaker, text)
// turns. Report and preview messages are rewritten into descriptive
// assistant statements.
func (c *Conversation) ModelContext() []Turn {
	start := len(c.messages) - historyWindow
	if start < 0 {
		start = 0
	}

	turns := make([]Turn, 0, len(c.messages)-start)
	for _, msg := range c.messages[start:] {
		speaker := "model"
		if msg.Role == RoleUser {
			speaker = "user"
		}
		text := msg.Content
		switch msg.Kind {
		case KindPendingPreview:
			text = previewContextText
		case KindInsightReport:
			text = insightContextText
		}
		turns = append(turns, Turn{Speaker: speaker, Text: text})
	}
	return turns
}
