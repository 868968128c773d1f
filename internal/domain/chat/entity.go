package chat

import "time"

// Chat is an unordered pair of profiles stored with ProfileA < ProfileB.
type Chat struct {
	ID        int64     `json:"id"`
	ProfileA  int64     `json:"profile_a"`
	ProfileB  int64     `json:"profile_b"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Chat) Includes(profileID int64) bool {
	return c.ProfileA == profileID || c.ProfileB == profileID
}

// Other returns the counterpart of profileID in the chat.
func (c Chat) Other(profileID int64) int64 {
	if c.ProfileA == profileID {
		return c.ProfileB
	}
	return c.ProfileA
}

// CanonicalPair orders two profile ids the way chats are stored.
func CanonicalPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// Summary is a chat as listed for one participant.
type Summary struct {
	Chat
	CounterpartID int64      `json:"counterpart_id"`
	LastMessage   *string    `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int        `json:"unread_count"`
}

type Message struct {
	ID            int64     `json:"id"`
	ChatID        int64     `json:"chat_id"`
	SenderID      int64     `json:"sender_id"`
	ReceiverID    int64     `json:"receiver_id"`
	Content       string    `json:"content"`
	AttachmentURL *string   `json:"attachment_url,omitempty"`
	ReadStatus    bool      `json:"read_status"`
	Reaction      *string   `json:"reaction,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MessageUpdate lists mutable message columns. An empty Reaction clears it.
type MessageUpdate struct {
	Content  *string
	Reaction *string
}

func (u MessageUpdate) IsEmpty() bool {
	return u.Content == nil && u.Reaction == nil
}

var allowedReactions = map[string]struct{}{
	"like": {}, "love": {}, "laugh": {}, "wow": {}, "sad": {}, "angry": {},
}

func ValidReaction(r string) bool {
	if r == "" {
		return true
	}
	_, ok := allowedReactions[r]
	return ok
}
