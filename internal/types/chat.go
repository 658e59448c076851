package types

// Chat is one conversation thread. The server owns the id and may rename the
// title once the backend derives a topic for it.
type Chat struct {
	ID             string `json:"_id"`
	Title          string `json:"title,omitempty"`
	UserPrompt     string `json:"userPrompt,omitempty"`
	HasNewMessages bool   `json:"hasNewMessages,omitempty"`
}

func FindChat(chats []Chat, id string) int {
	for i := range chats {
		if chats[i].ID == id {
			return i
		}
	}
	return -1
}
