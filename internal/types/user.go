package types

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type Preferences struct {
	DisplayName string `json:"displayName,omitempty"`
	Language    string `json:"language,omitempty"`
	DarkMode    *bool  `json:"darkMode,omitempty"`
}
