package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/asafzaf/smartchat/internal/types"
)

func TestSignInStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req SignInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Email != "u@example.com" {
			t.Fatalf("unexpected email: %q", req.Email)
		}
		json.NewEncoder(w).Encode(AuthResponse{Data: AuthData{
			User:  types.User{ID: "u1", Email: req.Email},
			Token: "tok-123",
		}})
	}))
	defer server.Close()

	client := New(server.URL, nil)
	data, err := client.SignIn(context.Background(), "u@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if data.User.ID != "u1" {
		t.Fatalf("unexpected user id: %q", data.User.ID)
	}
	if client.token != "tok-123" {
		t.Fatalf("expected token to be installed, got %q", client.token)
	}
}

func TestChatListSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/u1/list" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		json.NewEncoder(w).Encode(ChatListResponse{Data: []types.Chat{{ID: "c1", Title: "First"}}})
	}))
	defer server.Close()

	client := New(server.URL, nil)
	client.SetToken("tok-123")
	chats, err := client.ChatList(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ChatList: %v", err)
	}
	if len(chats) != 1 || chats[0].ID != "c1" {
		t.Fatalf("unexpected chats: %+v", chats)
	}
}

func TestChatListWithoutTokenFailsLocally(t *testing.T) {
	client := New("http://127.0.0.1:0", nil)
	if _, err := client.ChatList(context.Background(), "u1"); err == nil {
		t.Fatalf("expected error without token")
	}
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"})
	}))
	defer server.Close()

	client := New(server.URL, nil)
	_, err := client.SignIn(context.Background(), "u@example.com", "wrong")
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr := AsAPIError(err)
	if apiErr == nil {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "bad credentials" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestDeleteChatRequiresChatID(t *testing.T) {
	client := New("http://127.0.0.1:0", nil)
	client.SetToken("tok")
	if err := client.DeleteChat(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for blank chat id")
	}
}

func TestCredentialsRoundTripAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	loaded, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials on missing file: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil credentials for missing file")
	}

	creds := Credentials{Token: "tok", User: types.User{ID: "u1", Email: "u@example.com"}}
	if err := SaveCredentials(path, creds); err != nil {
		t.Fatalf("SaveCredentials: %v", err)
	}
	loaded, err = LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if loaded == nil || loaded.Token != "tok" || loaded.User.ID != "u1" {
		t.Fatalf("unexpected credentials: %+v", loaded)
	}

	if err := ClearCredentials(path); err != nil {
		t.Fatalf("ClearCredentials: %v", err)
	}
	if err := ClearCredentials(path); err != nil {
		t.Fatalf("ClearCredentials twice: %v", err)
	}
}
