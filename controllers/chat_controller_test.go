package controllers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type chatOut struct {
	UserMessage string `json:"user_message"`
	BotResponse string `json:"bot_response"`
}

func sendChat(t *testing.T, r *gin.Engine, token, message string) (int, chatOut) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/chat", token, gin.H{"message": message})
	if w.Code != http.StatusOK {
		return w.Code, chatOut{}
	}
	var out chatOut
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &out); err != nil {
		t.Fatalf("failed to decode chat payload: %v", err)
	}
	return w.Code, out
}

func TestChatKeywordGroups(t *testing.T) {
	r, _ := setupRouter(t)
	registerUser(t, r, "a@x.com", "password1", "Alice")
	token := loginUser(t, r, "a@x.com", "password1")

	cases := []struct {
		message string
		want    string
	}{
		{"Hello there!", "Hello Alice"},
		{"hey, anyone home?", "Hello Alice"},
		{"How are you doing?", "I'm doing well"},
		{"where did my file go", "manage your files"},
		{"I need some help", "Happy to help"},
	}
	for _, tc := range cases {
		code, out := sendChat(t, r, token, tc.message)
		if code != http.StatusOK {
			t.Fatalf("chat %q: status = %d", tc.message, code)
		}
		if !strings.Contains(out.BotResponse, tc.want) {
			t.Errorf("chat %q: response %q does not contain %q", tc.message, out.BotResponse, tc.want)
		}
	}
}

func TestChatDeterministic(t *testing.T) {
	r, _ := setupRouter(t)
	registerUser(t, r, "a@x.com", "password1", "Alice")
	token := loginUser(t, r, "a@x.com", "password1")

	_, first := sendChat(t, r, token, "where did my file go")
	_, second := sendChat(t, r, token, "where did my file go")
	if first.BotResponse != second.BotResponse {
		t.Fatalf("same input produced different responses: %q vs %q", first.BotResponse, second.BotResponse)
	}
}

func TestChatFallbackEcho(t *testing.T) {
	r, _ := setupRouter(t)
	registerUser(t, r, "a@x.com", "password1", "Alice")
	token := loginUser(t, r, "a@x.com", "password1")

	code, out := sendChat(t, r, token, "  tell me about quantum gardening  ")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if out.UserMessage != "tell me about quantum gardening" {
		t.Fatalf("message not trimmed: %q", out.UserMessage)
	}
	if !strings.Contains(out.BotResponse, "tell me about quantum gardening") {
		t.Fatalf("fallback should echo the input: %q", out.BotResponse)
	}
}

func TestChatStripsMarkup(t *testing.T) {
	r, _ := setupRouter(t)
	registerUser(t, r, "a@x.com", "password1", "Alice")
	token := loginUser(t, r, "a@x.com", "password1")

	code, out := sendChat(t, r, token, `<script>alert(1)</script>quantum`)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if strings.Contains(out.UserMessage, "<script>") || strings.Contains(out.BotResponse, "<script>") {
		t.Fatalf("markup survived the echo: %+v", out)
	}
}

func TestChatLengthBounds(t *testing.T) {
	r, _ := setupRouter(t)
	registerUser(t, r, "a@x.com", "password1", "Alice")
	token := loginUser(t, r, "a@x.com", "password1")

	for name, message := range map[string]string{
		"empty":    "",
		"too long": strings.Repeat("a", 5001),
	} {
		w := doJSON(t, r, http.MethodPost, "/chat", token, gin.H{"message": message})
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s message: status = %d, want 422", name, w.Code)
		}
	}

	if code, _ := sendChat(t, r, token, strings.Repeat("a", 5000)); code != http.StatusOK {
		t.Errorf("5000-char message: status = %d, want 200", code)
	}
}

func TestChatRequiresAuth(t *testing.T) {
	r, _ := setupRouter(t)
	if w := doJSON(t, r, http.MethodPost, "/chat", "", gin.H{"message": "hi"}); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
