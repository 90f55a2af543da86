package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voxdrop/voxdrop/middleware"
	"github.com/voxdrop/voxdrop/utils"
)

// keywordGroup pairs trigger substrings with a reply builder. Groups are
// matched in order; the first hit wins.
type keywordGroup struct {
	keywords []string
	reply    func(displayName string) string
}

var chatGroups = []keywordGroup{
	{
		keywords: []string{"hello", "hi", "hey"},
		reply: func(name string) string {
			return fmt.Sprintf("Hello %s! How can I help you today?", name)
		},
	},
	{
		keywords: []string{"how are you"},
		reply: func(string) string {
			return "I'm doing well, thank you! I'm here for you. How can I help?"
		},
	},
	{
		keywords: []string{"file", "upload"},
		reply: func(string) string {
			return "You can manage your files from the panel on the left. Use the + button to upload a new file."
		},
	},
	{
		keywords: []string{"help"},
		reply: func(string) string {
			return "Happy to help! You can upload, list and delete files, and chat with me right here."
		},
	},
}

// ChatController answers messages with canned, deterministic replies.
type ChatController struct{}

// NewChatController creates a ChatController.
func NewChatController() *ChatController {
	return &ChatController{}
}

// Chat matches the message against the keyword groups and echoes a reply.
// There is no state and no external call; the same input always produces the
// same response.
func (c *ChatController) Chat(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	type request struct {
		Message string `json:"message" binding:"required,min=1,max=5000"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42240, "message must be between 1 and 5000 characters")
		return
	}

	message := strings.TrimSpace(utils.Sanitize(req.Message))

	displayName := user.FullName
	if displayName == "" {
		displayName = "there"
	}

	lowered := strings.ToLower(message)
	response := fmt.Sprintf("I received your message: '%s'. This is a demo response.", message)
	for _, group := range chatGroups {
		if matchesAny(lowered, group.keywords) {
			response = group.reply(displayName)
			break
		}
	}

	utils.Success(ctx, gin.H{
		"user_message": message,
		"bot_response": response,
		"timestamp":    time.Now(),
	})
}

func matchesAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}
