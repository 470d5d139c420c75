package stream

import (
	"fmt"
	"strings"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
)

// RequestHints locate the origin of a request. Empty values are allowed.
type RequestHints struct {
	Latitude  string
	Longitude string
	City      string
	Country   string
}

// SystemPrompt builds the system message for the selected model. The reasoning
// model gets no tools, so it is not told about artifacts.
func SystemPrompt(selectedChatModel string, hints RequestHints) string {
	parts := []string{
		constant.RegularPrompt,
		fmt.Sprintf(constant.RequestHintsPrompt, hints.Latitude, hints.Longitude, hints.City, hints.Country),
	}
	if selectedChatModel != constant.ChatModelReasoning {
		parts = append(parts, constant.ArtifactsPrompt)
	}
	return strings.Join(parts, "\n\n")
}
