package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleTool      = "tool"
	MessageRoleSystem    = "system"

	VisibilityPrivate = "private"
	VisibilityPublic  = "public"

	UserTypeGuest   = "guest"
	UserTypeRegular = "regular"

	// Logical model ids sent by the client in selectedChatModel.
	ChatModelDefault   = "chat-model"
	ChatModelReasoning = "chat-model-reasoning"
	TitleModel         = "title-model"
	ArtifactModel      = "artifact-model"

	// MaxSteps bounds the model/tool loop of one turn.
	MaxSteps = 5

	HistoryDefaultLimit = 10
	HistoryMaxLimit     = 100

	// AssistantMessageTopic carries finished assistant messages to the persistence consumer.
	AssistantMessageTopic = "chat.assistant-messages"
)

func IsKnownUserType(t string) bool {
	return t == UserTypeGuest || t == UserTypeRegular
}
