package constant

type Entitlement struct {
	MaxMessagesPerDay     int64
	AvailableChatModelIds []string
}

// Entitlements is read-only after init.
var Entitlements = map[string]Entitlement{
	UserTypeGuest: {
		MaxMessagesPerDay:     20,
		AvailableChatModelIds: []string{ChatModelDefault, ChatModelReasoning},
	},
	UserTypeRegular: {
		MaxMessagesPerDay:     100,
		AvailableChatModelIds: []string{ChatModelDefault, ChatModelReasoning},
	},
}

func (e Entitlement) AllowsModel(id string) bool {
	for _, m := range e.AvailableChatModelIds {
		if m == id {
			return true
		}
	}
	return false
}
