// Package quota enforces the per-user daily message allowance.
package quota

import (
	"context"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/chaterror"
)

// Window is the rolling period the allowance applies to.
const Window = 24 * time.Hour

// MessageCounter is the part of the message store the gate reads.
type MessageCounter interface {
	CountByUserSince(ctx context.Context, userId string, role string, since time.Time) (int64, error)
}

// Gate is advisory: concurrent turns may both pass before either message is stored.
type Gate struct {
	entitlements map[string]constant.Entitlement
	now          func() time.Time
}

func NewGate() *Gate {
	return &Gate{
		entitlements: constant.Entitlements,
		now:          time.Now,
	}
}

// Entitlement returns the entitlement of the user type; unknown types get the guest one.
func (g *Gate) Entitlement(userType string) constant.Entitlement {
	if e, ok := g.entitlements[userType]; ok {
		return e
	}
	return g.entitlements[constant.UserTypeGuest]
}

// Check fails with rate_limit:chat once the user has sent MaxMessagesPerDay
// messages in the last Window.
func (g *Gate) Check(ctx context.Context, counter MessageCounter, principal *entity.Principal) error {
	count, err := counter.CountByUserSince(ctx, principal.Id, constant.MessageRoleUser, g.now().Add(-Window))
	if err != nil {
		return chaterror.Database(err)
	}

	if count >= g.Entitlement(principal.Type).MaxMessagesPerDay {
		return chaterror.New(chaterror.RateLimit, chaterror.SurfaceChat)
	}
	return nil
}
