package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/chaterror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthenticated = errors.New("unauthenticated")

const principalLocalsKey = "principal"

// IdentityResolver turns request credentials into a Principal.
// The user id never comes from the request body.
type IdentityResolver interface {
	Resolve(ctx *fiber.Ctx) (*entity.Principal, error)
}

type JwtIdentityResolver struct {
	secret []byte
}

func NewJwtIdentityResolver(secret string) *JwtIdentityResolver {
	return &JwtIdentityResolver{secret: []byte(secret)}
}

func (r *JwtIdentityResolver) Resolve(ctx *fiber.Ctx) (*entity.Principal, error) {
	authHeader := ctx.Get(fiber.HeaderAuthorization)
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return nil, ErrUnauthenticated
	}
	tokenStr := strings.TrimSpace(authHeader[7:])
	if tokenStr == "" || len(r.secret) == 0 {
		return nil, ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}

	userId := claimString(claims, "user_id")
	if userId == "" {
		userId = claimString(claims, "sub")
	}
	if userId == "" {
		return nil, ErrUnauthenticated
	}

	userType := claimString(claims, "type")
	if userType == "" {
		userType = constant.UserTypeRegular
	}
	if !constant.IsKnownUserType(userType) {
		return nil, fmt.Errorf("%w: unknown user type %q", ErrUnauthenticated, userType)
	}

	return &entity.Principal{
		Id:    userId,
		Email: claimString(claims, "email"),
		Type:  userType,
	}, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	v, ok := claims[key].(string)
	if !ok {
		return ""
	}
	return v
}

// IdentityMiddleware rejects unauthenticated requests with unauthorized:<surface>
// and stores the principal for Principal().
func IdentityMiddleware(resolver IdentityResolver, surface chaterror.Surface) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		principal, err := resolver.Resolve(ctx)
		if err != nil {
			return chaterror.New(chaterror.Unauthorized, surface)
		}
		ctx.Locals(principalLocalsKey, principal)
		return ctx.Next()
	}
}

// Principal returns the principal stored by IdentityMiddleware.
func Principal(ctx *fiber.Ctx) *entity.Principal {
	p, _ := ctx.Locals(principalLocalsKey).(*entity.Principal)
	return p
}
