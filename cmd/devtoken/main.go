// Command devtoken signs a bearer token for local requests against the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/config"
	"github.com/YohanReddy/ai-chatbot/internal/constant"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	userId := flag.String("user", "", "user id (random when empty)")
	email := flag.String("email", "", "email claim")
	userType := flag.String("type", constant.UserTypeRegular, "user type: guest or regular")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()
	if cfg.Auth.JwtSecret == "" {
		color.Red("JWT_SECRET is not set")
		os.Exit(1)
	}
	if !constant.IsKnownUserType(*userType) {
		color.Red("Unknown user type %q", *userType)
		os.Exit(1)
	}
	if *userId == "" {
		*userId = uuid.NewString()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": *userId,
		"email":   *email,
		"type":    *userType,
		"exp":     time.Now().Add(*ttl).Unix(),
	}).SignedString([]byte(cfg.Auth.JwtSecret))
	if err != nil {
		color.Red("Failed to sign token: %v", err)
		os.Exit(1)
	}

	color.Cyan("user: %s (%s), expires in %s", *userId, *userType, *ttl)
	fmt.Println(token)
}
