// Package main provides a CLI tool for generating test session tokens for the
// StudioGate API. These tokens use the dev signing key and will NOT work in
// production.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"studiogate/internal/identity"
)

const (
	// Dev signing key - matches config.go when STUDIOGATE_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultIssuer = "studiogate"
	defaultTTL    = 24 * time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	ExpiresIn string            `json:"expires_in"`
	Claims    map[string]any    `json:"claims"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	sessionID := flag.String("session-id", "", "Session ID (UUID). Generated if empty.")
	email := flag.String("email", "dev@example.com", "Subject email claim")
	key := flag.String("key", "", "Signing key. Defaults to the dev key.")
	ttl := flag.Duration("ttl", defaultTTL, "Token time-to-live")
	jsonOutput := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	signingKey := devSigningKey
	if *key != "" {
		signingKey = *key
	}

	sid := uuid.New()
	if *sessionID != "" {
		parsed, err := uuid.Parse(*sessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid session-id UUID: %s\n", *sessionID)
			os.Exit(1)
		}
		sid = parsed
	}

	inspector := identity.NewTokenInspector(signingKey, defaultIssuer, *ttl)
	token, err := inspector.Issue(sid, *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(tokenOutput{
			Token:     token,
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"sid": sid.String(),
				"sub": *email,
			},
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
				"cookie": identity.TokenCookieName + "=<token>",
			},
		})
		return
	}

	fmt.Println("Session Token (JWT)")
	fmt.Println("===================")
	fmt.Printf("Session ID: %s\n", sid)
	fmt.Printf("Subject:    %s\n", *email)
	fmt.Printf("Expires In: %s\n", *ttl)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/photographer")
	fmt.Println("  curl --cookie \"" + identity.TokenCookieName + "=<token>\" http://localhost:8080/photographer")
}
