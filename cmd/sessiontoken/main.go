// Command sessiontoken prints a session cookie value for a user id, signed
// with SESSION_SECRET. It stands in for the login service during local work:
//
//	curl -b "session=$(go run ./cmd/sessiontoken -user u1)" localhost:8080/api/v1/messages
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"chatroom/server/internal/config"
	"chatroom/server/internal/session"
)

func main() {
	userID := flag.String("user", "", "user id to put in the session")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "sessiontoken: -user is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sessiontoken: %v\n", err)
		os.Exit(1)
	}

	token, err := session.NewCodec(cfg.SessionSecret).Encode(*userID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sessiontoken: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
