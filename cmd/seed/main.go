package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
)

// Сидер наполняет сервис фейковыми пользователями, подписками и постами
// через публичный HTTP API.

var (
	baseURL = flag.String("url", "http://localhost:8080", "API base URL")
	users   = flag.Int("users", 100, "number of users to create")
	posts   = flag.Int("posts", 5, "posts per user")
	follows = flag.Int("follows", 10, "follows per user")
)

func postJSON(path string, userID int64, payload interface{}) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("POST", *baseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(userID, 10))
	}
	return http.DefaultClient.Do(req)
}

func main() {
	flag.Parse()

	userIDs := make([]int64, 0, *users)

	for i := 0; i < *users; i++ {
		nickname := fmt.Sprintf("%s_%d", gofakeit.Username(), i)
		resp, err := postJSON("/api/v1/auth/register", 0, map[string]string{
			"nickname":     nickname,
			"display_name": gofakeit.Name(),
			"password":     gofakeit.Password(true, true, true, false, false, 12),
		})
		if err != nil {
			log.Fatalf("register failed: %v", err)
		}

		var user struct {
			ID int64 `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			log.Fatalf("bad register response: %v", err)
		}
		resp.Body.Close()
		userIDs = append(userIDs, user.ID)
	}
	log.Printf("created %d users", len(userIDs))

	for _, id := range userIDs {
		for j := 0; j < *follows; j++ {
			followee := userIDs[rand.Intn(len(userIDs))]
			if followee == id {
				continue
			}
			resp, err := postJSON("/api/v1/follows/toggle", id, map[string]interface{}{
				"followee_id":         followee,
				"currently_following": false,
			})
			if err != nil {
				log.Fatalf("follow failed: %v", err)
			}
			resp.Body.Close()
		}
	}
	log.Printf("created follow edges")

	for _, id := range userIDs {
		for j := 0; j < *posts; j++ {
			resp, err := postJSON("/api/v1/posts/create", id, map[string]string{
				"content": gofakeit.Sentence(rand.Intn(15) + 3),
			})
			if err != nil {
				log.Fatalf("post failed: %v", err)
			}
			resp.Body.Close()
		}
	}
	log.Printf("created %d posts", len(userIDs)*(*posts))
}
