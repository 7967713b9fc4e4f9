// Command smoke plays a short scripted conversation against a running
// webhook and fails on the first non-200 answer.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/dtpr/internal/core/entity"
	"github.com/agenthands/dtpr/internal/webhook"
)

type step struct {
	intent string
	params entity.Parameters
}

var script = []step{
	{intent: "Default Welcome Intent"},
	{intent: "where am I"},
	{intent: "get systems"},
	{intent: "what is", params: entity.Parameters{"system": os.Getenv("SMOKE_SYSTEM")}},
	{intent: "get the parts"},
	{intent: "get storage"},
	{intent: "get questions to ask"},
}

func main() {
	baseURL := os.Getenv("SMOKE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	token := os.Getenv("WEBHOOK_TOKEN")

	// Wait for server to start
	time.Sleep(2 * time.Second)

	session := "projects/dtpr/agent/sessions/smoke-" + uuid.NewString()
	var contexts []webhook.Context

	fmt.Println("Starting smoke conversation...")
	for i, s := range script {
		req := webhook.Request{
			ResponseID: uuid.NewString(),
			Session:    session,
			QueryResult: webhook.QueryResult{
				LanguageCode:   "en",
				Intent:         webhook.Intent{DisplayName: s.intent},
				Parameters:     s.params,
				OutputContexts: contexts,
			},
		}
		resp, ok := sendRequest(baseURL+"/webhook", token, req)
		if !ok {
			fmt.Printf("FAILED: %d. %s\n", i+1, s.intent)
			os.Exit(1)
		}
		if len(resp.OutputContexts) > 0 {
			contexts = resp.OutputContexts
		}
		fmt.Printf("PASSED: %d. %s -> %q\n", i+1, s.intent, resp.FulfillmentText)
	}
}

func sendRequest(url, token string, payload webhook.Request) (*webhook.Response, bool) {
	jsonBytes, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Webhook-Token", token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}

	var out webhook.Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return nil, false
	}
	return &out, true
}
