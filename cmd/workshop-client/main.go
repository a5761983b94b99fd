package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
)

type streamEvent struct {
	Type    string `json:"type"`
	AgentID string `json:"agentId"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Content string `json:"content"`
}

func main() {
	addr := flag.String("addr", "http://127.0.0.1:8080", "workshop server base URL")
	agents := flag.String("agents", "government,ngo,citizen,student", "comma-separated persona keys")
	message := flag.String("message", "How should we handle housing costs?", "message to discuss")
	topic := flag.String("topic", "", "optional discussion topic")
	interpretation := flag.String("interpretation", "", "optional background interpretation")
	flag.Parse()

	body := map[string]any{
		"message":        *message,
		"selectedAgents": splitKeys(*agents),
	}
	if *topic != "" || *interpretation != "" {
		body["context"] = map[string]any{"topic": *topic, "interpretation": *interpretation}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, *addr+"/api/multi-agent-chat", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			log.Fatalf("server rejected request: %s", errResp.Error)
		}
		log.Fatalf("server returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &event); err != nil {
			log.Fatalf("decode event: %v", err)
		}

		switch event.Type {
		case "agent_start":
			colorFor(event.Color).Printf("\n%s: ", event.Name)
		case "content":
			fmt.Print(event.Content)
		case "agent_end":
			fmt.Println()
		case "done":
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("stream read: %v", err)
	}
}

func splitKeys(list string) []string {
	var keys []string
	for _, key := range strings.Split(list, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// colorFor maps the persona's UI color tag (e.g. "blue-500") to a terminal color.
func colorFor(tag string) *color.Color {
	hue, _, _ := strings.Cut(tag, "-")
	switch hue {
	case "blue":
		return color.New(color.FgBlue, color.Bold)
	case "green":
		return color.New(color.FgGreen, color.Bold)
	case "orange", "yellow":
		return color.New(color.FgYellow, color.Bold)
	case "purple", "magenta":
		return color.New(color.FgMagenta, color.Bold)
	case "red":
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgCyan, color.Bold)
	}
}
