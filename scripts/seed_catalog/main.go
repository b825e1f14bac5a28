package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type catalog struct {
	Courses   []json.RawMessage `json:"courses"`
	Teachers  []json.RawMessage `json:"teachers"`
	Rooms     []json.RawMessage `json:"rooms"`
	TimeSlots []json.RawMessage `json:"timeslots"`
}

type seedResult struct {
	Resource string
	Total    int
	Created  int
	Failed   int
}

func main() {
	var (
		baseURL     string
		catalogPath string
		token       string
		timeout     time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080/api/v1", "API base URL")
	flag.StringVar(&catalogPath, "catalog", filepath.Join("scripts", "seed_catalog", "catalog.json"), "Path to JSON catalog file")
	flag.StringVar(&token, "token", os.Getenv("SEED_TOKEN"), "Admin access token")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	if token == "" {
		log.Fatal("an admin access token is required (use -token or SEED_TOKEN)")
	}

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		log.Fatalf("failed to read catalog: %v", err)
	}
	var cat catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		log.Fatalf("failed to parse catalog: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	results := []seedResult{
		seedResource(client, baseURL, token, "courses", cat.Courses),
		seedResource(client, baseURL, token, "teachers", cat.Teachers),
		seedResource(client, baseURL, token, "rooms", cat.Rooms),
		seedResource(client, baseURL, token, "timeslots", cat.TimeSlots),
	}

	failed := 0
	fmt.Println("Seed Report")
	fmt.Println("===========")
	for _, res := range results {
		fmt.Printf("%-10s created %d of %d (failed %d)\n", res.Resource, res.Created, res.Total, res.Failed)
		failed += res.Failed
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func seedResource(client *http.Client, base, token, resource string, payloads []json.RawMessage) seedResult {
	res := seedResult{Resource: resource, Total: len(payloads)}
	url := strings.TrimRight(base, "/") + "/" + resource

	for _, payload := range payloads {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			res.Failed++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("%s: request failed: %v", resource, err)
			res.Failed++
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			log.Printf("%s: unexpected status %d: %s", resource, resp.StatusCode, strings.TrimSpace(string(body)))
			res.Failed++
			continue
		}
		res.Created++
	}

	return res
}
