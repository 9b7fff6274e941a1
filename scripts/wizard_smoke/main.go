// Command wizard_smoke drives a full college enrollment through a running
// instance of the API and reports each step. It exits non-zero on the first
// failed step, which makes it usable as a deploy gate.
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
	"time"
)

type step struct {
	Name   string
	Method string
	Path   string
	Body   interface{}
}

func main() {
	var (
		base       string
		userID     string
		courseCode string
		timeout    time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL")
	flag.StringVar(&userID, "user", "smoke-test-user", "Student ID to enroll")
	flag.StringVar(&courseCode, "course", "BSIT", "Course code to select")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	steps := []step{
		{Name: "reset session", Method: http.MethodDelete, Path: "/wizard"},
		{Name: "acknowledge compliance", Method: http.MethodPost, Path: "/wizard/compliance"},
		{Name: "select level", Method: http.MethodPost, Path: "/wizard/level", Body: map[string]string{"level": "college"}},
		{Name: "select course", Method: http.MethodPost, Path: "/wizard/course", Body: map[string]string{"courseCode": courseCode}},
		{Name: "select year", Method: http.MethodPost, Path: "/wizard/year", Body: map[string]int{"year": 1}},
		{Name: "select semester", Method: http.MethodPost, Path: "/wizard/semester", Body: map[string]string{"semester": "first-sem"}},
		{Name: "personal info", Method: http.MethodPost, Path: "/wizard/personal-info", Body: map[string]interface{}{
			"first_name":  "Smoke",
			"last_name":   "Test",
			"birth_day":   1,
			"birth_month": 1,
			"birth_year":  2004,
			"gender":      "male",
			"phone":       "+639170000000",
			"email":       "smoke@example.com",
			"address":     "Test City",
		}},
		{Name: "submit", Method: http.MethodPost, Path: "/wizard/submit", Body: map[string]interface{}{
			"documents": map[string]bool{"birth_certificate": true, "report_card": true, "good_moral": true},
		}},
	}

	client := &http.Client{Timeout: timeout}
	for _, s := range steps {
		status, body, err := run(client, base, userID, s)
		if err != nil {
			log.Fatalf("%-22s error: %v", s.Name, err)
		}
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			fmt.Printf("%-22s FAIL %d %s\n", s.Name, status, body)
			os.Exit(1)
		}
		fmt.Printf("%-22s ok %d\n", s.Name, status)
	}
	fmt.Println("enrollment smoke test passed")
}

func run(client *http.Client, base, userID string, s step) (int, string, error) {
	var payload io.Reader
	if s.Body != nil {
		raw, err := json.Marshal(s.Body)
		if err != nil {
			return 0, "", err
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(s.Method, base+s.Path, payload)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(bytes.TrimSpace(body)), nil
}
