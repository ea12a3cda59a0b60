// Package smoke provides smoke tests for the bella API.
// Expects a running bella server at baseURL.
package smoke

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

const (
	baseHost = "127.0.0.1"
	basePort = 8080
)

var baseURL = fmt.Sprintf("http://%s:%d/api/v1", baseHost, basePort)
var rootURL = fmt.Sprintf("http://%s:%d", baseHost, basePort)

var httpClient = &http.Client{Timeout: 60 * time.Second}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := httpClient.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body, out any) int {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestSmoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping smoke test in short mode")
	}

	t.Run("health", func(t *testing.T) {
		var health struct {
			Status   string `json:"status"`
			Database string `json:"database"`
		}
		status := getJSON(t, rootURL+"/health", &health)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if health.Status != "healthy" {
			t.Fatalf("expected healthy, got %s", health.Status)
		}
		if health.Database != "connected" {
			t.Fatalf("expected database connected, got %s", health.Database)
		}
	})

	// Generate a calendar
	var created struct {
		Data struct {
			ID         string `json:"id"`
			Attributes struct {
				Niche         string `json:"niche"`
				City          string `json:"city"`
				DaysGenerated int    `json:"days_generated"`
			} `json:"attributes"`
		} `json:"data"`
	}
	status := postJSON(t, baseURL+"/calendars", map[string]any{
		"niche": "nail salon",
		"city":  "Miami",
		"days":  7,
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if created.Data.ID == "" {
		t.Fatal("expected calendar ID")
	}
	if created.Data.Attributes.DaysGenerated != 7 {
		t.Fatalf("expected 7 days, got %d", created.Data.Attributes.DaysGenerated)
	}
	calID := created.Data.ID
	t.Logf("created calendar: id=%s", calID)

	t.Run("calendar_list", func(t *testing.T) {
		var list struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		status := getJSON(t, baseURL+"/calendars", &list)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		found := false
		for _, c := range list.Data {
			if c.ID == calID {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected calendar %s in list", calID)
		}
	})

	t.Run("calendar_detail", func(t *testing.T) {
		var detail struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
			Included []any `json:"included"`
		}
		status := getJSON(t, baseURL+"/calendars/"+calID, &detail)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if len(detail.Included) != 7 {
			t.Fatalf("expected 7 included entries, got %d", len(detail.Included))
		}
	})

	t.Run("calendar_not_found", func(t *testing.T) {
		status := getJSON(t, baseURL+"/calendars/99999999", nil)
		if status != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", status)
		}
	})

	t.Run("calendar_export_csv", func(t *testing.T) {
		resp, err := httpClient.Get(baseURL + "/calendars/" + calID + "/export?format=csv")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(resp.Header.Get("Content-Disposition"), "attachment") {
			t.Fatal("expected attachment disposition")
		}
	})

	t.Run("batch_inline", func(t *testing.T) {
		var outcome struct {
			Status    string `json:"status"`
			Total     int    `json:"total"`
			Succeeded int    `json:"succeeded"`
		}
		status := postJSON(t, baseURL+"/batch", map[string]any{
			"businesses": []map[string]string{
				{"niche": "hair salon", "city": "Dallas"},
				{"niche": "spa", "city": "Phoenix"},
			},
			"days": 3,
		}, &outcome)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if outcome.Status != "completed" || outcome.Succeeded != 2 {
			t.Fatalf("unexpected outcome: %+v", outcome)
		}
	})

	t.Run("trends", func(t *testing.T) {
		var trends struct {
			Niche    string   `json:"niche"`
			Hashtags []string `json:"hashtags"`
		}
		status := getJSON(t, baseURL+"/trends?niche=nail+salon", &trends)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if len(trends.Hashtags) == 0 {
			t.Fatal("expected hashtags")
		}
	})

	t.Run("templates", func(t *testing.T) {
		var list struct {
			Data  []any `json:"data"`
			Total int   `json:"total"`
		}
		status := getJSON(t, baseURL+"/templates", &list)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if list.Total == 0 {
			t.Fatal("expected seeded templates")
		}
	})

	t.Run("analytics", func(t *testing.T) {
		var overview struct {
			Period         string `json:"period"`
			TotalCalendars int64  `json:"total_calendars"`
		}
		status := getJSON(t, baseURL+"/analytics", &overview)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if overview.TotalCalendars < 1 {
			t.Fatal("expected at least one calendar in analytics")
		}
	})

	t.Run("paginate", func(t *testing.T) {
		var page struct {
			Page    int   `json:"page"`
			Limit   int   `json:"limit"`
			HasNext bool  `json:"has_next"`
			Results []any `json:"results"`
		}
		status := getJSON(t, rootURL+"/paginate?page=1&limit=5", &page)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if len(page.Results) != 5 {
			t.Fatalf("expected 5 results, got %d", len(page.Results))
		}

		status = getJSON(t, rootURL+"/paginate?page=abc", nil)
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400 for non-integer page, got %d", status)
		}
	})

	t.Run("ndjson", func(t *testing.T) {
		resp, err := httpClient.Get(rootURL + "/ndjson")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		scanner := bufio.NewScanner(resp.Body)
		lines := 0
		for scanner.Scan() && lines < 10 {
			var row map[string]any
			if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
				t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
			}
			lines++
		}
		if lines == 0 {
			t.Fatal("expected NDJSON rows")
		}
	})

	t.Run("metrics", func(t *testing.T) {
		status := getJSON(t, rootURL+"/metrics", nil)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
	})
}
