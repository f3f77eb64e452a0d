package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mkaplan/eventdigest/logger"
)

// The Tockify and Wix calendars render their listings client-side, so a
// plain GET returns an empty shell. Those venues fetch through a headless
// browser service (browserless/ChromeDB compatible HTTP API) instead. The
// browser engine itself is an opaque external collaborator.

// browserStrategy represents one way of asking the browser service for a page
type browserStrategy struct {
	Name     string
	Endpoint string
	Method   string
	Payload  map[string]interface{}
}

// fetchWithBrowser fetches the venue page through the headless browser
// service, trying strategies from most to least patient.
func (s *ConfigurableScraper) fetchWithBrowser() (io.Reader, error) {
	if err := s.checkBrowserHealth(); err != nil {
		logger.Error("[%s] browser service health check failed: %v", s.Provider, err)
		return nil, err
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}

	strategies := []browserStrategy{
		// Network idle, best for calendars that load events over XHR
		{
			Name:     "networkidle-content",
			Endpoint: "/content",
			Method:   "POST",
			Payload: map[string]interface{}{
				"url": s.URL,
				"gotoOptions": map[string]interface{}{
					"waitUntil": "networkidle0",
					"timeout":   45000,
				},
			},
		},

		// Basic load, faster when the widget renders synchronously
		{
			Name:     "basic-content",
			Endpoint: "/content",
			Method:   "POST",
			Payload: map[string]interface{}{
				"url": s.URL,
				"gotoOptions": map[string]interface{}{
					"waitUntil": "load",
					"timeout":   20000,
				},
			},
		},

		// Simple scrape, last resort
		{
			Name:     "scrape-fallback",
			Endpoint: "/scrape",
			Method:   "GET",
			Payload:  nil,
		},
	}

	for i, strategy := range strategies {
		logger.Debug("[%s] trying browser strategy %d/%d: %s", s.Provider, i+1, len(strategies), strategy.Name)

		reader, err := s.executeStrategy(httpClient, strategy)
		if err == nil && reader != nil {
			logger.Info("[%s] browser strategy %s succeeded", s.Provider, strategy.Name)
			return reader, nil
		}

		logger.Debug("[%s] browser strategy %s failed: %v", s.Provider, strategy.Name, err)

		if i < len(strategies)-1 {
			time.Sleep(1 * time.Second)
		}
	}

	// Block further fetches briefly so a broken browser service does not
	// get hammered by the remaining venues.
	if s.CacheSvc != nil && s.CacheKey != "" {
		blockTime := 60 * time.Second
		if setErr := s.CacheSvc.Set(s.CacheKey, []byte("60"), blockTime); setErr != nil {
			logger.Debug("[%s] failed to set rate limit cache: %v", s.Provider, setErr)
		}
	}

	return nil, fmt.Errorf("all browser fetch strategies failed for URL: %s", s.URL)
}

// checkBrowserHealth checks if the browser service is reachable
func (s *ConfigurableScraper) checkBrowserHealth() error {
	if s.BrowserAddr == "" {
		return fmt.Errorf("browser service address not configured")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(s.BrowserAddr + "/")
	if err != nil {
		return fmt.Errorf("browser service not reachable at %s: %v", s.BrowserAddr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("browser service error (status %d)", resp.StatusCode)
	}

	logger.Debug("[%s] browser service health check passed (status %d)", s.Provider, resp.StatusCode)
	return nil
}

// executeStrategy executes a single browser service strategy
func (s *ConfigurableScraper) executeStrategy(client *http.Client, strategy browserStrategy) (io.Reader, error) {
	var req *http.Request
	var err error

	if strategy.Method == "POST" && strategy.Payload != nil {
		data, marshalErr := json.Marshal(strategy.Payload)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to marshal payload: %v", marshalErr)
		}

		req, err = http.NewRequest("POST", s.BrowserAddr+strategy.Endpoint, bytes.NewBuffer(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "EventDigest/1.0")

	} else if strategy.Method == "GET" {
		if strategy.Endpoint == "/scrape" {
			req, err = http.NewRequest("GET", fmt.Sprintf("%s/scrape?url=%s", s.BrowserAddr, url.QueryEscape(s.URL)), nil)
		} else {
			req, err = http.NewRequest("GET", s.BrowserAddr+strategy.Endpoint, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create GET request: %v", err)
		}
		req.Header.Set("User-Agent", "EventDigest/1.0")

	} else {
		return nil, fmt.Errorf("unsupported method %s or missing payload", strategy.Method)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if len(body) > 0 && len(body) < 500 {
			logger.Debug("[%s] error response body: %s", s.Provider, string(body))
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	logger.Debug("[%s] response size: %d bytes", s.Provider, len(responseBytes))

	if len(responseBytes) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	return s.processRawResponse(responseBytes)
}

// processRawResponse validates that the browser service returned HTML
func (s *ConfigurableScraper) processRawResponse(data []byte) (io.Reader, error) {
	if len(data) < 50 {
		return nil, fmt.Errorf("response too short: %d bytes", len(data))
	}

	dataStr := strings.ToLower(string(data))
	if strings.Contains(dataStr, "<html") ||
		strings.Contains(dataStr, "<!doctype") ||
		strings.Contains(dataStr, "<body") {
		return bytes.NewReader(data), nil
	}

	preview := string(data)
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	logger.Debug("[%s] response doesn't look like HTML. Preview: %s", s.Provider, preview)

	return nil, fmt.Errorf("response doesn't appear to be valid HTML")
}
