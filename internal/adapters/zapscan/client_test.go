package zapscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScanSequence(t *testing.T) {
	var calls []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)

		switch r.URL.Path {
		case "/JSON/core/action/accessUrl/":
			assert.Equal(t, "http://target.example", r.URL.Query().Get("url"))
			w.Write([]byte(`{"Result":"OK"}`))
		case "/JSON/spider/action/scan/":
			assert.Equal(t, "http://target.example", r.URL.Query().Get("url"))
			w.Write([]byte(`{"scan":"0"}`))
		case "/JSON/core/view/alerts/":
			assert.Equal(t, "http://target.example", r.URL.Query().Get("baseurl"))
			w.Write([]byte(`{"alerts":[{"name":"SQL Injection","risk":"High"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, 0, zap.NewNop())

	findings, err := client.Scan(context.Background(), "http://target.example")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/JSON/core/action/accessUrl/",
		"/JSON/spider/action/scan/",
		"/JSON/core/view/alerts/",
	}, calls)

	require.Len(t, findings.Alerts, 1)
	assert.Equal(t, "SQL Injection", findings.Alerts[0].Name)
	assert.Equal(t, "High", findings.Alerts[0].Risk)
}

func TestScanAbortsOnAccessFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, 0, zap.NewNop())

	findings, err := client.Scan(context.Background(), "http://target.example")

	assert.Error(t, err)
	assert.Nil(t, findings)
}

func TestScanUnreachableEngine(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 50*time.Millisecond, 0, zap.NewNop())

	findings, err := client.Scan(context.Background(), "http://target.example")

	assert.Error(t, err)
	assert.Nil(t, findings)
}

func TestScanMalformedAlertsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/JSON/core/view/alerts/" {
			w.Write([]byte("not json"))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, 0, zap.NewNop())

	findings, err := client.Scan(context.Background(), "http://target.example")

	assert.Error(t, err)
	assert.Nil(t, findings)
}
