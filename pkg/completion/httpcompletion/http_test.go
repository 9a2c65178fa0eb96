package httpcompletion

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ninthcircle/conclave/pkg/completion"
)

func TestComplete_SendsBearerAuthAndDecodesReply(t *testing.T) {
	var gotAuth string
	var gotReq wireRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(wireResponse{
			Content:    "ORDERS:\nA par -> bur\n",
			StopReason: "end_turn",
		})
	}))
	defer srv.Close()

	svc := New(srv.URL, "test-api-key")
	resp, err := svc.Complete(t.Context(), completion.Request{
		Model:    "test-model",
		Messages: []completion.Message{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if gotAuth != "Bearer test-api-key" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
	if gotReq.Model != "test-model" || len(gotReq.Messages) != 1 {
		t.Errorf("unexpected request payload: %+v", gotReq)
	}
	if resp.Content != "ORDERS:\nA par -> bur\n" {
		t.Errorf("unexpected response content: %q", resp.Content)
	}
	if resp.StopReason != completion.StopEndTurn {
		t.Errorf("expected StopEndTurn, got %q", resp.StopReason)
	}
}

func TestComplete_MapsMaxTokensStopReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(wireResponse{Content: "truncated", StopReason: "max_tokens"})
	}))
	defer srv.Close()

	svc := New(srv.URL, "key")
	resp, err := svc.Complete(t.Context(), completion.Request{Messages: []completion.Message{{Role: "user", Content: "hi"}}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.StopReason != completion.StopMaxTokens {
		t.Errorf("expected StopMaxTokens, got %q", resp.StopReason)
	}
}

func TestComplete_PropagatesHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	svc := New(srv.URL, "key")
	_, err := svc.Complete(t.Context(), completion.Request{Messages: []completion.Message{{Role: "user", Content: "hi"}}})
	if err == nil {
		t.Error("expected an error for a 500 response")
	}
}
