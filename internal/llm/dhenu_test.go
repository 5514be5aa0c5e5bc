package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAsk_Success(t *testing.T) {
	var gotAuth, gotModel string
	var gotMessages []map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model
		gotMessages = body.Messages
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Flood the field early.  "}}]}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL+"/v1", "dhenu2-in-8b-preview")
	answer, err := c.Ask(context.Background(), "How do I irrigate rice?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "Flood the field early." {
		t.Fatalf("answer not trimmed: %q", answer)
	}
	if gotAuth != "Bearer key" {
		t.Fatalf("auth header mismatch: %q", gotAuth)
	}
	if gotModel != "dhenu2-in-8b-preview" {
		t.Fatalf("model mismatch: %q", gotModel)
	}
	if len(gotMessages) != 1 || gotMessages[0]["role"] != "user" || gotMessages[0]["content"] != "How do I irrigate rice?" {
		t.Fatalf("single-turn message mismatch: %+v", gotMessages)
	}
}

func TestAsk_Failures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status_non_2xx", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(500)
			_, _ = w.Write([]byte("oops"))
		}},
		{"empty_choices", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c := NewClient("key", srv.URL+"/v1", "model")
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if _, err := c.Ask(ctx, "hi"); err == nil {
				t.Fatalf("expected error; got nil")
			}
		})
	}
}

func TestRewritePersona(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"model_name", "I am Dhenu2, a farming model.", "I am Your Farming Assistant, a farming model."},
		{"company_name", "Built by KissanAI.", "Built by Mr. Mehra."},
		{"both", "Dhenu2 by KissanAI", "Your Farming Assistant by Mr. Mehra"},
		{"untouched", "Plain answer.", "Plain answer."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RewritePersona(tc.in); got != tc.want {
				t.Fatalf("RewritePersona(%q)=%q want %q", tc.in, got, tc.want)
			}
		})
	}
}
