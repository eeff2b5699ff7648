package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupByNameReturnsOrderedHandles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("PRIVATE-TOKEN") != "tok" {
			t.Fatalf("expected token header, got %q", r.Header.Get("PRIVATE-TOKEN"))
		}
		if r.URL.Query().Get("username") != "alice" {
			t.Fatalf("unexpected username %q", r.URL.Query().Get("username"))
		}
		_, _ = w.Write([]byte(`[{"id":42,"username":"alice"},{"id":43,"username":"alice2"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", server.Client(), nil)
	identities, err := client.LookupByName(context.Background(), "alice")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(identities) != 2 || identities[0].Handle != "42" || identities[0].Principal != "alice" {
		t.Fatalf("unexpected identities %+v", identities)
	}
}

func TestIsMemberTreats404AsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects/5001/members/42":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", server.Client(), nil)
	member, err := client.IsMember(context.Background(), "5001", "42")
	if err != nil || !member {
		t.Fatalf("expected member, got member=%v err=%v", member, err)
	}
	member, err = client.IsMember(context.Background(), "5001", "99")
	if err != nil || member {
		t.Fatalf("expected absent member without error, got member=%v err=%v", member, err)
	}
}

func TestGrantSendsAccessLevelAndToleratesConflict(t *testing.T) {
	var got map[string]any
	status := http.StatusCreated
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/projects/5001/members" {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(status)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", server.Client(), nil)
	if err := client.Grant(context.Background(), "5001", "42", 10); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if got["user_id"].(float64) != 42 || got["access_level"].(float64) != 10 {
		t.Fatalf("unexpected payload %+v", got)
	}

	// Already a member is success, not failure.
	status = http.StatusConflict
	if err := client.Grant(context.Background(), "5001", "42", 10); err != nil {
		t.Fatalf("conflict should be tolerated, got %v", err)
	}
}

func TestGrantRejectsNonNumericHandle(t *testing.T) {
	client := NewClient("http://unused", "tok", nil, nil)
	if err := client.Grant(context.Background(), "5001", "not-a-number", 10); err == nil {
		t.Fatal("expected rejection of non-numeric handle")
	}
}

func TestRevokeToleratesAbsentMembership(t *testing.T) {
	status := http.StatusNoContent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method %s", r.Method)
		}
		w.WriteHeader(status)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", server.Client(), nil)
	if err := client.Revoke(context.Background(), "5001", "42"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	status = http.StatusNotFound
	if err := client.Revoke(context.Background(), "5001", "42"); err != nil {
		t.Fatalf("revoking an absent member must be a no-op, got %v", err)
	}

	status = http.StatusInternalServerError
	if err := client.Revoke(context.Background(), "5001", "42"); err == nil {
		t.Fatal("expected error on server failure")
	}
}
