package assetstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifyDecodesWireFormat(t *testing.T) {
	var gotKey, gotInvoice string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/invoice/verify.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		gotKey = r.URL.Query().Get("key")
		gotInvoice = r.URL.Query().Get("invoice")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"invoices":[{"invoice":"12345","refunded":"No","price_exvat":"25.00","package":"Terrain Toolkit"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", server.Client(), nil)
	records, err := client.Verify(context.Background(), "12345")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if gotKey != "secret" || gotInvoice != "12345" {
		t.Fatalf("expected credential and invoice forwarded, got key=%q invoice=%q", gotKey, gotInvoice)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	record := records[0]
	if record.Refunded || record.Free() || record.ProductID != "Terrain Toolkit" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestVerifyMapsRefundedFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"invoices":[{"invoice":"1","refunded":"Yes","price_exvat":"0.00","package":"p"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", server.Client(), nil)
	records, err := client.Verify(context.Background(), "1")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !records[0].Refunded || !records[0].Free() {
		t.Fatalf("expected refunded free record, got %+v", records[0])
	}
}

func TestVerifyEmptyResultIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"invoices":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", server.Client(), nil)
	records, err := client.Verify(context.Background(), "404")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestVerifyRejectsBadStatusAndBadJSON(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()
	client := NewClient(bad.URL, "k", bad.Client(), nil)
	if _, err := client.Verify(context.Background(), "1"); err == nil {
		t.Fatal("expected error on non-200 status")
	}

	garbled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer garbled.Close()
	client = NewClient(garbled.URL, "k", garbled.Client(), nil)
	if _, err := client.Verify(context.Background(), "1"); err == nil {
		t.Fatal("expected error on unparseable body")
	}
}
