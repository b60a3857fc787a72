package feed

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"aaData": [
			["102", "15/08/2025", "ACME", "<b>Crudo</b>", "", "", "", "", "", "", "", "", "", ""],
			["101", "14/08/2025", "YPF", "Escalante", "", "", "", "", "", "", "", "", "", ""],
			["", "13/08/2025", "SIN ID", "", "", "", "", "", "", "", "", "", "", ""]
		]}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	offers, err := client.FetchOffers()
	if err != nil {
		t.Fatalf("FetchOffers: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("len(offers) = %d, want 2 (linha sem id descartada)", len(offers))
	}
	if offers[0].ID != 102 || offers[1].ID != 101 {
		t.Errorf("ids = %d, %d (a ordem do feed se preserva no fetch)", offers[0].ID, offers[1].ID)
	}
	if offers[0].Product != "Crudo" {
		t.Errorf("Product = %q, want %q", offers[0].Product, "Crudo")
	}
}

func TestFetchOffersMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"otraCosa": 1}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	offers, err := client.FetchOffers()
	if err != nil {
		t.Fatalf("feed sem aaData não é erro: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("len(offers) = %d, want 0", len(offers))
	}
}

func TestFetchOffersHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.FetchOffers(); err == nil {
		t.Fatal("esperava erro para status 500")
	}
}

func TestFetchOffersBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"aaData": [`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.FetchOffers(); err == nil {
		t.Fatal("esperava erro de decodificação")
	}
}
