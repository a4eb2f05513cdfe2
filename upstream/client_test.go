package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/pharmly/logging"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	logging.InitLogger("")

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 2*time.Second, tokens)
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		env      string
		override string
		want     string
		wantErr  bool
	}{
		{"local", "", "http://127.0.0.1:5000", false},
		{"RENDER", "", "https://hackfusion-final.onrender.com", false},
		{"local", "https://api.example.test/", "https://api.example.test", false},
		{"staging", "", "", true},
	}

	for _, tt := range tests {
		got, err := ResolveBaseURL(tt.env, tt.override)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveBaseURL(%q, %q) error = %v", tt.env, tt.override, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveBaseURL(%q, %q) = %q, want %q", tt.env, tt.override, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		body        string
		wantStatus  string
		wantKind    Kind
		wantMessage string
		wantData    string
	}{
		{"success with data", 200, `{"status":"success","data":{"order_id":7}}`, StatusSuccess, KindNone, "", `{"order_id":7}`},
		{"success without data", 200, `{"status":"success","token":"abc"}`, StatusSuccess, KindNone, "", `{"status":"success","token":"abc"}`},
		{"bare array", 200, `[1,2]`, StatusSuccess, KindNone, "", `[1,2]`},
		{"empty body", 204, ``, StatusSuccess, KindNone, "", ``},
		{"non 2xx with message", 400, `{"status":"error","message":"Missing fields"}`, StatusError, KindServer, "Missing fields", ``},
		{"non 2xx without body", 502, ``, StatusError, KindServer, "Server error", ``},
		{"explicit error on 200", 200, `{"status":"error","message":"Out of stock"}`, StatusError, KindServer, "Out of stock", ``},
		{"garbage on 200", 200, `<html>`, StatusError, KindServer, "Invalid response from server", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := normalize(tt.code, []byte(tt.body))
			if env.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, env.Status)
			}
			if env.Kind != tt.wantKind {
				t.Errorf("Expected kind %q, got %q", tt.wantKind, env.Kind)
			}
			if env.Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, env.Message)
			}
			if string(env.Data) != tt.wantData {
				t.Errorf("Expected data %s, got %s", tt.wantData, env.Data)
			}
		})
	}
}

func TestNetworkErrorIsAbsorbed(t *testing.T) {
	logging.InitLogger("")
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	c := NewClient(server.URL, time.Second, nil)
	env := c.CreateOrder(context.Background(), OrderRequest{CustomerID: "PAT999", MedicineID: 1, Quantity: 1})

	if env.OK() {
		t.Fatal("Expected an error envelope")
	}
	if env.Kind != KindNetwork {
		t.Errorf("Expected network kind, got %q", env.Kind)
	}
	if env.Message == "" {
		t.Error("Expected a message")
	}
}

func TestBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"success"}`))
	}, staticToken("tok123"))

	c.UserMetrics(context.Background(), "PAT999")
	if gotAuth != "Bearer tok123" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}

	anon := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"success"}`))
	}, staticToken(""))

	anon.UserMetrics(context.Background(), "PAT999")
	if gotAuth != "" {
		t.Errorf("Expected no auth header, got %q", gotAuth)
	}
}

func TestCreateOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/create-order" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if body.CustomerID != "PAT999" || body.MedicineID != 1 || body.Quantity != 2 {
			t.Errorf("Unexpected order body %+v", body)
		}
		w.Write([]byte(`{"status":"success","data":{"order_id":42}}`))
	}, nil)

	env := c.CreateOrder(context.Background(), OrderRequest{CustomerID: "PAT999", MedicineID: 1, Quantity: 2})
	if !env.OK() {
		t.Fatalf("Expected success, got %+v", env)
	}
	if id := OrderID(env); id != "42" {
		t.Errorf("Expected order id 42, got %q", id)
	}
}

func TestGetInventoryFallback(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/inventory" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"success","count":2,"data":[
			{"medicine_id":3,"name":"Ibuprofen 400mg","price":"2.10","stock":45,"prescription_required":"No"},
			{"id":4,"name":"Amoxicillin 500mg","unit_price":4.8,"stock_quantity":18,"prescription_required":true},
			{"id":9,"name":""}
		]}`))
	}, nil)

	records, env := c.GetInventory(context.Background())
	if !env.OK() {
		t.Fatalf("Expected success, got %+v", env)
	}
	if len(paths) != 2 || paths[1] != "/inventory/medicines" {
		t.Errorf("Expected fallback path to be tried, got %v", paths)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if records[0].ID != 3 || records[0].UnitPrice != 2.10 || records[0].StockQuantity != 45 || records[0].PrescriptionRequired {
		t.Errorf("Unexpected first record %+v", records[0])
	}
	if records[1].ID != 4 || records[1].StockQuantity != 18 || !records[1].PrescriptionRequired {
		t.Errorf("Unexpected second record %+v", records[1])
	}
}

func TestGetInventoryMedicinesKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"medicines":[{"id":1,"name":"Paracetamol 500mg","stock":82}]}`))
	}, nil)

	records, env := c.GetInventory(context.Background())
	if !env.OK() || len(records) != 1 || records[0].Name != "Paracetamol 500mg" {
		t.Errorf("Unexpected result %+v %+v", records, env)
	}
}

func TestUploadPrescription(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Expected multipart body: %v", err)
		}
		if r.FormValue("customer_id") != "PAT999" || r.FormValue("medicine_id") != "4" {
			t.Errorf("Unexpected form values %v", r.Form)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("Expected file part: %v", err)
		}
		defer f.Close()
		content, _ := io.ReadAll(f)
		if header.Filename != "rx.png" || string(content) != "scan" {
			t.Errorf("Unexpected file %s %q", header.Filename, content)
		}
		w.Write([]byte(`{"status":"success","message":"Uploaded"}`))
	}, nil)

	env := c.UploadPrescription(context.Background(), "PAT999", 4, PrescriptionFile{Name: "rx.png", Content: strings.NewReader("scan")})
	if !env.OK() || env.Message != "Uploaded" {
		t.Errorf("Unexpected envelope %+v", env)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","token":"jwt","role":"admin","name":"Asha","customer_id":12}`))
	}, nil)

	res, env := c.Login(context.Background(), "a@b.c", "pw")
	if !env.OK() {
		t.Fatalf("Expected success, got %+v", env)
	}
	if res.Token != "jwt" || res.Role != "admin" || res.CustomerID != "12" {
		t.Errorf("Unexpected login result %+v", res)
	}
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"Invalid credentials"}`))
	}, nil)

	_, env := c.Login(context.Background(), "a@b.c", "bad")
	if env.OK() || env.Message != "Invalid credentials" {
		t.Errorf("Unexpected envelope %+v", env)
	}
}

func TestAdminUnknownReport(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second, nil)
	env := c.Admin(context.Background(), "secrets")
	if env.OK() {
		t.Error("Expected unknown report to be rejected")
	}
}
