package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// AdminReports are the analytics endpoints under /admin
var AdminReports = []string{"analytics-overview", "revenue-chart", "top-products", "metrics"}

// OrderRequest is the create-order payload
type OrderRequest struct {
	CustomerID string `json:"customer_id"`
	MedicineID int    `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// OrderID extracts the server-issued order id, which the backend sends as a
// number or a string.
func OrderID(env Envelope) string {
	if len(env.Data) == 0 {
		return ""
	}
	var body struct {
		OrderID json.RawMessage `json:"order_id"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil || len(body.OrderID) == 0 {
		return ""
	}
	id := strings.Trim(string(body.OrderID), `"`)
	if id == "null" {
		return ""
	}
	return id
}

// CreateOrder places an order
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) Envelope {
	return c.postJSON(ctx, "/create-order", order)
}

// UpdateStock adjusts a medicine's stock by delta
func (c *Client) UpdateStock(ctx context.Context, medicineID, delta int) Envelope {
	return c.postJSON(ctx, "/update-stock", map[string]int{
		"medicine_id": medicineID,
		"delta":       delta,
	})
}

// VerificationRequest is the JSON verify-prescription payload
type VerificationRequest struct {
	CustomerID string `json:"customer_id"`
	MedicineID int    `json:"medicine_id,omitempty"`
	FileURL    string `json:"fileUrl,omitempty"`
}

// VerifyPrescription asks the backend to verify a prescription by reference
func (c *Client) VerifyPrescription(ctx context.Context, req VerificationRequest) Envelope {
	return c.postJSON(ctx, "/verify-prescription", req)
}

// PrescriptionFile is an uploaded prescription scan
type PrescriptionFile struct {
	Name    string
	Content io.Reader
}

// UploadPrescription sends the prescription file as multipart form data
func (c *Client) UploadPrescription(ctx context.Context, customerID string, medicineID int, file PrescriptionFile) Envelope {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("customer_id", customerID); err != nil {
		return errorEnvelope(KindNetwork, fmt.Sprintf("failed to build upload: %v", err))
	}
	if medicineID > 0 {
		if err := w.WriteField("medicine_id", strconv.Itoa(medicineID)); err != nil {
			return errorEnvelope(KindNetwork, fmt.Sprintf("failed to build upload: %v", err))
		}
	}

	name := file.Name
	if name == "" {
		name = "prescription"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return errorEnvelope(KindNetwork, fmt.Sprintf("failed to build upload: %v", err))
	}
	if file.Content != nil {
		if _, err := io.Copy(part, file.Content); err != nil {
			return errorEnvelope(KindNetwork, fmt.Sprintf("failed to read prescription file: %v", err))
		}
	}
	if err := w.Close(); err != nil {
		return errorEnvelope(KindNetwork, fmt.Sprintf("failed to build upload: %v", err))
	}

	return c.request(ctx, http.MethodPost, "/upload-prescription", &buf, w.FormDataContentType())
}

// UserMetrics fetches the dashboard metrics of a customer
func (c *Client) UserMetrics(ctx context.Context, customerID string) Envelope {
	return c.getJSON(ctx, "/user-metrics/"+url.PathEscape(customerID))
}

// CustomerHistory fetches the order history of a customer
func (c *Client) CustomerHistory(ctx context.Context, customerID string) Envelope {
	return c.getJSON(ctx, "/customer-history/"+url.PathEscape(customerID))
}

// Admin fetches one of the AdminReports
func (c *Client) Admin(ctx context.Context, report string) Envelope {
	for _, known := range AdminReports {
		if report == known {
			return c.getJSON(ctx, "/admin/"+report)
		}
	}
	return errorEnvelope(KindServer, fmt.Sprintf("unknown admin report %q", report))
}

// LoginResult is what a successful login yields
type LoginResult struct {
	Token      string
	Role       string
	Name       string
	CustomerID string
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, Envelope) {
	env := c.postJSON(ctx, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if !env.OK() {
		return LoginResult{}, env
	}

	var body struct {
		Token      string          `json:"token"`
		Role       string          `json:"role"`
		Name       string          `json:"name"`
		CustomerID json.RawMessage `json:"customer_id"`
	}
	if err := env.Decode(&body); err != nil {
		return LoginResult{}, errorEnvelope(KindServer, err.Error())
	}
	if body.Token == "" {
		return LoginResult{}, errorEnvelope(KindServer, "Login response carried no token")
	}

	customerID := strings.Trim(string(body.CustomerID), `"`)
	if customerID == "null" {
		customerID = ""
	}
	return LoginResult{
		Token:      body.Token,
		Role:       body.Role,
		Name:       body.Name,
		CustomerID: customerID,
	}, env
}

// SupportChat forwards a message to the backend support agent
func (c *Client) SupportChat(ctx context.Context, customerID, message string) Envelope {
	return c.postJSON(ctx, "/support-chat", map[string]string{
		"message":     message,
		"customer_id": customerID,
	})
}
