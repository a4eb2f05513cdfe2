package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/giygas/pharmly/assistant"
	"github.com/giygas/pharmly/bridge"
	"github.com/giygas/pharmly/catalog"
	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/interactions"
	"github.com/giygas/pharmly/interfaces"
	"github.com/giygas/pharmly/logging"
	"github.com/giygas/pharmly/matcher"
	"github.com/giygas/pharmly/state"
	"github.com/giygas/pharmly/symptoms"
	"github.com/giygas/pharmly/upstream"
)

// Command names
const (
	CmdSend              = "send"
	CmdConversation      = "conversation"
	CmdSearch            = "search"
	CmdCheckInteractions = "check-interactions"
	CmdSymptom           = "symptom"
	CmdVerify            = "verify-prescription"
	CmdRefreshCatalog    = "refresh-catalog"
	CmdStockSummary      = "stock-summary"
	CmdDashboard         = "dashboard"
	CmdUpdateStock       = "update-stock"
	CmdSupport           = "support-chat"
	CmdLogin             = "login"
	CmdLogout            = "logout"

	roleAdmin = "admin"
)

// Remote is the part of the upstream API the commands call directly
type Remote interface {
	interfaces.DashboardBackend
	interfaces.AuthBackend
	interfaces.SupportBackend
}

// Service holds what the built-in commands operate on
type Service struct {
	Assistant     *assistant.Assistant
	Bridge        *bridge.Bridge
	Conversations *state.Registry
	Catalog       interfaces.CatalogStore
	Refresher     interfaces.CatalogRefresher
	Remote        Remote
	Session       interfaces.SessionStore
	Validator     interfaces.DataValidator
	CustomerID    string
}

// UpstreamError reports a backend call that answered with an error envelope
type UpstreamError struct {
	Kind    upstream.Kind
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Kind == upstream.KindNetwork {
		return "backend unreachable: " + e.Message
	}
	return "backend error: " + e.Message
}

func upstreamError(env upstream.Envelope) error {
	return &UpstreamError{Kind: env.Kind, Message: env.Message}
}

// NewDefaultRegistry builds a registry with every built-in command
func NewDefaultRegistry(svc *Service) *Registry {
	r := NewRegistry()
	Register(r, svc)
	return r
}

// Register adds the built-in commands to r
func Register(r *Registry, svc *Service) {
	r.Register(CmdSend, handle(svc.Send))
	r.Register(CmdConversation, handle(svc.Conversation))
	r.Register(CmdSearch, handle(svc.Search))
	r.Register(CmdCheckInteractions, handle(svc.CheckInteractions))
	r.Register(CmdSymptom, handle(svc.Symptom))
	r.Register(CmdVerify, handle(svc.VerifyPrescription))
	r.Register(CmdRefreshCatalog, handle(svc.RefreshCatalog))
	r.Register(CmdStockSummary, handle(svc.StockSummary))
	r.Register(CmdDashboard, handle(svc.Dashboard))
	r.Register(CmdUpdateStock, handle(svc.UpdateStock))
	r.Register(CmdSupport, handle(svc.SupportChat))
	r.Register(CmdLogin, handle(svc.Login))
	r.Register(CmdLogout, handle(svc.Logout))
}

// handle adapts a typed method to a Handler
func handle[In, Out any](fn func(context.Context, In) (Out, error)) Handler {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[In](payload)
		if err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}
}

func (s *Service) customerID() string {
	if auth := s.Session.Current(); auth.Authenticated() && auth.CustomerID != "" {
		return auth.CustomerID
	}
	return s.CustomerID
}

func (s *Service) requireRole(role string) error {
	auth := s.Session.Current()
	if !auth.Authenticated() {
		return ErrUnauthenticated
	}
	if auth.Role != role {
		return fmt.Errorf("%w: %s", ErrForbidden, auth.Role)
	}
	return nil
}

func (s *Service) conversation(id string) (*state.Conversation, error) {
	id, err := s.Validator.ValidateID("conversation_id", id)
	if err != nil {
		return nil, err
	}
	conv, ok := s.Conversations.Get(id)
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return conv, nil
}

// SendInput is one chat message
type SendInput struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
	Voice          bool   `json:"voice,omitempty"`
}

// SendOutput carries the reply and, for a new conversation, the banner
type SendOutput struct {
	ConversationID string           `json:"conversation_id"`
	Created        bool             `json:"created"`
	Greeting       *assistant.Reply `json:"greeting,omitempty"`
	Reply          assistant.Reply  `json:"reply"`
}

// Send routes a message to the assistant, opening a conversation when needed
func (s *Service) Send(ctx context.Context, in SendInput) (SendOutput, error) {
	message, err := s.Validator.ValidateMessage(in.Message)
	if err != nil {
		return SendOutput{}, err
	}

	if in.ConversationID != "" {
		if _, err := s.Validator.ValidateID("conversation_id", in.ConversationID); err != nil {
			return SendOutput{}, err
		}
	}

	conv, created, err := s.Conversations.GetOrCreate(in.ConversationID)
	if err != nil {
		return SendOutput{}, err
	}

	out := SendOutput{ConversationID: conv.ID(), Created: created}
	if greeting, ok := s.Assistant.Greet(conv); ok {
		out.Greeting = &greeting
	}

	reply, err := s.Assistant.Send(ctx, conv, assistant.Request{
		Text:       message,
		Voice:      in.Voice,
		CustomerID: s.customerID(),
	})
	if err != nil {
		return SendOutput{}, err
	}
	out.Reply = reply
	return out, nil
}

// ConversationInput names a conversation
type ConversationInput struct {
	ConversationID string `json:"conversation_id"`
}

// Conversation returns the turn log and counters of a conversation
func (s *Service) Conversation(_ context.Context, in ConversationInput) (state.Snapshot, error) {
	conv, err := s.conversation(in.ConversationID)
	if err != nil {
		return state.Snapshot{}, err
	}
	return conv.Snapshot(), nil
}

// SearchInput is a search box query
type SearchInput struct {
	Query string `json:"q"`
}

// SearchResult is one decorated dropdown entry
type SearchResult struct {
	Medicine  entities.MedicineRecord `json:"medicine"`
	Score     int                     `json:"score"`
	Highlight string                  `json:"highlight"`
	Badge     catalog.Badge           `json:"badge"`
}

// Search ranks the catalog against a query
func (s *Service) Search(_ context.Context, in SearchInput) ([]SearchResult, error) {
	query, err := s.Validator.ValidateSearchQuery(in.Query)
	if err != nil {
		return nil, err
	}

	matches := matcher.Search(query, s.Catalog.Records())
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{
			Medicine:  m.Record,
			Score:     m.Score,
			Highlight: matcher.Highlight(m.Record.Name, query),
			Badge:     catalog.SearchBadge(m.Record.StockQuantity),
		})
	}
	return results, nil
}

// InteractionsInput lists the medicines to check
type InteractionsInput struct {
	Drugs []string `json:"drugs"`
}

// InteractionsOutput is a check result with its rendering
type InteractionsOutput struct {
	interactions.Result
	Rendered interactions.Rendered `json:"rendered"`
	Text     string                `json:"text"`
}

// CheckInteractions runs the interaction rule table
func (s *Service) CheckInteractions(_ context.Context, in InteractionsInput) (InteractionsOutput, error) {
	drugs, err := s.Validator.ValidateDrugList(in.Drugs)
	if err != nil {
		return InteractionsOutput{}, err
	}

	result := interactions.Check(drugs...)
	rendered := interactions.Render(result)
	return InteractionsOutput{Result: result, Rendered: rendered, Text: rendered.Text()}, nil
}

// SymptomInput selects one symptom, or all of them when Key is empty
type SymptomInput struct {
	Key string `json:"key,omitempty"`
}

// Symptom looks up suggested medicines
func (s *Service) Symptom(_ context.Context, in SymptomInput) ([]symptoms.Symptom, error) {
	if in.Key == "" {
		return symptoms.All(), nil
	}
	sym, ok := symptoms.Lookup(in.Key)
	if !ok {
		return nil, fmt.Errorf("symptom %q: %w", in.Key, ErrNotFound)
	}
	return []symptoms.Symptom{sym}, nil
}

// VerifyInput is a prescription submission. File is base64 in JSON.
type VerifyInput struct {
	ConversationID string `json:"conversation_id"`
	FileName       string `json:"file_name,omitempty"`
	File           []byte `json:"file,omitempty"`
}

// VerifyPrescription verifies the pending prescription of a conversation
func (s *Service) VerifyPrescription(ctx context.Context, in VerifyInput) (bridge.VerificationResult, error) {
	conv, err := s.conversation(in.ConversationID)
	if err != nil {
		return bridge.VerificationResult{}, err
	}

	up := bridge.Upload{CustomerID: s.customerID(), FileName: in.FileName}
	if len(in.File) > 0 {
		up.File = bytes.NewReader(in.File)
		if up.FileName == "" {
			up.FileName = "prescription"
		}
	}

	result, err := s.Bridge.VerifyPrescription(ctx, conv, up)
	if err != nil {
		return bridge.VerificationResult{}, err
	}
	conv.Append(entities.SpeakerBot, result.Message, "")
	return result, nil
}

// Empty is the payload of commands without parameters
type Empty struct{}

// RefreshOutput reports a catalog refresh
type RefreshOutput struct {
	Source    entities.CatalogSource `json:"source"`
	Medicines int                    `json:"medicines"`
	Warning   string                 `json:"warning,omitempty"`
}

// RefreshCatalog reloads the catalog wholesale. An upstream failure is
// reported as a warning since the catalog still serves its previous data.
func (s *Service) RefreshCatalog(ctx context.Context, _ Empty) (RefreshOutput, error) {
	source, err := s.Refresher.Refresh(ctx)
	if ctx.Err() != nil {
		return RefreshOutput{}, ctx.Err()
	}

	out := RefreshOutput{Source: source, Medicines: len(s.Catalog.Records())}
	if err != nil {
		out.Warning = err.Error()
	}
	return out, nil
}

// StockSummaryOutput is the dashboard stock donut
type StockSummaryOutput struct {
	entities.StockSummary
	Medicines   int                    `json:"medicines"`
	Source      entities.CatalogSource `json:"source"`
	LastUpdated time.Time              `json:"lastUpdated"`
}

// StockSummary counts catalog records per stock tier
func (s *Service) StockSummary(_ context.Context, _ Empty) (StockSummaryOutput, error) {
	return StockSummaryOutput{
		StockSummary: s.Catalog.Summary(),
		Medicines:    len(s.Catalog.Records()),
		Source:       s.Catalog.Source(),
		LastUpdated:  s.Catalog.LastUpdated(),
	}, nil
}

// Dashboard reports
const (
	ReportUserMetrics     = "user-metrics"
	ReportCustomerHistory = "customer-history"
)

// DashboardInput selects a report. CustomerID defaults to the session's.
type DashboardInput struct {
	Report     string `json:"report"`
	CustomerID string `json:"customer_id,omitempty"`
}

// DashboardOutput passes the backend data through untouched
type DashboardOutput struct {
	Report string          `json:"report"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Dashboard fetches a customer or admin analytics report
func (s *Service) Dashboard(ctx context.Context, in DashboardInput) (DashboardOutput, error) {
	var env upstream.Envelope

	switch in.Report {
	case ReportUserMetrics, ReportCustomerHistory:
		customerID := in.CustomerID
		if customerID == "" {
			customerID = s.customerID()
		}
		customerID, err := s.Validator.ValidateID("customer_id", customerID)
		if err != nil {
			return DashboardOutput{}, err
		}
		if in.Report == ReportUserMetrics {
			env = s.Remote.UserMetrics(ctx, customerID)
		} else {
			env = s.Remote.CustomerHistory(ctx, customerID)
		}

	default:
		known := false
		for _, report := range upstream.AdminReports {
			if in.Report == report {
				known = true
				break
			}
		}
		if !known {
			return DashboardOutput{}, fmt.Errorf("report %q: %w", in.Report, ErrNotFound)
		}
		if err := s.requireRole(roleAdmin); err != nil {
			return DashboardOutput{}, err
		}
		env = s.Remote.Admin(ctx, in.Report)
	}

	if !env.OK() {
		return DashboardOutput{}, upstreamError(env)
	}
	return DashboardOutput{Report: in.Report, Data: env.Data}, nil
}

// UpdateStockInput adjusts one medicine's stock
type UpdateStockInput struct {
	MedicineID int `json:"medicine_id"`
	Delta      int `json:"delta"`
}

// UpdateStock forwards an admin stock adjustment. The local catalog picks the
// change up on its next refresh.
func (s *Service) UpdateStock(ctx context.Context, in UpdateStockInput) (map[string]any, error) {
	if err := s.requireRole(roleAdmin); err != nil {
		return nil, err
	}
	if in.MedicineID <= 0 {
		return nil, fmt.Errorf("medicine %d: %w", in.MedicineID, ErrNotFound)
	}
	if in.Delta == 0 {
		return map[string]any{"medicine_id": in.MedicineID, "delta": 0}, nil
	}

	env := s.Remote.UpdateStock(ctx, in.MedicineID, in.Delta)
	if !env.OK() {
		return nil, upstreamError(env)
	}
	logging.Info("Stock adjusted", "medicine_id", in.MedicineID, "delta", in.Delta)
	return map[string]any{"medicine_id": in.MedicineID, "delta": in.Delta}, nil
}

// SupportInput is a question for the support agent
type SupportInput struct {
	Message string `json:"message"`
}

// SupportChat forwards a question to the backend support agent
func (s *Service) SupportChat(ctx context.Context, in SupportInput) (json.RawMessage, error) {
	message, err := s.Validator.ValidateMessage(in.Message)
	if err != nil {
		return nil, err
	}
	env := s.Remote.SupportChat(ctx, s.customerID(), message)
	if !env.OK() {
		return nil, upstreamError(env)
	}
	if len(env.Data) == 0 {
		return json.RawMessage("{}"), nil
	}
	return env.Data, nil
}

// LoginInput holds credentials
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionOutput describes the current session without its token
type SessionOutput struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`
	Username      string `json:"username,omitempty"`
	CustomerID    string `json:"customer_id,omitempty"`
}

func sessionOutput(auth entities.SessionAuth) SessionOutput {
	return SessionOutput{
		Authenticated: auth.Authenticated(),
		Role:          auth.Role,
		Username:      auth.Username,
		CustomerID:    auth.CustomerID,
	}
}

// Login authenticates against the backend and persists the session
func (s *Service) Login(ctx context.Context, in LoginInput) (SessionOutput, error) {
	if err := s.Validator.ValidateLogin(in.Email, in.Password); err != nil {
		return SessionOutput{}, err
	}

	res, env := s.Remote.Login(ctx, in.Email, in.Password)
	if !env.OK() {
		return SessionOutput{}, upstreamError(env)
	}

	if err := s.Session.Save(entities.SessionAuth{
		Token:      res.Token,
		Role:       res.Role,
		Username:   res.Name,
		CustomerID: res.CustomerID,
	}); err != nil {
		return SessionOutput{}, fmt.Errorf("failed to save session: %w", err)
	}

	auth := s.Session.Current()
	logging.Info("Logged in", "role", auth.Role, "customer_id", auth.CustomerID)
	return sessionOutput(auth), nil
}

// Logout forgets the persisted session
func (s *Service) Logout(_ context.Context, _ Empty) (SessionOutput, error) {
	if err := s.Session.Clear(); err != nil {
		return SessionOutput{}, fmt.Errorf("failed to clear session: %w", err)
	}
	return SessionOutput{}, nil
}
