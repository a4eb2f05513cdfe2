package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/giygas/pharmly/commands"
	"github.com/go-chi/chi/v5"
)

// readBody returns the request body as a command payload
func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		RespondWithError(w, r, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return json.RawMessage("{}"), true
	}
	return json.RawMessage(body), true
}

// Chat sends one message to the assistant. A new conversation answers 201.
func (h *HTTPHandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	result, err := h.commands.Execute(r.Context(), commands.CmdSend, body)
	if err != nil {
		RespondWithErr(w, r, err)
		return
	}

	code := http.StatusOK
	if out, ok := result.(commands.SendOutput); ok && out.Created {
		code = http.StatusCreated
	}
	RespondWithJSON(w, r, code, result)
}

// GetConversation returns a conversation's turn log and counters
func (h *HTTPHandlerImpl) GetConversation(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, commands.CmdConversation, commands.ConversationInput{
		ConversationID: chi.URLParam(r, "id"),
	}, http.StatusOK)
}

// Search ranks the catalog against ?q=
func (h *HTTPHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, commands.CmdSearch, commands.SearchInput{Query: r.URL.Query().Get("q")}, http.StatusOK)
}

// CheckInteractions runs the interaction checker on {"drugs": [...]}
func (h *HTTPHandlerImpl) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	if body, ok := readBody(w, r); ok {
		h.execute(w, r, commands.CmdCheckInteractions, body, http.StatusOK)
	}
}

// ListSymptoms returns the whole symptom table
func (h *HTTPHandlerImpl) ListSymptoms(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, commands.CmdSymptom, commands.SymptomInput{}, http.StatusOK)
}

// GetSymptom returns one symptom's suggestions
func (h *HTTPHandlerImpl) GetSymptom(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, commands.CmdSymptom, commands.SymptomInput{Key: chi.URLParam(r, "key")}, http.StatusOK)
}

// VerifyPrescription accepts either a multipart form with conversation_id and
// an optional file, or the JSON verify-prescription payload
func (h *HTTPHandlerImpl) VerifyPrescription(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if body, ok := readBody(w, r); ok {
			h.execute(w, r, commands.CmdVerify, body, http.StatusOK)
		}
		return
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Prescription file too large")
			return
		}
		RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := commands.VerifyInput{ConversationID: r.FormValue("conversation_id")}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		RespondWithError(w, r, http.StatusBadRequest, "Invalid prescription file")
		return
	default:
		defer file.Close()
		content, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "Failed to read prescription file")
			return
		}
		if int64(len(content)) > h.maxUpload {
			RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Prescription file too large")
			return
		}
		in.FileName = header.Filename
		in.File = content
	}

	h.execute(w, r, commands.CmdVerify, in, http.StatusOK)
}

// StockSummary returns the dashboard tier counts
func (h *HTTPHandlerImpl) StockSummary(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, commands.CmdStockSummary, commands.Empty{}, http.StatusOK)
}

// Dashboard passes a customer or admin report through from the backend
func (h *HTTPHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, commands.CmdDashboard, commands.DashboardInput{
		Report:     chi.URLParam(r, "report"),
		CustomerID: r.URL.Query().Get("customer_id"),
	}, http.StatusOK)
}

// UpdateStock forwards an admin stock adjustment
func (h *HTTPHandlerImpl) UpdateStock(w http.ResponseWriter, r *http.Request) {
	if body, ok := readBody(w, r); ok {
		h.execute(w, r, commands.CmdUpdateStock, body, http.StatusOK)
	}
}

// RefreshCatalog reloads the catalog on demand
func (h *HTTPHandlerImpl) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, commands.CmdRefreshCatalog, commands.Empty{}, http.StatusOK)
}

// SupportChat forwards a question to the backend support agent
func (h *HTTPHandlerImpl) SupportChat(w http.ResponseWriter, r *http.Request) {
	if body, ok := readBody(w, r); ok {
		h.execute(w, r, commands.CmdSupport, body, http.StatusOK)
	}
}

// Login authenticates against the backend
func (h *HTTPHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	if body, ok := readBody(w, r); ok {
		h.execute(w, r, commands.CmdLogin, body, http.StatusOK)
	}
}

// Logout clears the stored session
func (h *HTTPHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, commands.CmdLogout, commands.Empty{}, http.StatusOK)
}

// RunCommand dispatches POST /commands/{name} through the registry
func (h *HTTPHandlerImpl) RunCommand(w http.ResponseWriter, r *http.Request) {
	if body, ok := readBody(w, r); ok {
		h.execute(w, r, chi.URLParam(r, "name"), body, http.StatusOK)
	}
}
