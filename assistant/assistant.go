// Package assistant classifies chat utterances with an ordered keyword rule
// chain and renders the replies appended to a conversation.
package assistant

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/giygas/pharmly/bridge"
	"github.com/giygas/pharmly/catalog"
	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/interfaces"
	"github.com/giygas/pharmly/logging"
	"github.com/giygas/pharmly/matcher"
	"github.com/giygas/pharmly/metrics"
	"github.com/giygas/pharmly/state"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	// DefaultTypingDelay is the pause shown before a reply
	DefaultTypingDelay = 900 * time.Millisecond
	// DefaultCustomerID is used when no session customer is known
	DefaultCustomerID = "PAT999"

	voicePrefix = "🎙️ "
)

// ErrEmptyMessage is returned for blank utterances
var ErrEmptyMessage = errors.New("message is empty")

// OrderPlacer places orders for resolved medicines
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, customerID string, rec entities.MedicineRecord, quantity int) bridge.OrderResult
}

// Request is one user utterance
type Request struct {
	Text       string
	Voice      bool
	CustomerID string
}

// Reply is the rendered answer to one utterance
type Reply struct {
	Intent               Intent                    `json:"intent"`
	Text                 string                    `json:"text"`
	HTML                 string                    `json:"html"`
	Clarify              bool                      `json:"clarify,omitempty"`
	Medicine             *entities.MedicineRecord  `json:"medicine,omitempty"`
	Quantity             int                       `json:"quantity,omitempty"`
	StockTier            catalog.Tier              `json:"stockTier,omitempty"`
	PrescriptionRequired bool                      `json:"prescriptionRequired,omitempty"`
	Substitutes          *entities.SubstituteEntry `json:"substitutes,omitempty"`
	Order                *bridge.OrderResult       `json:"order,omitempty"`
}

// Assistant answers utterances against the current catalog
type Assistant struct {
	catalog     interfaces.CatalogStore
	orders      OrderPlacer
	typingDelay time.Duration
	md          goldmark.Markdown
	chain       []rule
}

// New creates an assistant. typingDelay is waited before each reply.
func New(store interfaces.CatalogStore, orders OrderPlacer, typingDelay time.Duration) *Assistant {
	a := &Assistant{
		catalog:     store,
		orders:      orders,
		typingDelay: typingDelay,
		md:          goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
	}
	a.chain = a.rules()
	return a
}

// Greet appends the welcome banner when the conversation is still empty
func (a *Assistant) Greet(conv *state.Conversation) (Reply, bool) {
	if conv.Len() > 0 {
		return Reply{}, false
	}
	reply := Reply{Intent: IntentGreeting, Text: greetingBanner, HTML: a.render(greetingBanner)}
	conv.Append(entities.SpeakerBot, reply.Text, reply.HTML)
	return reply, true
}

// Classify reports which intent would answer text without side effects
func (a *Assistant) Classify(text string) Intent {
	lower := matcher.Normalize(text)
	for _, r := range a.chain {
		if !r.match(lower) {
			continue
		}
		if r.intent == IntentGeneric {
			if _, ok := catalog.FindSubstitutes(lower); !ok {
				continue
			}
		}
		return r.intent
	}
	return IntentDefault
}

// Send appends the utterance, waits the typing delay, dispatches it and
// appends the reply. Only a blank message or a cancelled context fail.
func (a *Assistant) Send(ctx context.Context, conv *state.Conversation, req Request) (Reply, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	conv.Append(entities.SpeakerUser, text, "")

	if err := bridge.Sleep(ctx, a.typingDelay); err != nil {
		return Reply{}, err
	}

	customerID := req.CustomerID
	if customerID == "" {
		customerID = DefaultCustomerID
	}

	ex := &exchange{
		lower:      matcher.Normalize(text),
		customerID: customerID,
		records:    a.catalog.Records(),
		selected:   conv.Select,
	}

	reply := a.dispatch(ctx, ex)
	if req.Voice {
		reply.Text = voicePrefix + reply.Text
	}
	reply.HTML = a.render(reply.Text)

	conv.Append(entities.SpeakerBot, reply.Text, reply.HTML)
	metrics.IntentTotal.WithLabelValues(string(reply.Intent)).Inc()
	logging.Debug("Chat reply",
		"conversation_id", conv.ID(),
		"intent", string(reply.Intent),
		"clarify", reply.Clarify,
	)
	return reply, nil
}

func (a *Assistant) dispatch(ctx context.Context, ex *exchange) Reply {
	for _, r := range a.chain {
		if !r.match(ex.lower) {
			continue
		}
		if reply, ok := r.handle(ctx, ex); ok {
			reply.Intent = r.intent
			return reply
		}
	}
	reply, _ := handleDefault(ctx, ex)
	reply.Intent = IntentDefault
	return reply
}

// render turns reply text into HTML, one <br> per line break. Raw HTML in
// the text is dropped by goldmark.
func (a *Assistant) render(text string) string {
	var buf bytes.Buffer
	if err := a.md.Convert([]byte(text), &buf); err != nil {
		logging.Warn("Failed to render reply", "error", err)
		return ""
	}
	return strings.TrimSpace(buf.String())
}
