package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/giygas/pharmly/catalog"
	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/matcher"
)

// Intent is the classified purpose of an utterance
type Intent string

const (
	IntentOrder    Intent = "order"
	IntentStock    Intent = "stock_check"
	IntentGreeting Intent = "greeting"
	IntentGeneric  Intent = "generic_substitute"
	IntentDefault  Intent = "default"
)

var (
	orderRegex    = regexp.MustCompile(`order|need|want|give me|buy`)
	stockRegex    = regexp.MustCompile(`stock|available|have|check`)
	greetingRegex = regexp.MustCompile(`hello|hi|hey`)
	genericRegex  = regexp.MustCompile(`generic|cheaper|alternative|substitute|brand|affordable|less expensive`)
)

const (
	greetingBanner = "Hello! I'm your AI Pharmacy Assistant.\n\n💊 I can help you:\n• Order medications\n• Check stock availability\n• Process prescription verification\n• Answer drug questions\n\nWhat can I help you with today?"
	greetingReply  = "Hello! 👋 How can I assist you today?"
	defaultReply   = "I understand your request. Could you specify the medicine name or whether you'd like to order or check stock?"
	orderClarify   = "Which medicine would you like to order?"
	stockClarify   = "Which medicine would you like me to check?"
	genericIntro   = "Here are generic alternatives that contain the same active ingredient:"
	genericTitle   = "💰 Generic Alternatives Found"
)

// exchange carries one utterance through the rule chain
type exchange struct {
	lower      string
	customerID string
	records    []entities.MedicineRecord
	selected   func(entities.SelectedMedicine)
}

// rule pairs an intent with its trigger. handle reports false to let the
// utterance fall through to the next rule.
type rule struct {
	intent Intent
	match  func(lower string) bool
	handle func(ctx context.Context, ex *exchange) (Reply, bool)
}

// rules builds the chain in priority order: the first rule that both matches
// and handles wins.
func (a *Assistant) rules() []rule {
	return []rule{
		{intent: IntentOrder, match: orderRegex.MatchString, handle: a.handleOrder},
		{intent: IntentStock, match: stockRegex.MatchString, handle: handleStock},
		{intent: IntentGreeting, match: greetingRegex.MatchString, handle: handleGreeting},
		{intent: IntentGeneric, match: genericRegex.MatchString, handle: handleGeneric},
		{intent: IntentDefault, match: func(string) bool { return true }, handle: handleDefault},
	}
}

func (a *Assistant) handleOrder(ctx context.Context, ex *exchange) (Reply, bool) {
	rec, ok := matcher.Resolve(ex.lower, ex.records)
	if !ok {
		return Reply{Text: orderClarify, Clarify: true}, true
	}

	ex.selected(entities.SelectedMedicine{ID: rec.ID, Name: rec.Name})

	if rec.PrescriptionRequired {
		return Reply{
			Text:                 fmt.Sprintf("⚠️ %s requires a valid prescription.\n\nPlease upload your prescription to proceed.", rec.Name),
			Medicine:             &rec,
			PrescriptionRequired: true,
		}, true
	}

	qty, found := matcher.FirstInteger(ex.lower)
	if !found || qty < 1 {
		qty = 1
	}

	result := a.orders.PlaceOrder(ctx, ex.customerID, rec, qty)
	return Reply{
		Text:     result.Message,
		Medicine: &rec,
		Quantity: qty,
		Order:    &result,
	}, true
}

func handleStock(_ context.Context, ex *exchange) (Reply, bool) {
	rec, ok := matcher.Resolve(ex.lower, ex.records)
	if !ok {
		return Reply{Text: stockClarify, Clarify: true}, true
	}

	tier := catalog.StockTier(rec.StockQuantity)
	return Reply{
		Text: fmt.Sprintf("📦 %s Stock Info:\n\n• Available: %d units\n• Status: %s\n• Prescription Required: %s",
			rec.Name, rec.StockQuantity, tier.Label(), rec.PrescriptionLabel()),
		Medicine:  &rec,
		StockTier: tier,
	}, true
}

func handleGreeting(context.Context, *exchange) (Reply, bool) {
	return Reply{Text: greetingReply}, true
}

func handleGeneric(_ context.Context, ex *exchange) (Reply, bool) {
	entry, ok := catalog.FindSubstitutes(ex.lower)
	if !ok {
		return Reply{}, false
	}

	var b strings.Builder
	b.WriteString(genericIntro)
	b.WriteString("\n\n")
	b.WriteString(genericTitle)
	for _, alt := range entry.Alternatives {
		fmt.Fprintf(&b, "\n• %s (Save %d%%, $%.2f/unit)", alt.Name, alt.SavingsPercent, alt.Price)
	}
	return Reply{Text: b.String(), Substitutes: &entry}, true
}

func handleDefault(context.Context, *exchange) (Reply, bool) {
	return Reply{Text: defaultReply, Clarify: true}, true
}
