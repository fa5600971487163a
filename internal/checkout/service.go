// Package checkout turns a cart into a pre-filled WhatsApp deep link. Opening
// the link is delegated to the host environment; this service only builds the
// order summary and hands the URL to its opener collaborator.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/paodecos/storefront/config"
	"github.com/paodecos/storefront/internal/domain"
)

// ErrEmptyCart rejects checkout of an empty cart; no handoff happens.
var ErrEmptyCart = errors.New("cart is empty")

// LinkOpener is the external handoff collaborator. Delivery is not verified.
type LinkOpener interface {
	Open(link string) error
}

// LogOpener just records the link; a browser front-end opens it itself.
type LogOpener struct{}

func (LogOpener) Open(link string) error {
	zap.L().Info("checkout: whatsapp link ready", zap.String("link", link))
	return nil
}

// Order is the result of a checkout: the summary text and the deep link.
// The cart is intentionally not cleared; the order only completes in the chat.
type Order struct {
	Message   string  `json:"message"`
	Link      string  `json:"link"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

type Service struct {
	phone    string
	greeting string
	opener   LinkOpener
}

func New(cfg *config.AppConfig, opener LinkOpener) *Service {
	if opener == nil {
		opener = LogOpener{}
	}
	return &Service{
		phone:    cfg.Checkout.Phone,
		greeting: cfg.Checkout.Greeting,
		opener:   opener,
	}
}

// Message builds the human-readable order summary: one bullet per line with
// name, quantity and line total, then the grand total.
func (s *Service) Message(lines []domain.CartLine, total float64) string {
	var b strings.Builder
	b.WriteString(s.greeting)
	b.WriteString("\n\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "• %s (x%d) - %s\n", l.Name, l.Quantity, FormatPrice(l.LineTotal()))
	}
	fmt.Fprintf(&b, "\n*Total: %s*\n\n¡Gracias!", FormatPrice(total))
	return b.String()
}

// Link builds the wa.me deep link carrying the escaped message.
func (s *Service) Link(message string) string {
	q := url.Values{}
	q.Set("text", message)
	return "https://wa.me/" + s.phone + "?" + q.Encode()
}

// Checkout validates the cart, builds the order and hands the link to the
// opener. An opener failure is logged, not propagated: the link is still
// returned so the caller can retry the handoff itself.
func (s *Service) Checkout(lines []domain.CartLine, total float64) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	order := &Order{
		Message: s.Message(lines, total),
		Total:   total,
	}
	for _, l := range lines {
		order.ItemCount += l.Quantity
	}
	order.Link = s.Link(order.Message)
	if err := s.opener.Open(order.Link); err != nil {
		zap.L().Warn("checkout: link handoff failed", zap.Error(err))
	}
	return order, nil
}
