package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/order"
)

// BroadcastItemLimit caps the item list in role-wide broadcasts.
const BroadcastItemLimit = 5

const dateLayout = "02.01.2006 15:04"

// OrderView is an order enriched with the names needed for display.
type OrderView struct {
	Order           *order.Order
	ClientName      string
	ClientPhone     string
	StoreName       string
	ResolvedAddress string
}

// SummaryOptions controls how a summary is rendered.
type SummaryOptions struct {
	Header string
	// Full lists every item; otherwise the list stops at BroadcastItemLimit.
	Full bool
}

// ComposeOrderSummary renders the shared human-readable order summary. The
// location block is present whenever the order has coordinates; the resolved
// address line inside it is omitted when resolution produced nothing.
func ComposeOrderSummary(v OrderView, opts SummaryOptions) string {
	o := v.Order
	var b strings.Builder

	if opts.Header != "" {
		b.WriteString(opts.Header)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "📦 Buyurtma ID: #%d\n", o.ID())
	fmt.Fprintf(&b, "👤 Mijoz: %s\n", orDefault(v.ClientName, "Noma'lum"))
	fmt.Fprintf(&b, "📞 Telefon: %s\n", orDefault(v.ClientPhone, ValueMissing))
	fmt.Fprintf(&b, "🏪 Do'kon: %s\n", orDefault(v.StoreName, ValueMissing))
	fmt.Fprintf(&b, "💰 Jami: %s\n", FormatMoney(o.TotalPrice(), o.Currency()))
	if o.Address() != "" {
		fmt.Fprintf(&b, "📍 Manzil: %s\n", o.Address())
	}

	if loc := o.Location(); loc != nil {
		b.WriteString("\n🗺️ Lokatsiya:\n")
		if v.ResolvedAddress != "" {
			fmt.Fprintf(&b, "📍 %s\n", v.ResolvedAddress)
		}
		fmt.Fprintf(&b, "Google Maps: %s\nYandex Maps: %s\n", loc.GoogleMapsURL(), loc.YandexMapsURL())
	}

	if items := o.Items(); len(items) > 0 {
		b.WriteString("\n📋 Mahsulotlar:\n")
		b.WriteString(FormatItems(items, opts.Full))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "📅 Sana: %s", FormatDate(o.CreatedAt()))
	return b.String()
}

// FormatItems renders numbered item lines. Unless full, at most
// BroadcastItemLimit lines are listed followed by a remainder line.
func FormatItems(items []order.Item, full bool) string {
	shown := items
	if !full && len(items) > BroadcastItemLimit {
		shown = items[:BroadcastItemLimit]
	}

	lines := make([]string, 0, len(shown)+1)
	for i, item := range shown {
		lines = append(lines, fmt.Sprintf("%d. %s - %d dona × %s = %s",
			i+1,
			orDefault(item.ProductName(), ProductUnknown),
			item.Quantity(),
			FormatMoney(item.UnitPrice(), item.Currency()),
			FormatMoney(item.LineTotal(), item.Currency()),
		))
	}
	if rest := len(items) - len(shown); rest > 0 {
		lines = append(lines, fmt.Sprintf("... va yana %d ta", rest))
	}
	return strings.Join(lines, "\n")
}

// FormatMoney groups thousands with spaces, e.g. "1 250 000 SUM".
func FormatMoney(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = order.DefaultCurrency
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	digits, frac, _ := strings.Cut(amount.StringFixed(2), ".")
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteRune(r)
	}

	result := sign + grouped.String()
	if frac != "" && frac != "00" {
		result += "." + frac
	}
	return result + " " + currency
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
