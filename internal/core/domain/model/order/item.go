package order

import (
	"errors"

	"github.com/shopspring/decimal"

	"fulfillment/internal/pkg/errs"
)

// DefaultCurrency applies when the catalog row carries none.
const DefaultCurrency = "SUM"

// Item is a line item frozen at creation time from the catalog.
type Item struct {
	productID   int64
	productName string
	productCode string
	quantity    int
	unitPrice   decimal.Decimal
	currency    string
	lineTotal   decimal.Decimal
}

func NewItem(
	productID int64,
	productName, productCode string,
	quantity int,
	unitPrice decimal.Decimal,
	currency string,
) (Item, error) {
	var err error
	if productID <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("productId", productID, 1, "max int64"))
	}
	if quantity <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "max int"))
	}
	if unitPrice.IsNegative() {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("unitPrice", unitPrice, 0, "max decimal"))
	}
	if err != nil {
		return Item{}, err
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	return Item{
		productID:   productID,
		productName: productName,
		productCode: productCode,
		quantity:    quantity,
		unitPrice:   unitPrice,
		currency:    currency,
		lineTotal:   unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

func (i Item) ProductID() int64 { return i.productID }

func (i Item) ProductName() string { return i.productName }

func (i Item) ProductCode() string { return i.productCode }

func (i Item) Quantity() int { return i.quantity }

func (i Item) UnitPrice() decimal.Decimal { return i.unitPrice }

func (i Item) Currency() string { return i.currency }

func (i Item) LineTotal() decimal.Decimal { return i.lineTotal }
