package services_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

var createdAt = time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)

func newOrderWithItems(t *testing.T, n int, loc *kernel.Location) *order.Order {
	t.Helper()
	items := make([]order.Item, 0, n)
	for i := range n {
		item, err := order.NewItem(int64(i+1), fmt.Sprintf("Mahsulot %d", i+1), "", 2, decimal.NewFromInt(1500), "SUM")
		require.NoError(t, err)
		items = append(items, item)
	}
	o, err := order.NewOrder(1, 2, items, "Yunusobod 4", loc, createdAt)
	require.NoError(t, err)
	o.SetID(77)
	return o
}

func TestComposeOrderSummary(t *testing.T) {
	t.Run("broadcast truncates items", func(t *testing.T) {
		o := newOrderWithItems(t, 7, nil)

		text := services.ComposeOrderSummary(services.OrderView{
			Order:       o,
			ClientName:  "Ali",
			ClientPhone: "+998901234567",
			StoreName:   "Markaz",
		}, services.SummaryOptions{Header: services.HeaderNewOrder})

		assert.True(t, strings.HasPrefix(text, "🆕 Yangi buyurtma!\n\n📦 Buyurtma ID: #77\n"))
		assert.Contains(t, text, "👤 Mijoz: Ali\n")
		assert.Contains(t, text, "🏪 Do'kon: Markaz\n")
		assert.Contains(t, text, "💰 Jami: 21 000 SUM\n")
		assert.Contains(t, text, "📍 Manzil: Yunusobod 4\n")
		assert.Contains(t, text, "1. Mahsulot 1 - 2 dona × 1 500 SUM = 3 000 SUM")
		assert.Contains(t, text, "5. Mahsulot 5")
		assert.NotContains(t, text, "6. Mahsulot 6")
		assert.Contains(t, text, "... va yana 2 ta")
		assert.NotContains(t, text, "Lokatsiya")
		assert.True(t, strings.HasSuffix(text, "📅 Sana: 01.03.2025 14:30"))
	})

	t.Run("full lists every item", func(t *testing.T) {
		o := newOrderWithItems(t, 7, nil)

		text := services.ComposeOrderSummary(services.OrderView{Order: o}, services.SummaryOptions{Full: true})

		assert.Contains(t, text, "7. Mahsulot 7")
		assert.NotContains(t, text, "va yana")
		assert.Contains(t, text, "👤 Mijoz: Noma'lum\n")
		assert.Contains(t, text, "📞 Telefon: N/A\n")
		assert.True(t, strings.HasPrefix(text, "📦 Buyurtma ID: #77"))
	})

	t.Run("location block with and without resolved address", func(t *testing.T) {
		loc, err := kernel.NewLocation(41.3111, 69.2797)
		require.NoError(t, err)
		o := newOrderWithItems(t, 1, &loc)

		resolved := services.ComposeOrderSummary(services.OrderView{
			Order: o, ResolvedAddress: "Toshkent, Amir Temur ko'chasi",
		}, services.SummaryOptions{})
		assert.Contains(t, resolved, "🗺️ Lokatsiya:\n📍 Toshkent, Amir Temur ko'chasi\n")
		assert.Contains(t, resolved, loc.GoogleMapsURL())

		unresolved := services.ComposeOrderSummary(services.OrderView{Order: o}, services.SummaryOptions{})
		assert.Contains(t, unresolved, "🗺️ Lokatsiya:\nGoogle Maps: ")
		assert.Contains(t, unresolved, loc.YandexMapsURL())
	})
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0 SUM", services.FormatMoney(decimal.Zero, ""))
	assert.Equal(t, "999 SUM", services.FormatMoney(decimal.NewFromInt(999), "SUM"))
	assert.Equal(t, "1 250 000 UZS", services.FormatMoney(decimal.NewFromInt(1250000), "UZS"))
	assert.Equal(t, "4 500.50 SUM", services.FormatMoney(decimal.RequireFromString("4500.5"), "SUM"))
	assert.Equal(t, "4 501 SUM", services.FormatMoney(decimal.RequireFromString("4500.999"), "SUM"))
	assert.Equal(t, "-12 000 SUM", services.FormatMoney(decimal.NewFromInt(-12000), "SUM"))
}
