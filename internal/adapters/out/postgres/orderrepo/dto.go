// Package orderrepo persists the order aggregate. Items and status history are
// stored as JSON columns on the orders row so a transition is a single-row write.
package orderrepo

import (
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderDTO is the orders table.
type OrderDTO struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	UserID        int64           `gorm:"not null;index"`
	StoreID       int64           `gorm:"not null;index"`
	Items         []ItemDTO       `gorm:"type:text;serializer:json;not null"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency      string          `gorm:"size:8;not null;default:SUM"`
	Address       string          `gorm:"type:text"`
	LocationLat   *float64
	LocationLon   *float64
	Status        string       `gorm:"size:32;not null;index"`
	ReceiverID    *int64       `gorm:"index"`
	PickerID      *int64       `gorm:"index"`
	CourierID     *int64       `gorm:"index"`
	StatusHistory []HistoryDTO `gorm:"type:text;serializer:json;not null"`
	CreatedAt     time.Time    `gorm:"not null"`
	UpdatedAt     time.Time    `gorm:"not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one frozen line item inside orders.items.
type ItemDTO struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// HistoryDTO is one entry of orders.status_history.
type HistoryDTO struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	ActingUserID int64     `json:"acting_user_id"`
	Note         string    `json:"note,omitempty"`
}

func fromDomain(o *order.Order) OrderDTO {
	items := o.Items()
	itemDTOs := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		itemDTOs = append(itemDTOs, ItemDTO{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			ProductCode: item.ProductCode(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
			Currency:    item.Currency(),
			LineTotal:   item.LineTotal(),
		})
	}

	dto := OrderDTO{
		ID:            o.ID(),
		UserID:        o.UserID(),
		StoreID:       o.StoreID(),
		Items:         itemDTOs,
		TotalPrice:    o.TotalPrice(),
		Currency:      o.Currency(),
		Address:       o.Address(),
		Status:        o.Status().String(),
		ReceiverID:    o.ReceiverID(),
		PickerID:      o.PickerID(),
		CourierID:     o.CourierID(),
		StatusHistory: historyFromDomain(o.History()),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}

	if loc := o.Location(); loc != nil {
		lat, lon := loc.Lat(), loc.Lon()
		dto.LocationLat = &lat
		dto.LocationLon = &lon
	}
	return dto
}

func historyFromDomain(history []order.HistoryEntry) []HistoryDTO {
	dtos := make([]HistoryDTO, 0, len(history))
	for _, h := range history {
		dtos = append(dtos, HistoryDTO{
			Status:       h.Status.String(),
			Timestamp:    h.At,
			ActingUserID: h.ActingUserID,
			Note:         h.Note,
		})
	}
	return dtos
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	items := make([]order.Item, 0, len(dto.Items))
	for _, i := range dto.Items {
		item, err := order.NewItem(i.ProductID, i.ProductName, i.ProductCode, i.Quantity, i.UnitPrice, i.Currency)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	history := make([]order.HistoryEntry, 0, len(dto.StatusHistory))
	for _, h := range dto.StatusHistory {
		status, err := order.ParseStatus(h.Status)
		if err != nil {
			return nil, err
		}
		history = append(history, order.HistoryEntry{
			Status:       status,
			At:           h.Timestamp,
			ActingUserID: h.ActingUserID,
			Note:         h.Note,
		})
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.LocationLat != nil && dto.LocationLon != nil {
		loc, err := kernel.NewLocation(*dto.LocationLat, *dto.LocationLon)
		if err != nil {
			return nil, err
		}
		location = &loc
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:         dto.ID,
		UserID:     dto.UserID,
		StoreID:    dto.StoreID,
		Items:      items,
		TotalPrice: dto.TotalPrice,
		Currency:   dto.Currency,
		Address:    dto.Address,
		Location:   location,
		Status:     status,
		ReceiverID: dto.ReceiverID,
		PickerID:   dto.PickerID,
		CourierID:  dto.CourierID,
		History:    history,
		CreatedAt:  dto.CreatedAt,
		UpdatedAt:  dto.UpdatedAt,
	})
}
