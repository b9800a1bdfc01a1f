package storefrontapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/domain/chat"
	"github.com/merrysway/storefront/internal/domain/order"
)

type orderItemBody struct {
	Name         string           `json:"name"`
	Quantity     int              `json:"quantity"`
	PerUnitPrice decimal.Decimal  `json:"per_unit_price"`
	TotalPrice   *decimal.Decimal `json:"total_price,omitempty"`
}

type activeOrderBody struct {
	Items []orderItemBody `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type orderHistoryBody struct {
	ID        string          `json:"id"`
	Items     []orderItemBody `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type updateOrderBody struct {
	Items []order.LineInput `json:"items" validate:"dive"`
}

type productBody struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Ingredients []string        `json:"ingredients"`
	ImageURL    string          `json:"image_url"`
}

type chatRequestBody struct {
	UserInput string `json:"user_input"`
	SessionID string `json:"session_id"`
}

type chatResponseBody struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

type messageBody struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type registerBody struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type tokenBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userBody struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (b activeOrderBody) toDomain() *order.ActiveOrder {
	active := &order.ActiveOrder{
		Items:  toOrderItems(b.Items),
		Total:  b.Total,
		Status: order.StatusPending,
	}
	return active
}

func (b orderHistoryBody) toDomain() order.ActiveOrder {
	o := order.ActiveOrder{
		Items:     toOrderItems(b.Items),
		Total:     b.Total,
		Status:    order.Status(b.Status),
		UpdatedAt: b.UpdatedAt,
	}
	if id, err := uuid.Parse(b.ID); err == nil {
		o.ID = id
	}
	return o
}

func toOrderItems(items []orderItemBody) []order.OrderItem {
	out := make([]order.OrderItem, 0, len(items))
	for _, item := range items {
		total := item.PerUnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if item.TotalPrice != nil {
			total = *item.TotalPrice
		}
		out = append(out, order.OrderItem{
			Name:         item.Name,
			Quantity:     item.Quantity,
			PerUnitPrice: item.PerUnitPrice,
			TotalPrice:   total,
		})
	}
	return out
}

func (b productBody) toDomain() catalog.Product {
	p := catalog.Product{
		Name:        b.Name,
		Category:    b.Category,
		Description: b.Description,
		Price:       b.Price,
		Rating:      b.Rating,
		Ingredients: b.Ingredients,
		ImageURL:    b.ImageURL,
	}
	if id, err := uuid.Parse(b.ID); err == nil {
		p.ID = id
	}
	return p
}

func (b messageBody) toDomain() chat.Message {
	return chat.Message{Role: chat.Role(b.Role), Content: b.Content}
}
