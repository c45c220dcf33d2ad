package storeapi

import (
	"github.com/shopspring/decimal"
	"github.com/talkincode/toughstore/internal/domain"
)

// Serialized shapes returned by the storefront API

type productSummary struct {
	ID    int64           `json:"id,string"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

type cartItemView struct {
	ID         int64           `json:"id,string"`
	Product    productSummary  `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type cartView struct {
	ID             string          `json:"id"`
	Items          []cartItemView  `json:"items"`
	CartTotalPrice decimal.Decimal `json:"cart_total_price"`
}

type orderItemView struct {
	ID        int64           `json:"id,string"`
	Product   productSummary  `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderView struct {
	ID              int64           `json:"id,string"`
	CustomerID      int64           `json:"customer_id,string"`
	PlacedAt        string          `json:"placed_at"`
	Address         string          `json:"address"`
	PaymentStatus   string          `json:"payment_status"`
	Items           []orderItemView `json:"items"`
	OrderTotalPrice decimal.Decimal `json:"order_total_price"`
}

func newProductSummary(p domain.Product) productSummary {
	return productSummary{ID: p.ID, Title: p.Title, Price: p.Price}
}

func newCartItemView(item domain.CartItem) cartItemView {
	qty := decimal.NewFromInt(int64(item.Quantity))
	return cartItemView{
		ID:         item.ID,
		Product:    newProductSummary(item.Product),
		Quantity:   item.Quantity,
		TotalPrice: item.Product.Price.Mul(qty),
	}
}

func newCartView(cart *domain.Cart) cartView {
	view := cartView{
		ID:             cart.ID,
		Items:          make([]cartItemView, 0, len(cart.Items)),
		CartTotalPrice: decimal.Zero,
	}
	for _, item := range cart.Items {
		iv := newCartItemView(item)
		view.Items = append(view.Items, iv)
		view.CartTotalPrice = view.CartTotalPrice.Add(iv.TotalPrice)
	}
	return view
}

func newOrderView(order *domain.Order) orderView {
	view := orderView{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		PlacedAt:        order.PlacedAt.Format("2006-01-02T15:04:05Z07:00"),
		Address:         order.Address,
		PaymentStatus:   order.PaymentStatus,
		Items:           make([]orderItemView, 0, len(order.Items)),
		OrderTotalPrice: order.TotalPrice(),
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, orderItemView{
			ID:        item.ID,
			Product:   newProductSummary(item.Product),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return view
}
