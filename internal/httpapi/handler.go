package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Sampel65/youshop-go/internal/cart"
	"github.com/Sampel65/youshop-go/internal/catalog"
	"github.com/Sampel65/youshop-go/internal/notify"
	"github.com/Sampel65/youshop-go/internal/order"
)

// DefaultPaymentMethod matches the original storefront's preselected option.
const DefaultPaymentMethod = "Cash on Delivery"

type Handler struct {
	catalog      *catalog.Service
	cart         *cart.Cart
	ledger       *order.Ledger
	inbox        *notify.Inbox
	shippingCost float64
}

func NewHandler(cat *catalog.Service, c *cart.Cart, l *order.Ledger, in *notify.Inbox, shippingCost float64) *Handler {
	return &Handler{
		catalog:      cat,
		cart:         c,
		ledger:       l,
		inbox:        in,
		shippingCost: shippingCost,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "shopd",
	})
}

// ListProducts serves the catalog, optionally filtered by ?category=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	products, err := h.catalog.Products(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		c := catalog.Category(raw)
		if !c.Valid() {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		products = catalog.FilterByCategory(products, c)
	}

	writeJSON(w, http.StatusOK, products)
}

// RefreshProducts invalidates the cache and refetches from the provider.
func (h *Handler) RefreshProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	products, err := h.catalog.Refresh(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

type cartView struct {
	Items     []cart.Line `json:"items"`
	Total     float64     `json:"total"`
	ItemCount int         `json:"itemCount"`
}

func (h *Handler) cartViewNow() cartView {
	lines := h.cart.Lines()
	return cartView{Items: lines, Total: h.cart.Total(), ItemCount: h.cart.ItemCount()}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cartViewNow())
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID int `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, ok, err := h.catalog.Find(ctx, body.ProductID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.cart.Add(p)
	writeJSON(w, http.StatusOK, h.cartViewNow())
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid productId")
		return
	}

	// Product identity is the id alone, so a stub value is enough here.
	h.cart.Remove(catalog.Product{ID: id})
	writeJSON(w, http.StatusOK, h.cartViewNow())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Address       string `json:"address"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Address == "" {
		writeError(w, http.StatusBadRequest, "missing address")
		return
	}
	if body.PaymentMethod == "" {
		body.PaymentMethod = DefaultPaymentMethod
	}
	if h.cart.ItemCount() == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o := h.ledger.PlaceOrder(ctx, h.cart, h.shippingCost, body.Address, body.PaymentMethod)
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Orders())
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.ledger.Get(chi.URLParam(r, "orderId"))
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// UpdateOrderStatus validates the status string, then defers to the ledger.
// An unknown order id stays a silent no-op, so the response is 204 either
// way.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	status, err := order.ParseStatus(body.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.ledger.UpdateStatus(ctx, chi.URLParam(r, "orderId"), status)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.inbox.Items())
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.inbox.MarkRead(ctx, chi.URLParam(r, "notificationId"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.inbox.ClearAll(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
