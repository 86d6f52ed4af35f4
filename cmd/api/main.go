package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "posflow/docs"
	"posflow/pkg/auth"
	authpg "posflow/pkg/auth/postgres"
	authredis "posflow/pkg/auth/redis"
	"posflow/pkg/cart"
	"posflow/pkg/catalog"
	catalogpg "posflow/pkg/catalog/postgres"
	"posflow/pkg/checkout"
	"posflow/pkg/logger"
	"posflow/pkg/notify"
	"posflow/pkg/order"
	orderpg "posflow/pkg/order/postgres"
	"posflow/pkg/otel"
)

var schema = []string{
	"CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, email TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL)",
	"CREATE TABLE IF NOT EXISTS categories (id TEXT PRIMARY KEY, category TEXT NOT NULL)",
	"CREATE TABLE IF NOT EXISTS items (id TEXT PRIMARY KEY, name TEXT NOT NULL, price NUMERIC NOT NULL, category_id TEXT REFERENCES categories(id))",
	"CREATE TABLE IF NOT EXISTS orders (id TEXT PRIMARY KEY, type TEXT NOT NULL, delivery_address TEXT, additional_notes TEXT, total_amount NUMERIC NOT NULL, created_at TIMESTAMPTZ NOT NULL)",
	"CREATE TABLE IF NOT EXISTS order_items (order_id TEXT REFERENCES orders(id), item_id TEXT NOT NULL, name TEXT NOT NULL, price NUMERIC NOT NULL, quantity INT NOT NULL)",
}

// server carries every dependency the handlers need; nothing is looked up
// ambiently.
type server struct {
	log       *zap.Logger
	auth      *auth.Service
	catalog   *catalog.Service
	carts     *cart.Registry
	checkouts *checkout.Registry
}

// @title POSFlow API
// @version 1.0
// @description Point-of-sale API: catalog, session carts and order checkout
// @host localhost:8443
// @BasePath /
func main() {
	log, err := logger.New("posflow")
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	_, shutdown, err := otel.InitTracing("posflow")
	if err != nil {
		log.Fatal("init tracing", zap.Error(err))
	}
	defer shutdown(context.Background())

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatal("create table", zap.Error(err))
		}
	}

	redisClient := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR")})
	notifier := notify.NewLog(log)
	submitter := orderpg.New(db)

	s := &server{
		log:       log,
		auth:      auth.NewService(authpg.New(db), authredis.New(redisClient), time.Hour),
		catalog:   catalog.NewService(catalogpg.New(db)),
		carts:     cart.NewRegistry(),
		checkouts: checkout.NewRegistry(submitter, notifier),
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8443"
	}

	r := mux.NewRouter()
	r.Use(traceMiddleware)
	r.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := r.NewRoute().Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/logout", s.logoutHandler).Methods(http.MethodPost)
	api.HandleFunc("/items", s.listItemsHandler).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.listCategoriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.getCartHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.clearCartHandler).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", s.addCartItemHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}", s.setQuantityHandler).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{id}", s.removeCartItemHandler).Methods(http.MethodDelete)
	api.HandleFunc("/orders", s.submitOrderHandler).Methods(http.MethodPost)

	log.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServeTLS(addr, "certs/server.crt", "certs/server.key", r); err != nil {
		log.Error("server closed", zap.Error(err))
	}
}

// traceMiddleware opens the root span for each request; handler spans nest
// under it.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := otel.AddSpan(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type ctxKey int

const sessionKey ctxKey = 0

// authMiddleware ensures a valid session exists and stashes its id on the
// request context.
func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session_id")
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := s.auth.CurrentUser(r.Context(), c.Value); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, c.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) string {
	sid, _ := r.Context().Value(sessionKey).(string)
	return sid
}

// loginRequest represents login credentials.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginHandler authenticates the user and starts a session.
// @Summary Sign in
// @Description Verifies credentials and sets the session cookie
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200
// @Failure 401
// @Router /login [post]
func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "invalid credentials", http.StatusBadRequest)
		return
	}
	sid, err := s.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		s.log.Error("sign in", zap.Error(err))
		http.Error(w, "sign in failed", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(s.auth.TTL()),
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusOK)
}

// logoutHandler ends the session and discards its cart.
// @Summary Sign out
// @Success 204
// @Router /logout [post]
func (s *server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "logoutHandler")
	defer span.End()

	sid := sessionID(r)
	if err := s.auth.SignOut(ctx, sid); err != nil {
		s.log.Error("sign out", zap.Error(err))
	}
	s.carts.Drop(sid)
	s.checkouts.Drop(sid)
	http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}

// listItemsHandler serves the filtered catalog snapshot.
// @Summary List items
// @Produce json
// @Param category query string false "Category filter; All matches everything"
// @Param search query string false "Case-insensitive name search"
// @Success 200 {array} catalog.Item
// @Router /items [get]
func (s *server) listItemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listItemsHandler")
	defer span.End()

	items, err := s.catalog.Snapshot(ctx)
	if err != nil {
		s.log.Error("list items", zap.Error(err))
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = catalog.CategoryAll
	}
	writeJSON(w, http.StatusOK, catalog.Filter(items, category, r.URL.Query().Get("search")))
}

// listCategoriesHandler serves the category names, "All" first.
// @Summary List categories
// @Produce json
// @Success 200 {array} string
// @Router /categories [get]
func (s *server) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listCategoriesHandler")
	defer span.End()

	cats, err := s.catalog.Categories(ctx)
	if err != nil {
		s.log.Error("list categories", zap.Error(err))
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// cartView is the cart as the UI renders it.
type cartView struct {
	Lines     []cart.Line `json:"lines"`
	Total     float64     `json:"total"`
	LineCount int         `json:"line_count"`
	ItemCount int         `json:"item_count"`
}

func viewOf(c *cart.Cart) cartView {
	return cartView{
		Lines:     c.Lines(),
		Total:     c.Total(),
		LineCount: c.LineCount(),
		ItemCount: c.ItemCount(),
	}
}

// getCartHandler returns the session's cart.
// @Summary Get cart
// @Produce json
// @Success 200 {object} cartView
// @Router /cart [get]
func (s *server) getCartHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "getCartHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, viewOf(s.carts.Get(sessionID(r))))
}

// addCartItemRequest identifies the catalog item to add.
type addCartItemRequest struct {
	ID string `json:"id"`
}

// addCartItemHandler adds one unit of a catalog item to the cart.
// @Summary Add item to cart
// @Accept json
// @Produce json
// @Param item body addCartItemRequest true "Item id"
// @Success 200 {object} cartView
// @Failure 404
// @Router /cart/items [post]
func (s *server) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addCartItemHandler")
	defer span.End()

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		http.Error(w, "invalid item", http.StatusBadRequest)
		return
	}
	item, err := s.catalog.Item(ctx, req.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.log.Error("resolve item", zap.Error(err))
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}
	c := s.carts.Get(sessionID(r))
	c.Add(item)
	writeJSON(w, http.StatusOK, viewOf(c))
}

// setQuantityRequest carries the absolute quantity for a line.
type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// setQuantityHandler sets a line's quantity; zero or less removes it.
// @Summary Set line quantity
// @Accept json
// @Produce json
// @Param id path string true "Item id"
// @Param quantity body setQuantityRequest true "Absolute quantity"
// @Success 200 {object} cartView
// @Router /cart/items/{id} [put]
func (s *server) setQuantityHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "setQuantityHandler")
	defer span.End()

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid quantity", http.StatusBadRequest)
		return
	}
	c := s.carts.Get(sessionID(r))
	c.SetQuantity(mux.Vars(r)["id"], req.Quantity)
	writeJSON(w, http.StatusOK, viewOf(c))
}

// removeCartItemHandler removes a line from the cart.
// @Summary Remove cart line
// @Produce json
// @Param id path string true "Item id"
// @Success 200 {object} cartView
// @Router /cart/items/{id} [delete]
func (s *server) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "removeCartItemHandler")
	defer span.End()

	c := s.carts.Get(sessionID(r))
	c.Remove(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, viewOf(c))
}

// clearCartHandler empties the cart.
// @Summary Clear cart
// @Produce json
// @Success 200 {object} cartView
// @Router /cart [delete]
func (s *server) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "clearCartHandler")
	defer span.End()

	c := s.carts.Get(sessionID(r))
	c.Clear()
	writeJSON(w, http.StatusOK, viewOf(c))
}

// submitOrderRequest is the checkout form.
type submitOrderRequest struct {
	Type            string `json:"type"`
	DeliveryAddress string `json:"delivery_address"`
	AdditionalNotes string `json:"additional_notes"`
}

// submitOrderResponse wraps the persisted order with the notification text.
type submitOrderResponse struct {
	Order   order.Order `json:"order"`
	Message string      `json:"message"`
}

// submitOrderHandler runs the checkout flow for the session's cart.
// @Summary Submit order
// @Accept json
// @Produce json
// @Param order body submitOrderRequest true "Order metadata"
// @Success 201 {object} submitOrderResponse
// @Failure 409 "empty cart or submission already in progress"
// @Failure 422 "validation failed"
// @Failure 502 "order store write failed"
// @Router /orders [post]
func (s *server) submitOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "submitOrderHandler")
	defer span.End()

	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid order", http.StatusBadRequest)
		return
	}
	sid := sessionID(r)
	c := s.carts.Get(sid)
	flow := s.checkouts.Get(sid, c)
	if err := flow.Enter(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if req.Type == "" {
		req.Type = string(order.DineIn)
	}
	if err := flow.SetType(order.FulfillmentType(req.Type)); err != nil {
		s.writeFlowError(w, err)
		return
	}
	if err := flow.SetDeliveryAddress(req.DeliveryAddress); err != nil {
		s.writeFlowError(w, err)
		return
	}
	if err := flow.SetNotes(req.AdditionalNotes); err != nil {
		s.writeFlowError(w, err)
		return
	}
	o, err := flow.Submit(ctx)
	if err != nil {
		s.log.Error("submit order", zap.Error(err))
		s.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitOrderResponse{Order: o, Message: "Order placed successfully!"})
}

func (s *server) writeFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrSubmitting):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, checkout.ErrAddressRequired), errors.Is(err, checkout.ErrInvalidType):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "order submission failed", http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
