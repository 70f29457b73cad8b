// Package http exposes the dispatch use cases over a JSON REST API.
package http

import (
	"errors"
	"net/http"

	"meddispatch/internal/core/application/usecases/commands"
	"meddispatch/internal/core/application/usecases/queries"
	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/core/ports"
	"meddispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	respondHandler         commands.RespondToAssignmentCommandHandler
	cancelOrderHandler     commands.CancelOrderCommandHandler
	confirmPickupHandler   commands.ConfirmPickupCommandHandler
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler
	manualAssignHandler    commands.ManualAssignCommandHandler

	// Query handlers
	getOrderHandler           queries.GetOrderQueryHandler
	getEscalatedOrdersHandler queries.GetEscalatedOrdersQueryHandler

	locations ports.LocationCache
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	respondHandler commands.RespondToAssignmentCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	confirmPickupHandler commands.ConfirmPickupCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	manualAssignHandler commands.ManualAssignCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getEscalatedOrdersHandler queries.GetEscalatedOrdersQueryHandler,
	locations ports.LocationCache,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		respondHandler:            respondHandler,
		cancelOrderHandler:        cancelOrderHandler,
		confirmPickupHandler:      confirmPickupHandler,
		confirmDeliveryHandler:    confirmDeliveryHandler,
		manualAssignHandler:       manualAssignHandler,
		getOrderHandler:           getOrderHandler,
		getEscalatedOrdersHandler: getEscalatedOrdersHandler,
		locations:                 locations,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/respond", s.RespondToAssignment)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/pickup", s.ConfirmPickup)
	api.POST("/orders/:id/delivery", s.ConfirmDelivery)
	api.POST("/orders/:id/assign", s.ManualAssign)
	api.GET("/admin/escalated", s.GetEscalatedOrders)
	api.PUT("/partners/:id/location", s.UpdatePartnerLocation)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/orders - registers an order and starts
// provider matching.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}

	deliveryPoint, err := kernel.NewGeoPoint(req.DeliveryLat, req.DeliveryLon)
	if err != nil {
		return badRequest(ctx, "Invalid delivery point: "+err.Error())
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, itemReq := range req.Items {
		productID, idErr := kernel.UUIDFromString(itemReq.ProductID)
		if idErr != nil {
			return badRequest(ctx, "Invalid product id: "+idErr.Error())
		}

		item, itemErr := order.NewItem(productID, itemReq.Name, itemReq.Quantity)
		if itemErr != nil {
			return badRequest(ctx, "Invalid item: "+itemErr.Error())
		}
		items = append(items, item)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		order.Kind(req.Kind),
		customerID,
		items,
		deliveryPoint,
		order.PaymentMethod(req.PaymentMethod),
		req.VerificationCode,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{ID: orderID.String()})
}

// GetOrder handles GET /api/orders/:id - the customer tracking projection.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(resp))
}

// RespondToAssignment handles POST /api/orders/:id/respond - a candidate
// accepting or rejecting its pending offer.
func (s *Server) RespondToAssignment(ctx echo.Context) error {
	var req RespondToAssignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	candidateID, err := kernel.UUIDFromString(req.CandidateID)
	if err != nil {
		return badRequest(ctx, "Invalid candidate id: "+err.Error())
	}

	cmd, err := commands.NewRespondToAssignmentCommand(orderID, order.Role(req.Role), candidateID, req.Accepted)
	if err != nil {
		return badRequest(ctx, "Invalid response data: "+err.Error())
	}

	if handleErr := s.respondHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// CancelOrder handles POST /api/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	var req CancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, customerID)
	if err != nil {
		return badRequest(ctx, "Invalid cancel data: "+err.Error())
	}

	if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// ConfirmPickup handles POST /api/orders/:id/pickup - the assigned partner
// collected the package from the provider.
func (s *Server) ConfirmPickup(ctx echo.Context) error {
	var req ConfirmPickupRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	partnerID, err := kernel.UUIDFromString(req.PartnerID)
	if err != nil {
		return badRequest(ctx, "Invalid partner id: "+err.Error())
	}

	cmd, err := commands.NewConfirmPickupCommand(orderID, partnerID)
	if err != nil {
		return badRequest(ctx, "Invalid pickup data: "+err.Error())
	}

	if handleErr := s.confirmPickupHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// ConfirmDelivery handles POST /api/orders/:id/delivery - the partner handed
// the package over and supplies the customer's verification code.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	var req ConfirmDeliveryRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	partnerID, err := kernel.UUIDFromString(req.PartnerID)
	if err != nil {
		return badRequest(ctx, "Invalid partner id: "+err.Error())
	}

	cmd, err := commands.NewConfirmDeliveryCommand(orderID, partnerID, req.VerificationCode)
	if err != nil {
		return badRequest(ctx, "Invalid delivery data: "+err.Error())
	}

	if handleErr := s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// ManualAssign handles POST /api/orders/:id/assign - an administrator picks
// a candidate for an escalated order.
func (s *Server) ManualAssign(ctx echo.Context) error {
	var req ManualAssignRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	candidateID, err := kernel.UUIDFromString(req.CandidateID)
	if err != nil {
		return badRequest(ctx, "Invalid candidate id: "+err.Error())
	}

	cmd, err := commands.NewManualAssignCommand(orderID, order.Role(req.Role), candidateID)
	if err != nil {
		return badRequest(ctx, "Invalid assignment data: "+err.Error())
	}

	if handleErr := s.manualAssignHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// GetEscalatedOrders handles GET /api/admin/escalated - the manual-assignment
// work list.
func (s *Server) GetEscalatedOrders(ctx echo.Context) error {
	query := queries.NewGetEscalatedOrdersQuery()

	rows, err := s.getEscalatedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]EscalatedOrderResponse, len(rows))
	for i, row := range rows {
		response[i] = EscalatedOrderResponse{
			ID:           row.ID.String(),
			Kind:         string(row.Kind),
			Role:         row.Role.String(),
			DeliveryLat:  row.DeliveryPoint.Latitude(),
			DeliveryLon:  row.DeliveryPoint.Longitude(),
			AttemptCount: row.AttemptCount,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// UpdatePartnerLocation handles PUT /api/partners/:id/location - a partner
// reporting its current position.
func (s *Server) UpdatePartnerLocation(ctx echo.Context) error {
	var req UpdateLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	partnerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid partner id: "+err.Error())
	}

	location, err := kernel.NewGeoPoint(req.Lat, req.Lon)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	if err = s.locations.SetLocation(ctx.Request().Context(), partnerID, location); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

func toOrderResponse(resp queries.GetOrderQueryResponse) OrderResponse {
	items := make([]OrderItemResponse, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
		}
	}

	out := OrderResponse{
		ID:            resp.ID.String(),
		Kind:          string(resp.Kind),
		Status:        resp.Status.String(),
		Items:         items,
		DeliveryLat:   resp.DeliveryPoint.Latitude(),
		DeliveryLon:   resp.DeliveryPoint.Longitude(),
		PaymentMethod: string(resp.PaymentMethod),
		PaymentStatus: string(resp.PaymentStatus),
	}

	if resp.ProviderID != nil {
		id := resp.ProviderID.String()
		out.ProviderID = &id
	}
	if resp.PartnerID != nil {
		id := resp.PartnerID.String()
		out.PartnerID = &id
	}
	if resp.EstimatedArrival != nil {
		secs := int64(resp.EstimatedArrival.Seconds())
		out.EstimatedArrivalSecs = &secs
	}

	return out
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// errorResponse maps domain error categories to HTTP status codes.
func errorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}
