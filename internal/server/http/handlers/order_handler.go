package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	validatorv10 "github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/bloomorders/internal/domain/errors"
	"github.com/polkiloo/bloomorders/internal/domain/model"
	"github.com/polkiloo/bloomorders/internal/pkg/validation"
	"github.com/polkiloo/bloomorders/internal/query"
	"github.com/polkiloo/bloomorders/internal/server/http/dto"
)

const photosField = "photos"

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade   OrderFacade
	validate *validatorv10.Validate
	location *time.Location
}

// NewOrderHandler constructs OrderHandler. Wall-clock input without an
// offset is read in loc.
func NewOrderHandler(facade OrderFacade, validate *validatorv10.Validate, loc *time.Location) *OrderHandler {
	if loc == nil {
		loc = time.Local
	}
	return &OrderHandler{facade: facade, validate: validate, location: loc}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	view, err := h.parseView(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	orders, dates, err := h.facade.Orders(c.Request.Context(), view)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	resp := dto.OrderListResponse{Orders: make([]dto.OrderResponse, 0, len(orders)), Dates: dates}
	if resp.Dates == nil {
		resp.Dates = []string{}
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, h.toOrderResponse(o))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if order == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, h.toOrderResponse(*order))
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	in, uploads, ok := h.bindOrder(c)
	if !ok {
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), in, uploads)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toOrderResponse(*order))
}

// Update handles PUT /api/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	in, uploads, ok := h.bindOrder(c)
	if !ok {
		return
	}

	order, err := h.facade.UpdateOrder(c.Request.Context(), c.Param("id"), in, uploads)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toOrderResponse(*order))
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) parseView(c *gin.Context) (query.View, error) {
	view := query.DefaultView()
	view.Location = h.location

	if tz := c.Query("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return view, fmt.Errorf("unknown time zone %q", tz)
		}
		view.Location = loc
	}

	for _, raw := range splitValues(c.QueryArray("status")) {
		status, err := model.ParseOrderStatus(raw)
		if err != nil {
			return view, err
		}
		view.Statuses = append(view.Statuses, status)
	}

	if pd := c.Query("pickup_delivery"); pd != "" && pd != query.PickupDeliveryAll {
		if _, err := model.ParsePickupDelivery(pd); err != nil {
			return view, err
		}
		view.PickupDelivery = pd
	}

	for _, day := range splitValues(c.QueryArray("date")) {
		if _, err := time.Parse(query.DayLayout, day); err != nil {
			return view, fmt.Errorf("invalid date %q", day)
		}
		view.Dates = append(view.Dates, day)
	}

	view.Search = c.Query("q")

	if raw := c.Query("sort"); raw != "" {
		column, err := query.ParseColumn(raw)
		if err != nil {
			return view, err
		}
		view.Sort = query.Sort{Column: column, Direction: query.Ascending}
	}
	if raw := c.Query("dir"); raw != "" {
		dir, err := query.ParseDirection(raw)
		if err != nil {
			return view, err
		}
		view.Sort.Direction = dir
	}

	return view, nil
}

// bindOrder reads a JSON or multipart payload. It writes the error response
// itself and reports false on failure.
func (h *OrderHandler) bindOrder(c *gin.Context) (model.OrderInput, []model.PhotoUpload, bool) {
	var (
		req     dto.OrderRequest
		uploads []model.PhotoUpload
	)

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return model.OrderInput{}, nil, false
		}
		files, err := readPhotos(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return model.OrderInput{}, nil, false
		}
		uploads = files
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return model.OrderInput{}, nil, false
	}

	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order", Fields: validation.Fields(err)})
		return model.OrderInput{}, nil, false
	}

	in, err := h.toOrderInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return model.OrderInput{}, nil, false
	}
	return in, uploads, true
}

func (h *OrderHandler) toOrderInput(req dto.OrderRequest) (model.OrderInput, error) {
	delivery, err := model.ParseTimestamp(req.DeliveryDateTime, h.location)
	if err != nil {
		return model.OrderInput{}, err
	}

	in := model.OrderInput{
		OrderID:          req.OrderID,
		CustomerID:       req.CustomerID,
		Details:          req.Details,
		Status:           model.OrderStatus(req.Status),
		DeliveryDateTime: delivery,
		PickupDelivery:   model.PickupDelivery(req.PickupDelivery),
		PaymentStatus:    model.PaymentStatus(req.PaymentStatus),
	}
	if raw := strings.TrimSpace(string(req.Price)); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.OrderInput{}, fmt.Errorf("%w: %q", domainErrors.ErrInvalidPrice, raw)
		}
		in.Price = &price
	}
	if req.ReplacePhotos || len(req.ExistingPhotos) > 0 {
		in.KeepPhotos = append([]string{}, req.ExistingPhotos...)
	}
	return in, nil
}

func readPhotos(c *gin.Context) ([]model.PhotoUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	headers := form.File[photosField]
	uploads := make([]model.PhotoUpload, 0, len(headers))
	for _, fh := range headers {
		data, err := readFile(fh)
		if err != nil {
			return nil, fmt.Errorf("read photo %q: %w", fh.Filename, err)
		}
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		uploads = append(uploads, model.PhotoUpload{Name: fh.Filename, ContentType: contentType, Data: data})
	}
	return uploads, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidOrder),
		errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrInvalidPickupDelivery),
		errors.Is(err, domainErrors.ErrInvalidPaymentStatus),
		errors.Is(err, domainErrors.ErrInvalidPrice),
		errors.Is(err, domainErrors.ErrInvalidDeliveryTime):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrStorageNotConfigured):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *OrderHandler) toOrderResponse(o model.Order) dto.OrderResponse {
	photos := o.Photos
	if photos == nil {
		photos = []string{}
	}
	urls := make([]string, 0, len(photos))
	for _, p := range photos {
		urls = append(urls, h.facade.PhotoURL(p))
	}
	return dto.OrderResponse{
		ID:               o.ID,
		OrderID:          o.OrderID,
		CustomerID:       o.CustomerID,
		Details:          o.Details,
		Status:           string(o.Status),
		DeliveryDateTime: o.DeliveryDateTime,
		PickupDelivery:   string(o.PickupDelivery),
		PaymentStatus:    string(o.PaymentStatus),
		Price:            o.Price,
		Photos:           photos,
		PhotoURLs:        urls,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
