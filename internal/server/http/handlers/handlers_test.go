package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/bloomorders/internal/domain/errors"
	"github.com/polkiloo/bloomorders/internal/domain/model"
	"github.com/polkiloo/bloomorders/internal/pkg/validation"
	"github.com/polkiloo/bloomorders/internal/query"
	"github.com/polkiloo/bloomorders/internal/server/http/dto"
	"github.com/polkiloo/bloomorders/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/bloomorders/internal/test"
	"github.com/polkiloo/bloomorders/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path, route string, handler gin.HandlerFunc, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, handler)

	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

func newOrderHandler(facade OrderFacade) *OrderHandler {
	return NewOrderHandler(facade, validation.New(), time.UTC)
}

func TestCurrentSubject(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentSubject(c); got != "" {
		t.Fatalf("expected empty subject when not set, got %q", got)
	}

	c.Set(middleware.SubjectContextKey, "staff")
	if got := CurrentSubject(c); got != "staff" {
		t.Fatalf("expected staff, got %q", got)
	}
}

func TestSessionHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.SessionRequest{Password: "pw"})
	resp := performRequest(t, http.MethodPost, "/session", "/session", NewSessionHandler(testhelpers.SessionFacadeStub{}).Login, bytes.NewReader(body), jsonHeaders())
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer token" {
		t.Fatalf("expected auth header to be set")
	}

	stub := testhelpers.SessionFacadeStub{LoginFn: func(context.Context, string) (string, error) {
		return "", domainErrors.ErrInvalidCredentials
	}}
	resp = performRequest(t, http.MethodPost, "/session", "/session", NewSessionHandler(stub).Login, bytes.NewReader(body), jsonHeaders())
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	stub.LoginFn = func(context.Context, string) (string, error) { return "", errors.New("boom") }
	resp = performRequest(t, http.MethodPost, "/session", "/session", NewSessionHandler(stub).Login, bytes.NewReader(body), jsonHeaders())
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/session", "/session", NewSessionHandler(stub).Login, strings.NewReader("{"), jsonHeaders())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}
}

func TestSessionHandlerLogout(t *testing.T) {
	resp := performRequest(t, http.MethodDelete, "/session", "/session", NewSessionHandler(testhelpers.SessionFacadeStub{}).Logout, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if !strings.Contains(resp.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("expected cookie to be expired, got %q", resp.Header().Get("Set-Cookie"))
	}
}

func TestOrderHandlerListParsesView(t *testing.T) {
	var views []query.View
	handler := newOrderHandler(testhelpers.OrderFacadeStub{Views: &views})

	path := "/orders?status=Ordered,Ready&status=Done&pickup_delivery=Delivery&date=2024-02-14&q=rose&sort=price&dir=desc&tz=Europe/Berlin"
	resp := performRequest(t, http.MethodGet, path, "/orders", handler.List, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if len(views) != 1 {
		t.Fatalf("expected one facade call, got %d", len(views))
	}
	v := views[0]
	if len(v.Statuses) != 3 || v.Statuses[2] != model.OrderStatusDone {
		t.Fatalf("unexpected statuses %v", v.Statuses)
	}
	if v.PickupDelivery != "Delivery" || v.Search != "rose" || len(v.Dates) != 1 {
		t.Fatalf("unexpected view %+v", v)
	}
	if v.Sort != (query.Sort{Column: query.ColumnPrice, Direction: query.Descending}) {
		t.Fatalf("unexpected sort %+v", v.Sort)
	}
	if v.Location.String() != "Europe/Berlin" {
		t.Fatalf("unexpected location %v", v.Location)
	}

	var list dto.OrderListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Orders) != 1 || list.Orders[0].PhotoURLs[0] != "https://cdn.test/a.jpg" {
		t.Fatalf("unexpected response %+v", list)
	}
	if len(list.Dates) != 1 || list.Dates[0] != "2024-02-14" {
		t.Fatalf("unexpected dates %v", list.Dates)
	}
}

func TestOrderHandlerListDefaults(t *testing.T) {
	var views []query.View
	handler := newOrderHandler(testhelpers.OrderFacadeStub{Views: &views})

	resp := performRequest(t, http.MethodGet, "/orders?sort=customer_id", "/orders", handler.List, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	v := views[0]
	if len(v.Statuses) != 0 || v.PickupDelivery != query.PickupDeliveryAll || v.Location != time.UTC {
		t.Fatalf("unexpected default view %+v", v)
	}
	if v.Sort != (query.Sort{Column: query.ColumnCustomerID, Direction: query.Ascending}) {
		t.Fatalf("new sort column should start ascending, got %+v", v.Sort)
	}
}

func TestOrderHandlerListRejectsBadParams(t *testing.T) {
	handler := newOrderHandler(testhelpers.OrderFacadeStub{})
	for _, q := range []string{"status=Lost", "pickup_delivery=Boat", "date=14.02.2024", "sort=colour", "dir=up", "tz=Mars/Base"} {
		resp := performRequest(t, http.MethodGet, "/orders?"+q, "/orders", handler.List, nil, nil)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", q, resp.Code)
		}
	}

	failing := newOrderHandler(testhelpers.OrderFacadeStub{OrdersFn: func(context.Context, query.View) ([]model.Order, []string, error) {
		return nil, nil, errors.New("db")
	}})
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", failing.List, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	handler := newOrderHandler(testhelpers.OrderFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/orders/5", "/orders/:id", handler.Get, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if order.ID != "5" || order.OrderID != "ORD-5" || *order.Price != 45.5 {
		t.Fatalf("unexpected order %+v", order)
	}

	handler = newOrderHandler(testhelpers.OrderFacadeStub{OrderFn: func(context.Context, string) (*model.Order, error) { return nil, nil }})
	resp = performRequest(t, http.MethodGet, "/orders/5", "/orders/:id", handler.Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	handler = newOrderHandler(testhelpers.OrderFacadeStub{OrderFn: func(context.Context, string) (*model.Order, error) { return nil, errors.New("db") }})
	resp = performRequest(t, http.MethodGet, "/orders/5", "/orders/:id", handler.Get, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestOrderHandlerCreateJSON(t *testing.T) {
	var created []testhelpers.OrderCall
	handler := newOrderHandler(testhelpers.OrderFacadeStub{Created: &created})

	body := `{"customer_id":"Alice","details":"peonies","delivery_date_time":"2024-02-14T10:30","pickup_delivery":"Pickup","price":12.5}`
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", handler.Create, strings.NewReader(body), jsonHeaders())
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	in := created[0].Input
	if in.CustomerID != "Alice" || in.PickupDelivery != model.PickupDeliveryPickup || in.Status != "" {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.Price == nil || *in.Price != 12.5 {
		t.Fatalf("unexpected price %v", in.Price)
	}
	if !in.DeliveryDateTime.Equal(time.Date(2024, 2, 14, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected delivery %v", in.DeliveryDateTime)
	}
	if in.KeepPhotos != nil {
		t.Fatalf("keep list should be nil when not sent")
	}
}

func TestOrderHandlerCreateValidation(t *testing.T) {
	handler := newOrderHandler(testhelpers.OrderFacadeStub{})

	body := `{"customer_id":"","delivery_date_time":"tomorrow","pickup_delivery":"Boat","status":"Lost","price":"-1"}`
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", handler.Create, strings.NewReader(body), jsonHeaders())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"customer_id", "delivery_date_time", "pickup_delivery", "status", "price"} {
		if _, ok := errResp.Fields[field]; !ok {
			t.Fatalf("expected %s to be reported, got %v", field, errResp.Fields)
		}
	}

	resp = performRequest(t, http.MethodPost, "/orders", "/orders", handler.Create, strings.NewReader("{"), jsonHeaders())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", resp.Code)
	}
}

func TestOrderHandlerCreateErrors(t *testing.T) {
	body := `{"customer_id":"Alice","delivery_date_time":"2024-02-14 10:30:00+00","pickup_delivery":"Delivery"}`
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("create order: %w", domainErrors.ErrAlreadyExists), http.StatusConflict},
		{domainErrors.ErrInvalidOrder, http.StatusUnprocessableEntity},
		{domainErrors.ErrStorageNotConfigured, http.StatusServiceUnavailable},
		{errors.New("db"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		handler := newOrderHandler(testhelpers.OrderFacadeStub{CreateFn: func(context.Context, model.OrderInput, []model.PhotoUpload) (*model.Order, error) {
			return nil, tc.err
		}})
		resp := performRequest(t, http.MethodPost, "/orders", "/orders", handler.Create, strings.NewReader(body), jsonHeaders())
		if resp.Code != tc.code {
			t.Fatalf("expected %d for %v, got %d", tc.code, tc.err, resp.Code)
		}
	}
}

func multipartOrder(t *testing.T, fields map[string][]string, photos map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, values := range fields {
		for _, v := range values {
			if err := w.WriteField(k, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
	}
	for name, content := range photos {
		part, err := w.CreateFormFile("photos", name)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		_, _ = part.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestOrderHandlerUpdateMultipart(t *testing.T) {
	var updated []testhelpers.OrderCall
	handler := newOrderHandler(testhelpers.OrderFacadeStub{Updated: &updated})

	body, contentType := multipartOrder(t, map[string][]string{
		"customer_id":        {"Bob"},
		"delivery_date_time": {"2024-03-01T09:00:00Z"},
		"pickup_delivery":    {"Delivery"},
		"payment_status":     {"Unpaid"},
		"price":              {"20"},
		"existing_photos":    {"https://cdn.test/keep.jpg"},
	}, map[string]string{"new.png": "\x89PNG\r\n\x1a\nrest"})

	resp := performRequest(t, http.MethodPut, "/orders/9", "/orders/:id", handler.Update, body, map[string]string{"Content-Type": contentType})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	call := updated[0]
	if call.ID != "9" || call.Input.PaymentStatus != model.PaymentStatusUnpaid {
		t.Fatalf("unexpected call %+v", call)
	}
	if len(call.Input.KeepPhotos) != 1 || call.Input.KeepPhotos[0] != "https://cdn.test/keep.jpg" {
		t.Fatalf("unexpected keep list %v", call.Input.KeepPhotos)
	}
	if len(call.Uploads) != 1 || call.Uploads[0].Name != "new.png" || call.Uploads[0].ContentType != "image/png" {
		t.Fatalf("unexpected uploads %+v", call.Uploads)
	}
}

func TestOrderHandlerUpdateReplacePhotos(t *testing.T) {
	var updated []testhelpers.OrderCall
	handler := newOrderHandler(testhelpers.OrderFacadeStub{Updated: &updated})

	body := `{"customer_id":"Bob","delivery_date_time":"2024-03-01T09:00:00Z","pickup_delivery":"Pickup","replace_photos":true}`
	resp := performRequest(t, http.MethodPut, "/orders/9", "/orders/:id", handler.Update, strings.NewReader(body), jsonHeaders())
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if keep := updated[0].Input.KeepPhotos; keep == nil || len(keep) != 0 {
		t.Fatalf("expected empty non-nil keep list, got %#v", keep)
	}

	handler = newOrderHandler(testhelpers.OrderFacadeStub{UpdateFn: func(context.Context, string, model.OrderInput, []model.PhotoUpload) (*model.Order, error) {
		return nil, domainErrors.ErrNotFound
	}})
	resp = performRequest(t, http.MethodPut, "/orders/9", "/orders/:id", handler.Update, strings.NewReader(body), jsonHeaders())
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestOrderHandlerDelete(t *testing.T) {
	handler := newOrderHandler(testhelpers.OrderFacadeStub{})
	resp := performRequest(t, http.MethodDelete, "/orders/1", "/orders/:id", handler.Delete, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	handler = newOrderHandler(testhelpers.OrderFacadeStub{DeleteFn: func(context.Context, string) error { return domainErrors.ErrNotFound }})
	resp = performRequest(t, http.MethodDelete, "/orders/1", "/orders/:id", handler.Delete, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestNumberUnmarshal(t *testing.T) {
	cases := map[string]dto.Number{
		`{"price":12.5}`:   "12.5",
		`{"price":"7.25"}`: "7.25",
		`{"price":null}`:   "",
		`{}`:               "",
	}
	for raw, want := range cases {
		var req dto.OrderRequest
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if req.Price != want {
			t.Fatalf("%s: expected %q, got %q", raw, want, req.Price)
		}
	}
	var req dto.OrderRequest
	if err := json.Unmarshal([]byte(`{"price":true}`), &req); err == nil {
		t.Fatal("expected error for boolean price")
	}
}

func TestImportHandlerMultipart(t *testing.T) {
	var texts []string
	handler := NewImportHandler(testhelpers.ImportFacadeStub{Texts: &texts})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("file", "orders.csv")
	_, _ = part.Write([]byte("order_id,customer_id\n1,Alice\n"))
	_ = w.Close()

	resp := performRequest(t, http.MethodPost, "/import", "/import", handler.Import, &buf, map[string]string{"Content-Type": w.FormDataContentType()})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var out dto.ImportResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Message != "Successfully imported 1 orders!" || out.Imported != 1 {
		t.Fatalf("unexpected response %+v", out)
	}
	if len(texts) != 1 || !strings.HasPrefix(texts[0], "order_id,customer_id") {
		t.Fatalf("unexpected import text %v", texts)
	}
}

func TestImportHandlerMissingFile(t *testing.T) {
	handler := NewImportHandler(testhelpers.ImportFacadeStub{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("other", "x")
	_ = w.Close()
	resp := performRequest(t, http.MethodPost, "/import", "/import", handler.Import, &buf, map[string]string{"Content-Type": w.FormDataContentType()})
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), noFileMessage) {
		t.Fatalf("expected 400 with hint, got %d %s", resp.Code, resp.Body.String())
	}

	resp = performRequest(t, http.MethodPost, "/import", "/import", handler.Import, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", resp.Code)
	}
}

func TestImportHandlerErrors(t *testing.T) {
	empty := NewImportHandler(testhelpers.ImportFacadeStub{ImportFn: func(context.Context, string) (model.ImportResult, error) {
		return model.ImportResult{}, domainErrors.ErrEmptyImport
	}})
	resp := performRequest(t, http.MethodPost, "/import", "/import", empty.Import, strings.NewReader("order_id\n"), nil)
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), "No orders found in the CSV file.") {
		t.Fatalf("expected 400 empty import, got %d %s", resp.Code, resp.Body.String())
	}

	partial := NewImportHandler(testhelpers.ImportFacadeStub{ImportFn: func(context.Context, string) (model.ImportResult, error) {
		errs := []string{"Failed to import order A: duplicate"}
		return model.ImportResult{Imported: 2, Errors: errs}, &usecase.ImportError{Failed: 1, Succeeded: 2, Errors: errs}
	}})
	resp = performRequest(t, http.MethodPost, "/import", "/import", partial.Import, strings.NewReader("order_id\nA\nA\nB\n"), nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	var out dto.ImportResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Imported != 2 || out.Failed != 1 || len(out.Errors) != 1 {
		t.Fatalf("unexpected response %+v", out)
	}
	if out.Message != "Import failed: Failed to import 1 orders. 2 orders imported successfully." {
		t.Fatalf("unexpected message %q", out.Message)
	}

	broken := NewImportHandler(testhelpers.ImportFacadeStub{ImportFn: func(context.Context, string) (model.ImportResult, error) {
		return model.ImportResult{}, context.Canceled
	}})
	resp = performRequest(t, http.MethodPost, "/import", "/import", broken.Import, strings.NewReader("order_id\n1\n"), nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(testhelpers.HealthFacadeStub{}).Check, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(testhelpers.HealthFacadeStub{PingErr: errors.New("down")}).Check, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
