package miniappController

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubBoostStatus struct {
	boostByID map[int64]bool
	err       error
}

func (s *stubBoostStatus) GetBoostStatus(_ context.Context, telegramID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.boostByID[telegramID], nil
}

type stubPaymentService struct {
	link string
	err  error
}

func (s *stubPaymentService) CreateInvoice(_ context.Context, _ domain.ProductKind, _, _, _ int64) (*domain.Payment, error) {
	return nil, errors.New("not used in miniapp")
}

func (s *stubPaymentService) CreateInvoiceLink(_ context.Context, _ domain.ProductKind, _ int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.link, nil
}

func setupRouter(boostStatus *stubBoostStatus, payments *stubPaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(boostStatus, payments, slog.Default()).RegisterRoutes(router)
	return router
}

func httpDo(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBoostStatusKnownUser(t *testing.T) {
	router := setupRouter(
		&stubBoostStatus{boostByID: map[int64]bool{1001: true}},
		&stubPaymentService{},
	)

	w := httpDo(router, http.MethodGet, "/boost-status/1001", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"boost":true}`, w.Body.String())
}

func TestBoostStatusUnknownUserIsFalse(t *testing.T) {
	router := setupRouter(
		&stubBoostStatus{boostByID: map[int64]bool{}},
		&stubPaymentService{},
	)

	w := httpDo(router, http.MethodGet, "/boost-status/424242", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"boost":false}`, w.Body.String())
}

func TestBoostStatusMalformedIDIsFalse(t *testing.T) {
	router := setupRouter(
		&stubBoostStatus{boostByID: map[int64]bool{}},
		&stubPaymentService{},
	)

	w := httpDo(router, http.MethodGet, "/boost-status/not-a-number", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"boost":false}`, w.Body.String())
}

func TestBoostStatusStoreErrorIsFalse(t *testing.T) {
	router := setupRouter(
		&stubBoostStatus{err: errors.New("db is down")},
		&stubPaymentService{},
	)

	w := httpDo(router, http.MethodGet, "/boost-status/1001", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"boost":false}`, w.Body.String())
}

func TestCreateInvoiceReturnsLink(t *testing.T) {
	router := setupRouter(
		&stubBoostStatus{},
		&stubPaymentService{link: "https://t.me/invoice/abc"},
	)

	for _, path := range []string{"/create-invoice", "/create-donate-invoice", "/create-energy-invoice"} {
		w := httpDo(router, http.MethodPost, path, `{"userId":1001}`)
		require.Equal(t, http.StatusOK, w.Code, "path %s", path)
		require.JSONEq(t, `{"invoiceLink":"https://t.me/invoice/abc"}`, w.Body.String(), "path %s", path)
	}
}

func TestCreateInvoiceMissingUserID(t *testing.T) {
	router := setupRouter(&stubBoostStatus{}, &stubPaymentService{link: "x"})

	w := httpDo(router, http.MethodPost, "/create-invoice", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvoiceProviderFailure(t *testing.T) {
	router := setupRouter(
		&stubBoostStatus{},
		&stubPaymentService{err: errors.New("telegram is down")},
	)

	w := httpDo(router, http.MethodPost, "/create-invoice", `{"userId":1001}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"failed to create invoice"}`, w.Body.String())
}
