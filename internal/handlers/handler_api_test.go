package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mdnahid/baki_khata_app/internal/core/services"
	"github.com/mdnahid/baki_khata_app/internal/dto"
	"github.com/mdnahid/baki_khata_app/internal/handlers"
	"github.com/mdnahid/baki_khata_app/internal/middleware"
	"github.com/mdnahid/baki_khata_app/internal/repositories/localcache"
	"github.com/mdnahid/baki_khata_app/internal/utils"
	"github.com/mdnahid/baki_khata_app/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		DataDir:           "unused",
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "baki-khata-test",
		RemoteTimeout:     time.Second,
	}
}

// APITestSuite exercises the HTTP surface end to end against real
// services backed by a temp-dir cache, with no remote store configured.
type APITestSuite struct {
	suite.Suite
	router   *gin.Engine
	sessions *services.SessionManager
	token    string
	shopID   string
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	dto.RegisterCustomValidators()

	cache, err := localcache.NewFileStore(s.T().TempDir())
	s.Require().NoError(err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig()
	s.sessions = services.NewSessionManager(cache, nil, nil, nil, time.Second, logger)
	svcs := &handlers.Services{
		Sessions: s.sessions,
		Shops:    services.NewShopService(cache, logger),
		Smart:    services.NewSmartEntryService(nil, logger),
	}

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(logger))
	handlers.RegisterRoutes(s.router, cfg, svcs)

	// Register a shop and keep its token for the authenticated calls.
	w := s.request(http.MethodPost, "/api/v1/auth/register", `{"shopName":"Mudir Dokan","pin":"1234"}`, "")
	s.Require().Equal(http.StatusCreated, w.Code)
	var auth dto.AuthResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &auth))
	s.token = auth.Token
	s.shopID = auth.ShopID
}

func (s *APITestSuite) request(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) authed(method, path, body string) *httptest.ResponseRecorder {
	return s.request(method, path, body, s.token)
}

func (s *APITestSuite) settle() {
	s.sessions.Establish(context.Background(), s.shopID).WaitForPropagation()
}

func (s *APITestSuite) TestHealth() {
	w := s.request(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestAuth_LoginAndRejection() {
	w := s.request(http.MethodPost, "/api/v1/auth/login", `{"shopName":"Mudir Dokan","pin":"1234"}`, "")
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodPost, "/api/v1/auth/login", `{"shopName":"Mudir Dokan","pin":"9999"}`, "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestAuth_DuplicateRegistration() {
	w := s.request(http.MethodPost, "/api/v1/auth/register", `{"shopName":"mudir dokan","pin":"5678"}`, "")
	s.Equal(http.StatusConflict, w.Code)
}

func (s *APITestSuite) TestEntries_RequireAuth() {
	w := s.request(http.MethodGet, "/api/v1/entries", "", "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestEntries_CreateListDelete() {
	w := s.authed(http.MethodPost, "/api/v1/entries", `{"name":"Rahim","amount":"500","type":"WALLET_CREDIT"}`)
	s.Require().Equal(http.StatusCreated, w.Code)
	var created dto.EntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	s.Equal("Rahim", created.Name)
	s.Equal("local", created.IDOrigin)
	s.settle()

	w = s.authed(http.MethodGet, "/api/v1/entries", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var listed []dto.EntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	s.Require().Len(listed, 1)

	w = s.authed(http.MethodDelete, "/api/v1/entries/"+created.ID, "")
	s.Equal(http.StatusNoContent, w.Code)
	s.settle()

	w = s.authed(http.MethodDelete, "/api/v1/entries/"+created.ID, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestEntries_RejectsUnknownKind() {
	w := s.authed(http.MethodPost, "/api/v1/entries", `{"name":"Rahim","amount":"500","type":"LOAN"}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestDashboard_Totals() {
	s.authed(http.MethodPost, "/api/v1/entries", `{"name":"Rahim","amount":"500","type":"WALLET_CREDIT"}`)
	s.authed(http.MethodPost, "/api/v1/customers/Rahim/payments", `{"amount":"200"}`)
	s.settle()

	w := s.authed(http.MethodGet, "/api/v1/dashboard", "")
	s.Require().Equal(http.StatusOK, w.Code)

	var totals struct {
		TotalExtended    decimal.Decimal `json:"totalExtended"`
		TotalReceived    decimal.Decimal `json:"totalReceived"`
		TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
		EntryCount       int             `json:"entryCount"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &totals))
	s.True(totals.TotalExtended.Equal(decimal.NewFromInt(500)))
	s.True(totals.TotalReceived.Equal(decimal.NewFromInt(200)))
	s.True(totals.TotalOutstanding.Equal(decimal.NewFromInt(300)))
	s.Equal(2, totals.EntryCount)
}

func (s *APITestSuite) TestCustomers_ListFilterAndDetail() {
	s.authed(http.MethodPost, "/api/v1/entries", `{"name":"Rahim","amount":"500","type":"CASH_CREDIT"}`)
	s.authed(http.MethodPost, "/api/v1/entries", `{"name":"Karim","amount":"700","type":"CASH_CREDIT"}`)
	s.settle()

	w := s.authed(http.MethodGet, "/api/v1/customers?sort=balance", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var folders []dto.FolderResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &folders))
	s.Require().Len(folders, 2)
	s.Equal("Karim", folders[0].Name)

	w = s.authed(http.MethodGet, "/api/v1/customers?q=rah", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &folders))
	s.Require().Len(folders, 1)
	s.Equal("Rahim", folders[0].Name)

	w = s.authed(http.MethodGet, "/api/v1/customers/Rahim", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var detail dto.FolderDetailResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &detail))
	s.Len(detail.Entries, 1)

	w = s.authed(http.MethodGet, "/api/v1/customers/Nobody", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestCustomers_RenameAndDelete() {
	s.authed(http.MethodPost, "/api/v1/entries", `{"name":"Rahim","amount":"500","type":"CASH_CREDIT"}`)
	s.settle()

	w := s.authed(http.MethodPut, "/api/v1/customers/Rahim", `{"newName":"RahimUddin"}`)
	s.Equal(http.StatusOK, w.Code)
	s.settle()

	w = s.authed(http.MethodPut, "/api/v1/customers/Rahim", `{"newName":"Whoever"}`)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.authed(http.MethodDelete, "/api/v1/customers/RahimUddin", "")
	s.Equal(http.StatusOK, w.Code)
	s.settle()

	w = s.authed(http.MethodDelete, "/api/v1/customers/RahimUddin", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestCustomers_SetPhone() {
	s.authed(http.MethodPost, "/api/v1/entries", `{"name":"Rahim","amount":"500","type":"CASH_CREDIT"}`)
	s.settle()

	w := s.authed(http.MethodPut, "/api/v1/customers/Rahim/phone", `{"phone":"01712345678"}`)
	s.Equal(http.StatusNoContent, w.Code)
	s.settle()

	w = s.authed(http.MethodGet, "/api/v1/customers/Rahim", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var detail dto.FolderDetailResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &detail))
	s.Equal("01712345678", detail.Phone)
}

func (s *APITestSuite) TestBackup_ExportImportRoundTrip() {
	s.authed(http.MethodPost, "/api/v1/entries", `{"name":"Rahim","amount":"500","type":"WALLET_CREDIT"}`)
	s.settle()

	w := s.authed(http.MethodGet, "/api/v1/backup/export", "")
	s.Require().Equal(http.StatusOK, w.Code)
	exported := w.Body.String()

	// Wipe the ledger, then restore it from the export.
	s.authed(http.MethodDelete, "/api/v1/customers/Rahim", "")
	s.settle()

	w = s.authed(http.MethodPost, "/api/v1/backup/import", exported)
	s.Require().Equal(http.StatusOK, w.Code)
	s.settle()

	w = s.authed(http.MethodGet, "/api/v1/entries", "")
	var listed []dto.EntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	s.Require().Len(listed, 1)
	s.Equal("Rahim", listed[0].Name)
}

func (s *APITestSuite) TestBackup_ExportCode() {
	w := s.authed(http.MethodGet, "/api/v1/backup/export?format=code", "")
	s.Require().Equal(http.StatusOK, w.Code)

	var body map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.NotEmpty(body["code"])
}

func (s *APITestSuite) TestBackup_ImportRejectsGarbage() {
	w := s.authed(http.MethodPost, "/api/v1/backup/import", "definitely not a backup")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestSync_StatusIdleWithoutRemote() {
	w := s.authed(http.MethodGet, "/api/v1/sync/status", "")
	s.Require().Equal(http.StatusOK, w.Code)

	var status services.SyncStatus
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &status))
	s.Equal(services.SyncIdle, status.State)
}

func (s *APITestSuite) TestSmartEntry_UnavailableWhenNotConfigured() {
	w := s.authed(http.MethodPost, "/api/v1/smart-entry", `{"text":"rahim ke 500 taka"}`)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *APITestSuite) TestLogout_KeepsPersistedLedger() {
	s.authed(http.MethodPost, "/api/v1/entries", `{"name":"Rahim","amount":"500","type":"CASH_CREDIT"}`)
	s.settle()

	w := s.authed(http.MethodPost, "/api/v1/auth/logout", "")
	s.Equal(http.StatusNoContent, w.Code)

	w = s.authed(http.MethodGet, "/api/v1/entries", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var listed []dto.EntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	s.Len(listed, 1)
}

func (s *APITestSuite) TestExpiredTokenRejected() {
	expired := s.expiredToken()
	w := s.request(http.MethodGet, "/api/v1/entries", "", expired)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) expiredToken() string {
	cfg := testConfig()
	token, err := utils.GenerateJWT(s.shopID, cfg.JWTSecret, -time.Minute, cfg.JWTIssuer)
	s.Require().NoError(err)
	return token
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
