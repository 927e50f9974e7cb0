package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/service/customer"
	"storefront/internal/session"
	"storefront/internal/shopify"
)

type stubCustomerService struct {
	loginRes  customer.LoginResult
	loginErr  error
	createRes customer.CustomerResult
	createErr error
	logoutOK  bool
	current   *domain.Customer

	lastLogin     customer.LoginInput
	lastAddressID string
	logoutCalls   int
}

func (s *stubCustomerService) Login(_ context.Context, tokens session.Tokens, in customer.LoginInput) (customer.LoginResult, error) {
	s.lastLogin = in
	if s.loginErr == nil && s.loginRes.AccessToken != "" {
		tokens.Set(s.loginRes.AccessToken, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	return s.loginRes, s.loginErr
}

func (s *stubCustomerService) Create(context.Context, customer.CreateInput) (customer.CustomerResult, error) {
	return s.createRes, s.createErr
}

func (s *stubCustomerService) Logout(_ context.Context, tokens session.Tokens) bool {
	s.logoutCalls++
	tokens.Clear()
	return s.logoutOK
}

func (s *stubCustomerService) Get(_ context.Context, tokens session.Tokens) *domain.Customer {
	if _, ok := tokens.Token(); !ok {
		return nil
	}
	return s.current
}

func (s *stubCustomerService) Update(_ context.Context, tokens session.Tokens, _ customer.UpdateInput) (customer.CustomerResult, error) {
	if _, ok := tokens.Token(); !ok {
		return customer.CustomerResult{Errors: []domain.UserError{domain.NotLoggedIn()}}, nil
	}
	return customer.CustomerResult{Customer: s.current}, nil
}

func (s *stubCustomerService) Recover(context.Context, string) (customer.SuccessResult, error) {
	return customer.SuccessResult{Success: true}, nil
}

func (s *stubCustomerService) Reset(context.Context, session.Tokens, customer.ResetInput) (customer.LoginResult, error) {
	return customer.LoginResult{AccessToken: "tok-r", ExpiresAt: "2030-01-01T00:00:00Z"}, nil
}

func (s *stubCustomerService) CreateAddress(_ context.Context, tokens session.Tokens, in customer.AddressInput) (customer.AddressResult, error) {
	if _, ok := tokens.Token(); !ok {
		return customer.AddressResult{Errors: []domain.UserError{domain.NotLoggedIn()}}, nil
	}
	return customer.AddressResult{Address: &domain.Address{ID: "addr-1", City: in.City}}, nil
}

func (s *stubCustomerService) UpdateAddress(_ context.Context, tokens session.Tokens, id string, _ customer.AddressInput) (customer.AddressResult, error) {
	s.lastAddressID = id
	if _, ok := tokens.Token(); !ok {
		return customer.AddressResult{Errors: []domain.UserError{domain.NotLoggedIn()}}, nil
	}
	return customer.AddressResult{Address: &domain.Address{ID: id}}, nil
}

func (s *stubCustomerService) DeleteAddress(_ context.Context, _ session.Tokens, id string) (customer.DeleteAddressResult, error) {
	return customer.DeleteAddressResult{Success: true, DeletedAddressID: id}, nil
}

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	return out
}

func TestLogin_Success(t *testing.T) {
	svc := &stubCustomerService{loginRes: customer.LoginResult{AccessToken: "tok-1", ExpiresAt: "2030-01-01T00:00:00Z"}}
	router := newTestRouter(t, Deps{CustomerSvc: svc, SecureCookies: true})

	rec := serve(router, http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec.Body.String())
	if body["success"] != true || body["accessToken"] != "tok-1" || body["expiresAt"] != "2030-01-01T00:00:00Z" {
		t.Fatalf("unexpected body %v", body)
	}
	cookie := rec.Header().Get("Set-Cookie")
	for _, want := range []string{"customerAccessToken=tok-1", "HttpOnly", "Secure", "SameSite=Strict", "Path=/"} {
		if !strings.Contains(cookie, want) {
			t.Fatalf("expected %q in cookie %q", want, cookie)
		}
	}
	if svc.lastLogin.Email != "a@b.com" {
		t.Fatalf("unexpected login input %+v", svc.lastLogin)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	router := newTestRouter(t, Deps{CustomerSvc: &stubCustomerService{}})
	rec := serve(router, http.MethodPost, "/api/auth/login", `{"email":"a@b.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec.Body.String()); body["error"] != msgCredentialsRequired {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestLogin_UserError(t *testing.T) {
	svc := &stubCustomerService{loginRes: customer.LoginResult{Errors: []domain.UserError{
		{Message: "Unidentified customer", Code: "UNIDENTIFIED_CUSTOMER"},
		{Message: "second"},
	}}}
	rec := serve(newTestRouter(t, Deps{CustomerSvc: svc}), http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"pw"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec.Body.String()); body["error"] != "Unidentified customer" {
		t.Fatalf("unexpected body %v", body)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatalf("expected no cookie on failed login")
	}
}

func TestLogin_UpstreamError(t *testing.T) {
	svc := &stubCustomerService{loginErr: &shopify.Error{Cause: shopify.CauseTransport, Status: 500, Message: "connection refused"}}
	rec := serve(newTestRouter(t, Deps{CustomerSvc: svc}), http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"pw"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec.Body.String()); body["error"] != "connection refused" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestRegister(t *testing.T) {
	svc := &stubCustomerService{createRes: customer.CustomerResult{Customer: &domain.Customer{ID: "gid://shopify/Customer/9"}}}
	rec := serve(newTestRouter(t, Deps{CustomerSvc: svc}), http.MethodPost, "/api/auth/register", `{"email":"a@b.com","password":"pw","firstName":"Ada"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec.Body.String()); body["success"] != true || body["customerId"] != "gid://shopify/Customer/9" {
		t.Fatalf("unexpected body %v", body)
	}

	rec = serve(newTestRouter(t, Deps{CustomerSvc: svc}), http.MethodPost, "/api/auth/register", `{"password":"pw"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec.Body.String())
	details, _ := body["details"].([]any)
	if body["error"] != msgCredentialsRequired || len(details) != 1 || details[0] != "email is required" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestRegister_UpstreamErrorFallback(t *testing.T) {
	svc := &stubCustomerService{createErr: &shopify.Error{Cause: shopify.CauseUnknown, Status: 500}}
	rec := serve(newTestRouter(t, Deps{CustomerSvc: svc}), http.MethodPost, "/api/auth/register", `{"email":"a@b.com","password":"pw"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec.Body.String()); body["error"] != "Registration failed" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestDispatch(t *testing.T) {
	svc := &stubCustomerService{loginRes: customer.LoginResult{Errors: []domain.UserError{{Message: "Unidentified customer"}}}}
	router := newTestRouter(t, Deps{CustomerSvc: svc})

	rec := serve(router, http.MethodPost, "/api/auth", `{"action":"fly"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec.Body.String()); body["error"] != "Invalid action" {
		t.Fatalf("unexpected body %v", body)
	}

	rec = serve(router, http.MethodPost, "/api/auth", `{"action":"login","email":"a@b.com","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected user errors as data with 200, got %d", rec.Code)
	}
	if svc.lastLogin.Email != "a@b.com" || svc.lastLogin.Password != "pw" {
		t.Fatalf("expected params to reach login, got %+v", svc.lastLogin)
	}
	body := decodeBody(t, rec.Body.String())
	if errs, _ := body["errors"].([]any); len(errs) != 1 {
		t.Fatalf("unexpected body %v", body)
	}

	rec = serve(router, http.MethodPost, "/api/auth", `{"action":"logout"}`)
	if rec.Code != http.StatusOK || decodeBody(t, rec.Body.String())["success"] != true {
		t.Fatalf("expected logout success, got %d %s", rec.Code, rec.Body.String())
	}
	if svc.logoutCalls != 1 {
		t.Fatalf("expected logout to reach the service")
	}

	rec = serve(router, http.MethodPost, "/api/auth", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	svc := &stubCustomerService{logoutOK: false}
	rec := serve(newTestRouter(t, Deps{CustomerSvc: svc}), http.MethodPost, "/api/auth/logout", "", "Cookie", "customerAccessToken=tok-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec.Body.String()); body["success"] != false {
		t.Fatalf("expected success=false, got %v", body)
	}
	if cookie := rec.Header().Get("Set-Cookie"); !strings.Contains(cookie, "customerAccessToken=;") || !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected cleared cookie, got %q", cookie)
	}
}

func TestGetCustomer(t *testing.T) {
	svc := &stubCustomerService{current: &domain.Customer{ID: "c1", Email: "a@b.com"}}
	router := newTestRouter(t, Deps{CustomerSvc: svc})

	rec := serve(router, http.MethodGet, "/api/auth", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"customer":null}` {
		t.Fatalf("expected null customer, got %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(router, http.MethodGet, "/api/auth", "", "Cookie", "customerAccessToken=tok-1")
	if !strings.Contains(rec.Body.String(), `"id":"c1"`) {
		t.Fatalf("expected customer, got %s", rec.Body.String())
	}
}

func TestAddresses(t *testing.T) {
	svc := &stubCustomerService{}
	router := newTestRouter(t, Deps{CustomerSvc: svc})

	rec := serve(router, http.MethodPut, "/api/account/addresses/addr-1", `{"city":"Paris"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without login, got %d", rec.Code)
	}
	if body := decodeBody(t, rec.Body.String()); body["error"] != domain.MsgNotLoggedIn {
		t.Fatalf("unexpected body %v", body)
	}

	rec = serve(router, http.MethodPut, "/api/account/addresses/gid:%2F%2Fshopify%2FMailingAddress%2F7", `{"city":"Paris"}`, "Cookie", "customerAccessToken=tok")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if svc.lastAddressID != "gid://shopify/MailingAddress/7" {
		t.Fatalf("expected unescaped id, got %q", svc.lastAddressID)
	}

	rec = serve(router, http.MethodPost, "/api/account/addresses", `{"city":"Lyon"}`, "Cookie", "customerAccessToken=tok")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"customerAddress":{"id":"addr-1","city":"Lyon"}`) {
		t.Fatalf("unexpected create response %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(router, http.MethodDelete, "/api/account/addresses/addr-1", "", "Cookie", "customerAccessToken=tok")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"deletedCustomerAddressId":"addr-1"`) {
		t.Fatalf("unexpected delete response %d %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateAccount_RequiresLogin(t *testing.T) {
	rec := serve(newTestRouter(t, Deps{CustomerSvc: &stubCustomerService{}}), http.MethodPut, "/api/account", `{"firstName":"Ada"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecoverAndReset(t *testing.T) {
	router := newTestRouter(t, Deps{CustomerSvc: &stubCustomerService{}})

	if rec := serve(router, http.MethodPost, "/api/auth/recover", `{"email":"not-an-email"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodPost, "/api/auth/recover", `{"email":"a@b.com"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec := serve(router, http.MethodPost, "/api/auth/reset", `{"id":"c1","resetToken":"rt","password":"pw"}`)
	if rec.Code != http.StatusOK || decodeBody(t, rec.Body.String())["accessToken"] != "tok-r" {
		t.Fatalf("unexpected reset response %d %s", rec.Code, rec.Body.String())
	}
	if rec := serve(router, http.MethodPost, "/api/auth/reset", `{"id":"c1"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", rec.Code)
	}
}
