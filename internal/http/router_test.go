package api

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"transitcrm/internal/apiclient"
	"transitcrm/internal/apiclient/apitest"
	"transitcrm/internal/domain/models"
	h "transitcrm/internal/http/handlers"
	"transitcrm/internal/services"
	"transitcrm/internal/session"
	"transitcrm/internal/web"
)

type harness struct {
	t       *testing.T
	api     *apitest.Server
	engine  *gin.Engine
	cookies []*http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	store, err := session.NewCookieStore([]byte("0123456789abcdef0123"), session.CookieOptions{})
	if err != nil {
		t.Fatalf("NewCookieStore: %v", err)
	}
	pages, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	client := apiclient.New(srv.URL, apitest.APIKey, 5*time.Second)
	search := services.SearchService{API: client}
	console := &h.Console{
		Sessions:   session.NewManager(store, time.Hour),
		Auth:       services.AuthService{API: client},
		Customers:  services.CustomerService{API: client},
		Cards:      services.CardService{API: client},
		Trips:      services.TripService{API: client},
		Cases:      services.CaseService{API: client},
		Taps:       services.TapService{API: client},
		Disputes:   services.DisputeService{API: client},
		Search:     search,
		Register:   services.RegisterService{API: client},
		Statements: services.StatementService{Search: search},
	}
	return &harness{t: t, api: srv, engine: NewRouter(console, pages)}
}

func (hs *harness) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	hs.t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range hs.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	hs.engine.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		hs.setCookie(c)
	}
	return rec
}

func (hs *harness) setCookie(c *http.Cookie) {
	kept := hs.cookies[:0]
	for _, old := range hs.cookies {
		if old.Name != c.Name {
			kept = append(kept, old)
		}
	}
	hs.cookies = kept
	if c.MaxAge >= 0 && c.Value != "" {
		hs.cookies = append(hs.cookies, c)
	}
}

func (hs *harness) login() {
	hs.t.Helper()
	hs.api.AddUser("ada@example.com", "secret", "Ada")
	rec := hs.do(http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		hs.t.Fatalf("login = %d %q, body %s", rec.Code, rec.Header().Get("Location"), rec.Body.String())
	}
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, path string) url.Values {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body %s", rec.Code, rec.Body.String())
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.Path != path {
		t.Fatalf("redirect to %q, want %q", loc.Path, path)
	}
	return loc.Query()
}

func TestGuardsRedirectByAuthState(t *testing.T) {
	hs := newHarness(t)

	expectRedirect(t, hs.do(http.MethodGet, "/customers", nil), "/login")
	expectRedirect(t, hs.do(http.MethodGet, "/no-such-page", nil), "/login")
	if rec := hs.do(http.MethodGet, "/login", nil); rec.Code != http.StatusOK {
		t.Fatalf("GET /login = %d", rec.Code)
	}

	hs.login()
	expectRedirect(t, hs.do(http.MethodGet, "/login", nil), "/")
	expectRedirect(t, hs.do(http.MethodGet, "/no-such-page", nil), "/")

	rec := hs.do(http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Welcome, Ada") {
		t.Fatalf("home = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Search and view detailed product information") {
		t.Fatalf("home is missing the quick cards")
	}

	expectRedirect(t, hs.do(http.MethodPost, "/logout", nil), "/login")
	expectRedirect(t, hs.do(http.MethodGet, "/", nil), "/login")
}

func TestLoginFailures(t *testing.T) {
	hs := newHarness(t)
	hs.api.AddUser("ada@example.com", "secret", "Ada")

	rec := hs.do(http.MethodPost, "/login", url.Values{"email": {"not-an-email"}, "password": {""}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Please enter a valid email address", "Password is required"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	rec = hs.do(http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}})
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid email or password") {
		t.Fatalf("bad password = %d", rec.Code)
	}
	if len(hs.cookies) != 0 {
		t.Fatalf("failed login set a session cookie")
	}
}

func TestSignupSignsIn(t *testing.T) {
	hs := newHarness(t)
	rec := hs.do(http.MethodPost, "/signup", url.Values{"name": {"Grace"}, "email": {"grace@example.com"}, "password": {"pw"}})
	expectRedirect(t, rec, "/")
	if rec := hs.do(http.MethodGet, "/", nil); !strings.Contains(rec.Body.String(), "Welcome, Grace") {
		t.Fatalf("signup did not sign in")
	}
}

func TestCustomerCreateShowsNotice(t *testing.T) {
	hs := newHarness(t)
	hs.login()

	rec := hs.do(http.MethodPost, "/customers", url.Values{
		"name": {"Linus"}, "email": {"linus@example.com"}, "phone": {"555"}, "notifications": {"SMS Enabled"},
	})
	q := expectRedirect(t, rec, "/customers")
	if q.Get("notice") != "Customer created successfully" {
		t.Fatalf("notice = %q", q.Get("notice"))
	}

	rec = hs.do(http.MethodGet, "/customers?notice="+url.QueryEscape(q.Get("notice")), nil)
	body := rec.Body.String()
	if !strings.Contains(body, "linus@example.com") || !strings.Contains(body, "Customer created successfully") {
		t.Fatalf("list is missing the new customer or the toast: %s", body)
	}
}

func TestCustomerValidationRerenders(t *testing.T) {
	hs := newHarness(t)
	hs.login()

	rec := hs.do(http.MethodPost, "/customers", url.Values{"name": {"Linus"}, "email": {"nope"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Please enter a valid email address", "Phone is required", "Validation Error: Please fix the errors in the form"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if hs.api.Calls("POST /customers/") != 0 {
		t.Fatalf("invalid form reached the API")
	}
}

func TestProductBalanceValidationAndAPIFailure(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	hs.api.AddCustomer(models.Customer{ID: "CU1", Name: "Ada"})

	rec := hs.do(http.MethodPost, "/products", url.Values{
		"id": {"C1"}, "type": {"Adult"}, "status": {"Active"}, "balance": {"-1"}, "customer_id": {"CU1"},
	})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Balance cannot be negative") {
		t.Fatalf("negative balance = %d", rec.Code)
	}

	hs.api.FailWith(http.StatusInternalServerError)
	rec = hs.do(http.MethodPost, "/products", url.Values{
		"id": {"C1"}, "type": {"Adult"}, "status": {"Active"}, "balance": {"5"}, "customer_id": {"CU1"},
	})
	if got := expectRedirect(t, rec, "/products").Get("error"); got != "Error creating product" {
		t.Fatalf("error = %q", got)
	}
}

func TestProductBlockToggle(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	hs.api.AddCustomer(models.Customer{ID: "CU1", Name: "Ada"})
	hs.api.AddCard(models.Card{ID: "C1", Type: "Adult", Status: "Active", CustomerID: "CU1"})

	if got := expectRedirect(t, hs.do(http.MethodPost, "/products/C1/block", nil), "/products/C1").Get("notice"); got != "Card blocked" {
		t.Fatalf("notice = %q", got)
	}
	if card, _ := hs.api.Card("C1"); card.Status != "Blocked" {
		t.Fatalf("status = %q", card.Status)
	}
	if got := expectRedirect(t, hs.do(http.MethodPost, "/products/C1/block", nil), "/products/C1").Get("notice"); got != "Card unblocked" {
		t.Fatalf("notice = %q", got)
	}

	rec := hs.do(http.MethodGet, "/products/C1", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Block Card") {
		t.Fatalf("details = %d", rec.Code)
	}
	if rec := hs.do(http.MethodGet, "/products/NOPE", nil); rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), services.MsgProductNotFound) {
		t.Fatalf("missing product = %d", rec.Code)
	}
}

func TestProductSearchAndStatement(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	hs.api.AddCustomer(models.Customer{ID: "CU1", Name: "Ada", Email: "ada@example.com"})
	hs.api.AddCard(models.Card{ID: "C1", Type: "Adult", Status: "Active", CustomerID: "CU1"})

	if rec := hs.do(http.MethodGet, "/product-search?q=", nil); !strings.Contains(rec.Body.String(), services.MsgEnterProduct) {
		t.Fatalf("empty search did not ask for a product number")
	}
	if rec := hs.do(http.MethodGet, "/product-search?q=C1", nil); !strings.Contains(rec.Body.String(), "ada@example.com") {
		t.Fatalf("search did not show the customer")
	}

	rec := hs.do(http.MethodGet, "/products/C1/statement.pdf", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("statement = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("statement body is not a PDF")
	}
}

func TestPurchasesHideReadOnlyTrips(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	hs.api.AddTrip(models.Trip{ID: "RID9", CardID: "C1", StartTime: "2024-06-01T08:00:00", Route: "R-secret", Fare: 2})
	hs.api.AddTrip(models.Trip{ID: "T1", CardID: "C1", StartTime: "2024-06-02T08:00:00", Route: "R-open", Fare: 3})

	body := hs.do(http.MethodGet, "/purchases", nil).Body.String()
	if strings.Contains(body, "R-secret") || !strings.Contains(body, "R-open") {
		t.Fatalf("read-only route leaked or open route missing")
	}
	if strings.Contains(body, "/purchases?edit=RID9") || !strings.Contains(body, "/purchases?edit=T1") {
		t.Fatalf("edit links wrong")
	}
	expectRedirect(t, hs.do(http.MethodGet, "/purchases?edit=RID9", nil), "/purchases")
	if got := expectRedirect(t, hs.do(http.MethodPost, "/purchases/RID9/delete", nil), "/purchases").Get("error"); got != "Error deleting trip" {
		t.Fatalf("error = %q", got)
	}
}

func TestTripDisputeDialog(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	hs.api.AddTrip(models.Trip{ID: "T1", CardID: "C1", StartTime: "2024-06-02T08:00:00", Fare: 3.5})

	body := hs.do(http.MethodGet, "/purchases?dispute=T1", nil).Body.String()
	if !strings.Contains(body, `value="2024-06-02"`) || !strings.Contains(body, `value="3.5"`) {
		t.Fatalf("dispute dialog not pre-filled: %s", body)
	}

	rec := hs.do(http.MethodPost, "/purchases/T1/dispute", url.Values{
		"dispute_date": {"2024-06-02"}, "amount": {"3.5"}, "description": {"double charge"}, "dispute_type": {"Overcharge"},
	})
	if got := expectRedirect(t, rec, "/purchases").Get("notice"); got != "Fare dispute submitted" {
		t.Fatalf("notice = %q", got)
	}
	disputes := hs.api.DisputeList()
	if len(disputes) != 1 || disputes[0].TripID != "T1" || disputes[0].CardID != "C1" {
		t.Fatalf("disputes = %+v", disputes)
	}
}

func TestFareDisputeAddValidation(t *testing.T) {
	hs := newHarness(t)
	hs.login()

	rec := hs.do(http.MethodPost, "/fare-disputes", url.Values{"amount": {"0"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Validation Error: Please fill in all required fields", "Amount must be greater than 0", "Card ID is required"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	hs.api.AddDispute(models.FareDispute{ID: 7, CardID: "C1", Amount: 2, TripID: "T1"})
	body = hs.do(http.MethodGet, "/fare-disputes?confirm_delete=7", nil).Body.String()
	if !strings.Contains(body, services.DeleteConfirmText) || !strings.Contains(body, "/fare-disputes/7/delete") {
		t.Fatalf("confirmation dialog missing")
	}
	if got := expectRedirect(t, hs.do(http.MethodPost, "/fare-disputes/7/delete", nil), "/fare-disputes").Get("notice"); got != "Dispute deleted" {
		t.Fatalf("notice = %q", got)
	}
}

func TestCaseUpdateKeepsLastUpdated(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	hs.api.AddCustomer(models.Customer{ID: "CU1", Name: "Ada"})
	hs.api.AddCard(models.Card{ID: "C1", CustomerID: "CU1"})
	hs.api.AddCase(models.Case{ID: "CASE1", CustomerID: "CU1", CardID: "C1", CaseStatus: "Open", Priority: "High",
		Category: "Billing", AssignedAgent: "Agent 1", Notes: "n", CreatedDate: "2024-01-01T00:00:00Z", LastUpdated: "2024-01-02T00:00:00Z"})

	body := hs.do(http.MethodGet, "/service-request?edit=CASE1", nil).Body.String()
	if !strings.Contains(body, `name="last_updated" value="2024-01-02T00:00:00Z"`) {
		t.Fatalf("edit form lacks the hidden last_updated")
	}

	rec := hs.do(http.MethodPost, "/service-request/CASE1", url.Values{
		"customer_id": {"CU1"}, "card_id": {"C1"}, "category": {"Billing"}, "case_status": {"Resolved"},
		"priority": {"High"}, "assigned_agent": {"Agent 1"}, "notes": {"done"}, "last_updated": {"2024-01-02T00:00:00Z"},
	})
	if got := expectRedirect(t, rec, "/service-request").Get("notice"); got != "Case updated successfully" {
		t.Fatalf("notice = %q", got)
	}
	cases := hs.api.CaseList()
	if len(cases) != 1 || cases[0].CaseStatus != "Resolved" || cases[0].LastUpdated != "2024-01-02T00:00:00Z" {
		t.Fatalf("cases = %+v", cases)
	}
}

func TestRegisterProduct(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	hs.api.AddCustomer(models.Customer{ID: "CU1", Name: "Ada"})

	if body := hs.do(http.MethodGet, "/register-product", nil).Body.String(); !strings.Contains(body, "CU1 - Ada") {
		t.Fatalf("customer choice missing")
	}
	rec := hs.do(http.MethodPost, "/register-product", url.Values{
		"id": {"P1"}, "type": {"Bank Card"}, "issue_date": {"2024-06-01T10:00"}, "customer_id": {"CU1"},
	})
	if got := expectRedirect(t, rec, "/products").Get("notice"); got != "Product registered!" {
		t.Fatalf("notice = %q", got)
	}
	card, ok := hs.api.Card("P1")
	if !ok || card.Status != "Active" || card.Balance != 0 {
		t.Fatalf("card = %+v", card)
	}
}

func TestLookupCards(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	hs.api.AddCard(models.Card{ID: "C1", CustomerID: "CU1"})
	hs.api.AddCard(models.Card{ID: "C2", CustomerID: "CU2"})
	hs.api.AddCard(models.Card{ID: "C3", CustomerID: "CU1"})

	rec := hs.do(http.MethodGet, "/api/lookups/cards?customer_id=CU1", nil)
	var got struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"C1", "C3"}, got.Data); diff != "" {
		t.Fatalf("cards (-want +got):\n%s", diff)
	}

	rec = hs.do(http.MethodGet, "/api/lookups/cards", nil)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "missing_customer_id") {
		t.Fatalf("missing customer_id = %d %s", rec.Code, rec.Body.String())
	}
}

func TestSystemEndpoints(t *testing.T) {
	hs := newHarness(t)

	rec := hs.do(http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID")
	}
	if rec := hs.do(http.MethodGet, "/api/routes", nil); !strings.Contains(rec.Body.String(), "/fare-disputes/:id/delete") {
		t.Fatalf("routes listing incomplete")
	}
	if rec := hs.do(http.MethodGet, "/static/console.css", nil); rec.Code != http.StatusOK {
		t.Fatalf("static = %d", rec.Code)
	}
}

func TestProductEditKeepsIssueDate(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	hs.api.AddCustomer(models.Customer{ID: "CU1", Name: "Ada"})
	hs.api.AddCard(models.Card{ID: "C1", Type: "Adult", Status: "Active", Balance: 5, IssueDate: "2024-01-02T03:04:05", CustomerID: "CU1"})

	rec := hs.do(http.MethodPost, "/products/C1", url.Values{
		"id": {"C1"}, "type": {"Student"}, "status": {"Active"}, "balance": {"7.5"}, "customer_id": {"CU1"},
	})
	if got := expectRedirect(t, rec, "/products").Get("notice"); got != "Product updated successfully" {
		t.Fatalf("notice = %q", got)
	}
	got, _ := hs.api.Card("C1")
	want := models.Card{ID: "C1", Type: "Student", Status: "Active", Balance: 7.5, IssueDate: "2024-01-02T03:04:05", CustomerID: "CU1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("card after edit (-want +got):\n%s", diff)
	}
}

func TestProductEditOfMissingCard(t *testing.T) {
	hs := newHarness(t)
	hs.login()

	rec := hs.do(http.MethodPost, "/products/NOPE", url.Values{
		"id": {"NOPE"}, "type": {"Adult"}, "status": {"Active"}, "balance": {"1"}, "customer_id": {"CU1"},
	})
	if got := expectRedirect(t, rec, "/products").Get("error"); got != "Error updating product" {
		t.Fatalf("error = %q", got)
	}
	if n := hs.api.Calls("PUT /cards/NOPE"); n != 0 {
		t.Fatalf("PUT sent %d times", n)
	}
}

func TestCustomerEditKeepsJoinDate(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	hs.api.AddCustomer(models.Customer{ID: "CU1", Name: "Ada", Email: "ada@example.com", Phone: "1",
		Notifications: "SMS Enabled", JoinDate: "2023-05-06T07:08:09"})

	rec := hs.do(http.MethodPost, "/customers/CU1", url.Values{
		"name": {"Ada L."}, "email": {"ada@example.com"}, "phone": {"2"}, "notifications": {"Email Enabled"},
	})
	if got := expectRedirect(t, rec, "/customers").Get("notice"); got != "Customer updated successfully" {
		t.Fatalf("notice = %q", got)
	}
	got, _ := hs.api.Customer("CU1")
	want := models.Customer{ID: "CU1", Name: "Ada L.", Email: "ada@example.com", Phone: "2",
		Notifications: "Email Enabled", JoinDate: "2023-05-06T07:08:09"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("customer after edit (-want +got):\n%s", diff)
	}
}

func TestTripEditRoundTrip(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	stored := models.Trip{ID: "T1", CardID: "C1", StartTime: "2024-06-02T08:00:00", EndTime: "2024-06-02T08:30:00",
		EntryLocation: "Downtown", ExitLocation: "Stadium", Fare: 3.5, Route: "R1", Operator: "City Bus",
		TransitMode: "Bus", Adjustable: "No"}
	hs.api.AddTrip(stored)
	hs.api.AddTrip(models.Trip{ID: "RID1", CardID: "C1", StartTime: "2024-06-01T08:00:00", Fare: 2})

	rec := hs.do(http.MethodPost, "/purchases/T1", url.Values{"route": {"R2"}, "fare": {"4"}})
	if got := expectRedirect(t, rec, "/purchases").Get("notice"); got != "Trip updated" {
		t.Fatalf("notice = %q", got)
	}
	want := stored
	want.Route = "R2"
	want.Fare = 4
	got, _ := hs.api.Trip("T1")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trip after edit (-want +got):\n%s", diff)
	}

	rec = hs.do(http.MethodPost, "/purchases/RID1", url.Values{"route": {"R9"}})
	if got := expectRedirect(t, rec, "/purchases").Get("error"); got != "Error updating trip" {
		t.Fatalf("read-only edit error = %q", got)
	}
	if n := hs.api.Calls("PUT /trips/RID1"); n != 0 {
		t.Fatalf("read-only trip PUT sent %d times", n)
	}
}

func TestTapEditRoundTrip(t *testing.T) {
	hs := newHarness(t)
	hs.login()
	stored := models.TapHistory{ID: "TAP1", TapTime: "2024-06-02T08:00:00", Location: "Downtown", DeviceID: "D1",
		TransitMode: "Bus", Direction: "Entry", CustomerID: "CU1", Result: "Success"}
	hs.api.AddTap(stored)

	rec := hs.do(http.MethodPost, "/transaction-history/TAP1", url.Values{"result": {"Failed"}})
	if got := expectRedirect(t, rec, "/transaction-history").Get("notice"); got != "Tap record updated" {
		t.Fatalf("notice = %q", got)
	}
	want := stored
	want.Result = "Failed"
	got, _ := hs.api.Tap("TAP1")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tap after edit (-want +got):\n%s", diff)
	}
}

func TestAccessLogFollowsLoginAndLogout(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	hs := newHarness(t)
	hs.login()
	hs.do(http.MethodPost, "/logout", nil)

	var loginLine, logoutLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.Contains(line, "[HTTP]") && strings.Contains(line, "path=/login "):
			loginLine = line
		case strings.Contains(line, "[HTTP]") && strings.Contains(line, "path=/logout "):
			logoutLine = line
		}
	}
	if !strings.HasSuffix(loginLine, "auth=true") {
		t.Fatalf("login access line = %q", loginLine)
	}
	if !strings.HasSuffix(logoutLine, "auth=false") {
		t.Fatalf("logout access line = %q", logoutLine)
	}
}
