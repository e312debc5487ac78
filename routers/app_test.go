package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"djisr/config"
	"djisr/models"
	"djisr/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func (cl client) do(req *http.Request, token string) (int, envelope) {
	cl.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(cl.t, err)
	var env envelope
	require.NoError(cl.t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func (cl client) json(method, path, token string, body interface{}) (int, envelope) {
	cl.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(cl.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return cl.do(req, token)
}

func (cl client) multipart(method, path, token string, fields map[string]string, files map[string]string) (int, envelope) {
	cl.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(cl.t, w.WriteField(k, v))
	}
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+".pdf")
		require.NoError(cl.t, err)
		_, err = part.Write([]byte(content))
		require.NoError(cl.t, err)
	}
	require.NoError(cl.t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return cl.do(req, token)
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func signupStartup(t *testing.T, cl client, email string) authData {
	t.Helper()
	status, env := cl.multipart(http.MethodPost, "/auth/signup/startup", "", map[string]string{
		"email":               email,
		"password":            "founderpass",
		"companyName":         "AgriFlow",
		"founderName":         "Amina Khelifi",
		"sector":              "agritech",
		"numFounders":         "2",
		"hasTechnicalFounder": "true",
		"experienceYears":     "6.5",
		"monthlyUsers":        "1200",
	}, map[string]string{"pitchDeck": "%PDF-agriflow"})
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	var data authData
	decode(t, env, &data)
	require.NotEmpty(t, data.Token)
	assert.Equal(t, models.RoleStartup, data.User.Role)
	return data
}

func signupInvestor(t *testing.T, cl client, email string) authData {
	t.Helper()
	status, env := cl.json(http.MethodPost, "/auth/signup/investor", "", map[string]string{
		"email": email, "password": "investorpass", "fullName": "Sarah Benali",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	var data authData
	decode(t, env, &data)
	assert.Equal(t, models.RoleInvestor, data.User.Role)
	return data
}

func TestSignupAndLogin(t *testing.T) {
	db := testutil.UseTestDB(t)
	cl := client{t: t, app: NewApp()}

	startup := signupStartup(t, cl, "Founder@AgriFlow.dz")
	signupInvestor(t, cl, "sarah@capital.dz")

	var stored models.Startup
	require.NoError(t, db.First(&stored, startup.User.ID).Error)
	assert.Equal(t, "founder@agriflow.dz", stored.Email)
	assert.Equal(t, 2, stored.NumFounders)
	assert.True(t, stored.HasTechnicalFounder)
	assert.Equal(t, 6.5, stored.ExperienceYears)
	assert.Equal(t, "New Startup Pitch", stored.Description)
	assert.True(t, strings.HasPrefix(stored.PitchDeckURL, "/uploads/pitch-decks/"))
	assert.NotEqual(t, "founderpass", stored.Password)

	status, env := cl.json(http.MethodPost, "/auth/signup/investor", "", map[string]string{
		"email": "sarah@capital.dz", "password": "investorpass", "fullName": "Again",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.False(t, env.Status)

	status, env = cl.json(http.MethodPost, "/auth/signup/investor", "", map[string]string{
		"email": "not-an-email", "password": "short",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	var fieldErrors map[string]string
	decode(t, env, &fieldErrors)
	assert.Contains(t, fieldErrors, "email")
	assert.Contains(t, fieldErrors, "password")
	assert.Contains(t, fieldErrors, "fullName")

	status, _ = cl.json(http.MethodPost, "/auth/login", "", map[string]string{"email": "nobody@x.dz", "password": "whatever"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = cl.json(http.MethodPost, "/auth/login", "", map[string]string{"email": "sarah@capital.dz", "password": "wrongpass"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = cl.json(http.MethodPost, "/auth/login", "", map[string]string{"email": "founder@agriflow.dz", "password": "founderpass"})
	require.Equal(t, fiber.StatusOK, status)
	var login authData
	decode(t, env, &login)
	assert.Equal(t, models.RoleStartup, login.User.Role)
	assert.Equal(t, startup.User.ID, login.User.ID)

	var tracked int64
	require.NoError(t, db.Model(&models.LoginTracking{}).Where("user_id = ? AND role = ?", startup.User.ID, models.RoleStartup).Count(&tracked).Error)
	assert.Equal(t, int64(1), tracked)

	req := httptest.NewRequest(http.MethodGet, "/auth/login/history?page=1&limit=10", nil)
	status, env = cl.do(req, login.Token)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var history struct {
		LoginTracking []models.LoginTracking `json:"loginTracking"`
		Pagination    struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decode(t, env, &history)
	assert.Equal(t, int64(1), history.Pagination.Total)
	require.Len(t, history.LoginTracking, 1)
	assert.Equal(t, models.RoleStartup, history.LoginTracking[0].Role)

	status, _ = cl.do(httptest.NewRequest(http.MethodGet, "/auth/login/history?limit=500", nil), login.Token)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func loginFrom(t *testing.T, cl client, email, password, forwardedFor string) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	status, env := cl.do(req, "")
	require.Equal(t, fiber.StatusOK, status, env.Message)
}

func TestLoginIPTrustsForwardedForFromTrustedProxiesOnly(t *testing.T) {
	db := testutil.UseTestDB(t)
	cl := client{t: t, app: NewApp()}
	investor := signupInvestor(t, cl, "sarah@capital.dz")

	loginFrom(t, cl, "sarah@capital.dz", "investorpass", "203.0.113.9")

	config.AppConfig.TrustedProxies = []string{"0.0.0.0/0"}
	cl = client{t: t, app: NewApp()}
	loginFrom(t, cl, "sarah@capital.dz", "investorpass", "203.0.113.9")

	var logins []models.LoginTracking
	require.NoError(t, db.Where("user_id = ? AND role = ?", investor.User.ID, models.RoleInvestor).
		Order("id ASC").Find(&logins).Error)
	require.Len(t, logins, 2)
	assert.NotEqual(t, "203.0.113.9", logins[0].IPAddress)
	assert.Equal(t, "203.0.113.9", logins[1].IPAddress)
}

func TestFailedStartupSignupRemovesUploads(t *testing.T) {
	db := testutil.UseTestDB(t)
	cl := client{t: t, app: NewApp()}
	require.NoError(t, db.Migrator().DropTable(&models.Startup{}))

	status, _ := cl.multipart(http.MethodPost, "/auth/signup/startup", "", map[string]string{
		"email":       "founder@agriflow.dz",
		"password":    "founderpass",
		"companyName": "AgriFlow",
		"founderName": "Amina Khelifi",
		"sector":      "agritech",
	}, map[string]string{"pitchDeck": "%PDF-agriflow", "logo": "png"})
	assert.Equal(t, fiber.StatusInternalServerError, status)

	var stored []string
	require.NoError(t, filepath.Walk(config.AppConfig.UploadDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			stored = append(stored, path)
		}
		return err
	}))
	assert.Empty(t, stored)
}

func TestNegotiationOverHTTP(t *testing.T) {
	db := testutil.UseTestDB(t)
	cl := client{t: t, app: NewApp()}

	startup := signupStartup(t, cl, "founder@agriflow.dz")
	investor := signupInvestor(t, cl, "sarah@capital.dz")

	// Authentication and role guards
	status, _ := cl.json(http.MethodPost, "/deals/create", "", map[string]interface{}{"amountRequested": 1})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = cl.json(http.MethodPost, "/deals/create", investor.Token, map[string]interface{}{
		"amountRequested": 10000000, "equityOffered": 10, "offerType": "EQUITY",
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env := cl.json(http.MethodPost, "/deals/create", startup.Token, map[string]interface{}{
		"amountRequested": 10000000, "offerType": "EQUITY",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	// The AI service is unreachable in tests, so the fallback score applies.
	status, env = cl.json(http.MethodPost, "/deals/create", startup.Token, map[string]interface{}{
		"amountRequested": 10000000, "equityOffered": 10, "offerType": "EQUITY",
		"riskScore": 1,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var deal models.FundingRequest
	decode(t, env, &deal)
	assert.Equal(t, 50, deal.RiskScore)
	assert.Equal(t, models.RiskMedium, deal.RiskLevel)
	assert.True(t, deal.IsActive)

	status, env = cl.json(http.MethodGet, "/deals/feed", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var feed []map[string]interface{}
	decode(t, env, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "AgriFlow", feed[0]["startup"].(map[string]interface{})["companyName"])

	status, env = cl.json(http.MethodPost, "/investor/make-offer", investor.Token, map[string]interface{}{
		"fundingRequestId": 0, "proposedAmount": 9000000, "proposedEquity": 8,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid Funding Request ID", env.Message)

	status, _ = cl.json(http.MethodPost, "/investor/make-offer", investor.Token, map[string]interface{}{
		"fundingRequestId": 9999, "proposedAmount": 9000000, "proposedEquity": 8,
	})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env = cl.json(http.MethodPost, "/investor/make-offer", investor.Token, map[string]interface{}{
		"fundingRequestId": deal.ID, "proposedAmount": 9000000, "proposedEquity": 8,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var offer models.InvestmentOffer
	decode(t, env, &offer)
	assert.Equal(t, models.OfferPending, offer.Status)

	// Same investor, same deal, through the alias route and with a string id.
	status, env = cl.json(http.MethodPost, "/deals/offer", investor.Token, map[string]interface{}{
		"fundingRequestId": fmt.Sprint(deal.ID), "proposedAmount": "9500000", "proposedEquity": "8.5",
	})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var revised models.InvestmentOffer
	decode(t, env, &revised)
	assert.Equal(t, offer.ID, revised.ID)
	assert.Equal(t, models.OfferCounterOffer, revised.Status)

	status, _ = cl.json(http.MethodPost, "/startup/respond", investor.Token, map[string]interface{}{"offerId": offer.ID, "status": "ACCEPTED"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = cl.json(http.MethodPost, "/startup/offer-respond", startup.Token, map[string]interface{}{"offerId": offer.ID, "status": "MAYBE"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid status. Use ACCEPTED or REJECTED.", env.Message)

	status, env = cl.json(http.MethodPost, "/startup/respond", startup.Token, map[string]interface{}{"offerId": offer.ID, "status": "ACCEPTED"})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.Equal(t, "Offer accepted successfully", env.Message)

	status, env = cl.json(http.MethodPost, "/startup/respond", startup.Token, map[string]interface{}{"offerId": offer.ID, "status": "REJECTED"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Code)

	status, _ = cl.json(http.MethodPost, "/investor/make-offer", investor.Token, map[string]interface{}{
		"fundingRequestId": deal.ID, "proposedAmount": 1, "proposedEquity": 1,
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, env = cl.json(http.MethodGet, "/investor/portfolio", investor.Token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var dashboard struct {
		InvestorProfile struct {
			FirstName     string          `json:"first_name"`
			TotalDeployed decimal.Decimal `json:"total_deployed"`
		} `json:"investor_profile"`
		ActiveInvestments []struct {
			ID               string          `json:"id"`
			CurrentValuation decimal.Decimal `json:"current_valuation"`
		} `json:"active_investments"`
	}
	decode(t, env, &dashboard)
	assert.Equal(t, "Sarah", dashboard.InvestorProfile.FirstName)
	assert.True(t, dashboard.InvestorProfile.TotalDeployed.Equal(decimal.NewFromInt(9500000)))
	require.Len(t, dashboard.ActiveInvestments, 1)
	assert.Equal(t, fmt.Sprintf("deal_%d", deal.ID), dashboard.ActiveInvestments[0].ID)
	assert.True(t, dashboard.ActiveInvestments[0].CurrentValuation.Round(0).Equal(decimal.NewFromInt(111764706)))

	status, env = cl.json(http.MethodGet, "/startup/dashboard", startup.Token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var startupDash struct {
		FundingRequests []struct {
			IsActive bool `json:"isActive"`
			Offers   []struct {
				Status   string `json:"status"`
				Investor struct {
					FullName string `json:"fullName"`
				} `json:"investor"`
			} `json:"offers"`
		} `json:"fundingRequests"`
		Summary struct {
			ActiveRequestsCount int `json:"activeRequestsCount"`
			OpenOffersCount     int `json:"openOffersCount"`
		} `json:"summary"`
	}
	decode(t, env, &startupDash)
	require.Len(t, startupDash.FundingRequests, 1)
	assert.False(t, startupDash.FundingRequests[0].IsActive)
	require.Len(t, startupDash.FundingRequests[0].Offers, 1)
	assert.Equal(t, "Sarah Benali", startupDash.FundingRequests[0].Offers[0].Investor.FullName)
	assert.Equal(t, 0, startupDash.Summary.ActiveRequestsCount)
	assert.Equal(t, 0, startupDash.Summary.OpenOffersCount)

	status, env = cl.json(http.MethodGet, "/deals/feed", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	decode(t, env, &feed)
	assert.Empty(t, feed)

	var offers int64
	require.NoError(t, db.Model(&models.InvestmentOffer{}).Count(&offers).Error)
	assert.Equal(t, int64(1), offers)
}

func TestStartupProfileAndFinancials(t *testing.T) {
	db := testutil.UseTestDB(t)
	cl := client{t: t, app: NewApp()}
	startup := signupStartup(t, cl, "founder@agriflow.dz")

	status, env := cl.multipart(http.MethodPut, "/startup/profile", startup.Token, map[string]string{
		"description": "Drip irrigation as a service",
		"websiteUrl":  "https://agriflow.dz",
	}, map[string]string{"cnrc": "%PDF-cnrc"})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	var stored models.Startup
	require.NoError(t, db.First(&stored, startup.User.ID).Error)
	assert.Equal(t, "Drip irrigation as a service", stored.Description)
	assert.Equal(t, "https://agriflow.dz", stored.WebsiteURL)
	assert.True(t, strings.HasPrefix(stored.CnrcURL, "/uploads/legal/"))
	assert.Equal(t, 2, stored.NumFounders)

	status, _ = cl.multipart(http.MethodPut, "/startup/profile", startup.Token, map[string]string{"websiteUrl": "not a url"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = cl.multipart(http.MethodPost, "/startup/financials", startup.Token, map[string]string{
		"month": "2024-03-17", "revenue": "12000.50", "costs": "8000",
	}, map[string]string{"proofDocument": "%PDF-proof"})
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	status, env = cl.multipart(http.MethodPost, "/startup/financials", startup.Token, map[string]string{
		"month": "2024-03", "revenue": "15000", "costs": "9000",
	}, nil)
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	var records []models.FinancialRecord
	require.NoError(t, db.Where("startup_id = ?", startup.User.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.True(t, records[0].Revenue.Equal(decimal.NewFromInt(15000)))
	assert.True(t, records[0].Costs.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, 1, records[0].Month.Day())
	assert.True(t, strings.HasPrefix(records[0].ProofDocumentURL, "/uploads/proofs/"), "proof kept when not re-sent")

	status, env = cl.multipart(http.MethodPost, "/startup/financials", startup.Token, map[string]string{
		"month": "someday", "revenue": "-1", "costs": "abc",
	}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	var fieldErrors map[string]string
	decode(t, env, &fieldErrors)
	assert.Len(t, fieldErrors, 3)
}

func TestInvestorProfileAndOpportunity(t *testing.T) {
	db := testutil.UseTestDB(t)
	cl := client{t: t, app: NewApp()}
	investor := signupInvestor(t, cl, "sarah@capital.dz")

	status, env := cl.json(http.MethodPut, "/investor/profile", investor.Token, map[string]interface{}{
		"biography": "Former agronomist", "sectors": "Fintech, AI ,",
	})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	var stored models.Investor
	require.NoError(t, db.First(&stored, investor.User.ID).Error)
	assert.Equal(t, "Former agronomist", stored.Biography)
	assert.Equal(t, []string{"Fintech", "AI"}, []string(stored.Sectors))

	status, _ = cl.json(http.MethodPut, "/investor/profile", investor.Token, map[string]interface{}{
		"sectors": []string{"Agritech", "Climate"},
	})
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, db.First(&stored, investor.User.ID).Error)
	assert.Equal(t, []string{"Agritech", "Climate"}, []string(stored.Sectors))
	assert.Equal(t, "Former agronomist", stored.Biography)

	status, _ = cl.json(http.MethodPost, "/investor/opportunity", investor.Token, map[string]interface{}{
		"title": "Seeking water-tech founders", "description": "Tickets up to 2M", "budget": "2000000",
	})
	assert.Equal(t, fiber.StatusCreated, status)

	status, _ = cl.json(http.MethodPost, "/investor/opportunity", investor.Token, map[string]interface{}{"title": ""})
	assert.Equal(t, fiber.StatusBadRequest, status)

	var opportunities []models.Opportunity
	require.NoError(t, db.Where("investor_id = ?", investor.User.ID).Find(&opportunities).Error)
	require.Len(t, opportunities, 1)
	assert.True(t, opportunities[0].Budget.Decimal.Equal(decimal.NewFromInt(2000000)))
}

func TestSlidesGeneration(t *testing.T) {
	testutil.UseTestDB(t)

	var received string
	ai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		b, _ := io.ReadAll(file)
		received = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"slides":[{"title":"Problem"}]}`)
	}))
	t.Cleanup(ai.Close)
	config.AppConfig.AIServiceURL = ai.URL

	cl := client{t: t, app: NewApp()}
	startup := signupStartup(t, cl, "founder@agriflow.dz")

	req := httptest.NewRequest(http.MethodGet, "/slides/generate", nil)
	req.Header.Set("Authorization", "Bearer "+startup.Token)
	resp, err := cl.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"slides":[{"title":"Problem"}]}`, string(body))
	assert.Equal(t, "%PDF-agriflow", received)

	ai.Close()
	status, env := cl.json(http.MethodGet, "/slides/generate", startup.Token, nil)
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", env.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	testutil.UseTestDB(t)
	app := NewApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "up", health["database"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "djisr_http_requests_total")
}
