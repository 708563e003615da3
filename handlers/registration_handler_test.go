package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anjiri1684/medicamp/database"
	"github.com/anjiri1684/medicamp/models"
	"github.com/anjiri1684/medicamp/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Camp{}, &models.Registration{}, &models.Payment{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db

	app := fiber.New()
	routes.PublicRoutes(app)
	routes.UserRoutes(app)
	routes.RegistrationRoutes(app)
	routes.PaymentRoutes(app)
	return app
}

func signToken(t *testing.T, email, name string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"name":  name,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func createCamp(t *testing.T, fees float64) *models.Camp {
	t.Helper()

	camp := models.Camp{
		CampName:               "General Health Screening",
		Fees:                   fees,
		DateTime:               time.Now().Add(96 * time.Hour),
		Location:               "Eldoret",
		HealthcareProfessional: "Dr. Baraka Mwangi",
	}
	if err := database.DB.Create(&camp).Error; err != nil {
		t.Fatalf("failed to create camp: %v", err)
	}
	return &camp
}

func stubStripe(t *testing.T, intentID string) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            intentID,
			"client_secret": intentID + "_secret",
			"status":        "requires_payment_method",
		})
	})
	mux.HandleFunc("/v1/payment_intents/"+intentID, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     intentID,
			"status": "succeeded",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("STRIPE_API_BASE_URL", srv.URL)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
}

func registrationBody(campID string) map[string]interface{} {
	return map[string]interface{}{
		"campId":           campID,
		"age":              29,
		"phone":            "+254700111222",
		"gender":           "female",
		"emergencyContact": "+254700333444",
	}
}

func TestRegistrationLifecycle(t *testing.T) {
	app := setupTestApp(t)
	camp := createCamp(t, 50)
	stubStripe(t, "pi_e2e_1")

	participant := signToken(t, "amina@example.com", "Amina Wanjiru")
	organizerEmail := "organizer@example.com"
	if err := database.DB.Create(&models.User{FullName: "Camp Organizer", Email: organizerEmail, Role: "organizer"}).Error; err != nil {
		t.Fatalf("failed to create organizer: %v", err)
	}
	organizer := signToken(t, organizerEmail, "Camp Organizer")

	// Register.
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/camp-register", participant, registrationBody(camp.ID.String()))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201 (%v)", resp.StatusCode, body)
	}
	registrationID, _ := body["id"].(string)
	if registrationID == "" {
		t.Fatal("register response carries no registration id")
	}

	var reloadedCamp models.Camp
	database.DB.First(&reloadedCamp, "id = ?", camp.ID)
	if reloadedCamp.ParticipantCount != 1 {
		t.Errorf("participant count after register = %d, want 1", reloadedCamp.ParticipantCount)
	}

	// Registering the same camp twice is rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/camp-register", participant, registrationBody(camp.ID.String()))
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	// Request a payment intent.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/create-payment-intent", participant,
		map[string]interface{}{"registrationId": registrationID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create intent status = %d, want 200 (%v)", resp.StatusCode, body)
	}
	if body["clientSecret"] != "pi_e2e_1_secret" {
		t.Errorf("clientSecret = %v, want pi_e2e_1_secret", body["clientSecret"])
	}

	// Report the completed charge.
	paymentReq := map[string]interface{}{"registrationId": registrationID, "transactionId": "pi_e2e_1"}
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/payments", participant, paymentReq)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record payment status = %d, want 201 (%v)", resp.StatusCode, body)
	}

	var registration models.Registration
	database.DB.First(&registration, "id = ?", registrationID)
	if registration.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("payment status = %q, want paid", registration.PaymentStatus)
	}

	// A duplicate callback is harmless.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/payments", participant, paymentReq)
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("duplicate payment callback status = %d, want 201", resp.StatusCode)
	}
	var paymentCount int64
	database.DB.Model(&models.Payment{}).Count(&paymentCount)
	if paymentCount != 1 {
		t.Errorf("payment records = %d, want 1", paymentCount)
	}

	// Organizer confirms.
	resp, _ = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/registrations/%s/confirm", registrationID), organizer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm status = %d, want 200", resp.StatusCode)
	}
	database.DB.First(&registration, "id = ?", registrationID)
	if registration.ConfirmationStatus != models.ConfirmationStatusConfirmed {
		t.Errorf("confirmation status = %q, want confirmed", registration.ConfirmationStatus)
	}

	// Paid and confirmed registrations cannot be cancelled, counter stays put.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/cancel-registration/"+registrationID, participant, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("cancel of paid registration status = %d, want 409", resp.StatusCode)
	}
	database.DB.First(&reloadedCamp, "id = ?", camp.ID)
	if reloadedCamp.ParticipantCount != 1 {
		t.Errorf("participant count at end = %d, want 1", reloadedCamp.ParticipantCount)
	}

	// Read models.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/registered-camps", nil)
	req.Header.Set("Authorization", "Bearer "+participant)
	listResp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("registered-camps request failed: %v", err)
	}
	var registrations []map[string]interface{}
	json.NewDecoder(listResp.Body).Decode(&registrations)
	if len(registrations) != 1 {
		t.Errorf("registered camps = %d, want 1", len(registrations))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)
	req.Header.Set("Authorization", "Bearer "+participant)
	historyResp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("payment history request failed: %v", err)
	}
	var history []map[string]interface{}
	json.NewDecoder(historyResp.Body).Decode(&history)
	if len(history) != 1 {
		t.Errorf("payment history entries = %d, want 1", len(history))
	}
	if len(history) == 1 && history[0]["transactionId"] != "pi_e2e_1" {
		t.Errorf("recorded transaction = %v, want pi_e2e_1", history[0]["transactionId"])
	}
}

func TestCancelUnpaidRegistration(t *testing.T) {
	app := setupTestApp(t)
	camp := createCamp(t, 50)
	participant := signToken(t, "amina@example.com", "Amina Wanjiru")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/camp-register", participant, registrationBody(camp.ID.String()))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}
	registrationID := body["id"].(string)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/cancel-registration/"+registrationID, participant, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel status = %d, want 200", resp.StatusCode)
	}

	var reloadedCamp models.Camp
	database.DB.First(&reloadedCamp, "id = ?", camp.ID)
	if reloadedCamp.ParticipantCount != 0 {
		t.Errorf("participant count after cancel = %d, want 0", reloadedCamp.ParticipantCount)
	}
}

func TestRegisterValidation(t *testing.T) {
	app := setupTestApp(t)
	camp := createCamp(t, 50)
	participant := signToken(t, "amina@example.com", "Amina Wanjiru")

	body := registrationBody(camp.ID.String())
	delete(body, "emergencyContact")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/camp-register", participant, body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("register without emergency contact status = %d, want 400", resp.StatusCode)
	}
}

func TestRegisterRequiresBearerToken(t *testing.T) {
	app := setupTestApp(t)
	camp := createCamp(t, 50)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/camp-register", "", registrationBody(camp.ID.String()))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("register without token status = %d, want 400", resp.StatusCode)
	}
}

func TestConfirmRequiresOrganizer(t *testing.T) {
	app := setupTestApp(t)
	camp := createCamp(t, 50)
	participant := signToken(t, "amina@example.com", "Amina Wanjiru")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/camp-register", participant, registrationBody(camp.ID.String()))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}
	registrationID := body["id"].(string)

	resp, _ = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/registrations/%s/confirm", registrationID), participant, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("confirm by participant status = %d, want 403", resp.StatusCode)
	}
}
