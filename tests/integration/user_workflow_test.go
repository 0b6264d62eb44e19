//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"
)

// doJSON sends a JSON request against the test server and decodes the response
func doJSON(t *testing.T, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, testServer.URL+path, &body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, userType, email string, extra map[string]interface{}) (string, int64) {
	t.Helper()

	body := map[string]interface{}{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   "Str0ng!Passw0rd",
	}
	for k, v := range extra {
		body[k] = v
	}

	status, _ := doJSON(t, "POST", "/api/register/"+userType, "", body)
	if status != http.StatusCreated {
		t.Fatalf("Expected status 201 registering %s, got %d", userType, status)
	}

	status, resp := doJSON(t, "POST", "/api/login/"+userType, "", map[string]interface{}{
		"email":    email,
		"password": "Str0ng!Passw0rd",
	})
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 logging in %s, got %d", userType, status)
	}

	token, _ := resp["access_token"].(string)
	if token == "" {
		t.Fatal("Expected access_token in login response")
	}

	user, _ := resp["user"].(map[string]interface{})
	idKey := "patient_id"
	if userType == "doctor" {
		idKey = "doctor_id"
	}
	id, _ := user[idKey].(float64)
	if id == 0 {
		t.Fatalf("Expected %s in login response", idKey)
	}

	return token, int64(id)
}

func TestPatientCareWorkflow(t *testing.T) {
	suffix := time.Now().UnixNano()
	patientToken, patientID := registerAndLogin(t, "patient", fmt.Sprintf("patient%d@example.com", suffix), map[string]interface{}{
		"date_of_birth": "1985-02-17",
		"gender":        "female",
		"phone":         "+1 555 010 2233",
	})
	doctorToken, doctorID := registerAndLogin(t, "doctor", fmt.Sprintf("doctor%d@example.com", suffix), map[string]interface{}{
		"specialty": "Cardiology",
	})

	// Patient books an appointment
	status, resp := doJSON(t, "POST", "/api/appointments", patientToken, map[string]interface{}{
		"doctor_id":        doctorID,
		"appointment_date": "2030-06-15",
		"appointment_time": "10:30",
		"reason":           "Annual check-up",
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected status 201 booking appointment, got %d: %v", status, resp)
	}
	appointment, _ := resp["appointment"].(map[string]interface{})
	appointmentID := int64(appointment["appointment_id"].(float64))

	// Double booking the same slot is rejected
	status, _ = doJSON(t, "POST", "/api/appointments", patientToken, map[string]interface{}{
		"doctor_id":        doctorID,
		"appointment_date": "2030-06-15",
		"appointment_time": "10:30",
	})
	if status != http.StatusConflict {
		t.Errorf("Expected status 409 for a taken slot, got %d", status)
	}

	// The appointment shows up for both parties
	for _, token := range []string{patientToken, doctorToken} {
		req, _ := http.NewRequest("GET", testServer.URL+"/api/appointments", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		httpResp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		var appointments []map[string]interface{}
		json.NewDecoder(httpResp.Body).Decode(&appointments)
		httpResp.Body.Close()
		if len(appointments) != 1 {
			t.Fatalf("Expected 1 appointment, got %d", len(appointments))
		}
	}

	// Doctor writes a medical note
	status, resp = doJSON(t, "POST", "/api/medical-notes", doctorToken, map[string]interface{}{
		"patient_id":   patientID,
		"note_date":    "2030-06-15",
		"note_details": "Blood pressure within normal range",
		"medication":   "None",
		"treatment":    "Lifestyle advice",
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected status 201 creating note, got %d: %v", status, resp)
	}
	note, _ := resp["note"].(map[string]interface{})
	noteID := int64(note["note_id"].(float64))

	// Patient can read their own note but cannot modify it
	status, _ = doJSON(t, "GET", fmt.Sprintf("/api/medical-notes/%d", noteID), patientToken, nil)
	if status != http.StatusOK {
		t.Errorf("Expected status 200 reading own note, got %d", status)
	}
	status, _ = doJSON(t, "PUT", fmt.Sprintf("/api/medical-notes/%d", noteID), patientToken, map[string]interface{}{
		"note_details": "edited by patient",
	})
	if status != http.StatusForbidden {
		t.Errorf("Expected status 403 for patient editing a note, got %d", status)
	}

	// Patient updates the appointment reason
	status, _ = doJSON(t, "PUT", fmt.Sprintf("/api/appointments/%d", appointmentID), patientToken, map[string]interface{}{
		"reason": "Follow-up consultation",
	})
	if status != http.StatusOK {
		t.Errorf("Expected status 200 updating appointment, got %d", status)
	}

	// Data export bundles profile, appointments and notes
	status, resp = doJSON(t, "GET", "/api/gdpr/data-export", patientToken, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 for data export, got %d", status)
	}
	data, _ := resp["data"].(map[string]interface{})
	for _, key := range []string{"profile", "appointments", "medical_notes"} {
		if _, ok := data[key]; !ok {
			t.Errorf("Expected %s in data export", key)
		}
	}

	// Erasure removes the account and everything attached to it
	status, _ = doJSON(t, "DELETE", "/api/gdpr/data-deletion", patientToken, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 for data deletion, got %d", status)
	}

	status, _ = doJSON(t, "POST", "/api/login/patient", "", map[string]interface{}{
		"email":    fmt.Sprintf("patient%d@example.com", suffix),
		"password": "Str0ng!Passw0rd",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("Expected status 401 logging into a deleted account, got %d", status)
	}

	// The doctor's notes for the erased patient are gone too
	status, resp = doJSON(t, "GET", "/api/gdpr/data-export", doctorToken, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 for doctor export, got %d", status)
	}
	data, _ = resp["data"].(map[string]interface{})
	if notes, ok := data["medical_notes"].([]interface{}); ok && len(notes) != 0 {
		t.Errorf("Expected no remaining notes after patient erasure, got %d", len(notes))
	}
}

func TestRegistrationValidation(t *testing.T) {
	// Weak passwords are rejected with every violated rule
	status, resp := doJSON(t, "POST", "/api/register/patient", "", map[string]interface{}{
		"first_name": "Weak",
		"last_name":  "Password",
		"email":      fmt.Sprintf("weak%d@example.com", time.Now().UnixNano()),
		"password":   "abc",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for weak password, got %d", status)
	}
	if messages, ok := resp["error"].([]interface{}); !ok || len(messages) == 0 {
		t.Error("Expected a list of validation messages")
	}

	// SQL injection fragments are rejected outright
	status, _ = doJSON(t, "POST", "/api/register/patient", "", map[string]interface{}{
		"first_name": "Robert'; DROP TABLE patients;--",
		"last_name":  "Tables",
		"email":      fmt.Sprintf("bobby%d@example.com", time.Now().UnixNano()),
		"password":   "Str0ng!Passw0rd",
	})
	if status != http.StatusBadRequest {
		t.Errorf("Expected status 400 for injection attempt, got %d", status)
	}

	// Duplicate registrations conflict
	email := fmt.Sprintf("dup%d@example.com", time.Now().UnixNano())
	body := map[string]interface{}{
		"first_name": "First",
		"last_name":  "Account",
		"email":      email,
		"password":   "Str0ng!Passw0rd",
	}
	status, _ = doJSON(t, "POST", "/api/register/patient", "", body)
	if status != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", status)
	}
	status, _ = doJSON(t, "POST", "/api/register/patient", "", body)
	if status != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate email, got %d", status)
	}
}

func TestAuthorizationBoundaries(t *testing.T) {
	suffix := time.Now().UnixNano()
	_, doctorID := registerAndLogin(t, "doctor", fmt.Sprintf("gate-doc%d@example.com", suffix), map[string]interface{}{
		"specialty": "Dermatology",
	})
	doctorToken, _ := func() (string, int64) {
		status, resp := doJSON(t, "POST", "/api/login/doctor", "", map[string]interface{}{
			"email":    fmt.Sprintf("gate-doc%d@example.com", suffix),
			"password": "Str0ng!Passw0rd",
		})
		if status != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", status)
		}
		return resp["access_token"].(string), 0
	}()

	// Unauthenticated requests are rejected
	status, _ := doJSON(t, "GET", "/api/profile", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without a token, got %d", status)
	}

	// Doctors cannot book appointments
	status, _ = doJSON(t, "POST", "/api/appointments", doctorToken, map[string]interface{}{
		"doctor_id":        doctorID,
		"appointment_date": "2030-07-01",
		"appointment_time": "09:00",
	})
	if status != http.StatusForbidden {
		t.Errorf("Expected status 403 for doctor booking, got %d", status)
	}

	// Patients cannot list the practice roster
	patientToken, _ := registerAndLogin(t, "patient", fmt.Sprintf("gate-pat%d@example.com", suffix), nil)
	status, _ = doJSON(t, "GET", "/api/patients", patientToken, nil)
	if status != http.StatusForbidden {
		t.Errorf("Expected status 403 for patient listing patients, got %d", status)
	}
}
