package test

import (
	"net/http"
	"testing"
	"time"
)

// TestHealthEndpoint verifies the liveness check.
func TestHealthEndpoint(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp := server.Get(t, "/healthz")
	AssertStatusCode(t, resp, http.StatusOK)
	body := DecodeBody(t, resp)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}

// TestReadinessEndpoint verifies readiness in memory mode.
func TestReadinessEndpoint(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp := server.Get(t, "/readyz")
	AssertStatusCode(t, resp, http.StatusOK)
	body := DecodeBody(t, resp)
	if body["status"] != "ready" {
		t.Errorf("Expected status ready, got %v", body["status"])
	}
	checks, _ := body["checks"].(map[string]any)
	if checks["postgres"] != "memory mode" {
		t.Errorf("Expected postgres in memory mode, got %v", checks["postgres"])
	}
}

// TestReferentielsEndpoint verifies the enumeration catalog.
func TestReferentielsEndpoint(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp := server.Get(t, "/api/referentiels")
	AssertStatusCode(t, resp, http.StatusOK)
	AssertContentType(t, resp, "application/json")

	body := DecodeBody(t, resp)
	refs, ok := body["referentiels"].(map[string]any)
	if !ok {
		t.Fatalf("Expected referentiels object, got %v", body)
	}
	for _, key := range []string{"types_bien", "statuts_chambre", "types_bail", "modes_paiement"} {
		if _, present := refs[key]; !present {
			t.Errorf("Expected referentiel %s", key)
		}
	}
}

// TestBienLifecycle verifies property CRUD over the wire.
func TestBienLifecycle(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	created := server.PostJSON(t, "/api/biens", map[string]any{
		"nom":       "Maison Centre",
		"adresse":   "12 rue de la Paix, Lyon",
		"type":      "maison",
		"surface":   120,
		"nb_pieces": 5,
	})
	AssertStatusCode(t, created, http.StatusCreated)
	body := DecodeBody(t, created)
	if body["success"] != true {
		t.Fatalf("Expected success envelope, got %v", body)
	}
	data := body["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatal("Expected an assigned id")
	}
	if data["statut"] != "libre" {
		t.Errorf("Expected default statut libre, got %v", data["statut"])
	}

	got := server.Get(t, "/api/biens/"+id)
	AssertStatusCode(t, got, http.StatusOK)
	DecodeBody(t, got)

	missing := server.Get(t, "/api/biens/bien-inconnu")
	AssertStatusCode(t, missing, http.StatusNotFound)
	if env := DecodeBody(t, missing); env["success"] != false {
		t.Errorf("Expected failure envelope, got %v", env)
	}
}

// TestBienValidationOverTheWire verifies the 400 mapping of envelope errors.
func TestBienValidationOverTheWire(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp := server.PostJSON(t, "/api/biens", map[string]any{
		"nom":     "",
		"type":    "chateau",
		"surface": -1,
	})
	AssertStatusCode(t, resp, http.StatusBadRequest)
	if body := DecodeBody(t, resp); body["success"] != false {
		t.Errorf("Expected failure envelope, got %v", body)
	}
}

// TestLocationFlow rents a room end to end and frees it again.
func TestLocationFlow(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	chambreResp := server.PostJSON(t, "/api/chambres", map[string]any{
		"bien_id":            "bien-1",
		"nom":                "Chambre A",
		"surface":            12,
		"loyer_mensuel":      450,
		"charges_mensuelles": 50,
		"type_chambre":       "privee",
	})
	AssertStatusCode(t, chambreResp, http.StatusCreated)
	chambreID := DecodeBody(t, chambreResp)["data"].(map[string]any)["id"].(string)

	locataireResp := server.PostJSON(t, "/api/locataires", map[string]any{
		"prenom": "Jean",
		"nom":    "Dupont",
		"age":    28,
	})
	AssertStatusCode(t, locataireResp, http.StatusCreated)
	locataireID := DecodeBody(t, locataireResp)["data"].(map[string]any)["id"].(string)

	louer := server.PostJSON(t, "/api/location/louer", map[string]any{
		"chambre_id":         chambreID,
		"locataire_id":       locataireID,
		"date_debut":         time.Now().Format(time.RFC3339),
		"loyer_mensuel":      450,
		"charges_mensuelles": 50,
		"depot_garantie":     450,
		"type_bail":          "meuble",
	})
	AssertStatusCode(t, louer, http.StatusCreated)
	contrat := DecodeBody(t, louer)["data"].(map[string]any)
	contratID := contrat["id"].(string)
	if contrat["statut"] != "actif" {
		t.Fatalf("Expected actif lease, got %v", contrat["statut"])
	}

	// The room is now louee and a second rental conflicts.
	chambre := DecodeBody(t, server.Get(t, "/api/chambres/"+chambreID))["data"].(map[string]any)
	if chambre["statut"] != "louee" {
		t.Fatalf("Expected chambre louee, got %v", chambre["statut"])
	}
	conflict := server.PostJSON(t, "/api/location/louer", map[string]any{
		"chambre_id":   chambreID,
		"locataire_id": locataireID,
	})
	AssertStatusCode(t, conflict, http.StatusConflict)

	liberer := server.PostJSON(t, "/api/location/"+contratID+"/liberer", nil)
	AssertStatusCode(t, liberer, http.StatusOK)

	locataire := DecodeBody(t, server.Get(t, "/api/locataires/"+locataireID))["data"].(map[string]any)
	if locataire["statut"] != "ancien" {
		t.Errorf("Expected locataire ancien after liberation, got %v", locataire["statut"])
	}
	if _, attached := locataire["chambre_id"]; attached {
		t.Errorf("Expected chambre_id cleared, got %v", locataire["chambre_id"])
	}
}

// TestDashboardEndpoint verifies the aggregate view.
func TestDashboardEndpoint(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp := server.Get(t, "/api/dashboard")
	AssertStatusCode(t, resp, http.StatusOK)
	body := DecodeBody(t, resp)
	if body["success"] != true {
		t.Fatalf("Expected success, got %v", body)
	}
	data := body["data"].(map[string]any)
	if _, ok := data["resume"]; !ok {
		t.Error("Expected a resume block")
	}
}

// TestRapportValidation verifies the date format guard.
func TestRapportValidation(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp := server.Get(t, "/api/rapport?debut=pas-une-date&fin=2026-01-31")
	AssertStatusCode(t, resp, http.StatusBadRequest)

	ok := server.Get(t, "/api/rapport?debut=2026-01-01&fin=2026-01-31")
	AssertStatusCode(t, ok, http.StatusOK)
}
