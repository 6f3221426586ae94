package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourorg/propmanager/internal/activity"
	"github.com/yourorg/propmanager/internal/handler"
	"github.com/yourorg/propmanager/internal/infrastructure/logger"
	"github.com/yourorg/propmanager/internal/repository"
	"github.com/yourorg/propmanager/internal/service"
)

// TestServerHelper wires the full API over in-memory stores, the same way
// the server binary does when DATABASE_URL is unset.
type TestServerHelper struct {
	Server *httptest.Server

	Biens      *service.BienService
	Chambres   *service.ChambreService
	Locataires *service.LocataireService
	Contrats   *service.ContratService
	Loyers     *service.LoyerService
}

func NewTestServer(t *testing.T) *TestServerHelper {
	t.Helper()
	log := logger.NewLogger("error")

	locataireRepo := repository.NewMemoryLocataireRepository()
	biens := service.NewBienService(repository.NewMemoryBienRepository(), log)
	chambres := service.NewChambreService(repository.NewMemoryChambreRepository(), log)
	locataires := service.NewLocataireService(locataireRepo, log)
	contrats := service.NewContratService(repository.NewMemoryContratRepository(), log)
	loyers := service.NewLoyerService(repository.NewMemoryLoyerRepository(), log)
	location := service.NewLocationService(chambres, locataires, contrats, log)
	propmanager := service.NewPropManagerService(biens, chambres, locataires, contrats, loyers, nil, time.Minute, log)
	documents := service.NewDocumentService(repository.NewMemoryDocumentRepository(), locataireRepo, log)

	activite := activity.NewBroadcaster()
	bienHandler := handler.NewBienHandler(biens, activite, log, 20, 100)
	chambreHandler := handler.NewChambreHandler(chambres, activite, log, 20, 100)
	locataireHandler := handler.NewLocataireHandler(locataires, activite, log, 20, 100)
	contratHandler := handler.NewContratHandler(contrats, activite, log, 20, 100)
	loyerHandler := handler.NewLoyerHandler(loyers, activite, log, 20, 100)
	locationHandler := handler.NewLocationHandler(location, activite, log)
	dashboardHandler := handler.NewDashboardHandler(propmanager, log)
	documentHandler := handler.NewDocumentHandler(documents, activite, log)
	referentielsHandler := handler.NewReferentielsHandler(log)
	healthHandler := handler.NewHealthHandler(nil, nil, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/biens", bienHandler.List)
	mux.HandleFunc("POST /api/biens", bienHandler.Create)
	mux.HandleFunc("GET /api/biens/rechercher", bienHandler.Rechercher)
	mux.HandleFunc("GET /api/biens/statistiques", bienHandler.Statistiques)
	mux.HandleFunc("GET /api/biens/{id}", bienHandler.Get)
	mux.HandleFunc("PUT /api/biens/{id}", bienHandler.Update)
	mux.HandleFunc("DELETE /api/biens/{id}", bienHandler.Delete)
	mux.HandleFunc("GET /api/biens/{id}/chambres", chambreHandler.ParBien)

	mux.HandleFunc("GET /api/chambres", chambreHandler.List)
	mux.HandleFunc("POST /api/chambres", chambreHandler.Create)
	mux.HandleFunc("GET /api/chambres/libres", chambreHandler.Libres)
	mux.HandleFunc("GET /api/chambres/louees", chambreHandler.Louees)
	mux.HandleFunc("GET /api/chambres/statistiques", chambreHandler.Statistiques)
	mux.HandleFunc("GET /api/chambres/{id}", chambreHandler.Get)
	mux.HandleFunc("PUT /api/chambres/{id}", chambreHandler.Update)
	mux.HandleFunc("PATCH /api/chambres/{id}/statut", chambreHandler.UpdateStatut)
	mux.HandleFunc("PATCH /api/chambres/{id}/loyer", chambreHandler.UpdateLoyer)
	mux.HandleFunc("DELETE /api/chambres/{id}", chambreHandler.Delete)
	mux.HandleFunc("GET /api/chambres/{id}/contrats", contratHandler.ParChambre)

	mux.HandleFunc("GET /api/locataires", locataireHandler.List)
	mux.HandleFunc("POST /api/locataires", locataireHandler.Create)
	mux.HandleFunc("GET /api/locataires/actifs", locataireHandler.Actifs)
	mux.HandleFunc("GET /api/locataires/inactifs", locataireHandler.Inactifs)
	mux.HandleFunc("GET /api/locataires/rechercher", locataireHandler.Rechercher)
	mux.HandleFunc("GET /api/locataires/statistiques", locataireHandler.Statistiques)
	mux.HandleFunc("GET /api/locataires/{id}", locataireHandler.Get)
	mux.HandleFunc("PUT /api/locataires/{id}", locataireHandler.Update)
	mux.HandleFunc("PATCH /api/locataires/{id}/statut", locataireHandler.UpdateStatut)
	mux.HandleFunc("PATCH /api/locataires/{id}/contact", locataireHandler.UpdateContact)
	mux.HandleFunc("DELETE /api/locataires/{id}", locataireHandler.Delete)
	mux.HandleFunc("GET /api/locataires/{id}/documents", documentHandler.ListParLocataire)
	mux.HandleFunc("POST /api/locataires/{id}/documents", documentHandler.Upload)
	mux.HandleFunc("GET /api/documents/{id}", documentHandler.Download)
	mux.HandleFunc("DELETE /api/documents/{id}", documentHandler.Delete)

	mux.HandleFunc("GET /api/contrats", contratHandler.List)
	mux.HandleFunc("POST /api/contrats", contratHandler.Create)
	mux.HandleFunc("GET /api/contrats/actifs", contratHandler.Actifs)
	mux.HandleFunc("GET /api/contrats/statistiques", contratHandler.Statistiques)
	mux.HandleFunc("GET /api/contrats/{id}", contratHandler.Get)
	mux.HandleFunc("PUT /api/contrats/{id}", contratHandler.Update)
	mux.HandleFunc("DELETE /api/contrats/{id}", contratHandler.Delete)
	mux.HandleFunc("GET /api/contrats/{id}/loyers", loyerHandler.ParContrat)

	mux.HandleFunc("GET /api/loyers", loyerHandler.List)
	mux.HandleFunc("POST /api/loyers", loyerHandler.Create)
	mux.HandleFunc("GET /api/loyers/en-retard", loyerHandler.EnRetard)
	mux.HandleFunc("GET /api/loyers/en-attente", loyerHandler.EnAttente)
	mux.HandleFunc("GET /api/loyers/statistiques", loyerHandler.Statistiques)
	mux.HandleFunc("GET /api/loyers/{id}", loyerHandler.Get)
	mux.HandleFunc("PUT /api/loyers/{id}", loyerHandler.Update)
	mux.HandleFunc("POST /api/loyers/{id}/payer", loyerHandler.MarquerPaye)
	mux.HandleFunc("DELETE /api/loyers/{id}", loyerHandler.Delete)

	mux.HandleFunc("POST /api/location/louer", locationHandler.Louer)
	mux.HandleFunc("POST /api/location/{contratID}/liberer", locationHandler.Liberer)

	mux.HandleFunc("GET /api/dashboard", dashboardHandler.Dashboard)
	mux.HandleFunc("GET /api/recherche", dashboardHandler.Recherche)
	mux.HandleFunc("POST /api/synchroniser", dashboardHandler.Synchroniser)
	mux.HandleFunc("GET /api/connectivite", dashboardHandler.Connectivite)
	mux.HandleFunc("GET /api/rapport", dashboardHandler.Rapport)
	mux.HandleFunc("GET /api/referentiels", referentielsHandler.ServeHTTP)

	mux.HandleFunc("/healthz", healthHandler.Health)
	mux.HandleFunc("/readyz", healthHandler.Ready)

	server := httptest.NewServer(mux)

	return &TestServerHelper{
		Server:     server,
		Biens:      biens,
		Chambres:   chambres,
		Locataires: locataires,
		Contrats:   contrats,
		Loyers:     loyers,
	}
}

func (h *TestServerHelper) Close() {
	h.Server.Close()
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// PostJSON sends a JSON body and returns the response.
func (h *TestServerHelper) PostJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(h.URL()+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// Get fetches a path and returns the response.
func (h *TestServerHelper) Get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(h.URL() + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// DecodeBody decodes the response body into a generic envelope map.
func DecodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode body %q: %v", string(raw), err)
	}
	return out
}

// AssertStatusCode helper function
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertContentType helper function
func AssertContentType(t *testing.T, resp *http.Response, expected string) {
	t.Helper()
	if ct := resp.Header.Get("Content-Type"); ct != expected {
		t.Errorf("Expected Content-Type %s, got %s", expected, ct)
	}
}
