package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "bien":
		handleBien(args)
	case "chambre":
		handleChambre(args)
	case "locataire":
		handleLocataire(args)
	case "contrat":
		handleContrat(args)
	case "loyer":
		handleLoyer(args)
	case "dashboard":
		showDashboard(args)
	case "recherche":
		rechercheGlobale(args)
	case "synchroniser":
		synchroniser(args)
	case "seed":
		seedDemo(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: propmanager auth <register|login|logout|who>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "register":
		registerUser(args[1:])
	case "login":
		loginUser(args[1:])
	case "logout":
		logoutUser()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", subCmd)
	}
}

func handleBien(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: propmanager bien <list|get|delete>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listBiens(args[1:])
	case "get":
		getEntity("/biens", args[1:], "bien")
	case "delete":
		deleteEntity("/biens", args[1:], "bien")
	default:
		fmt.Printf("unknown bien command: %s\n", subCmd)
	}
}

func handleChambre(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: propmanager chambre <list|libres|get|delete>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listChambres("/chambres")
	case "libres":
		listChambres("/chambres/libres")
	case "get":
		getEntity("/chambres", args[1:], "chambre")
	case "delete":
		deleteEntity("/chambres", args[1:], "chambre")
	default:
		fmt.Printf("unknown chambre command: %s\n", subCmd)
	}
}

func handleLocataire(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: propmanager locataire <list|actifs|get|delete>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listLocataires("/locataires")
	case "actifs":
		listLocataires("/locataires/actifs")
	case "get":
		getEntity("/locataires", args[1:], "locataire")
	case "delete":
		deleteEntity("/locataires", args[1:], "locataire")
	default:
		fmt.Printf("unknown locataire command: %s\n", subCmd)
	}
}

func handleContrat(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: propmanager contrat <list|actifs|get>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listContrats("/contrats")
	case "actifs":
		listContrats("/contrats/actifs")
	case "get":
		getEntity("/contrats", args[1:], "contrat")
	default:
		fmt.Printf("unknown contrat command: %s\n", subCmd)
	}
}

func handleLoyer(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: propmanager loyer <list|en-retard|payer>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listLoyers("/loyers")
	case "en-retard":
		listLoyers("/loyers/en-retard")
	case "payer":
		payerLoyer(args[1:])
	default:
		fmt.Printf("unknown loyer command: %s\n", subCmd)
	}
}

// Auth commands
func registerUser(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	role := fs.String("role", "", "role: proprietaire, gestionnaire or lecteur (optional)")

	fs.Parse(args)

	if *email == "" || *username == "" || *password == "" {
		fmt.Println("Error: email, username, and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{
		"email":    *email,
		"username": *username,
		"password": *password,
	}
	if *role != "" {
		payload["role"] = *role
	}

	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/register", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 201 {
		fmt.Printf("✓ User registered: %s\n", *email)
		if token, ok := result["token"].(string); ok {
			saveToken(token)
		}
	} else {
		fmt.Printf("✗ Registration failed: %v\n", result)
	}
}

func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "password": *password}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/login", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		if token, ok := result["token"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Logged in as: %s\n", *email)
		}
	} else {
		fmt.Printf("✗ Login failed: %v\n", result)
	}
}

func logoutUser() {
	os.Remove(tokenFile())
	fmt.Println("✓ Logged out")
}

func whoAmI() {
	token := loadToken()
	if token == "" {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("✓ Logged in (token: %s...)\n", token[:20])
}

// envelope mirrors the API list responses.
type envelope struct {
	Success bool                     `json:"success"`
	Data    []map[string]interface{} `json:"data"`
	Error   string                   `json:"error"`
}

func fetchList(path string) ([]map[string]interface{}, bool) {
	req, _ := http.NewRequest("GET", getAPIURL()+path, nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	var env envelope
	json.NewDecoder(resp.Body).Decode(&env)
	if !env.Success {
		fmt.Printf("✗ Request failed: %s\n", env.Error)
		return nil, false
	}
	return env.Data, true
}

// Entity list commands
func listBiens(args []string) {
	_ = args
	items, ok := fetchList("/biens")
	if !ok {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOM\tTYPE\tSTATUT\tSURFACE")
	for _, b := range items {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", b["id"], b["nom"], b["type"], b["statut"], b["surface"])
	}
	w.Flush()
}

func listChambres(path string) {
	items, ok := fetchList(path)
	if !ok {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOM\tBIEN\tSTATUT\tLOYER")
	for _, c := range items {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", c["id"], c["nom"], c["bien_id"], c["statut"], c["loyer_mensuel"])
	}
	w.Flush()
}

func listLocataires(path string) {
	items, ok := fetchList(path)
	if !ok {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRENOM\tNOM\tSTATUT\tCHAMBRE")
	for _, l := range items {
		chambre := l["chambre_id"]
		if chambre == nil {
			chambre = "-"
		}
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", l["id"], l["prenom"], l["nom"], l["statut"], chambre)
	}
	w.Flush()
}

func listContrats(path string) {
	items, ok := fetchList(path)
	if !ok {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHAMBRE\tLOCATAIRE\tSTATUT\tLOYER")
	for _, c := range items {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", c["id"], c["chambre_id"], c["locataire_id"], c["statut"], c["loyer_mensuel"])
	}
	w.Flush()
}

func listLoyers(path string) {
	items, ok := fetchList(path)
	if !ok {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONTRAT\tMOIS\tANNEE\tSTATUT\tTOTAL")
	for _, l := range items {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\n", l["id"], l["contrat_id"], l["mois"], l["annee"], l["statut"], l["montant_total"])
	}
	w.Flush()
}

func getEntity(base string, args []string, name string) {
	if len(args) < 1 {
		fmt.Printf("Usage: propmanager %s get <id>\n", name)
		return
	}

	req, _ := http.NewRequest("GET", getAPIURL()+base+"/"+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode != 200 {
		fmt.Printf("✗ %s not found: %v\n", name, result["error"])
		return
	}

	pretty, _ := json.MarshalIndent(result["data"], "", "  ")
	fmt.Println(string(pretty))
}

func deleteEntity(base string, args []string, name string) {
	if len(args) < 1 {
		fmt.Printf("Usage: propmanager %s delete <id>\n", name)
		return
	}

	req, _ := http.NewRequest("DELETE", getAPIURL()+base+"/"+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		fmt.Printf("✓ %s deleted: %s\n", name, args[0])
	} else {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Delete failed: %v\n", result["error"])
	}
}

func payerLoyer(args []string) {
	fs := flag.NewFlagSet("payer", flag.ExitOnError)
	mode := fs.String("mode", "virement", "payment method: virement, cheque, especes, carte")

	if len(args) < 1 {
		fmt.Println("Usage: propmanager loyer payer <id> [-mode virement]")
		return
	}
	id := args[0]
	fs.Parse(args[1:])

	payload, _ := json.Marshal(map[string]string{"mode_paiement": *mode})
	req, _ := http.NewRequest("POST", getAPIURL()+"/loyers/"+id+"/payer", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		fmt.Printf("✓ Loyer paye: %s\n", id)
	} else {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Paiement failed: %v\n", result["error"])
	}
}

// Aggregate commands
func showDashboard(args []string) {
	_ = args
	req, _ := http.NewRequest("GET", getAPIURL()+"/dashboard", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	pretty, _ := json.MarshalIndent(result["data"], "", "  ")
	fmt.Println(string(pretty))
}

func rechercheGlobale(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: propmanager recherche <terme>")
		return
	}

	req, _ := http.NewRequest("GET", getAPIURL()+"/recherche?q="+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	pretty, _ := json.MarshalIndent(result["data"], "", "  ")
	fmt.Println(string(pretty))
}

func synchroniser(args []string) {
	_ = args
	req, _ := http.NewRequest("POST", getAPIURL()+"/synchroniser", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	pretty, _ := json.MarshalIndent(result["data"], "", "  ")
	fmt.Println(string(pretty))
}

func seedDemo(args []string) {
	_ = args
	bien := postSeed("/biens", map[string]interface{}{
		"nom":       "Maison Centre",
		"adresse":   "12 rue de la Paix, Lyon",
		"type":      "maison",
		"surface":   120,
		"nb_pieces": 5,
	})
	if bien == nil {
		return
	}
	chambre := postSeed("/chambres", map[string]interface{}{
		"bien_id":            bien["id"],
		"nom":                "Chambre A",
		"surface":            14,
		"loyer_mensuel":      450,
		"charges_mensuelles": 50,
		"type_chambre":       "privee",
	})
	locataire := postSeed("/locataires", map[string]interface{}{
		"prenom":    "Jean",
		"nom":       "Dupont",
		"email":     "jean.dupont@example.com",
		"telephone": "06 12 34 56 78",
		"age":       28,
	})
	if chambre == nil || locataire == nil {
		return
	}
	contrat := postSeed("/location/louer", map[string]interface{}{
		"chambre_id":         chambre["id"],
		"locataire_id":       locataire["id"],
		"date_debut":         time.Now().Format(time.RFC3339),
		"loyer_mensuel":      450,
		"charges_mensuelles": 50,
		"depot_garantie":     450,
		"type_bail":          "meuble",
	})
	if contrat != nil {
		fmt.Printf("✓ demo data seeded (contrat %v)\n", contrat["id"])
	}
}

// postSeed posts one entity and returns the created data map, or nil on
// failure.
func postSeed(path string, payload map[string]interface{}) map[string]interface{} {
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if success, _ := result["success"].(bool); !success {
		fmt.Printf("✗ POST %s failed: %v\n", path, result["error"])
		return nil
	}
	created, _ := result["data"].(map[string]interface{})
	return created
}

// Helper functions
func getAPIURL() string {
	if url := os.Getenv("PROPMANAGER_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.propmanager/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.propmanager", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	token := loadToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`PropManager CLI

Usage:
  propmanager <command> [options]

Commands:
  auth          User authentication (register, login, logout, who)
  bien          Property operations (list, get, delete)
  chambre       Room operations (list, libres, get, delete)
  locataire     Tenant operations (list, actifs, get, delete)
  contrat       Lease operations (list, actifs, get)
  loyer         Rent operations (list, en-retard, payer)
  dashboard     Show aggregated statistics
  recherche     Global search across properties and tenants
  synchroniser  Run the data consistency check
  seed          Post a demo property, room, tenant and rental
  help          Show this help message

Environment Variables:
  PROPMANAGER_API    API endpoint (default: http://localhost:8080/api)

Examples:
  propmanager auth register -email user@example.com -username user -password pass
  propmanager auth login -email user@example.com -password pass
  propmanager bien list
  propmanager chambre libres
  propmanager loyer payer loyer-abc123 -mode virement
`)
}
