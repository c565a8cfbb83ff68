package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Tokens come from the environment so the script works against any deployment.
// Mint them by logging in via /auth/v1/login and /admin/v1/login.
var (
	userToken  = os.Getenv("USER_TOKEN")
	adminToken = os.Getenv("ADMIN_TOKEN")
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout; generation can take a while
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	if userToken == "" || adminToken == "" {
		color.Red("USER_TOKEN and ADMIN_TOKEN must be set")
		os.Exit(1)
	}

	color.Cyan("🚀 Starting Image Pipeline API Smoke Test\n")

	// 1. Public: Generation Catalog
	color.Yellow("\n[PUBLIC] 1. Get Generation Catalog")
	resp, body, err := sendRequest("GET", "/image/v1/catalog", "", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var catalogResp map[string]interface{}
	json.Unmarshal(body, &catalogResp)
	prettyPrint(catalogResp)

	// 2. User: Check Balance
	color.Yellow("\n[USER] 2. Get Credit Balance")
	resp, body, err = sendRequest("GET", "/credit/v1/balance", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var balanceResp map[string]interface{}
	json.Unmarshal(body, &balanceResp)
	prettyPrint(balanceResp)

	// 3. User: Generate an Image
	color.Yellow("\n[USER] 3. Generate Image (1 credit)")
	genReq := map[string]interface{}{
		"prompt":      "a lighthouse at dusk, watercolor",
		"aspectRatio": "1:1",
		"style":       "painting",
		"numImages":   1,
	}
	resp, body, err = sendRequest("POST", "/image/v1/generate", userToken, genReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var genResp map[string]interface{}
	json.Unmarshal(body, &genResp)
	prettyPrint(genResp)

	// 4. User: Generation History
	color.Yellow("\n[USER] 4. List Generations")
	resp, body, err = sendRequest("GET", "/image/v1/generations?limit=5", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var listResp map[string]interface{}
	json.Unmarshal(body, &listResp)
	prettyPrint(listResp)

	// 5. User: Ledger
	color.Yellow("\n[USER] 5. List Credit Transactions")
	resp, body, err = sendRequest("GET", "/credit/v1/transactions?limit=5", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var txResp map[string]interface{}
	json.Unmarshal(body, &txResp)
	prettyPrint(txResp)

	// 6. Admin: List Users
	color.Yellow("\n[ADMIN] 6. List Users")
	resp, body, err = sendRequest("GET", "/admin/v1/users?limit=5", adminToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var usersResp map[string]interface{}
	json.Unmarshal(body, &usersResp)
	prettyPrint(usersResp)

	// Extract the first user id for the adjustment test
	var targetUserID string
	if data, ok := usersResp["data"].([]interface{}); ok && len(data) > 0 {
		if row, ok := data[0].(map[string]interface{}); ok {
			if id, ok := row["id"].(string); ok {
				targetUserID = id
			}
		}
	}

	// 7. Admin: Adjust Credits
	if targetUserID != "" {
		color.Yellow("\n[ADMIN] 7. Adjust Credits (+5) for %s", targetUserID)
		adjReq := map[string]interface{}{
			"user_id": targetUserID,
			"amount":  5,
			"notes":   "smoke test adjustment",
		}
		resp, body, err = sendRequest("POST", "/admin/v1/credits/adjust", adminToken, adjReq)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		var adjResp map[string]interface{}
		json.Unmarshal(body, &adjResp)
		prettyPrint(adjResp)
	} else {
		color.Red("\n[ADMIN] 7. Skipped adjustment: no user id in list response")
	}

	color.Cyan("\n✅ Smoke test finished")
}
