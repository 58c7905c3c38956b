// Command mockcallback signs a gateway payment callback with the merchant
// credentials from the environment and posts it to a running service.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/client"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/config"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var cfg config.PayTR
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "PAYTR_"}); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing PAYTR_* settings: %v\n", err)
		os.Exit(1)
	}

	url := flag.String("url", "http://localhost:8080/api/payments/callback", "Callback URL")
	merchantOID := flag.String("merchant-oid", "", "Order merchant_oid (required)")
	amount := flag.Int64("amount", 0, "Paid amount in minor units, e.g. 23600 for 236.00")
	status := flag.String("status", model.CallbackStatusSuccess, "success or failed")
	reason := flag.String("reason", "card declined", "Failure message (failed status only)")
	dryRun := flag.Bool("dry-run", false, "Only print the signed form, don't send")

	flag.Parse()

	if *merchantOID == "" {
		fmt.Fprintln(os.Stderr, "Error: -merchant-oid is required")
		os.Exit(1)
	}
	if cfg.MerchantKey == "" || cfg.MerchantSalt == "" {
		fmt.Fprintln(os.Stderr, "Error: PAYTR_MERCHANT_KEY and PAYTR_MERCHANT_SALT must be set")
		os.Exit(1)
	}

	total := strconv.FormatInt(*amount, 10)
	params := model.CallbackParams{
		MerchantOID: *merchantOID,
		Status:      *status,
		TotalAmount: total,
		Hash:        client.SignCallback(&cfg, *merchantOID, total),
		Currency:    "TL",
		TestMode:    "1",
	}
	if *status != model.CallbackStatusSuccess {
		params.FailedReasonCode = "0"
		params.FailedReasonMsg = *reason
	}

	form := params.Values().Encode()
	fmt.Printf("Body: %s\n", form)

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	resp, err := http.Post(*url, "application/x-www-form-urlencoded", strings.NewReader(form))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
