package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cloudx-io/bondclear/auctionapi"
	"github.com/cloudx-io/bondclear/validation"
)

// clearingRecord is the on-disk format: the request a clearing engine was
// given and the response it produced, captured verbatim.
type clearingRecord struct {
	Request  auctionapi.ClearingRequest  `json:"request"`
	Response auctionapi.ClearingResponse `json:"response"`
}

func main() {
	var (
		recordInput  = flag.String("record", "", "Clearing record JSON (file path or inline JSON)")
		outputFormat = flag.String("format", "text", "Output format: text or json")
		help         = flag.Bool("help", false, "Show usage information")
	)

	flag.Parse()

	if *help {
		showUsage()
		os.Exit(0)
	}

	if *recordInput == "" {
		showUsage()
		fmt.Fprintf(os.Stderr, "\nError: --record is required\n")
		os.Exit(1)
	}

	record, err := readRecord(*recordInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading record: %v\n", err)
		os.Exit(2)
	}

	result, err := validation.ValidateClearingResponse(record.Request, record.Response)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation error: %v\n", err)
		os.Exit(2)
	}

	if *outputFormat == "json" {
		outputJSON(result)
	} else {
		outputText(result)
	}

	if !result.IsValid() {
		os.Exit(1)
	}
	os.Exit(0)
}

func showUsage() {
	fmt.Println("Clearing Outcome Validator")
	fmt.Println()
	fmt.Println("Audits a recorded clearing response: verifies the COSE proof, replays the")
	fmt.Println("deterministic clearing over the recorded bids, and checks the conservation")
	fmt.Println("and uniform-pricing invariants.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  outcome-validator --record <json> [options]")
	fmt.Println()
	fmt.Println("Required Flags:")
	fmt.Println("  --record <json>        Clearing record: {\"request\": ..., \"response\": ...}")
	fmt.Println("                         Accepts a file path or an inline JSON string.")
	fmt.Println()
	fmt.Println("Optional Flags:")
	fmt.Println("  --format <text|json>   Output format (default: text)")
	fmt.Println("  --help                 Show this help message")
	fmt.Println()
	fmt.Println("Exit codes: 0 valid, 1 invalid, 2 could not validate.")
}

// readRecord accepts either a file path or an inline JSON string.
func readRecord(input string) (*clearingRecord, error) {
	data := []byte(input)
	if _, err := os.Stat(input); err == nil {
		data, err = os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", input, err)
		}
	}

	var record clearingRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse record JSON: %w", err)
	}
	return &record, nil
}

func outputText(result *validation.ClearingValidationResult) {
	status := func(ok bool) string {
		if ok {
			return "PASS"
		}
		return "FAIL"
	}

	fmt.Printf("Signature:    %s\n", status(result.SignatureValid))
	fmt.Printf("Request hash: %s\n", status(result.RequestHashValid))
	fmt.Printf("Outcome hash: %s\n", status(result.OutcomeHashValid))
	fmt.Printf("Replay:       %s\n", status(result.ReplayValid))
	fmt.Printf("Conservation: %s\n", status(result.ConservationValid))
	fmt.Printf("Settlement:   %s\n", status(result.SettlementValid))
	fmt.Println()
	for _, detail := range result.ValidationDetails {
		fmt.Printf("  - %s\n", detail)
	}
	fmt.Println()
	if result.IsValid() {
		fmt.Println("Result: VALID")
	} else {
		fmt.Println("Result: INVALID")
	}
}

func outputJSON(result *validation.ClearingValidationResult) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(2)
	}
}
