//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// sampleCoupon mirrors one line of a coupon import file.
type sampleCoupon struct {
	Code           string     `json:"code"`
	AmountType     string     `json:"amountType"`
	DiscountAmount string     `json:"discountAmount"`
	MinAmount      string     `json:"minAmount,omitempty"`
	ValidFrom      *time.Time `json:"validFrom,omitempty"`
	ValidUntil     *time.Time `json:"validUntil,omitempty"`
	UsageLimit     *int       `json:"usageLimit,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Active         *bool      `json:"active,omitempty"`
}

// generateSampleCoupons creates sample coupon import files for testing.
// File 1: WELCOME10, SAVE20, FLAT50, SUMMER2024, BROKEN (invalid, skipped)
// File 2: SAVE20 (overrides file 1), WINTER2024, VIP100, RETIRED
// Later files win per code, so SAVE20 ends up as a 25% coupon.
func main() {
	dataDir := "data/coupons"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	lastYear := now.AddDate(-1, 0, 0)
	nextYear := now.AddDate(1, 0, 0)
	nextMonth := now.AddDate(0, 1, 0)
	limit := func(n int) *int { return &n }
	category := func(s string) *string { return &s }
	inactive := false

	files := map[string][]any{
		"couponbase1.jsonl.gz": {
			sampleCoupon{Code: "WELCOME10", AmountType: "PERCENTAGE", DiscountAmount: "10"},
			sampleCoupon{Code: "SAVE20", AmountType: "PERCENTAGE", DiscountAmount: "20", MinAmount: "100"},
			sampleCoupon{Code: "FLAT50", AmountType: "FIXED", DiscountAmount: "50", MinAmount: "200", UsageLimit: limit(100)},
			sampleCoupon{Code: "SUMMER2024", AmountType: "PERCENTAGE", DiscountAmount: "15", ValidFrom: &lastYear, ValidUntil: &now, Category: category("seasonal")},
			sampleCoupon{Code: "BROKEN", AmountType: "PERCENTAGE", DiscountAmount: "150"},
		},
		"couponbase2.jsonl.gz": {
			sampleCoupon{Code: "SAVE20", AmountType: "PERCENTAGE", DiscountAmount: "25", MinAmount: "100"},
			sampleCoupon{Code: "WINTER2024", AmountType: "PERCENTAGE", DiscountAmount: "12.5", ValidFrom: &nextMonth, ValidUntil: &nextYear, Category: category("seasonal")},
			sampleCoupon{Code: "VIP100", AmountType: "FIXED", DiscountAmount: "100", MinAmount: "500", UsageLimit: limit(1), Category: category("vip")},
			sampleCoupon{Code: "RETIRED", AmountType: "FIXED", DiscountAmount: "5", Active: &inactive},
		},
	}

	for filename, coupons := range files {
		filePath := filepath.Join(dataDir, filename)

		if err := createCouponFile(filePath, coupons); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d records\n", filePath, len(coupons))
	}

	fmt.Println("\nSample coupon files created successfully!")
	fmt.Println("\nImport with COUPON_IMPORT_ENABLED=true COUPON_FILES=couponbase1.jsonl.gz,couponbase2.jsonl.gz")
}

func createCouponFile(filePath string, coupons []any) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, coupon := range coupons {
		if err := encoder.Encode(coupon); err != nil {
			return fmt.Errorf("failed to write coupon: %w", err)
		}
	}

	return nil
}
