package coupon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"storefront-cart/internal/model"
	"storefront-cart/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// record is one line of a coupon import file.
type record struct {
	Code           string           `json:"code"`
	AmountType     model.AmountType `json:"amountType"`
	DiscountAmount decimal.Decimal  `json:"discountAmount"`
	MinAmount      decimal.Decimal  `json:"minAmount"`
	ValidFrom      *time.Time       `json:"validFrom,omitempty"`
	ValidUntil     *time.Time       `json:"validUntil,omitempty"`
	UsageLimit     *int             `json:"usageLimit,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Active         *bool            `json:"active,omitempty"`
}

func (r record) toCoupon(now time.Time) model.Coupon {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return model.Coupon{
		ID:             uuid.New(),
		Code:           model.NormalizeCouponCode(r.Code),
		AmountType:     model.AmountType(strings.ToUpper(string(r.AmountType))),
		DiscountAmount: r.DiscountAmount,
		MinAmount:      r.MinAmount,
		ValidFrom:      r.ValidFrom,
		ValidUntil:     r.ValidUntil,
		UsageLimit:     r.UsageLimit,
		Category:       r.Category,
		Active:         active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// decode reads JSON-lines coupon records from r. Lines that do not parse or
// fail definition validation are skipped and logged; blank lines are ignored.
func decode(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) (*MapSet, error) {
	set := NewMapSet(1024)
	now := time.Now().UTC()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Str("source", source).Msg("coupon loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			skipped++
			logger.Warn().Err(err).Str("source", source).Int("line", lineNo).Msg("skipping malformed coupon line")
			continue
		}

		c := rec.toCoupon(now)
		if err := pricing.ValidateCoupon(&c); err != nil {
			skipped++
			logger.Warn().Err(err).Str("source", source).Int("line", lineNo).Str("coupon_code", c.Code).Msg("skipping invalid coupon definition")
			continue
		}

		set.Add(c)
	}

	if err := scanner.Err(); err != nil {
		logger.Error().Err(err).Str("source", source).Msg("error reading coupon file")
		return nil, fmt.Errorf("error reading coupon file %s: %w", source, err)
	}

	logger.Info().
		Str("source", source).
		Int("coupons_loaded", set.Size()).
		Int("lines_skipped", skipped).
		Msg("coupon file loaded successfully")

	return set, nil
}
