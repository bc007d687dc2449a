package module

import (
	"reports/internal/adapters/jsonl"
	"reports/internal/core/table"
	"reports/internal/platform/config"
	"reports/internal/services/convert/domain"
)

// Default paths used when nothing is configured
const (
	DefaultInput  = "./logs/shop_log.jsonl"
	DefaultOutput = "./logs/processed_logs.csv"
)

// FromConfig reads the converter options from config with REPORTS_ prefix
func FromConfig(cfg config.Conf) domain.Options {
	c := cfg.Prefix("REPORTS_")
	return domain.Options{
		Input:        c.MayString("INPUT", DefaultInput),
		Output:       c.MayString("OUTPUT", DefaultOutput),
		Order:        c.MayString("COLUMN_ORDER", table.OrderFirstSeen),
		Delimiter:    c.MayRune("DELIMITER", ','),
		MaxLineBytes: c.MayInt("MAX_LINE_BYTES", jsonl.DefaultMaxLineBytes),
	}
}
