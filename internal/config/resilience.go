package config

import (
	"time"

	"interview_hosting/internal/retry"
)

type ResilienceConfig struct {
	RefreshLoop retry.Config
	SheetRead   retry.Config
	SheetWrite  retry.Config
	MailSend    retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	RefreshLoop: retry.Config{
		MaxRetries: 3,
		BaseDelay:  5 * time.Second,
		MaxDelay:   60 * time.Second,
		Timeout:    30 * time.Second,
	},
	SheetRead: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	SheetWrite: retry.Config{
		MaxRetries: 5,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	// Outbound mail is not retried automatically. A failed send cancels
	// the linked status write and the candidate is reported as skipped,
	// so the operator decides whether to resend.
	MailSend: retry.Config{
		MaxRetries: 0,
		BaseDelay:  0,
		MaxDelay:   0,
		Timeout:    30 * time.Second,
	},
}

var InfiniteResilienceConfig = ResilienceConfig{
	RefreshLoop: retry.Config{
		MaxRetries:    0,
		BaseDelay:     5 * time.Second,
		MaxDelay:      60 * time.Second,
		Timeout:       30 * time.Second,
		InfiniteRetry: true,
	},
	SheetRead: retry.Config{
		MaxRetries:    0,
		BaseDelay:     2 * time.Second,
		MaxDelay:      30 * time.Second,
		Timeout:       15 * time.Second,
		InfiniteRetry: true,
	},
	SheetWrite: retry.Config{
		MaxRetries:    0,
		BaseDelay:     1 * time.Second,
		MaxDelay:      30 * time.Second,
		Timeout:       15 * time.Second,
		InfiniteRetry: true,
	},
	MailSend: retry.Config{
		MaxRetries: 0,
		BaseDelay:  0,
		MaxDelay:   0,
		Timeout:    30 * time.Second,
	},
}
