package utils

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/crm_backend/config"
	"github.com/ttacon/libphonenumber"
)

var CountryCode = "US"

// NormalizePhoneNumber formats a raw phone value to E.164 when it parses as a
// valid number for the configured country; otherwise the trimmed input is
// returned unchanged so imports never lose the original value.
func NormalizePhoneNumber(phoneNumber string) string {
	trimmed := strings.TrimSpace(phoneNumber)
	if trimmed == "" {
		return ""
	}
	p, err := libphonenumber.Parse(trimmed, CountryCode)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return trimmed
	}
	return libphonenumber.Format(p, libphonenumber.E164)
}

// ObtainRunLock grabs the named import lock so two workers never process
// runs concurrently. The caller must Release the returned lock.
func ObtainRunLock(ctx context.Context, lockKey string, ttl time.Duration) (*redislock.Lock, error) {
	locker := config.GetRedisLock()
	if locker == nil {
		// Avoid nil-pointer panics when Redis lock isn't initialized yet.
		return nil, errors.New("service not ready (redis lock not initialized)")
	}
	lock, err := locker.Obtain(ctx, lockKey, ttl, nil)
	if err == redislock.ErrNotObtained {
		return nil, errors.New("could not obtain lock " + lockKey)
	} else if err != nil {
		return nil, err
	}
	return lock, nil
}
