package redis

import (
	"fmt"

	"github.com/mkarpov/giftcircle/internal/model"
)

// Key prefix for all session data
const keyPrefix = "giftcircle"

// tableKey returns the Redis key for a Table
func tableKey(id model.TableID) string {
	return fmt.Sprintf("%s:table:%s", keyPrefix, id)
}

// tableIndexKey returns the Redis key for the SET of live table IDs
func tableIndexKey() string {
	return fmt.Sprintf("%s:idx:tables", keyPrefix)
}

// referralKey returns the Redis key for a ReferralCode
func referralKey(code string) string {
	return fmt.Sprintf("%s:referral:%s", keyPrefix, code)
}

// referralIndexKey returns the Redis key for the SET of live referral codes
func referralIndexKey() string {
	return fmt.Sprintf("%s:idx:referrals", keyPrefix)
}

// chatKey returns the Redis key for a table's chat history LIST
func chatKey(id model.TableID) string {
	return fmt.Sprintf("%s:chat:%s", keyPrefix, id)
}

// admittedKey returns the Redis key for the SET of ever-admitted participants
func admittedKey() string {
	return fmt.Sprintf("%s:stats:admitted", keyPrefix)
}

// splitTablesKey returns the Redis key for the split-table counter
func splitTablesKey() string {
	return fmt.Sprintf("%s:stats:split_tables", keyPrefix)
}

// adminLogKey returns the Redis key for the admin log LIST
func adminLogKey() string {
	return fmt.Sprintf("%s:admin:logs", keyPrefix)
}
