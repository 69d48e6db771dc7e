package cache

import (
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// key names definition
// key names built in lua scripts must follow these formats
const (
	ShowingAvailableKey = "showing:%d:seats:available" // available-seat counter, '%d' is showing id
	ShowingSeatMapKey   = "showing:%d:seatmap"         // seat layout snapshot, '%d' is showing id
)

func MakeShowingAvailableKey(showingID uint) string {
	return fmt.Sprintf("showing:%d:seats:available", showingID)
}

func MakeShowingSeatMapKey(showingID uint) string {
	return fmt.Sprintf("showing:%d:seatmap", showingID)
}

// lua scripts

var initCountersScript = redis.NewScript(`
-- ARGV: key1 value1 key2 value2 ...
for i = 1, #ARGV, 2 do
	local key = ARGV[i]
	local value = tonumber(ARGV[i + 1])
	redis.call("SET", key, value)
end
return #ARGV / 2
`)

// adjust the counter without ever going below zero; the authoritative
// count lives in the inventory, this is a display hint only
var adjustAvailableScript = redis.NewScript(`
	-- KEYS[1] = showing:{showing_id}:seats:available
	-- ARGV[1] = delta

	local current = tonumber(redis.call("GET", KEYS[1]))
	if not current then
		return -1
	end
	local next = current + tonumber(ARGV[1])
	if next < 0 then
		next = 0
	end
	redis.call("SET", KEYS[1], next)
	return next
`)
