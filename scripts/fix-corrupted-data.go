package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/questforge/questforge-api/internal/leveling"
)

// Minimal shape for inspecting stored character records
type characterData struct {
	Level      int             `json:"level"`
	Experience int             `json:"experience"`
	Inventory  json.RawMessage `json:"inventory"`
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning for corrupted character data...")

	iter := client.Scan(ctx, 0, "character:*", 0).Iterator()

	var corruptedKeys []string
	var driftedKeys []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var char characterData
		if err := json.Unmarshal([]byte(data), &char); err != nil {
			fmt.Printf("✗ Corrupted JSON in %s\n", key)
			corruptedKeys = append(corruptedKeys, key)
			continue
		}

		// Old clients stored inventory as an itemID->quantity map instead
		// of a stack array.
		if char.Inventory != nil {
			invStr := strings.TrimSpace(string(char.Inventory))
			if strings.HasPrefix(invStr, "{") {
				fmt.Printf("✗ Old inventory format in %s\n", key)
				corruptedKeys = append(corruptedKeys, key)
				continue
			}
		}

		// Level drift is repairable in place; experience is the source
		// of truth.
		if derived := leveling.LevelFromExperience(char.Experience); derived != char.Level {
			fmt.Printf("~ Level drift in %s: stored %d, derived %d\n", key, char.Level, derived)
			driftedKeys = append(driftedKeys, key)
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys: %d corrupted, %d with level drift\n",
		checkedCount, len(corruptedKeys), len(driftedKeys))

	for _, key := range driftedKeys {
		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Failed to re-read %s: %v\n", key, err)
			continue
		}
		var full map[string]any
		if err := json.Unmarshal([]byte(data), &full); err != nil {
			continue
		}
		exp, _ := full["experience"].(float64)
		full["level"] = leveling.LevelFromExperience(int(exp))
		fixed, err := json.Marshal(full)
		if err != nil {
			continue
		}
		if err := client.Set(ctx, key, fixed, 0).Err(); err != nil {
			fmt.Printf("Failed to repair %s: %v\n", key, err)
		} else {
			fmt.Printf("Repaired level for %s\n", key)
		}
	}

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Println("\nCorrupted keys:")
	for _, key := range corruptedKeys {
		fmt.Printf("  - %s\n", key)
	}

	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response == "yes" {
		for _, key := range corruptedKeys {
			if err := client.Del(ctx, key).Err(); err != nil {
				fmt.Printf("Failed to delete %s: %v\n", key, err)
			} else {
				fmt.Printf("Deleted %s\n", key)
			}
		}
		fmt.Println("\nCleanup complete!")
	} else {
		fmt.Println("Aborted - no changes made")
	}
}
