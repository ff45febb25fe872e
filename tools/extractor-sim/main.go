package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Serves a minimal OpenAI-compatible /v1/chat/completions endpoint that
// always answers with one fixed slot array. Point the bot's
// OPENAI_BASE_URL at it to exercise the full conversation flow without a
// real API key.
func main() {
	var (
		addr     = flag.String("addr", getenv("ADDR", ":9090"), "listen address")
		date     = flag.String("date", getenv("SIM_DATE", time.Now().AddDate(0, 0, 1).Format("2006-01-02")), "slot date (YYYY-MM-DD)")
		start    = flag.String("start", getenv("SIM_START", "10:00"), "slot start time")
		end      = flag.String("end", getenv("SIM_END", "13:00"), "slot end time")
		slotType = flag.String("type", getenv("SIM_TYPE", "URGENT"), "slot type (URGENT or VP)")
	)
	flag.Parse()

	content, err := json.Marshal([]map[string]string{{
		"date":      *date,
		"startTime": *start,
		"endTime":   *end,
		"type":      *slotType,
	}})
	if err != nil {
		fatal(err.Error())
	}

	http.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		resp := map[string]any{
			"id":      fmt.Sprintf("chatcmpl-sim-%d", time.Now().UnixNano()),
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "extractor-sim",
			"choices": []map[string]any{{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": string(content),
				},
				"finish_reason": "stop",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	fmt.Printf("extractor-sim listening on %s, replying with %s\n", *addr, content)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		fatal(err.Error())
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
