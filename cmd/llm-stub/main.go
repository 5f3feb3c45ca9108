// llm-stub is a tiny OpenAI-compatible chat completions server that answers
// every extraction prompt with a fixed single-invoice JSON array. It exists
// for offline runs of the real binary:
//
//	llm-stub &
//	invoice-extractor -llm.base http://localhost:8081/v1 -llm.model stub-model in.pdf
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "stub-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	invoices := []map[string]string{{
		"Vendor Name":          "Example Vendor",
		"Invoice Number":       "INV12345",
		"Invoice Date":         "2025-09-01",
		"Due Date":             "2025-10-01",
		"PO Number":            "PO67890",
		"Total Amount":         "$1000.00",
		"Description":          "Consulting Services",
		"Bill To":              "Oaks at Creekside",
		"Payment Terms":        "Net 30",
		"Payment Instructions": "Wire transfer to account XYZ",
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sys := ""
		if len(req.Messages) > 0 {
			sys = req.Messages[0].Content
		}
		if !strings.Contains(sys, "extracting structured data from invoices") {
			http.Error(w, "unexpected system prompt", http.StatusBadRequest)
			return
		}
		payload, _ := json.Marshal(invoices)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": string(payload)}},
			},
		})
	})

	log.Printf("llm-stub listening on %s (model=%s)", addr, model)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
