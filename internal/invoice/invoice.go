package invoice

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a single extracted invoice. All fields are plain strings; a
// field the model could not find stays empty. JSON tags match the header
// names the extraction prompt asks the model to emit.
type Record struct {
	VendorName          string `json:"Vendor Name"`
	InvoiceNumber       string `json:"Invoice Number"`
	InvoiceDate         string `json:"Invoice Date"`
	DueDate             string `json:"Due Date"`
	PONumber            string `json:"PO Number"`
	TotalAmount         string `json:"Total Amount"`
	Description         string `json:"Description"`
	BillTo              string `json:"Bill To"`
	PaymentTerms        string `json:"Payment Terms"`
	PaymentInstructions string `json:"Payment Instructions"`
}

// Fields is the canonical field order used for prompts and tabular export.
var Fields = []string{
	"Vendor Name",
	"Invoice Number",
	"Invoice Date",
	"Due Date",
	"PO Number",
	"Total Amount",
	"Description",
	"Bill To",
	"Payment Terms",
	"Payment Instructions",
}

// Field returns the value for a canonical field name, or "" for an unknown
// name.
func (r Record) Field(name string) string {
	switch name {
	case "Vendor Name":
		return r.VendorName
	case "Invoice Number":
		return r.InvoiceNumber
	case "Invoice Date":
		return r.InvoiceDate
	case "Due Date":
		return r.DueDate
	case "PO Number":
		return r.PONumber
	case "Total Amount":
		return r.TotalAmount
	case "Description":
		return r.Description
	case "Bill To":
		return r.BillTo
	case "Payment Terms":
		return r.PaymentTerms
	case "Payment Instructions":
		return r.PaymentInstructions
	}
	return ""
}

// Identity is the dedup key: vendor name plus invoice number. It is not
// globally unique, only an equality proxy; two vendors reusing the same
// invoice number with the same name would collide. Kept as-is deliberately.
func (r Record) Identity() string {
	return r.VendorName + "-" + r.InvoiceNumber
}

// Dedupe flattens per-chunk record groups into a single slice, preserving
// first-seen order, and drops records whose identity was already seen. The
// first record wins; later duplicates are discarded without field merging.
func Dedupe(groups [][]Record) []Record {
	seen := map[string]struct{}{}
	out := make([]Record, 0, 16)
	for _, g := range groups {
		for _, r := range g {
			key := r.Identity()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

// DecodeArray parses a JSON array of invoice objects leniently. Models
// frequently emit numbers where the schema asks for strings, null for
// missing fields, or snake_case key variants; all of those are coerced
// rather than rejected. Unknown keys are ignored. A non-array payload is an
// error.
func DecodeArray(data []byte) ([]Record, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode invoice array: %w", err)
	}
	out := make([]Record, 0, len(raw))
	for _, m := range raw {
		var r Record
		for k, v := range m {
			s := coerceString(v)
			switch normalizeKey(k) {
			case "vendorname":
				r.VendorName = s
			case "invoicenumber":
				r.InvoiceNumber = s
			case "invoicedate":
				r.InvoiceDate = s
			case "duedate":
				r.DueDate = s
			case "ponumber":
				r.PONumber = s
			case "totalamount":
				r.TotalAmount = s
			case "description", "descriptionofservicesgoods":
				r.Description = s
			case "billto", "billtopropertyname":
				r.BillTo = s
			case "paymentterms":
				r.PaymentTerms = s
			case "paymentinstructions", "remittopaymentinstructions":
				r.PaymentInstructions = s
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// normalizeKey lowercases a key and strips separators so "Vendor Name",
// "vendor_name" and "vendorName" all map to the same field.
func normalizeKey(k string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(k) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
