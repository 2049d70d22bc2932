package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Record:
		o.printRecord(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Record response type (matches API)
type Record struct {
	Identifier    string `json:"identifier"`
	Nickname      string `json:"nickname"`
	IdentityKind  string `json:"identity_kind"`
	HasPassword   bool   `json:"has_password"`
	TotpEnabled   bool   `json:"totp_enabled"`
	IP            string `json:"ip,omitempty"`
	LoginIP       string `json:"login_ip,omitempty"`
	RegisteredAt  int64  `json:"registered_at,omitempty"`
	LastLoginAt   int64  `json:"last_login_at,omitempty"`
	TokenIssuedAt int64  `json:"token_issued_at,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRecord(r Record) {
	fmt.Printf("Nickname:      %s\n", r.Nickname)
	fmt.Printf("Identifier:    %s\n", valueOrDash(r.Identifier))
	fmt.Printf("Identity kind: %s\n", valueOrDash(r.IdentityKind))
	fmt.Printf("Password set:  %t\n", r.HasPassword)
	fmt.Printf("TOTP enabled:  %t\n", r.TotpEnabled)
	if r.RegisteredAt > 0 {
		fmt.Printf("Registered:    %s\n", formatMillis(r.RegisteredAt))
	}
	if r.LastLoginAt > 0 {
		fmt.Printf("Last login:    %s\n", formatMillis(r.LastLoginAt))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func valueOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func formatMillis(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}
