package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/techatlas/atlas/internal/node"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search/list commands

	LabelMaxLen       = 50 // Label truncation in list output
	DescriptionMaxLen = 70 // Description truncation in list output
)

// Color styles for human output.
var (
	styleLabel  = color.New(color.FgHiWhite, color.Bold)
	styleSubtle = color.New(color.FgHiBlack)
	styleDomain = color.New(color.FgCyan)
	styleWarn   = color.New(color.FgYellow)
	styleGood   = color.New(color.FgGreen)
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON)
// and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NodeResponse wraps a single node with a status for mutation commands.
type NodeResponse struct {
	Status string    `json:"status"`
	Node   node.Node `json:"node"`
}

// NodeListResponse is the response for list/search/related commands.
type NodeListResponse struct {
	Count int         `json:"count"`
	Nodes []node.Node `json:"nodes"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// printNodeHuman prints one node in full detail.
func printNodeHuman(n node.Node) {
	styleLabel.Printf("%s", n.Label)
	styleSubtle.Printf("  (%s)\n", n.ID)
	fmt.Printf("  Year:   %d\n", n.Year)
	fmt.Print("  Domain: ")
	styleDomain.Printf("%s\n", n.Domain)
	fmt.Printf("  Status: %s\n", n.Status)
	if n.Description != "" {
		fmt.Printf("  %s\n", n.Description)
	}
	if len(n.Links) > 0 {
		fmt.Printf("  Links:  %s\n", strings.Join(n.Links, ", "))
	}
}

// printNodeListHuman prints nodes one per line.
func printNodeListHuman(nodes []node.Node) {
	if len(nodes) == 0 {
		styleSubtle.Println("no nodes")
		return
	}
	for _, n := range nodes {
		fmt.Printf("%d  ", n.Year)
		styleDomain.Printf("%-13s ", n.Domain)
		fmt.Printf("%s", truncateString(n.Label, LabelMaxLen))
		styleSubtle.Printf("  (%s)\n", n.ID)
	}
}
