package node

import (
	"errors"
	"strings"
	"testing"
)

func validNode() Node {
	return Node{
		ID:          "transistor",
		Label:       "Transistor",
		Description: "Semiconductor device used to amplify or switch signals.",
		Year:        1947,
		Domain:      DomainElectronics,
		Status:      StatusHistorical,
	}
}

func TestValidateForCreate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Node)
		wantErr error
	}{
		{
			name:    "valid node",
			mutate:  func(n *Node) {},
			wantErr: nil,
		},
		{
			name:    "valid with links",
			mutate:  func(n *Node) { n.Links = []string{"quantum-mechanics", "vacuum-tube"} },
			wantErr: nil,
		},
		{
			name:    "empty id",
			mutate:  func(n *Node) { n.ID = "" },
			wantErr: ErrEmptyID,
		},
		{
			name:    "invalid id - uppercase",
			mutate:  func(n *Node) { n.ID = "Transistor" },
			wantErr: ErrInvalidID,
		},
		{
			name:    "invalid id - starts with hyphen",
			mutate:  func(n *Node) { n.ID = "-transistor" },
			wantErr: ErrInvalidID,
		},
		{
			name:    "invalid id - contains space",
			mutate:  func(n *Node) { n.ID = "point contact" },
			wantErr: ErrInvalidID,
		},
		{
			name:    "empty label",
			mutate:  func(n *Node) { n.Label = "" },
			wantErr: ErrEmptyLabel,
		},
		{
			name:    "whitespace label",
			mutate:  func(n *Node) { n.Label = "   " },
			wantErr: ErrEmptyLabel,
		},
		{
			name:    "empty description",
			mutate:  func(n *Node) { n.Description = "" },
			wantErr: ErrEmptyDescription,
		},
		{
			name:    "year below range",
			mutate:  func(n *Node) { n.Year = 1799 },
			wantErr: ErrYearOutOfRange,
		},
		{
			name:    "year above range",
			mutate:  func(n *Node) { n.Year = 2101 },
			wantErr: ErrYearOutOfRange,
		},
		{
			name:    "year at lower bound",
			mutate:  func(n *Node) { n.Year = 1800 },
			wantErr: nil,
		},
		{
			name:    "year at upper bound",
			mutate:  func(n *Node) { n.Year = 2100 },
			wantErr: nil,
		},
		{
			name:    "unknown domain",
			mutate:  func(n *Node) { n.Domain = "alchemy" },
			wantErr: ErrInvalidDomain,
		},
		{
			name:    "unknown status",
			mutate:  func(n *Node) { n.Status = "obsolete" },
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "self link",
			mutate:  func(n *Node) { n.Links = []string{"transistor"} },
			wantErr: ErrSelfLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNode()
			tt.mutate(&n)
			err := n.ValidateForCreate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateForCreate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDomainOrdinal(t *testing.T) {
	if got := DomainComputing.Ordinal(); got != 0 {
		t.Errorf("DomainComputing.Ordinal() = %d, want 0", got)
	}
	if got := DomainAI.Ordinal(); got != len(Domains)-1 {
		t.Errorf("DomainAI.Ordinal() = %d, want %d", got, len(Domains)-1)
	}
	if got := Domain("alchemy").Ordinal(); got != -1 {
		t.Errorf("unknown domain Ordinal() = %d, want -1", got)
	}

	// Ordinals must be distinct and dense.
	seen := make(map[int]bool)
	for _, d := range Domains {
		ord := d.Ordinal()
		if ord < 0 || ord >= len(Domains) {
			t.Errorf("domain %q ordinal %d out of range", d, ord)
		}
		if seen[ord] {
			t.Errorf("domain %q shares ordinal %d", d, ord)
		}
		seen[ord] = true
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Transistor", "transistor"},
		{"Integrated Circuit", "integrated-circuit"},
		{"Wi-Fi (802.11)", "wi-fi-802-11"},
		{"  spaced  out  ", "spaced-out"},
		{"???", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewID(t *testing.T) {
	id := NewID("Integrated Circuit")
	if !strings.HasPrefix(id, "integrated-circuit-") {
		t.Errorf("NewID prefix = %q, want integrated-circuit-", id)
	}
	if err := ValidateID(id); err != nil {
		t.Errorf("generated ID %q fails validation: %v", id, err)
	}

	// Same label must still yield unique IDs.
	other := NewID("Integrated Circuit")
	if id == other {
		t.Errorf("NewID produced duplicate ID %q for repeated label", id)
	}

	// Unsluggable labels fall back to a generic stem.
	if got := NewID("???"); !strings.HasPrefix(got, "node-") {
		t.Errorf("NewID(\"???\") = %q, want node- prefix", got)
	}
}
