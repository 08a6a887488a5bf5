// Package node defines the core domain types for technology nodes.
package node

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Node represents a technology or concept entry with temporal and categorical
// attributes. Links name the IDs of prerequisite nodes; edges are derived from
// them and never stored.
type Node struct {
	ID          string   `json:"id"`              // Required, unique, lowercase alphanumeric + hyphens/underscores
	Label       string   `json:"label"`           // Required, human-readable display name
	Description string   `json:"description"`     // Required, longer explanation
	Year        int      `json:"year"`            // Required, in [MinYear, MaxYear]
	Domain      Domain   `json:"domain"`          // Required, member of Domains
	Status      Status   `json:"status"`          // Required, member of Statuses
	Links       []string `json:"links,omitempty"` // Optional, ordered prerequisite node IDs
}

// Domain is the closed category enumeration for nodes.
type Domain string

// Domain values. The ordinal position in Domains fixes the vertical band a
// domain occupies in the layout, so the order is part of the contract.
const (
	DomainComputing     Domain = "computing"
	DomainElectronics   Domain = "electronics"
	DomainEnergy        Domain = "energy"
	DomainMaterials     Domain = "materials"
	DomainTransport     Domain = "transport"
	DomainCommunication Domain = "communication"
	DomainBiotech       Domain = "biotech"
	DomainAI            Domain = "ai"
)

// Domains lists all valid domains in banding order.
var Domains = []Domain{
	DomainComputing,
	DomainElectronics,
	DomainEnergy,
	DomainMaterials,
	DomainTransport,
	DomainCommunication,
	DomainBiotech,
	DomainAI,
}

// Status is the closed lifecycle enumeration for nodes.
type Status string

// Status values.
const (
	StatusHistorical  Status = "historical"
	StatusCurrent     Status = "current"
	StatusEmerging    Status = "emerging"
	StatusTheoretical Status = "theoretical"
)

// Statuses lists all valid statuses.
var Statuses = []Status{StatusHistorical, StatusCurrent, StatusEmerging, StatusTheoretical}

// Year bounds for valid nodes.
const (
	MinYear = 1800
	MaxYear = 2100
)

// IDPattern is the regex pattern for valid node IDs.
// Must start with alphanumeric, followed by alphanumeric, hyphens, or underscores.
var IDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validation errors.
var (
	ErrEmptyID          = errors.New("id is required")
	ErrInvalidID        = errors.New("id must match pattern: lowercase alphanumeric, hyphens, underscores; must start with alphanumeric")
	ErrEmptyLabel       = errors.New("label is required")
	ErrEmptyDescription = errors.New("description is required")
	ErrYearOutOfRange   = fmt.Errorf("year must be between %d and %d", MinYear, MaxYear)
	ErrInvalidDomain    = errors.New("domain is not a recognized category")
	ErrInvalidStatus    = errors.New("status is not a recognized lifecycle value")
	ErrSelfLink         = errors.New("a node cannot list itself as a prerequisite")
	ErrDuplicateID      = errors.New("node with this id already exists")
	ErrNodeNotFound     = errors.New("node not found")
)

// Ordinal returns the band index of d within Domains, or -1 if d is not a
// valid domain.
func (d Domain) Ordinal() int {
	for i, known := range Domains {
		if known == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is a member of the domain enumeration.
func (d Domain) Valid() bool {
	return d.Ordinal() >= 0
}

// Valid reports whether s is a member of the status enumeration.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if known == s {
			return true
		}
	}
	return false
}

// ValidateForCreate validates a node for creation.
// Returns an error if any required field is missing or invalid.
func (n *Node) ValidateForCreate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	if !IDPattern.MatchString(n.ID) {
		return ErrInvalidID
	}
	if err := n.validateFields(); err != nil {
		return err
	}
	return nil
}

// ValidateForUpdate validates a node for an update of an existing node.
// Identical to ValidateForCreate today; kept separate so the contracts can
// diverge without touching call sites.
func (n *Node) ValidateForUpdate() error {
	return n.ValidateForCreate()
}

// validateFields checks everything except the ID.
func (n *Node) validateFields() error {
	if strings.TrimSpace(n.Label) == "" {
		return ErrEmptyLabel
	}
	if strings.TrimSpace(n.Description) == "" {
		return ErrEmptyDescription
	}
	if n.Year < MinYear || n.Year > MaxYear {
		return ErrYearOutOfRange
	}
	if !n.Domain.Valid() {
		return ErrInvalidDomain
	}
	if !n.Status.Valid() {
		return ErrInvalidStatus
	}
	for _, link := range n.Links {
		if link == n.ID {
			return ErrSelfLink
		}
	}
	return nil
}

// ValidateID validates just the ID field (useful for lookup operations).
func ValidateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if !IDPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// nonSlugChars matches runs of characters that are not valid in a slug.
var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a label and collapses non-alphanumeric runs to single
// hyphens, trimming leading and trailing hyphens.
func Slugify(label string) string {
	slug := strings.ToLower(label)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug
}

// NewID derives a unique node ID from a label: the slugified label plus a
// time-based base36 suffix. Two nodes with the same label get distinct IDs.
func NewID(label string) string {
	slug := Slugify(label)
	if slug == "" {
		slug = "node"
	}
	suffix := strconv.FormatInt(time.Now().UnixNano(), 36)
	return slug + "-" + suffix
}
