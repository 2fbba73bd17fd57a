package model

import (
	"fmt"
	"strings"
)

// Status is the review outcome of an applicant.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus accepts a status case-insensitively. "declined" is accepted as
// an alias of rejected.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "rejected", "declined":
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Terminal reports whether s is a review decision (approved or rejected).
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s Status) String() string { return string(s) }

// TransitionPolicy decides whether an applicant may move from one status to another.
type TransitionPolicy interface {
	Allowed(from, to Status) bool
}

// PermissivePolicy allows any status to follow any other.
type PermissivePolicy struct{}

func (PermissivePolicy) Allowed(from, to Status) bool { return true }

// StrictPolicy allows only the listed transitions plus no-op writes of the current status.
type StrictPolicy struct{}

var strictTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusRejected},
	StatusRejected: {StatusApproved},
}

func (StrictPolicy) Allowed(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PolicyByName returns the policy for "strict"; everything else is permissive.
func PolicyByName(name string) TransitionPolicy {
	if strings.EqualFold(strings.TrimSpace(name), "strict") {
		return StrictPolicy{}
	}
	return PermissivePolicy{}
}
