// Package status declares error constants returned by the action
// package.
package status

import (
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/errors"
)

var (
	// ErrUnknownAction signals that a tag name found in a commit
	// artifact or a unified-schema column does not match any variant in
	// the closed action set.
	ErrUnknownAction = errors.New("unknown action type")

	// ErrMissingField signals that a decoded JSON object carried no
	// action tag key at all. Fields inside an action are not checked for
	// presence; absent ones decode to their zero value.
	ErrMissingField = errors.New("action missing required field")
)
