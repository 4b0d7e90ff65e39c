package types

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// SessionID identifies one user's attempt at a tool workflow
type SessionID string

// NewSessionID returns a server-issued session ID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// NewLocalSessionID returns a locally generated opaque session ID. It is
// used only in demo mode, where no backend session is created.
func NewLocalSessionID() SessionID {
	return SessionID(fmt.Sprintf("local_%d_%06d", time.Now().UnixMilli(), rand.Intn(1000000)))
}

func (id SessionID) String() string {
	return string(id)
}

// Validate checks if the session ID is valid
func (id SessionID) Validate() error {
	if id == "" {
		return goerr.New("session ID is empty")
	}
	return nil
}

// IsLocal reports whether the ID was generated locally rather than issued
// by the server.
func (id SessionID) IsLocal() bool {
	return len(id) > 6 && id[:6] == "local_"
}

// UserID identifies an authenticated user (subject claim of the ID token)
type UserID string

func (id UserID) String() string {
	return string(id)
}

// Validate checks if the user ID is valid
func (id UserID) Validate() error {
	if id == "" {
		return goerr.New("user ID is empty")
	}
	return nil
}

// ProjectID identifies a project document
type ProjectID string

// NewProjectID returns a new random project ID
func NewProjectID() ProjectID {
	return ProjectID(uuid.New().String())
}

func (id ProjectID) String() string {
	return string(id)
}

// Validate checks if the project ID is valid
func (id ProjectID) Validate() error {
	if id == "" {
		return goerr.New("project ID is empty")
	}
	return nil
}

// GuideID identifies a guide (playbook/toolkit) document
type GuideID string

func (id GuideID) String() string {
	return string(id)
}

// Validate checks if the guide ID is valid
func (id GuideID) Validate() error {
	if id == "" {
		return goerr.New("guide ID is empty")
	}
	return nil
}

// ActionItemID identifies an action item document
type ActionItemID string

// NewActionItemID returns a new random action item ID
func NewActionItemID() ActionItemID {
	return ActionItemID(uuid.New().String())
}

func (id ActionItemID) String() string {
	return string(id)
}

// Validate checks if the action item ID is valid
func (id ActionItemID) Validate() error {
	if id == "" {
		return goerr.New("action item ID is empty")
	}
	return nil
}
