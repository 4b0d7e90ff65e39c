package firestore

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = goerr.New("not found")
