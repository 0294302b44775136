package domain

// Tag is a label that can be attached to any number of certificates.
// Tags are global and not owned by a certificate; Name is unique.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
