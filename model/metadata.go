package model

// Metadata contains document metadata (Dublin Core style).
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords []string
	Creator  string // producing application
	Language string
}
