// Package catalog loads bulk product seed files for catalogue import.
// Seed files are JSON documents, optionally gzipped, read either from the
// local file system or from S3.
package catalog

import "context"

// VariantSeed is one variant entry of a seed document.
type VariantSeed struct {
	Img        string  `json:"img"`
	Colour     string  `json:"colour"`
	ColourCode string  `json:"colourcode"`
	Size       string  `json:"size"`
	Stock      int     `json:"stock"`
	Price      float64 `json:"price"`
}

// ProductSeed is one product entry of a seed document.
type ProductSeed struct {
	Title    string        `json:"title"`
	Variants []VariantSeed `json:"variants"`
}

// ImportFailure records one seed product that was rejected during import.
type ImportFailure struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// ImportSummary is the result of a bulk import run.
type ImportSummary struct {
	Imported int             `json:"imported"`
	Failed   []ImportFailure `json:"failed,omitempty"`
}

// Loader reads a named seed document into product seeds.
type Loader interface {
	// Load reads and parses the seed document identified by name (a file
	// path or an object key, depending on the implementation).
	Load(ctx context.Context, name string) ([]ProductSeed, error)
}
