package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
)

// generateSampleProducts writes gzipped JSON seed files that the catalogue
// bulk import endpoint accepts. One small file with hand-picked products for
// quick manual testing, and one larger randomised file for load testing.
func main() {
	dataDir := "data/seeds"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	small := []productSeed{
		{
			Title: "Linen Overshirt",
			Variants: []variantSeed{
				{Img: "https://cdn.example.com/linen-overshirt-white.jpg", Colour: "White", ColourCode: "#FFFFFF", Size: "M", Stock: 25, Price: 49.99},
				{Img: "https://cdn.example.com/linen-overshirt-white.jpg", Colour: "White", ColourCode: "#FFFFFF", Size: "L", Stock: 18, Price: 49.99},
				{Img: "https://cdn.example.com/linen-overshirt-olive.jpg", Colour: "Olive", ColourCode: "#708238", Size: "M", Stock: 12, Price: 52.99},
			},
		},
		{
			Title: "Wool Beanie",
			Variants: []variantSeed{
				{Img: "https://cdn.example.com/wool-beanie-grey.jpg", Colour: "Grey", ColourCode: "#808080", Size: "One Size", Stock: 60, Price: 19.99},
			},
		},
		{
			Title: "Canvas Tote",
			Variants: []variantSeed{
				{Img: "https://cdn.example.com/canvas-tote-natural.jpg", Colour: "Natural", ColourCode: "#F5F0E1", Size: "One Size", Stock: 40, Price: 24.50},
				{Img: "https://cdn.example.com/canvas-tote-black.jpg", Colour: "Black", ColourCode: "#000000", Size: "One Size", Stock: 35, Price: 24.50},
			},
		},
	}

	if err := writeSeedFile(filepath.Join(dataDir, "products_small.json.gz"), small); err != nil {
		log.Fatalf("Failed to write small seed file: %v", err)
	}
	fmt.Printf("Created %s with %d products\n", filepath.Join(dataDir, "products_small.json.gz"), len(small))

	large := randomProducts(500)
	if err := writeSeedFile(filepath.Join(dataDir, "products_large.json.gz"), large); err != nil {
		log.Fatalf("Failed to write large seed file: %v", err)
	}
	fmt.Printf("Created %s with %d products\n", filepath.Join(dataDir, "products_large.json.gz"), len(large))
}

type variantSeed struct {
	Img        string  `json:"img"`
	Colour     string  `json:"colour"`
	ColourCode string  `json:"colourcode"`
	Size       string  `json:"size"`
	Stock      int     `json:"stock"`
	Price      float64 `json:"price"`
}

type productSeed struct {
	Title    string        `json:"title"`
	Variants []variantSeed `json:"variants"`
}

var (
	adjectives = []string{"Classic", "Relaxed", "Slim", "Heavy", "Light", "Organic", "Recycled", "Brushed", "Washed", "Structured"}
	garments   = []string{"Tee", "Hoodie", "Chinos", "Jacket", "Cardigan", "Shorts", "Dress", "Skirt", "Parka", "Jumper"}
	colours    = []struct {
		name string
		code string
	}{
		{"Black", "#000000"},
		{"White", "#FFFFFF"},
		{"Navy", "#000080"},
		{"Olive", "#708238"},
		{"Rust", "#B7410E"},
		{"Sand", "#C2B280"},
	}
	sizes = []string{"XS", "S", "M", "L", "XL"}
)

func randomProducts(n int) []productSeed {
	rng := rand.New(rand.NewSource(42))
	products := make([]productSeed, 0, n)

	for i := 0; i < n; i++ {
		title := fmt.Sprintf("%s %s %03d", adjectives[rng.Intn(len(adjectives))], garments[rng.Intn(len(garments))], i)
		price := 15.0 + float64(rng.Intn(8500))/100.0

		colourCount := 1 + rng.Intn(3)
		picked := rng.Perm(len(colours))[:colourCount]

		var variants []variantSeed
		for _, ci := range picked {
			colour := colours[ci]
			for _, size := range sizes[:2+rng.Intn(len(sizes)-1)] {
				variants = append(variants, variantSeed{
					Img:        fmt.Sprintf("https://cdn.example.com/%03d-%s.jpg", i, colour.name),
					Colour:     colour.name,
					ColourCode: colour.code,
					Size:       size,
					Stock:      rng.Intn(100),
					Price:      price,
				})
			}
		}

		products = append(products, productSeed{Title: title, Variants: variants})
	}

	return products
}

func writeSeedFile(filePath string, products []productSeed) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(products); err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}

	return nil
}
