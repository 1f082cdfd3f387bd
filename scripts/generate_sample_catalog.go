//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"mini-pos/internal/model"

	"github.com/shopspring/decimal"
)

// generateSampleCatalog writes a gzipped JSON-lines catalogue snapshot, one
// product per line, to data/catalog.jsonl.gz.
func main() {
	filePath := filepath.Join("data", "catalog.jsonl.gz")

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := []model.Product{
		{Code: "P001", Name: "Arabica Beans 250g", Category: "Coffee", Price: decimal.RequireFromString("12.50"), Unit: "bag", Stock: 40, Barcode: "8990001000017"},
		{Code: "P002", Name: "Robusta Beans 250g", Category: "Coffee", Price: decimal.RequireFromString("9.75"), Unit: "bag", Stock: 25, Barcode: "8990001000024"},
		{Code: "P003", Name: "Oat Milk 1L", Category: "Dairy", Price: decimal.RequireFromString("3.20"), Unit: "carton", Stock: 60, Barcode: "8990001000031"},
		{Code: "P004", Name: "Whole Milk 1L", Category: "Dairy", Price: decimal.RequireFromString("1.90"), Unit: "carton", Stock: 80, Barcode: "8990001000048"},
		{Code: "P005", Name: "Butter Croissant", Category: "Bakery", Price: decimal.RequireFromString("2.40"), Unit: "pcs", Stock: 30},
		{Code: "P006", Name: "Sourdough Loaf", Category: "Bakery", Price: decimal.RequireFromString("5.80"), Unit: "pcs", Stock: 12},
		{Code: "P007", Name: "Paper Filters", Category: "Accessories", Price: decimal.RequireFromString("3.10"), Unit: "pack", Stock: 50, Barcode: "8990001000079"},
		{Code: "P008", Name: "Ceramic Mug", Category: "Accessories", Price: decimal.RequireFromString("8.00"), Unit: "pcs", Stock: 0, Barcode: "8990001000086"},
	}

	if err := createSnapshot(filePath, products); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
}

func createSnapshot(filePath string, products []model.Product) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, p := range products {
		if err := encoder.Encode(p); err != nil {
			return err
		}
	}

	return nil
}
