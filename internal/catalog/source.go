package catalog

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a list of products from path. Files ending in .yaml or .yml
// are decoded as YAML, anything else as a JSON array.
func Load(path string) ([]Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var products []Product
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &products)
	default:
		err = json.Unmarshal(raw, &products)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return products, nil
}

var (
	demoCategories = []string{"men", "women", "accessories"}
	demoColors     = []string{"Đen", "Trắng", "Xám", "Đỏ", "Xanh dương", "Xanh lá", "Vàng", "Hồng"}
	demoSizes      = []string{"S", "M", "L", "XL", "XXL"}
	demoBrands     = []string{"Coolmate", "Routine", "Canifa", "Owen"}
	demoNames      = []string{
		"Áo thun nam", "Áo sơ mi nam", "Quần jean nam", "Áo khoác nam",
		"Áo thun nữ", "Áo sơ mi nữ", "Quần jean nữ", "Áo khoác nữ",
		"Túi xách", "Ví da", "Thắt lưng", "Khăn quàng",
	}
)

// demoEpoch anchors generated creation dates so a seed always yields the
// same catalog.
var demoEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Generate returns n demo products. The same seed gives the same catalog;
// later products are newer.
func Generate(n int, seed int64) []Product {
	if n <= 0 {
		return []Product{}
	}
	r := rand.New(rand.NewSource(seed))

	products := make([]Product, 0, n)
	for i := 0; i < n; i++ {
		name := demoNames[r.Intn(len(demoNames))]
		price := int64(r.Intn(900000) + 100000)

		p := Product{
			ID:          fmt.Sprintf("product-%d", i+1),
			Name:        fmt.Sprintf("%s %d", name, i+1),
			Price:       price,
			Category:    demoCategories[r.Intn(len(demoCategories))],
			Colors:      pick(r, demoColors, r.Intn(3)+1),
			Sizes:       pick(r, demoSizes, r.Intn(3)+2),
			Rating:      float64(r.Intn(2) + 4),
			ReviewCount: r.Intn(1000),
			CreatedAt:   demoEpoch.Add(time.Duration(i) * time.Hour),
			Brand:       demoBrands[r.Intn(len(demoBrands))],
			Description: fmt.Sprintf("Mô tả chi tiết cho sản phẩm %s %d.", name, i+1),
			ImageRef:    fmt.Sprintf("https://picsum.photos/seed/%d/400/500", i),
			InStock:     r.Float64() > 0.1,
		}
		if r.Float64() > 0.5 {
			orig := price * 3 / 2
			discount := 33
			p.OriginalPrice = &orig
			p.Discount = &discount
		}
		products = append(products, p)
	}
	return products
}

// pick returns up to n distinct values from from, in from's order.
func pick(r *rand.Rand, from []string, n int) []string {
	if n > len(from) {
		n = len(from)
	}
	idx := r.Perm(len(from))[:n]
	seen := make(map[int]bool, n)
	for _, i := range idx {
		seen[i] = true
	}
	out := make([]string, 0, n)
	for i, v := range from {
		if seen[i] {
			out = append(out, v)
		}
	}
	return out
}
