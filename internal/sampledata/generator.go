// Package sampledata writes deliberately messy customer, order, product and
// reconciliation files for trying out the ingestion view.
package sampledata

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// File names written by Write.
const (
	CustomersFile      = "customers.json"
	OrdersFile         = "orders.csv"
	ProductsFile       = "products.json"
	ReconciliationFile = "reconciliation.csv"
)

// Options controls the generated volume. Zero values pick defaults.
type Options struct {
	Customers int
	Orders    int
	Products  int
	Seed      int64 // 0 = seed from clock
}

var (
	firstNames = []string{"John", "Sarah", "Mike", "Emily", "David", "Priya", "Chen", "Olga"}
	lastNames  = []string{"Smith", "Johnson", "Davis", "Brown", "Wilson", "Patel", "Wang", "Ivanova"}
	products   = []string{"Laptop Pro", "Wireless Mouse", "Office Chair", "Desk Lamp", "Coffee Maker", "Running Shoes", "Yoga Mat", "Novel"}
	categories = []string{"Electronics", "electronics", "Home & Garden", "home_garden", "Clothing", "Books"}
	dateLayout = []string{"2006-01-02", "01/02/2006", "02-Jan-2006", "2006/01/02 15:04"}
	statuses   = []string{"completed", "Completed", "COMPLETE", "pending", "shipped", ""}
)

// Write creates the four sample files in dir and returns their paths.
func Write(dir string, opts Options) ([]string, error) {
	if opts.Customers <= 0 {
		opts.Customers = 25
	}
	if opts.Orders <= 0 {
		opts.Orders = 60
	}
	if opts.Products <= 0 {
		opts.Products = len(products)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}

	custIDs := make([]string, opts.Customers)
	customers := make([]map[string]any, 0, opts.Customers+2)
	for i := range custIDs {
		custIDs[i] = mixedID(rng, "CUST", i+1)
		customers = append(customers, customer(rng, custIDs[i], i))
	}
	// exact and near duplicates
	customers = append(customers, customers[0], customer(rng, custIDs[1], 1))

	var paths []string
	path := filepath.Join(dir, CustomersFile)
	if err := writeJSON(path, customers); err != nil {
		return nil, err
	}
	paths = append(paths, path)

	items := make([]map[string]any, 0, opts.Products)
	for i := 0; i < opts.Products; i++ {
		name := products[i%len(products)]
		var price any = float64(rng.Intn(50000)+500) / 100
		switch rng.Intn(4) {
		case 0:
			price = fmt.Sprintf("$%.2f", price)
		case 1:
			price = strconv.FormatFloat(price.(float64), 'f', 2, 64)
		}
		items = append(items, map[string]any{
			"product_id": mixedID(rng, "PRD", i+1),
			"name":       name,
			"category":   categories[rng.Intn(len(categories))],
			"price":      price,
			"in_stock":   []any{true, "yes", 1, nil}[rng.Intn(4)],
		})
	}
	path = filepath.Join(dir, ProductsFile)
	if err := writeJSON(path, items); err != nil {
		return nil, err
	}
	paths = append(paths, path)

	now := time.Now().UTC()
	orders := [][]string{{"order_id", "customer_id", "order_date", "status", "total"}}
	recon := [][]string{{"transaction_ref", "order_ref", "amount", "settled_on"}}
	for i := 0; i < opts.Orders; i++ {
		id := "ORD-" + strconv.Itoa(1000+i)
		date := now.AddDate(0, 0, -rng.Intn(180))
		total := float64(rng.Intn(100000)+100) / 100
		orders = append(orders, []string{
			id,
			custIDs[rng.Intn(len(custIDs))],
			date.Format(dateLayout[rng.Intn(len(dateLayout))]),
			statuses[rng.Intn(len(statuses))],
			strconv.FormatFloat(total, 'f', 2, 64),
		})
		if rng.Intn(5) == 0 {
			continue // unmatched order
		}
		ref := id
		if rng.Intn(3) == 0 {
			ref = "ord" + strconv.Itoa(1000+i) // fuzzy match only
		}
		recon = append(recon, []string{
			uuid.NewString(),
			ref,
			strconv.FormatFloat(total+float64(rng.Intn(3)-1)/100, 'f', 2, 64),
			date.AddDate(0, 0, rng.Intn(4)).Format(dateLayout[rng.Intn(len(dateLayout))]),
		})
	}
	// a duplicated order row
	orders = append(orders, orders[1])

	for _, f := range []struct {
		name string
		rows [][]string
	}{{OrdersFile, orders}, {ReconciliationFile, recon}} {
		path := filepath.Join(dir, f.name)
		if err := writeCSV(path, f.rows); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func customer(rng *rand.Rand, id string, i int) map[string]any {
	first := firstNames[i%len(firstNames)]
	last := lastNames[rng.Intn(len(lastNames))]
	c := map[string]any{
		"customer_id": id,
		"name":        first + " " + last,
		"email":       fmt.Sprintf("%s.%s@example.com", first, last),
		"phone":       fmt.Sprintf("555-%04d", rng.Intn(10000)),
		"signup_date": time.Now().AddDate(0, 0, -rng.Intn(900)).Format(dateLayout[rng.Intn(len(dateLayout))]),
	}
	switch rng.Intn(5) {
	case 0:
		c["phone"] = nil
	case 1:
		c["email"] = ""
	case 2:
		// inconsistent field naming
		c["customerName"] = c["name"]
		delete(c, "name")
	}
	return c
}

// mixedID renders n as a bare number, a prefixed code or a uuid.
func mixedID(rng *rand.Rand, prefix string, n int) string {
	switch rng.Intn(3) {
	case 0:
		return strconv.Itoa(n)
	case 1:
		return fmt.Sprintf("%s-%05d", prefix, n)
	default:
		return uuid.NewString()
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
