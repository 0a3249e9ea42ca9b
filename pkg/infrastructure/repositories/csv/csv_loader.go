package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vsinha/garmentmrp/pkg/domain/entities"
)

var (
	supplierHeader = []string{"id", "name", "address", "currency", "credit_terms", "contact_name", "contact_email", "contact_phone"}
	buyerHeader    = []string{"id", "name", "country", "address", "contact_name", "contact_email", "contact_phone"}
	agencyHeader   = []string{"id", "name", "address", "contact_name", "contact_email", "contact_phone"}
)

// Loader handles loading partner reference data from CSV files. A partner
// with several contacts repeats its row once per contact.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadSuppliers loads suppliers from a CSV file
func (l *Loader) LoadSuppliers(filename string) ([]*entities.Supplier, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open suppliers file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadSuppliers(file)
}

// ReadSuppliers parses suppliers from CSV
func (l *Loader) ReadSuppliers(r io.Reader) ([]*entities.Supplier, error) {
	records, err := readRecords(r, "suppliers", supplierHeader)
	if err != nil {
		return nil, err
	}

	var suppliers []*entities.Supplier
	byID := make(map[string]*entities.Supplier)
	for i, record := range records {
		id := strings.TrimSpace(record[0])
		if existing, ok := byID[id]; ok {
			existing.Contacts = appendContact(existing.Contacts, record[5:8])
			continue
		}
		supplier, err := entities.NewSupplier(id, strings.TrimSpace(record[1]), strings.ToUpper(strings.TrimSpace(record[3])), strings.TrimSpace(record[4]))
		if err != nil {
			return nil, fmt.Errorf("suppliers CSV row %d: %w", i+2, err)
		}
		supplier.Address = strings.TrimSpace(record[2])
		supplier.Contacts = appendContact(nil, record[5:8])
		byID[id] = supplier
		suppliers = append(suppliers, supplier)
	}
	return suppliers, nil
}

// LoadBuyers loads buyers from a CSV file
func (l *Loader) LoadBuyers(filename string) ([]*entities.Buyer, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open buyers file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadBuyers(file)
}

// ReadBuyers parses buyers from CSV
func (l *Loader) ReadBuyers(r io.Reader) ([]*entities.Buyer, error) {
	records, err := readRecords(r, "buyers", buyerHeader)
	if err != nil {
		return nil, err
	}

	var buyers []*entities.Buyer
	byID := make(map[string]*entities.Buyer)
	for i, record := range records {
		id := strings.TrimSpace(record[0])
		if id == "" || strings.TrimSpace(record[1]) == "" {
			return nil, fmt.Errorf("buyers CSV row %d: id and name are required", i+2)
		}
		if existing, ok := byID[id]; ok {
			existing.Contacts = appendContact(existing.Contacts, record[4:7])
			continue
		}
		buyer := &entities.Buyer{
			ID:       id,
			Name:     strings.TrimSpace(record[1]),
			Country:  strings.TrimSpace(record[2]),
			Address:  strings.TrimSpace(record[3]),
			Contacts: appendContact(nil, record[4:7]),
		}
		byID[id] = buyer
		buyers = append(buyers, buyer)
	}
	return buyers, nil
}

// LoadAgencies loads buying agencies from a CSV file
func (l *Loader) LoadAgencies(filename string) ([]*entities.BuyingAgency, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open agencies file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadAgencies(file)
}

// ReadAgencies parses buying agencies from CSV
func (l *Loader) ReadAgencies(r io.Reader) ([]*entities.BuyingAgency, error) {
	records, err := readRecords(r, "agencies", agencyHeader)
	if err != nil {
		return nil, err
	}

	var agencies []*entities.BuyingAgency
	byID := make(map[string]*entities.BuyingAgency)
	for i, record := range records {
		id := strings.TrimSpace(record[0])
		if id == "" || strings.TrimSpace(record[1]) == "" {
			return nil, fmt.Errorf("agencies CSV row %d: id and name are required", i+2)
		}
		if existing, ok := byID[id]; ok {
			existing.Contacts = appendContact(existing.Contacts, record[3:6])
			continue
		}
		agency := &entities.BuyingAgency{
			ID:       id,
			Name:     strings.TrimSpace(record[1]),
			Address:  strings.TrimSpace(record[2]),
			Contacts: appendContact(nil, record[3:6]),
		}
		byID[id] = agency
		agencies = append(agencies, agency)
	}
	return agencies, nil
}

// readRecords reads every row, checks the header and returns the data rows
func readRecords(r io.Reader, kind string, expectedHeader []string) ([][]string, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, records[0])
	}
	return records[1:], nil
}

// appendContact adds the name/email/phone triple unless all three are empty
func appendContact(contacts []entities.Contact, fields []string) []entities.Contact {
	c := entities.Contact{
		Name:  strings.TrimSpace(fields[0]),
		Email: strings.TrimSpace(fields[1]),
		Phone: strings.TrimSpace(fields[2]),
	}
	if c.Name == "" && c.Email == "" && c.Phone == "" {
		return contacts
	}
	return append(contacts, c)
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}
