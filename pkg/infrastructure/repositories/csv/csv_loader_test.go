package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suppliersCSV = `id,name,address,currency,credit_terms,contact_name,contact_email,contact_phone
SUP-1,Arvind Mills,Ahmedabad,usd,60 days,Meera Shah,meera@arvind.example,+91 79 0000
SUP-1,Arvind Mills,Ahmedabad,usd,60 days,Kiran Rao,kiran@arvind.example,
SUP-2,Coats,Bangalore,USD,30 days,,,
`

func TestReadSuppliers(t *testing.T) {
	suppliers, err := NewLoader().ReadSuppliers(strings.NewReader(suppliersCSV))
	require.NoError(t, err)
	require.Len(t, suppliers, 2)

	arvind := suppliers[0]
	assert.Equal(t, "Arvind Mills", arvind.Name)
	assert.Equal(t, "USD", arvind.Currency)
	assert.Equal(t, "60 days", arvind.CreditTerms)
	require.Len(t, arvind.Contacts, 2, "repeated rows add contacts")
	assert.Equal(t, "Kiran Rao", arvind.Contacts[1].Name)

	assert.Empty(t, suppliers[1].Contacts)
}

func TestLoadSuppliers_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppliers.csv")
	require.NoError(t, os.WriteFile(path, []byte(suppliersCSV), 0o600))

	suppliers, err := NewLoader().LoadSuppliers(path)
	require.NoError(t, err)
	assert.Len(t, suppliers, 2)

	_, err = NewLoader().LoadSuppliers(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestReadBuyersAndAgencies(t *testing.T) {
	buyers, err := NewLoader().ReadBuyers(strings.NewReader(`id,name,country,address,contact_name,contact_email,contact_phone
BUY-1,Northwind Apparel,US,Seattle,Dana Fox,dana@northwind.example,
`))
	require.NoError(t, err)
	require.Len(t, buyers, 1)
	assert.Equal(t, "US", buyers[0].Country)
	assert.Equal(t, "dana@northwind.example", buyers[0].Contacts[0].Email)

	agencies, err := NewLoader().ReadAgencies(strings.NewReader(`id,name,address,contact_name,contact_email,contact_phone
AG-1,Li Sourcing,Hong Kong,,,
`))
	require.NoError(t, err)
	require.Len(t, agencies, 1)
	assert.Equal(t, "Li Sourcing", agencies[0].Name)
}

func TestReadSuppliers_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"header only", "id,name,address,currency,credit_terms,contact_name,contact_email,contact_phone\n", "at least one data row"},
		{"wrong header", "id,name\nSUP-1,Arvind\n", "header mismatch"},
		{"short row", "id,name,address,currency,credit_terms,contact_name,contact_email,contact_phone\nSUP-1,Arvind\n", "failed to read"},
		{"missing name", "id,name,address,currency,credit_terms,contact_name,contact_email,contact_phone\nSUP-1,,x,USD,,,,\n", "row 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().ReadSuppliers(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
