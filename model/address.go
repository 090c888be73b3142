package model

// Address is embedded into records that carry a postal address.
type Address struct {
	Street     string `json:"street" gorm:"type:varchar(255)"`
	Number     string `json:"number" gorm:"type:varchar(32)"`
	Complement string `json:"complement,omitempty" gorm:"type:varchar(255)"`
	City       string `json:"city" gorm:"type:varchar(128)"`
	State      string `json:"state" gorm:"type:varchar(64)"`
	Country    string `json:"country" gorm:"type:varchar(64)"`
	ZipCode    string `json:"zipCode" gorm:"type:varchar(16)"`
}

// Missing returns the names of required address fields that are empty.
func (a Address) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"street", a.Street},
		{"number", a.Number},
		{"city", a.City},
		{"state", a.State},
		{"country", a.Country},
		{"zipCode", a.ZipCode},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// String renders the address on a single line.
func (a Address) String() string {
	s := a.Street + ", " + a.Number
	if a.Complement != "" {
		s += " - " + a.Complement
	}
	return s + ", " + a.City + "/" + a.State + ", " + a.Country + ", " + a.ZipCode
}

type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
)

// BankInfo holds the payment details of a client or the broker company.
type BankInfo struct {
	BankName      string      `json:"bankName" gorm:"type:varchar(128)"`
	AccountNumber string      `json:"accountNumber" gorm:"type:varchar(64)"`
	Branch        string      `json:"branch" gorm:"type:varchar(32)"`
	AccountType   AccountType `json:"accountType" gorm:"type:varchar(16)"`
}

func (b BankInfo) Valid() bool {
	if b.BankName == "" || b.AccountNumber == "" || b.Branch == "" {
		return false
	}
	return b.AccountType == AccountChecking || b.AccountType == AccountSavings
}
