package model

// ShippingDetails is the address block collected at checkout. All fields are
// mandatory before payment is allowed. It is serialised verbatim into the
// order's shipping_address and billing_address snapshots.
type ShippingDetails struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	State      string `json:"state"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// Validate reports the first missing field as a MISSING_FIELD domain error.
func (d ShippingDetails) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"firstName", d.FirstName},
		{"lastName", d.LastName},
		{"email", d.Email},
		{"address", d.Address},
		{"city", d.City},
		{"postalCode", d.PostalCode},
		{"state", d.State},
		{"country", d.Country},
		{"phone", d.Phone},
	}

	for _, f := range fields {
		if f.value == "" {
			return MissingField(f.name)
		}
	}

	return nil
}
