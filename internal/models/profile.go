package models

import "sort"

// ProfileField names one editable field of the farmer profile.
type ProfileField string

const (
	FieldName             ProfileField = "name"
	FieldBio              ProfileField = "bio"
	FieldAbout            ProfileField = "about"
	FieldRegion           ProfileField = "region"
	FieldTown             ProfileField = "town"
	FieldImage            ProfileField = "image"
	FieldPaymentAccountID ProfileField = "paymentAccountId"
)

// ProfileFields lists every editable field in display order.
var ProfileFields = []ProfileField{
	FieldName,
	FieldBio,
	FieldAbout,
	FieldRegion,
	FieldTown,
	FieldImage,
	FieldPaymentAccountID,
}

var fieldColumns = map[ProfileField]string{
	FieldName:             "name",
	FieldBio:              "bio",
	FieldAbout:            "about",
	FieldRegion:           "region",
	FieldTown:             "town",
	FieldImage:            "image",
	FieldPaymentAccountID: "payment_account_id",
}

// Valid reports whether f is an editable field.
func (f ProfileField) Valid() bool {
	_, ok := fieldColumns[f]
	return ok
}

// Column returns the farmers table column backing the field.
func (f ProfileField) Column() string {
	return fieldColumns[f]
}

// FarmerProfile holds the editable values of a farmer record.
type FarmerProfile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Bio              string `json:"bio"`
	About            string `json:"about"`
	Region           string `json:"region"`
	Town             string `json:"town"`
	Image            string `json:"image"`
	PaymentAccountID string `json:"paymentAccountId"`
}

// Value returns the value of field f.
func (p FarmerProfile) Value(f ProfileField) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldBio:
		return p.Bio
	case FieldAbout:
		return p.About
	case FieldRegion:
		return p.Region
	case FieldTown:
		return p.Town
	case FieldImage:
		return p.Image
	case FieldPaymentAccountID:
		return p.PaymentAccountID
	}
	return ""
}

// With returns a copy of p with field f set to v.
func (p FarmerProfile) With(f ProfileField, v string) FarmerProfile {
	switch f {
	case FieldName:
		p.Name = v
	case FieldBio:
		p.Bio = v
	case FieldAbout:
		p.About = v
	case FieldRegion:
		p.Region = v
	case FieldTown:
		p.Town = v
	case FieldImage:
		p.Image = v
	case FieldPaymentAccountID:
		p.PaymentAccountID = v
	}
	return p
}

// FarmerDetails is a partial update of the farmer record.
type FarmerDetails map[ProfileField]string

// Fields returns the fields of the update in a stable order.
func (d FarmerDetails) Fields() []ProfileField {
	fields := make([]ProfileField, 0, len(d))
	for f := range d {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Regions is the fixed list of regions a farmer may pick from.
var Regions = []string{
	"Ahafo",
	"Ashanti",
	"Bono",
	"Bono East",
	"Central",
	"Eastern",
	"Greater Accra",
	"North East",
	"Northern",
	"Oti",
	"Savannah",
	"Upper East",
	"Upper West",
	"Volta",
	"Western",
	"Western North",
}

// IsRegion reports whether r is one of the allowed regions.
func IsRegion(r string) bool {
	for _, region := range Regions {
		if region == r {
			return true
		}
	}
	return false
}
