package model

import "fmt"

// Field identifies one of the six record fields. The numeric value is the 1-based key shown in
// selection menus.
type Field int

const (
	Family Field = iota + 1
	Name
	Surname
	Organization
	WorkingPhone
	MobilePhone
)

// Fields lists all record fields in file column order.
var Fields = []Field{Family, Name, Surname, Organization, WorkingPhone, MobilePhone}

// keys are the column names used in the file header and in the database table.
var keys = map[Field]string{
	Family:       "family",
	Name:         "name",
	Surname:      "surname",
	Organization: "organization",
	WorkingPhone: "working_phone",
	MobilePhone:  "mobile_phone",
}

var titles = map[Field]string{
	Family:       "Family name",
	Name:         "Name",
	Surname:      "Patronymic",
	Organization: "Organization",
	WorkingPhone: "Work phone",
	MobilePhone:  "Mobile phone",
}

// Key returns the column name of the field.
func (f Field) Key() string {
	return keys[f]
}

// Title returns the human readable name of the field.
func (f Field) Title() string {
	return titles[f]
}

// IsPhone returns true for the two phone number fields.
func (f Field) IsPhone() bool {
	return f == WorkingPhone || f == MobilePhone
}

// Valid returns true if f is one of the six known fields.
func (f Field) Valid() bool {
	return f >= Family && f <= MobilePhone
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return f.Key()
}

// ParseField returns the field whose column name is key.
func ParseField(key string) (Field, bool) {
	for f, k := range keys {
		if k == key {
			return f, true
		}
	}
	return 0, false
}
